package models

import "time"

// Campus is a physical teaching location (sede). It owns staff, career
// offerings and enrollments.
type Campus struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	AddressID string    `db:"address_id" json:"address_id"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateCampusRequest is the payload for opening a campus.
type CreateCampusRequest struct {
	Name    string       `json:"name" validate:"required"`
	Phone   string       `json:"phone"`
	Address AddressInput `json:"address" validate:"required"`
}

// CampusDetail joins a campus with its address.
type CampusDetail struct {
	Campus
	AddressLine       *string `db:"address_line" json:"address_line,omitempty"`
	AddressDistrict   *string `db:"address_district" json:"address_district,omitempty"`
	AddressProvince   *string `db:"address_province" json:"address_province,omitempty"`
	AddressDepartment *string `db:"address_department" json:"address_department,omitempty"`
}
