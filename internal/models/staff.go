package models

import "time"

// Teacher represents teaching staff assigned to a campus.
type Teacher struct {
	ID           string    `db:"id" json:"id"`
	DNI          string    `db:"dni" json:"dni"`
	FirstName    string    `db:"first_name" json:"first_name"`
	PaternalName string    `db:"paternal_name" json:"paternal_name"`
	MaternalName string    `db:"maternal_name" json:"maternal_name"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email"`
	Specialty    string    `db:"specialty" json:"specialty"`
	CampusID     string    `db:"campus_id" json:"campus_id"`
	UserID       *string   `db:"user_id" json:"user_id,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Secretary represents administrative staff responsible for enrollments.
type Secretary struct {
	ID           string    `db:"id" json:"id"`
	DNI          string    `db:"dni" json:"dni"`
	FirstName    string    `db:"first_name" json:"first_name"`
	PaternalName string    `db:"paternal_name" json:"paternal_name"`
	MaternalName string    `db:"maternal_name" json:"maternal_name"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email"`
	CampusID     string    `db:"campus_id" json:"campus_id"`
	UserID       *string   `db:"user_id" json:"user_id,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Administrator manages a single campus. At most one active administrator
// may exist per campus.
type Administrator struct {
	ID           string    `db:"id" json:"id"`
	DNI          string    `db:"dni" json:"dni"`
	FirstName    string    `db:"first_name" json:"first_name"`
	PaternalName string    `db:"paternal_name" json:"paternal_name"`
	MaternalName string    `db:"maternal_name" json:"maternal_name"`
	Phone        string    `db:"phone" json:"phone"`
	Email        string    `db:"email" json:"email"`
	CampusID     string    `db:"campus_id" json:"campus_id"`
	UserID       *string   `db:"user_id" json:"user_id,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// StaffInput is the shared personal data block for staff creation forms.
type StaffInput struct {
	DNI          string `json:"dni" validate:"required,len=8,numeric"`
	FirstName    string `json:"first_name" validate:"required"`
	PaternalName string `json:"paternal_name" validate:"required"`
	MaternalName string `json:"maternal_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email" validate:"omitempty,email"`
	CampusID     string `json:"campus_id" validate:"required"`
}

// CreateTeacherRequest is the payload for registering a teacher.
type CreateTeacherRequest struct {
	StaffInput
	Specialty string `json:"specialty"`
}

// CreateSecretaryRequest is the payload for registering a secretary.
type CreateSecretaryRequest struct {
	StaffInput
}

// CreateAdministratorRequest is the payload for registering a campus
// administrator.
type CreateAdministratorRequest struct {
	StaffInput
}

// StaffFilter captures filtering criteria for listing staff members.
type StaffFilter struct {
	Search   string
	CampusID string
	Active   *bool
	Page     int
	PageSize int
}
