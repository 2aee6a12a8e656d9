package models

import "time"

// Address is a free-form postal address owned by the student or campus
// that created it.
type Address struct {
	ID         string `db:"id" json:"id"`
	Line       string `db:"line" json:"line"`
	District   string `db:"district" json:"district"`
	Province   string `db:"province" json:"province"`
	Department string `db:"department" json:"department"`
}

// Student represents a learner registered at the institute.
type Student struct {
	ID             string    `db:"id" json:"id"`
	DNI            string    `db:"dni" json:"dni"`
	FirstName      string    `db:"first_name" json:"first_name"`
	PaternalName   string    `db:"paternal_name" json:"paternal_name"`
	MaternalName   string    `db:"maternal_name" json:"maternal_name"`
	Sex            string    `db:"sex" json:"sex"`
	Age            int       `db:"age" json:"age"`
	Phone          string    `db:"phone" json:"phone"`
	Email          string    `db:"email" json:"email"`
	EducationLevel string    `db:"education_level" json:"education_level"`
	AddressID      string    `db:"address_id" json:"address_id"`
	UserID         *string   `db:"user_id" json:"user_id,omitempty"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// StudentDetail joins a student with its address.
type StudentDetail struct {
	Student
	AddressLine       *string `db:"address_line" json:"address_line,omitempty"`
	AddressDistrict   *string `db:"address_district" json:"address_district,omitempty"`
	AddressProvince   *string `db:"address_province" json:"address_province,omitempty"`
	AddressDepartment *string `db:"address_department" json:"address_department,omitempty"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	CampusID  string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
