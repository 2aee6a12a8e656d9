package models

import "time"

// Specialization is a standalone short course, parallel to Career.
type Specialization struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Duration    string    `db:"duration" json:"duration"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SpecializationEnrollment mirrors Enrollment for short specialization
// courses, with its own schedule and an optional teacher assignment.
type SpecializationEnrollment struct {
	ID               string    `db:"id" json:"id"`
	StudentID        string    `db:"student_id" json:"student_id"`
	SpecializationID string    `db:"specialization_id" json:"specialization_id"`
	CampusID         string    `db:"campus_id" json:"campus_id"`
	SecretaryID      string    `db:"secretary_id" json:"secretary_id"`
	TeacherID        *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	ScheduleID       string    `db:"schedule_id" json:"schedule_id"`
	PaymentID        *string   `db:"payment_id" json:"payment_id,omitempty"`
	EnrollmentDate   time.Time `db:"enrollment_date" json:"enrollment_date"`
	StartDate        time.Time `db:"start_date" json:"start_date"`
	Active           bool      `db:"active" json:"active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// CreateSpecializationRequest is the payload for adding a specialization
// to the catalog.
type CreateSpecializationRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Duration    string `json:"duration" validate:"required"`
}

// RegisterSpecializationRequest enrolls a student into a specialization.
// Either StudentID references an existing student, or Student and Address
// describe a new one.
type RegisterSpecializationRequest struct {
	StudentID        *string       `json:"student_id,omitempty"`
	Student          *StudentInput `json:"student,omitempty"`
	Address          *AddressInput `json:"address,omitempty"`
	SpecializationID string        `json:"specialization_id" validate:"required"`
	CampusID         string        `json:"campus_id" validate:"required"`
	SecretaryID      string        `json:"secretary_id" validate:"required"`
	TeacherID        *string       `json:"teacher_id,omitempty"`
	Schedule         ScheduleInput `json:"schedule" validate:"required"`
	StartDate        time.Time     `json:"start_date"`
	Payment          *PaymentInput `json:"payment,omitempty"`
}

// SpecializationRegistration carries the records the specialization
// registration transaction inserts. Address, User and Student are nil
// when the student already exists.
type SpecializationRegistration struct {
	Address    *Address
	User       *User
	Student    *Student
	Schedule   *Schedule
	Enrollment *SpecializationEnrollment
	Payment    *Payment
}

// SpecializationEnrollmentDetail joins names for responses.
type SpecializationEnrollmentDetail struct {
	SpecializationEnrollment
	StudentDNI         string    `db:"student_dni" json:"student_dni"`
	StudentName        string    `db:"student_name" json:"student_name"`
	SpecializationName string    `db:"specialization_name" json:"specialization_name"`
	CampusName         string    `db:"campus_name" json:"campus_name"`
	Schedule           *Schedule `json:"schedule,omitempty"`
	Payment            *Payment  `json:"payment,omitempty"`
}
