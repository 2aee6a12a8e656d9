package models

import "time"

// Payment records a single settled amount: the enrollment fee or a
// pension due. Immutable after creation except for the receipt image.
type Payment struct {
	ID              string    `db:"id" json:"id"`
	ReceiptNumber   string    `db:"receipt_number" json:"receipt_number"`
	PaymentMethodID string    `db:"payment_method_id" json:"payment_method_id"`
	Amount          float64   `db:"amount" json:"amount"`
	PaidDate        string    `db:"paid_date" json:"paid_date"`
	PaidTime        string    `db:"paid_time" json:"paid_time"`
	ReceiptImageURL *string   `db:"receipt_image_url" json:"receipt_image_url,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Enrollment binds a student to a career, group and campus for a term.
// Enrollments are never physically deleted.
type Enrollment struct {
	ID             string    `db:"id" json:"id"`
	StudentID      string    `db:"student_id" json:"student_id"`
	CareerID       string    `db:"career_id" json:"career_id"`
	GroupID        *string   `db:"group_id" json:"group_id,omitempty"`
	CampusID       string    `db:"campus_id" json:"campus_id"`
	SecretaryID    string    `db:"secretary_id" json:"secretary_id"`
	ScheduleID     string    `db:"schedule_id" json:"schedule_id"`
	PaymentID      *string   `db:"payment_id" json:"payment_id,omitempty"`
	EnrollmentDate time.Time `db:"enrollment_date" json:"enrollment_date"`
	StartDate      time.Time `db:"start_date" json:"start_date"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail is the fully-populated enrollment aggregate returned
// after registration and on reads.
type EnrollmentDetail struct {
	Enrollment
	StudentDNI  string    `db:"student_dni" json:"student_dni"`
	StudentName string    `db:"student_name" json:"student_name"`
	CareerName  string    `db:"career_name" json:"career_name"`
	CampusName  string    `db:"campus_name" json:"campus_name"`
	Schedule    *Schedule `json:"schedule,omitempty"`
	Payment     *Payment  `json:"payment,omitempty"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID string
	CareerID  string
	CampusID  string
	Year      int
	Month     int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// AddressInput is the address block of a registration form.
type AddressInput struct {
	Line       string `json:"line" validate:"required"`
	District   string `json:"district" validate:"required"`
	Province   string `json:"province" validate:"required"`
	Department string `json:"department" validate:"required"`
}

// StudentInput is the personal data block of a registration form.
type StudentInput struct {
	DNI            string `json:"dni" validate:"required,len=8,numeric"`
	FirstName      string `json:"first_name" validate:"required"`
	PaternalName   string `json:"paternal_name" validate:"required"`
	MaternalName   string `json:"maternal_name"`
	Sex            string `json:"sex" validate:"required,oneof=M F"`
	Age            int    `json:"age" validate:"gte=0"`
	Phone          string `json:"phone"`
	Email          string `json:"email" validate:"omitempty,email"`
	EducationLevel string `json:"education_level"`
}

// ScheduleInput is the schedule block of a registration form.
type ScheduleInput struct {
	Days      []string `json:"days" validate:"required,min=1"`
	StartTime string   `json:"start_time" validate:"required"`
	EndTime   string   `json:"end_time" validate:"required"`
}

// PaymentInput is the optional payment block of a registration form.
type PaymentInput struct {
	ReceiptNumber   string  `json:"receipt_number" validate:"required"`
	PaymentMethodID string  `json:"payment_method_id" validate:"required"`
	Amount          float64 `json:"amount" validate:"gt=0"`
	PaidDate        string  `json:"paid_date" validate:"required"`
	PaidTime        string  `json:"paid_time" validate:"required"`
}

// RegisterEnrollmentRequest is the full registration form a secretary
// submits: a new student, their address, the chosen career, campus and
// schedule, and optionally the first payment.
type RegisterEnrollmentRequest struct {
	Student     StudentInput  `json:"student" validate:"required"`
	Address     AddressInput  `json:"address" validate:"required"`
	CareerID    string        `json:"career_id" validate:"required"`
	CampusID    string        `json:"campus_id" validate:"required"`
	GroupID     *string       `json:"group_id,omitempty"`
	SecretaryID string        `json:"secretary_id" validate:"required"`
	Schedule    ScheduleInput `json:"schedule" validate:"required"`
	StartDate   time.Time     `json:"start_date"`
	Payment     *PaymentInput `json:"payment,omitempty"`
}

// EnrollmentRegistration carries the full set of records the registration
// transaction inserts, in FK-dependency order.
type EnrollmentRegistration struct {
	Address    *Address
	User       *User
	Student    *Student
	Schedule   *Schedule
	Enrollment *Enrollment
	Payment    *Payment
}
