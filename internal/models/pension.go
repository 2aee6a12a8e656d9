package models

import "time"

// PensionStatus is the lifecycle of a tuition due.
type PensionStatus string

const (
	PensionStatusPending PensionStatus = "PENDING"
	PensionStatusPaid    PensionStatus = "PAID"
)

// Pension is a recurring tuition installment due on an enrollment,
// tracked and paid independently of the initial enrollment payment.
type Pension struct {
	ID           string        `db:"id" json:"id"`
	EnrollmentID string        `db:"enrollment_id" json:"enrollment_id"`
	DueMonth     int           `db:"due_month" json:"due_month"`
	DueYear      int           `db:"due_year" json:"due_year"`
	Amount       float64       `db:"amount" json:"amount"`
	Status       PensionStatus `db:"status" json:"status"`
	PaymentID    *string       `db:"payment_id" json:"payment_id,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// PensionDetail enriches a due with student and payment context.
type PensionDetail struct {
	Pension
	StudentDNI  string   `db:"student_dni" json:"student_dni"`
	StudentName string   `db:"student_name" json:"student_name"`
	CareerName  string   `db:"career_name" json:"career_name"`
	Payment     *Payment `json:"payment,omitempty"`
}

// GeneratePensionsRequest asks for the monthly dues of an enrollment.
type GeneratePensionsRequest struct {
	EnrollmentID string  `json:"enrollment_id" validate:"required"`
	StartMonth   int     `json:"start_month" validate:"required,min=1,max=12"`
	StartYear    int     `json:"start_year" validate:"required,min=2000"`
	Months       int     `json:"months" validate:"required,min=1,max=24"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
}

// PayPensionRequest settles one due with a payment.
type PayPensionRequest struct {
	PensionID string       `json:"pension_id" validate:"required"`
	Payment   PaymentInput `json:"payment" validate:"required"`
}

// PensionFilter selects dues by student document and date range.
type PensionFilter struct {
	DNI    string
	Year   int
	Month  int
	Status PensionStatus
}
