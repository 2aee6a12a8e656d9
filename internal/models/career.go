package models

import "time"

// Career is a multi-module program of study offered at one or more campuses.
type Career struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CareerModule is a sub-unit of a career. Duration is a descriptive string
// ("6 meses", "2 semestres") and is carried through unchanged.
type CareerModule struct {
	ID       string `db:"id" json:"id"`
	CareerID string `db:"career_id" json:"career_id"`
	Name     string `db:"name" json:"name"`
	Duration string `db:"duration" json:"duration"`
	Active   bool   `db:"active" json:"active"`
}

// CareerDetail includes the module roster for catalog responses.
type CareerDetail struct {
	Career
	Modules []CareerModule `json:"modules"`
}

// CreateCareerRequest is the payload for adding a career to the catalog.
type CreateCareerRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// CreateCareerModuleRequest is the payload for adding a module to a career.
type CreateCareerModuleRequest struct {
	Name     string `json:"name" validate:"required"`
	Duration string `json:"duration" validate:"required"`
}

// PaymentMethod is a catalog entry for how a payment was made.
type PaymentMethod struct {
	ID     string `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Active bool   `db:"active" json:"active"`
}
