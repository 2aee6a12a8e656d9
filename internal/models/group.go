package models

import "time"

// GroupStatus represents whether a group accepts new enrollments.
type GroupStatus string

const (
	GroupStatusOpen   GroupStatus = "OPEN"
	GroupStatusClosed GroupStatus = "CLOSED"
)

// Group is a concrete running instance of a career module at a campus,
// with a teacher, a schedule and a seat capacity.
type Group struct {
	ID        string      `db:"id" json:"id"`
	CareerID  string      `db:"career_id" json:"career_id"`
	CampusID  string      `db:"campus_id" json:"campus_id"`
	ModuleID  string      `db:"module_id" json:"module_id"`
	TeacherID string      `db:"teacher_id" json:"teacher_id"`
	MaxSlots  int         `db:"max_slots" json:"max_slots"`
	Status    GroupStatus `db:"status" json:"status"`
	StartDate time.Time   `db:"start_date" json:"start_date"`
	Active    bool        `db:"active" json:"active"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// GroupDetail enriches a group with career, campus and teacher names.
type GroupDetail struct {
	Group
	CareerName  string `db:"career_name" json:"career_name"`
	CampusName  string `db:"campus_name" json:"campus_name"`
	ModuleName  string `db:"module_name" json:"module_name"`
	TeacherName string `db:"teacher_name" json:"teacher_name"`
	Enrolled    int    `db:"enrolled" json:"enrolled"`
}

// CreateGroupRequest is the payload for opening a group.
type CreateGroupRequest struct {
	CareerID  string    `json:"career_id" validate:"required"`
	CampusID  string    `json:"campus_id" validate:"required"`
	ModuleID  string    `json:"module_id" validate:"required"`
	TeacherID string    `json:"teacher_id" validate:"required"`
	MaxSlots  int       `json:"max_slots" validate:"required,gt=0"`
	StartDate time.Time `json:"start_date"`
}

// GroupFilter provides filters for listing groups.
type GroupFilter struct {
	CareerID string
	CampusID string
	Status   GroupStatus
	Page     int
	PageSize int
}
