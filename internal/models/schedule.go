package models

import "strings"

// ScheduleType distinguishes regular career schedules from specialization ones.
type ScheduleType string

const (
	ScheduleTypeRegular        ScheduleType = "REGULAR"
	ScheduleTypeSpecialization ScheduleType = "SPECIALIZATION"
)

// Schedule holds a weekday set and free-form "HH:MM" start/end times.
// Times are carried as strings with no numeric validation, matching the
// enrollment forms they come from.
type Schedule struct {
	ID        string       `db:"id" json:"id"`
	Days      string       `db:"days" json:"days"`
	StartTime string       `db:"start_time" json:"start_time"`
	EndTime   string       `db:"end_time" json:"end_time"`
	Type      ScheduleType `db:"type" json:"type"`
	Active    bool         `db:"active" json:"active"`
}

// DayList splits the stored weekday set into its tags.
func (s Schedule) DayList() []string {
	if s.Days == "" {
		return nil
	}
	return strings.Split(s.Days, ",")
}

// JoinDays normalises a weekday list into the stored representation.
func JoinDays(days []string) string {
	trimmed := make([]string, 0, len(days))
	for _, d := range days {
		if d = strings.TrimSpace(d); d != "" {
			trimmed = append(trimmed, d)
		}
	}
	return strings.Join(trimmed, ",")
}
