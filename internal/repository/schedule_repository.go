package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siga-peru/academico-api/internal/models"
)

// ScheduleRepository manages persistence for schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns schedules, optionally filtered by type.
func (r *ScheduleRepository) List(ctx context.Context, scheduleType models.ScheduleType) ([]models.Schedule, error) {
	query := `SELECT id, days, start_time, end_time, type, active FROM schedules WHERE active = true`
	var args []interface{}
	if scheduleType != "" {
		query += " AND type = $1"
		args = append(args, scheduleType)
	}
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return schedules, nil
}

// FindByID returns a schedule by its ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.Schedule, error) {
	const query = `SELECT id, days, start_time, end_time, type, active FROM schedules WHERE id = $1`
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// Create persists a standalone schedule.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	return insertSchedule(ctx, r.db, schedule)
}

// Update modifies an existing schedule.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) error {
	const query = `UPDATE schedules SET days = :days, start_time = :start_time, end_time = :end_time,
        type = :type, active = :active WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

// Deactivate marks a schedule inactive.
func (r *ScheduleRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE schedules SET active = false WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deactivate schedule: %w", err)
	}
	return nil
}

// insertSchedule persists a schedule on the provided executor, which may be
// a transaction opened by a registration flow.
func insertSchedule(ctx context.Context, ext sqlx.ExtContext, schedule *models.Schedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	const query = `INSERT INTO schedules (id, days, start_time, end_time, type, active)
        VALUES (:id, :days, :start_time, :end_time, :type, :active)`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, schedule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}
