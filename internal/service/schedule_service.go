package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/siga-peru/academico-api/internal/models"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, scheduleType models.ScheduleType) ([]models.Schedule, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Update(ctx context.Context, schedule *models.Schedule) error
	Deactivate(ctx context.Context, id string) error
}

// ScheduleService manages standalone schedules. Schedules created during
// registration belong to their enrollment and are not listed here.
type ScheduleService struct {
	schedules scheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(schedules scheduleRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScheduleService{schedules: schedules, validator: validate, logger: logger}
}

// List returns active schedules, optionally filtered by type.
func (s *ScheduleService) List(ctx context.Context, scheduleType models.ScheduleType) ([]models.Schedule, error) {
	schedules, err := s.schedules.List(ctx, scheduleType)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, nil
}

// Get returns one schedule.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.Schedule, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// Create persists a schedule from its form input.
func (s *ScheduleService) Create(ctx context.Context, input models.ScheduleInput, scheduleType models.ScheduleType) (*models.Schedule, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if scheduleType == "" {
		scheduleType = models.ScheduleTypeRegular
	}
	schedule := &models.Schedule{
		Days:      models.JoinDays(input.Days),
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Type:      scheduleType,
		Active:    true,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	return schedule, nil
}

// Update modifies an existing schedule.
func (s *ScheduleService) Update(ctx context.Context, schedule *models.Schedule) error {
	if _, err := s.Get(ctx, schedule.ID); err != nil {
		return err
	}
	if err := s.schedules.Update(ctx, schedule); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
	}
	return nil
}

// Deactivate marks a schedule inactive.
func (s *ScheduleService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.schedules.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate schedule")
	}
	return nil
}
