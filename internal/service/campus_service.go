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

type campusRepository interface {
	List(ctx context.Context) ([]models.CampusDetail, error)
	FindByID(ctx context.Context, id string) (*models.CampusDetail, error)
	Create(ctx context.Context, campus *models.Campus, address *models.Address) error
	Update(ctx context.Context, campus *models.Campus) error
	UpdateAddress(ctx context.Context, address *models.Address) error
	Deactivate(ctx context.Context, id string) error
}

// CampusService manages the campus (sede) catalog.
type CampusService struct {
	campuses  campusRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCampusService constructs a CampusService.
func NewCampusService(campuses campusRepository, validate *validator.Validate, logger *zap.Logger) *CampusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CampusService{campuses: campuses, validator: validate, logger: logger}
}

// List returns all active campuses.
func (s *CampusService) List(ctx context.Context) ([]models.CampusDetail, error) {
	campuses, err := s.campuses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list campuses")
	}
	return campuses, nil
}

// Get returns one campus with its address.
func (s *CampusService) Get(ctx context.Context, id string) (*models.CampusDetail, error) {
	campus, err := s.campuses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "campus not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campus")
	}
	return campus, nil
}

// Create opens a campus together with its owned address.
func (s *CampusService) Create(ctx context.Context, req models.CreateCampusRequest) (*models.Campus, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid campus payload")
	}
	campus := &models.Campus{Name: req.Name, Phone: req.Phone, Active: true}
	address := &models.Address{
		Line:       req.Address.Line,
		District:   req.Address.District,
		Province:   req.Address.Province,
		Department: req.Address.Department,
	}
	if err := s.campuses.Create(ctx, campus, address); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create campus")
	}
	s.logger.Info("campus created", zap.String("campus_id", campus.ID), zap.String("name", campus.Name))
	return campus, nil
}

// Update modifies a campus and, when provided, its address.
func (s *CampusService) Update(ctx context.Context, campus *models.Campus, address *models.Address) error {
	current, err := s.Get(ctx, campus.ID)
	if err != nil {
		return err
	}
	if err := s.campuses.Update(ctx, campus); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update campus")
	}
	if address != nil {
		address.ID = current.AddressID
		if err := s.campuses.UpdateAddress(ctx, address); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update campus address")
		}
	}
	return nil
}

// Deactivate closes a campus. Staff and enrollments keep referencing it.
func (s *CampusService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.campuses.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate campus")
	}
	return nil
}
