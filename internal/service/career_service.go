package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/siga-peru/academico-api/internal/models"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
)

type careerRepository interface {
	List(ctx context.Context, campusID string) ([]models.Career, error)
	FindByID(ctx context.Context, id string) (*models.Career, error)
	FindDetailByID(ctx context.Context, id string) (*models.CareerDetail, error)
	Create(ctx context.Context, career *models.Career) error
	Update(ctx context.Context, career *models.Career) error
	Deactivate(ctx context.Context, id string) error
	ListModules(ctx context.Context, careerID string) ([]models.CareerModule, error)
	FindModuleByID(ctx context.Context, id string) (*models.CareerModule, error)
	CreateModule(ctx context.Context, module *models.CareerModule) error
	UpdateModule(ctx context.Context, module *models.CareerModule) error
	DeactivateModule(ctx context.Context, id string) error
	AddCampusOffering(ctx context.Context, careerID, campusID string) error
	RemoveCampusOffering(ctx context.Context, careerID, campusID string) error
}

const (
	careerCacheKeyPattern = "catalog:careers:*"
	careerListCacheKey    = "catalog:careers:list:%s"
	careerDetailCacheKey  = "catalog:careers:detail:%s"
)

// CareerService manages the career catalog. The catalog changes rarely
// and is read on every registration form, so reads go through the cache.
type CareerService struct {
	careers   careerRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCareerService constructs a CareerService.
func NewCareerService(careers careerRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CareerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CareerService{careers: careers, cache: cache, validator: validate, logger: logger}
}

// List returns active careers, optionally restricted to one campus.
func (s *CareerService) List(ctx context.Context, campusID string) ([]models.Career, error) {
	key := fmt.Sprintf(careerListCacheKey, campusID)
	var cached []models.Career
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	careers, err := s.careers.List(ctx, campusID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list careers")
	}
	_ = s.cache.Set(ctx, key, careers, 0)
	return careers, nil
}

// Get returns one career with its module roster.
func (s *CareerService) Get(ctx context.Context, id string) (*models.CareerDetail, error) {
	key := fmt.Sprintf(careerDetailCacheKey, id)
	var cached models.CareerDetail
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	detail, err := s.careers.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "career not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load career")
	}
	_ = s.cache.Set(ctx, key, detail, 0)
	return detail, nil
}

// Create adds a career to the catalog.
func (s *CareerService) Create(ctx context.Context, req models.CreateCareerRequest) (*models.Career, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid career payload")
	}
	career := &models.Career{Name: req.Name, Description: req.Description, Active: true}
	if err := s.careers.Create(ctx, career); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create career")
	}
	s.invalidate(ctx)
	return career, nil
}

// Update modifies an existing career.
func (s *CareerService) Update(ctx context.Context, career *models.Career) error {
	if _, err := s.careers.FindByID(ctx, career.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "career not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load career")
	}
	if err := s.careers.Update(ctx, career); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update career")
	}
	s.invalidate(ctx)
	return nil
}

// Deactivate hides a career from the catalog. Existing enrollments keep
// referencing it.
func (s *CareerService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.careers.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "career not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load career")
	}
	if err := s.careers.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate career")
	}
	s.invalidate(ctx)
	return nil
}

// ListModules returns the active modules of a career.
func (s *CareerService) ListModules(ctx context.Context, careerID string) ([]models.CareerModule, error) {
	modules, err := s.careers.ListModules(ctx, careerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list modules")
	}
	return modules, nil
}

// CreateModule adds a module to a career.
func (s *CareerService) CreateModule(ctx context.Context, careerID string, req models.CreateCareerModuleRequest) (*models.CareerModule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid module payload")
	}
	if _, err := s.careers.FindByID(ctx, careerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "career not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load career")
	}
	module := &models.CareerModule{CareerID: careerID, Name: req.Name, Duration: req.Duration, Active: true}
	if err := s.careers.CreateModule(ctx, module); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create module")
	}
	s.invalidate(ctx)
	return module, nil
}

// UpdateModule modifies a career module.
func (s *CareerService) UpdateModule(ctx context.Context, module *models.CareerModule) error {
	if _, err := s.careers.FindModuleByID(ctx, module.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}
	if err := s.careers.UpdateModule(ctx, module); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update module")
	}
	s.invalidate(ctx)
	return nil
}

// DeactivateModule hides a module from the catalog.
func (s *CareerService) DeactivateModule(ctx context.Context, id string) error {
	if _, err := s.careers.FindModuleByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}
	if err := s.careers.DeactivateModule(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate module")
	}
	s.invalidate(ctx)
	return nil
}

// AddCampusOffering marks a career as offered at a campus.
func (s *CareerService) AddCampusOffering(ctx context.Context, careerID, campusID string) error {
	if err := s.careers.AddCampusOffering(ctx, careerID, campusID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add campus offering")
	}
	s.invalidate(ctx)
	return nil
}

// RemoveCampusOffering withdraws a career from a campus.
func (s *CareerService) RemoveCampusOffering(ctx context.Context, careerID, campusID string) error {
	if err := s.careers.RemoveCampusOffering(ctx, careerID, campusID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove campus offering")
	}
	s.invalidate(ctx)
	return nil
}

func (s *CareerService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, careerCacheKeyPattern); err != nil {
		s.logger.Warn("failed to invalidate career cache", zap.Error(err))
	}
}
