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

type groupRepository interface {
	List(ctx context.Context, filter models.GroupFilter) ([]models.GroupDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Group, error)
	Create(ctx context.Context, group *models.Group) error
	Update(ctx context.Context, group *models.Group) error
	UpdateStatus(ctx context.Context, id string, status models.GroupStatus) error
	Deactivate(ctx context.Context, id string) error
}

type groupModuleRepository interface {
	FindModuleByID(ctx context.Context, id string) (*models.CareerModule, error)
}

type groupTeacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// GroupService manages groups, the running instances of career modules.
type GroupService struct {
	groups    groupRepository
	modules   groupModuleRepository
	teachers  groupTeacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGroupService constructs a GroupService.
func NewGroupService(groups groupRepository, modules groupModuleRepository, teachers groupTeacherRepository, validate *validator.Validate, logger *zap.Logger) *GroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GroupService{groups: groups, modules: modules, teachers: teachers, validator: validate, logger: logger}
}

// List returns groups with joined names and seat counts.
func (s *GroupService) List(ctx context.Context, filter models.GroupFilter) ([]models.GroupDetail, *models.Pagination, error) {
	groups, total, err := s.groups.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return groups, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one group.
func (s *GroupService) Get(ctx context.Context, id string) (*models.Group, error) {
	group, err := s.groups.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	return group, nil
}

// Create opens a group for a career module with a teacher in charge.
func (s *GroupService) Create(ctx context.Context, req models.CreateGroupRequest) (*models.Group, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group payload")
	}
	module, err := s.modules.FindModuleByID(ctx, req.ModuleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "module not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load module")
	}
	if module.CareerID != req.CareerID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "module does not belong to the career")
	}
	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	group := &models.Group{
		CareerID:  req.CareerID,
		CampusID:  req.CampusID,
		ModuleID:  req.ModuleID,
		TeacherID: req.TeacherID,
		MaxSlots:  req.MaxSlots,
		Status:    models.GroupStatusOpen,
		StartDate: req.StartDate,
		Active:    true,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create group")
	}
	s.logger.Info("group created", zap.String("group_id", group.ID), zap.Int("max_slots", group.MaxSlots))
	return group, nil
}

// Update modifies an existing group.
func (s *GroupService) Update(ctx context.Context, group *models.Group) error {
	if _, err := s.Get(ctx, group.ID); err != nil {
		return err
	}
	if err := s.groups.Update(ctx, group); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update group")
	}
	return nil
}

// SetStatus opens or closes a group for new enrollments.
func (s *GroupService) SetStatus(ctx context.Context, id string, status models.GroupStatus) error {
	if status != models.GroupStatusOpen && status != models.GroupStatusClosed {
		return appErrors.Clone(appErrors.ErrValidation, "invalid group status")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.groups.UpdateStatus(ctx, id, status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update group status")
	}
	return nil
}

// Deactivate marks a group inactive.
func (s *GroupService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.groups.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate group")
	}
	return nil
}
