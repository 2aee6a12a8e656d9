package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/siga-peru/academico-api/internal/models"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.StaffFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher, user *models.User) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Deactivate(ctx context.Context, id string) error
}

type secretaryRepository interface {
	List(ctx context.Context, campusID string) ([]models.Secretary, error)
	FindByID(ctx context.Context, id string) (*models.Secretary, error)
	Create(ctx context.Context, secretary *models.Secretary, user *models.User) error
	Update(ctx context.Context, secretary *models.Secretary) error
	Deactivate(ctx context.Context, id string) error
}

type administratorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Administrator, error)
	ExistsActiveForCampus(ctx context.Context, campusID string) (bool, error)
	Create(ctx context.Context, admin *models.Administrator, user *models.User) error
	Deactivate(ctx context.Context, id string) error
}

type staffUserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Deactivate(ctx context.Context, id string) error
}

type staffCampusRepository interface {
	FindByID(ctx context.Context, id string) (*models.CampusDetail, error)
}

// StaffService manages teachers, secretaries and campus administrators.
// Staff credentials follow the same convention as students: the DNI is
// both the username and the initial password.
type StaffService struct {
	teachers       teacherRepository
	secretaries    secretaryRepository
	administrators administratorRepository
	users          staffUserRepository
	campuses       staffCampusRepository
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewStaffService constructs a StaffService.
func NewStaffService(
	teachers teacherRepository,
	secretaries secretaryRepository,
	administrators administratorRepository,
	users staffUserRepository,
	campuses staffCampusRepository,
	validate *validator.Validate,
	logger *zap.Logger,
) *StaffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StaffService{
		teachers:       teachers,
		secretaries:    secretaries,
		administrators: administrators,
		users:          users,
		campuses:       campuses,
		validator:      validate,
		logger:         logger,
	}
}

func (s *StaffService) newCredential(ctx context.Context, dni string, role models.UserRole) (*models.User, error) {
	taken, err := s.users.ExistsByUsername(ctx, dni)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check username")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrAlreadyExists, "a credential with this DNI already exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(dni), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash initial password")
	}
	return &models.User{
		Username:           dni,
		PasswordHash:       string(hash),
		Role:               role,
		MustChangePassword: true,
		Active:             true,
	}, nil
}

func (s *StaffService) checkCampus(ctx context.Context, campusID string) error {
	if _, err := s.campuses.FindByID(ctx, campusID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "campus not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campus")
	}
	return nil
}

// ListTeachers returns teachers matching the filter.
func (s *StaffService) ListTeachers(ctx context.Context, filter models.StaffFilter) ([]models.Teacher, *models.Pagination, error) {
	teachers, total, err := s.teachers.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return teachers, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// GetTeacher returns one teacher.
func (s *StaffService) GetTeacher(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// CreateTeacher registers a teacher together with their credential.
func (s *StaffService) CreateTeacher(ctx context.Context, req models.CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	if err := s.checkCampus(ctx, req.CampusID); err != nil {
		return nil, err
	}
	user, err := s.newCredential(ctx, req.DNI, models.RoleTeacher)
	if err != nil {
		return nil, err
	}
	teacher := &models.Teacher{
		DNI:          req.DNI,
		FirstName:    req.FirstName,
		PaternalName: req.PaternalName,
		MaternalName: req.MaternalName,
		Phone:        req.Phone,
		Email:        req.Email,
		Specialty:    req.Specialty,
		CampusID:     req.CampusID,
		Active:       true,
	}
	if err := s.teachers.Create(ctx, teacher, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	s.logger.Info("teacher created", zap.String("teacher_id", teacher.ID), zap.String("campus_id", teacher.CampusID))
	return teacher, nil
}

// UpdateTeacher modifies an existing teacher.
func (s *StaffService) UpdateTeacher(ctx context.Context, teacher *models.Teacher) error {
	if _, err := s.GetTeacher(ctx, teacher.ID); err != nil {
		return err
	}
	if err := s.teachers.Update(ctx, teacher); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return nil
}

// DeactivateTeacher disables a teacher and their credential.
func (s *StaffService) DeactivateTeacher(ctx context.Context, id string) error {
	teacher, err := s.GetTeacher(ctx, id)
	if err != nil {
		return err
	}
	if err := s.teachers.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate teacher")
	}
	if teacher.UserID != nil {
		if err := s.users.Deactivate(ctx, *teacher.UserID); err != nil {
			s.logger.Warn("failed to deactivate teacher credential", zap.Error(err))
		}
	}
	return nil
}

// ListSecretaries returns secretaries, optionally scoped to a campus.
func (s *StaffService) ListSecretaries(ctx context.Context, campusID string) ([]models.Secretary, error) {
	secretaries, err := s.secretaries.List(ctx, campusID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list secretaries")
	}
	return secretaries, nil
}

// GetSecretary returns one secretary.
func (s *StaffService) GetSecretary(ctx context.Context, id string) (*models.Secretary, error) {
	secretary, err := s.secretaries.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "secretary not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load secretary")
	}
	return secretary, nil
}

// CreateSecretary registers a secretary together with their credential.
func (s *StaffService) CreateSecretary(ctx context.Context, req models.CreateSecretaryRequest) (*models.Secretary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid secretary payload")
	}
	if err := s.checkCampus(ctx, req.CampusID); err != nil {
		return nil, err
	}
	user, err := s.newCredential(ctx, req.DNI, models.RoleSecretary)
	if err != nil {
		return nil, err
	}
	secretary := &models.Secretary{
		DNI:          req.DNI,
		FirstName:    req.FirstName,
		PaternalName: req.PaternalName,
		MaternalName: req.MaternalName,
		Phone:        req.Phone,
		Email:        req.Email,
		CampusID:     req.CampusID,
		Active:       true,
	}
	if err := s.secretaries.Create(ctx, secretary, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create secretary")
	}
	s.logger.Info("secretary created", zap.String("secretary_id", secretary.ID), zap.String("campus_id", secretary.CampusID))
	return secretary, nil
}

// UpdateSecretary modifies an existing secretary.
func (s *StaffService) UpdateSecretary(ctx context.Context, secretary *models.Secretary) error {
	if _, err := s.GetSecretary(ctx, secretary.ID); err != nil {
		return err
	}
	if err := s.secretaries.Update(ctx, secretary); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update secretary")
	}
	return nil
}

// DeactivateSecretary disables a secretary and their credential.
func (s *StaffService) DeactivateSecretary(ctx context.Context, id string) error {
	secretary, err := s.GetSecretary(ctx, id)
	if err != nil {
		return err
	}
	if err := s.secretaries.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate secretary")
	}
	if secretary.UserID != nil {
		if err := s.users.Deactivate(ctx, *secretary.UserID); err != nil {
			s.logger.Warn("failed to deactivate secretary credential", zap.Error(err))
		}
	}
	return nil
}

// GetAdministrator returns one administrator.
func (s *StaffService) GetAdministrator(ctx context.Context, id string) (*models.Administrator, error) {
	admin, err := s.administrators.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "administrator not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load administrator")
	}
	return admin, nil
}

// CreateAdministrator registers a campus administrator. A campus may have
// at most one active administrator.
func (s *StaffService) CreateAdministrator(ctx context.Context, req models.CreateAdministratorRequest) (*models.Administrator, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid administrator payload")
	}
	if err := s.checkCampus(ctx, req.CampusID); err != nil {
		return nil, err
	}
	taken, err := s.administrators.ExistsActiveForCampus(ctx, req.CampusID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check campus administrator")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrAlreadyExists, "campus already has an administrator")
	}
	user, err := s.newCredential(ctx, req.DNI, models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	admin := &models.Administrator{
		DNI:          req.DNI,
		FirstName:    req.FirstName,
		PaternalName: req.PaternalName,
		MaternalName: req.MaternalName,
		Phone:        req.Phone,
		Email:        req.Email,
		CampusID:     req.CampusID,
		Active:       true,
	}
	if err := s.administrators.Create(ctx, admin, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create administrator")
	}
	s.logger.Info("administrator created", zap.String("administrator_id", admin.ID), zap.String("campus_id", admin.CampusID))
	return admin, nil
}

// DeactivateAdministrator disables an administrator and their credential.
func (s *StaffService) DeactivateAdministrator(ctx context.Context, id string) error {
	admin, err := s.GetAdministrator(ctx, id)
	if err != nil {
		return err
	}
	if err := s.administrators.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate administrator")
	}
	if admin.UserID != nil {
		if err := s.users.Deactivate(ctx, *admin.UserID); err != nil {
			s.logger.Warn("failed to deactivate administrator credential", zap.Error(err))
		}
	}
	return nil
}
