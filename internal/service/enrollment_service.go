package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/siga-peru/academico-api/internal/models"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
)

type enrollmentRepository interface {
	Register(ctx context.Context, reg *models.EnrollmentRegistration) error
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	CountActiveByGroup(ctx context.Context, groupID string) (int, error)
	UpdateDates(ctx context.Context, id string, enrollmentDate, startDate time.Time) error
	Deactivate(ctx context.Context, id string) error
}

type enrollmentStudentRepository interface {
	ExistsByDNI(ctx context.Context, dni string, excludeID string) (bool, error)
}

type enrollmentCareerRepository interface {
	FindByID(ctx context.Context, id string) (*models.Career, error)
}

type enrollmentCampusRepository interface {
	FindByID(ctx context.Context, id string) (*models.CampusDetail, error)
}

type enrollmentSecretaryRepository interface {
	FindByID(ctx context.Context, id string) (*models.Secretary, error)
}

type enrollmentGroupRepository interface {
	FindByID(ctx context.Context, id string) (*models.Group, error)
}

// EnrollmentService orchestrates student registration: it validates the
// form, checks every referenced catalog record, creates the login
// credential and delegates the multi-record insert to the repository.
type EnrollmentService struct {
	enrollments enrollmentRepository
	students    enrollmentStudentRepository
	careers     enrollmentCareerRepository
	campuses    enrollmentCampusRepository
	secretaries enrollmentSecretaryRepository
	groups      enrollmentGroupRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(
	enrollments enrollmentRepository,
	students enrollmentStudentRepository,
	careers enrollmentCareerRepository,
	campuses enrollmentCampusRepository,
	secretaries enrollmentSecretaryRepository,
	groups enrollmentGroupRepository,
	validate *validator.Validate,
	logger *zap.Logger,
) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{
		enrollments: enrollments,
		students:    students,
		careers:     careers,
		campuses:    campuses,
		secretaries: secretaries,
		groups:      groups,
		validator:   validate,
		logger:      logger,
	}
}

// Register runs the full registration flow. The student's DNI doubles as
// the initial username and password, with a forced change on first login.
// Either every record is persisted or none is.
func (s *EnrollmentService) Register(ctx context.Context, req models.RegisterEnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	exists, err := s.students.ExistsByDNI(ctx, req.Student.DNI, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrAlreadyExists, "a student with this DNI is already registered")
	}

	if _, err := s.careers.FindByID(ctx, req.CareerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "career not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load career")
	}
	if _, err := s.campuses.FindByID(ctx, req.CampusID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "campus not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campus")
	}
	if _, err := s.secretaries.FindByID(ctx, req.SecretaryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "secretary not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load secretary")
	}
	if req.GroupID != nil {
		if err := s.checkGroupCapacity(ctx, *req.GroupID); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Student.DNI), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash initial password")
	}

	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = time.Now().UTC()
	}

	reg := &models.EnrollmentRegistration{
		Address: &models.Address{
			Line:       req.Address.Line,
			District:   req.Address.District,
			Province:   req.Address.Province,
			Department: req.Address.Department,
		},
		User: &models.User{
			Username:           req.Student.DNI,
			PasswordHash:       string(hash),
			Role:               models.RoleStudent,
			MustChangePassword: true,
			Active:             true,
		},
		Student: &models.Student{
			DNI:            req.Student.DNI,
			FirstName:      req.Student.FirstName,
			PaternalName:   req.Student.PaternalName,
			MaternalName:   req.Student.MaternalName,
			Sex:            req.Student.Sex,
			Age:            req.Student.Age,
			Phone:          req.Student.Phone,
			Email:          req.Student.Email,
			EducationLevel: req.Student.EducationLevel,
			Active:         true,
		},
		Schedule: &models.Schedule{
			Days:      models.JoinDays(req.Schedule.Days),
			StartTime: req.Schedule.StartTime,
			EndTime:   req.Schedule.EndTime,
			Type:      models.ScheduleTypeRegular,
			Active:    true,
		},
		Enrollment: &models.Enrollment{
			CareerID:    req.CareerID,
			GroupID:     req.GroupID,
			CampusID:    req.CampusID,
			SecretaryID: req.SecretaryID,
			StartDate:   startDate,
			Active:      true,
		},
	}
	if req.Payment != nil {
		reg.Payment = &models.Payment{
			ReceiptNumber:   req.Payment.ReceiptNumber,
			PaymentMethodID: req.Payment.PaymentMethodID,
			Amount:          req.Payment.Amount,
			PaidDate:        req.Payment.PaidDate,
			PaidTime:        req.Payment.PaidTime,
		}
	}

	if err := s.enrollments.Register(ctx, reg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register enrollment")
	}

	s.logger.Info("enrollment registered",
		zap.String("enrollment_id", reg.Enrollment.ID),
		zap.String("student_dni", reg.Student.DNI),
		zap.String("career_id", reg.Enrollment.CareerID))

	detail, err := s.enrollments.FindDetailByID(ctx, reg.Enrollment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return detail, nil
}

// checkGroupCapacity verifies the group is open and has a free seat. The
// count check is a read before the insert transaction, so two concurrent
// registrations can both pass it; capacity is advisory, not a hard limit.
func (s *EnrollmentService) checkGroupCapacity(ctx context.Context, groupID string) error {
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "group not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group")
	}
	if group.Status != models.GroupStatusOpen {
		return appErrors.Clone(appErrors.ErrConflict, "group is closed")
	}
	enrolled, err := s.enrollments.CountActiveByGroup(ctx, groupID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count group enrollments")
	}
	if enrolled >= group.MaxSlots {
		return appErrors.Clone(appErrors.ErrConflict, "group has no free slots")
	}
	return nil
}

// List returns enrollments matching the filter.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	enrollments, total, err := s.enrollments.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return enrollments, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns the fully-populated enrollment aggregate.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	detail, err := s.enrollments.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return detail, nil
}

// UpdateDates adjusts the enrollment and start dates of an enrollment.
func (s *EnrollmentService) UpdateDates(ctx context.Context, id string, enrollmentDate, startDate time.Time) error {
	if _, err := s.enrollments.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if err := s.enrollments.UpdateDates(ctx, id, enrollmentDate, startDate); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}
	return nil
}

// Deactivate marks an enrollment inactive. Deactivating an already
// inactive enrollment succeeds.
func (s *EnrollmentService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.enrollments.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if err := s.enrollments.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate enrollment")
	}
	return nil
}
