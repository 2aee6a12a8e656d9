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

type specializationRepository interface {
	List(ctx context.Context) ([]models.Specialization, error)
	FindByID(ctx context.Context, id string) (*models.Specialization, error)
	Create(ctx context.Context, spec *models.Specialization) error
	Update(ctx context.Context, spec *models.Specialization) error
	Deactivate(ctx context.Context, id string) error
	Register(ctx context.Context, reg *models.SpecializationRegistration) error
	ListEnrollments(ctx context.Context, specializationID, campusID string) ([]models.SpecializationEnrollmentDetail, error)
	FindEnrollmentDetail(ctx context.Context, id string) (*models.SpecializationEnrollmentDetail, error)
	AssignTeacher(ctx context.Context, enrollmentID, teacherID string) error
	DeactivateEnrollment(ctx context.Context, id string) error
}

type specializationStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	ExistsByDNI(ctx context.Context, dni string, excludeID string) (bool, error)
}

// SpecializationService manages short courses and their enrollments. The
// registration flow mirrors career enrollment, but may attach an existing
// student instead of always creating one.
type SpecializationService struct {
	specializations specializationRepository
	students        specializationStudentRepository
	secretaries     enrollmentSecretaryRepository
	campuses        enrollmentCampusRepository
	teachers        groupTeacherRepository
	validator       *validator.Validate
	logger          *zap.Logger
}

// NewSpecializationService constructs a SpecializationService.
func NewSpecializationService(
	specializations specializationRepository,
	students specializationStudentRepository,
	secretaries enrollmentSecretaryRepository,
	campuses enrollmentCampusRepository,
	teachers groupTeacherRepository,
	validate *validator.Validate,
	logger *zap.Logger,
) *SpecializationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SpecializationService{
		specializations: specializations,
		students:        students,
		secretaries:     secretaries,
		campuses:        campuses,
		teachers:        teachers,
		validator:       validate,
		logger:          logger,
	}
}

// List returns the active specialization catalog.
func (s *SpecializationService) List(ctx context.Context) ([]models.Specialization, error) {
	specs, err := s.specializations.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list specializations")
	}
	return specs, nil
}

// Get returns one specialization.
func (s *SpecializationService) Get(ctx context.Context, id string) (*models.Specialization, error) {
	spec, err := s.specializations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "specialization not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load specialization")
	}
	return spec, nil
}

// Create adds a specialization to the catalog.
func (s *SpecializationService) Create(ctx context.Context, req models.CreateSpecializationRequest) (*models.Specialization, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid specialization payload")
	}
	spec := &models.Specialization{Name: req.Name, Description: req.Description, Duration: req.Duration, Active: true}
	if err := s.specializations.Create(ctx, spec); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create specialization")
	}
	return spec, nil
}

// Update modifies a specialization.
func (s *SpecializationService) Update(ctx context.Context, spec *models.Specialization) error {
	if _, err := s.Get(ctx, spec.ID); err != nil {
		return err
	}
	if err := s.specializations.Update(ctx, spec); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update specialization")
	}
	return nil
}

// Deactivate hides a specialization from the catalog.
func (s *SpecializationService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.specializations.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate specialization")
	}
	return nil
}

// Register enrolls a student into a specialization. A brand new student
// gets the same DNI-based credential as in career registration; an
// existing student is referenced without touching their records.
func (s *SpecializationService) Register(ctx context.Context, req models.RegisterSpecializationRequest) (*models.SpecializationEnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
	}

	if _, err := s.Get(ctx, req.SpecializationID); err != nil {
		return nil, err
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
	if req.TeacherID != nil {
		if _, err := s.teachers.FindByID(ctx, *req.TeacherID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}
	}

	reg := &models.SpecializationRegistration{
		Schedule: &models.Schedule{
			Days:      models.JoinDays(req.Schedule.Days),
			StartTime: req.Schedule.StartTime,
			EndTime:   req.Schedule.EndTime,
			Type:      models.ScheduleTypeSpecialization,
			Active:    true,
		},
		Enrollment: &models.SpecializationEnrollment{
			SpecializationID: req.SpecializationID,
			CampusID:         req.CampusID,
			SecretaryID:      req.SecretaryID,
			TeacherID:        req.TeacherID,
			StartDate:        req.StartDate,
			Active:           true,
		},
	}

	switch {
	case req.StudentID != nil:
		student, err := s.students.FindByID(ctx, *req.StudentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
		}
		reg.Enrollment.StudentID = student.ID
	case req.Student != nil && req.Address != nil:
		if err := s.validator.Struct(req.Student); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
		}
		exists, err := s.students.ExistsByDNI(ctx, req.Student.DNI, "")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student")
		}
		if exists {
			return nil, appErrors.Clone(appErrors.ErrAlreadyExists, "a student with this DNI is already registered")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Student.DNI), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash initial password")
		}
		reg.Address = &models.Address{
			Line:       req.Address.Line,
			District:   req.Address.District,
			Province:   req.Address.Province,
			Department: req.Address.Department,
		}
		reg.User = &models.User{
			Username:           req.Student.DNI,
			PasswordHash:       string(hash),
			Role:               models.RoleStudent,
			MustChangePassword: true,
			Active:             true,
		}
		reg.Student = &models.Student{
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
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "either student_id or a new student with address is required")
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

	if err := s.specializations.Register(ctx, reg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to register specialization enrollment")
	}
	s.logger.Info("specialization enrollment registered",
		zap.String("enrollment_id", reg.Enrollment.ID),
		zap.String("specialization_id", req.SpecializationID))

	detail, err := s.specializations.FindEnrollmentDetail(ctx, reg.Enrollment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return detail, nil
}

// ListEnrollments returns specialization enrollments.
func (s *SpecializationService) ListEnrollments(ctx context.Context, specializationID, campusID string) ([]models.SpecializationEnrollmentDetail, error) {
	enrollments, err := s.specializations.ListEnrollments(ctx, specializationID, campusID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, nil
}

// GetEnrollment returns one specialization enrollment aggregate.
func (s *SpecializationService) GetEnrollment(ctx context.Context, id string) (*models.SpecializationEnrollmentDetail, error) {
	detail, err := s.specializations.FindEnrollmentDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return detail, nil
}

// AssignTeacher puts a teacher in charge of a specialization enrollment.
func (s *SpecializationService) AssignTeacher(ctx context.Context, enrollmentID, teacherID string) error {
	if _, err := s.GetEnrollment(ctx, enrollmentID); err != nil {
		return err
	}
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if err := s.specializations.AssignTeacher(ctx, enrollmentID, teacherID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign teacher")
	}
	return nil
}

// DeactivateEnrollment marks a specialization enrollment inactive.
func (s *SpecializationService) DeactivateEnrollment(ctx context.Context, id string) error {
	if _, err := s.GetEnrollment(ctx, id); err != nil {
		return err
	}
	if err := s.specializations.DeactivateEnrollment(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate enrollment")
	}
	return nil
}
