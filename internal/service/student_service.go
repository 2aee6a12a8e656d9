package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/siga-peru/academico-api/internal/models"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
	"github.com/siga-peru/academico-api/pkg/reniec"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	FindByDNI(ctx context.Context, dni string) (*models.StudentDetail, error)
	ExistsByDNI(ctx context.Context, dni string, excludeID string) (bool, error)
	Update(ctx context.Context, student *models.Student) error
	UpdateAddress(ctx context.Context, address *models.Address) error
	Deactivate(ctx context.Context, id string) error
}

type studentUserRepository interface {
	Deactivate(ctx context.Context, id string) error
}

// StudentService manages student records. Students are created only
// through the enrollment flow; this service covers reads, updates and
// deactivation, plus the RENIEC document lookup used to prefill forms.
type StudentService struct {
	students  studentRepository
	users     studentUserRepository
	reniec    reniec.Lookuper
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService. The RENIEC client may be
// nil when the integration is disabled.
func NewStudentService(students studentRepository, users studentUserRepository, lookup reniec.Lookuper, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{students: students, users: users, reniec: lookup, validator: validate, logger: logger}
}

// List returns students matching the filter.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one student with its address.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// GetByDNI returns one student looked up by document number.
func (s *StudentService) GetByDNI(ctx context.Context, dni string) (*models.StudentDetail, error) {
	student, err := s.students.FindByDNI(ctx, dni)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// LookupDNI queries the RENIEC padron for the person behind a document
// number, used by the front desk to prefill registration forms.
func (s *StudentService) LookupDNI(ctx context.Context, dni string) (*reniec.Person, error) {
	if s.reniec == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "document lookup is not configured")
	}
	person, err := s.reniec.Lookup(ctx, dni)
	if err != nil {
		if errors.Is(err, reniec.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		s.logger.Warn("reniec lookup failed", zap.String("dni", dni), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrBadGateway.Code, appErrors.ErrBadGateway.Status, "document lookup failed")
	}
	return person, nil
}

// Update modifies a student and, when provided, its address. Changing the
// DNI to one already registered is rejected.
func (s *StudentService) Update(ctx context.Context, student *models.Student, address *models.Address) error {
	current, err := s.Get(ctx, student.ID)
	if err != nil {
		return err
	}
	if student.DNI != current.DNI {
		taken, err := s.students.ExistsByDNI(ctx, student.DNI, student.ID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check dni")
		}
		if taken {
			return appErrors.Clone(appErrors.ErrAlreadyExists, "a student with this DNI is already registered")
		}
	}
	if err := s.students.Update(ctx, student); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	if address != nil {
		address.ID = current.AddressID
		if err := s.students.UpdateAddress(ctx, address); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update address")
		}
	}
	return nil
}

// Deactivate disables a student and their login credential. Enrollments
// are left untouched.
func (s *StudentService) Deactivate(ctx context.Context, id string) error {
	student, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.students.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate student")
	}
	if student.UserID != nil {
		if err := s.users.Deactivate(ctx, *student.UserID); err != nil {
			s.logger.Warn("failed to deactivate student credential", zap.Error(err))
		}
	}
	return nil
}
