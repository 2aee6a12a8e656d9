package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siga-peru/academico-api/internal/models"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
	"github.com/siga-peru/academico-api/pkg/export"
)

type certificateRepository interface {
	Create(ctx context.Context, cert *models.Certificate) error
	FindByID(ctx context.Context, id string) (*models.Certificate, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.CertificateDetail, error)
	NextSerial(ctx context.Context) (string, error)
}

type certificateStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type certificateSigner interface {
	Generate(certificateID, relPath string) (string, time.Time, error)
	Parse(token string) (certificateID, relPath string, expiresAt time.Time, err error)
}

// CertificateService renders study certificates as PDFs, stores them and
// hands out time-limited signed download tokens. The PDF itself is never
// served without a valid token.
type CertificateService struct {
	certificates certificateRepository
	students     specializationStudentRepository
	careers      enrollmentCareerRepository
	campuses     enrollmentCampusRepository
	renderer     *export.CertificateRenderer
	storage      certificateStorage
	signer       certificateSigner
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewCertificateService constructs a CertificateService.
func NewCertificateService(
	certificates certificateRepository,
	students specializationStudentRepository,
	careers enrollmentCareerRepository,
	campuses enrollmentCampusRepository,
	renderer *export.CertificateRenderer,
	storage certificateStorage,
	signer certificateSigner,
	validate *validator.Validate,
	logger *zap.Logger,
) *CertificateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CertificateService{
		certificates: certificates,
		students:     students,
		careers:      careers,
		campuses:     campuses,
		renderer:     renderer,
		storage:      storage,
		signer:       signer,
		validator:    validate,
		logger:       logger,
	}
}

// Issue renders and stores a certificate for a student and career, then
// returns the record along with a signed download token.
func (s *CertificateService) Issue(ctx context.Context, req models.IssueCertificateRequest) (*models.IssuedCertificate, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid certificate payload")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	career, err := s.careers.FindByID(ctx, req.CareerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "career not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load career")
	}
	var campusName string
	if req.CampusID != "" {
		campus, err := s.campuses.FindByID(ctx, req.CampusID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "campus not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load campus")
		}
		campusName = campus.Name
	}

	serial, err := s.certificates.NextSerial(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to allocate serial")
	}

	issuedAt := time.Now().UTC()
	pdf, err := s.renderer.Render(export.CertificateData{
		Serial:      serial,
		StudentName: fmt.Sprintf("%s %s %s", student.FirstName, student.PaternalName, student.MaternalName),
		StudentDNI:  student.DNI,
		CareerName:  career.Name,
		CampusName:  campusName,
		IssuedAt:    issuedAt,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}

	cert := &models.Certificate{
		ID:        uuid.NewString(),
		Serial:    serial,
		StudentID: student.ID,
		CareerID:  career.ID,
		FilePath:  fmt.Sprintf("certificates/%s.pdf", serial),
		IssuedAt:  issuedAt,
	}
	if _, err := s.storage.Save(cert.FilePath, pdf); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store certificate")
	}
	if err := s.certificates.Create(ctx, cert); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist certificate")
	}

	token, expiresAt, err := s.signer.Generate(cert.ID, cert.FilePath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
	}

	s.logger.Info("certificate issued",
		zap.String("certificate_id", cert.ID),
		zap.String("serial", cert.Serial),
		zap.String("student_id", cert.StudentID))

	return &models.IssuedCertificate{Certificate: *cert, DownloadToken: token, ExpiresAt: expiresAt}, nil
}

// ListByStudent returns the certificates issued to one student. Each
// entry carries a fresh download token.
func (s *CertificateService) ListByStudent(ctx context.Context, studentID string) ([]models.CertificateDetail, error) {
	certs, err := s.certificates.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list certificates")
	}
	return certs, nil
}

// Download validates a signed token and returns the certificate file.
// The caller owns closing the file.
func (s *CertificateService) Download(ctx context.Context, token string) (*os.File, *models.Certificate, error) {
	certID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	cert, err := s.certificates.FindByID(ctx, certID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load certificate")
	}
	if cert.FilePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "token does not match certificate")
	}
	file, err := s.storage.Open(cert.FilePath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open certificate file")
	}
	return file, cert, nil
}
