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

type pensionRepository interface {
	GenerateForEnrollment(ctx context.Context, enrollmentID string, startMonth, startYear, months int, amount float64) ([]models.Pension, error)
	List(ctx context.Context, filter models.PensionFilter) ([]models.PensionDetail, error)
	FindByID(ctx context.Context, id string) (*models.Pension, error)
	Settle(ctx context.Context, pensionID string, payment *models.Payment) error
}

type pensionEnrollmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
}

type pensionPaymentMethodRepository interface {
	FindMethodByID(ctx context.Context, id string) (*models.PaymentMethod, error)
}

// PensionService manages tuition dues: generating the monthly batch for
// an enrollment, listing a student's dues and settling them.
type PensionService struct {
	pensions    pensionRepository
	enrollments pensionEnrollmentRepository
	methods     pensionPaymentMethodRepository
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPensionService constructs a PensionService.
func NewPensionService(pensions pensionRepository, enrollments pensionEnrollmentRepository, methods pensionPaymentMethodRepository, validate *validator.Validate, logger *zap.Logger) *PensionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PensionService{pensions: pensions, enrollments: enrollments, methods: methods, validator: validate, logger: logger}
}

// Generate creates the monthly dues of an enrollment in one batch.
func (s *PensionService) Generate(ctx context.Context, req models.GeneratePensionsRequest) ([]models.Pension, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pension batch payload")
	}
	if _, err := s.enrollments.FindByID(ctx, req.EnrollmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	pensions, err := s.pensions.GenerateForEnrollment(ctx, req.EnrollmentID, req.StartMonth, req.StartYear, req.Months, req.Amount)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate pensions")
	}
	s.logger.Info("pension batch generated",
		zap.String("enrollment_id", req.EnrollmentID),
		zap.Int("months", req.Months))
	return pensions, nil
}

// List returns dues matching the filter.
func (s *PensionService) List(ctx context.Context, filter models.PensionFilter) ([]models.PensionDetail, error) {
	pensions, err := s.pensions.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pensions")
	}
	return pensions, nil
}

// Pay settles a pending due. Paying an already settled due is rejected.
func (s *PensionService) Pay(ctx context.Context, req models.PayPensionRequest) (*models.Pension, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pension payment payload")
	}

	pension, err := s.pensions.FindByID(ctx, req.PensionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pension not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pension")
	}
	if pension.Status == models.PensionStatusPaid {
		return nil, appErrors.Clone(appErrors.ErrConflict, "pension is already paid")
	}

	if _, err := s.methods.FindMethodByID(ctx, req.Payment.PaymentMethodID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment method not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment method")
	}

	payment := &models.Payment{
		ReceiptNumber:   req.Payment.ReceiptNumber,
		PaymentMethodID: req.Payment.PaymentMethodID,
		Amount:          req.Payment.Amount,
		PaidDate:        req.Payment.PaidDate,
		PaidTime:        req.Payment.PaidTime,
	}
	if err := s.pensions.Settle(ctx, pension.ID, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to settle pension")
	}

	pension.Status = models.PensionStatusPaid
	pension.PaymentID = &payment.ID
	s.logger.Info("pension settled",
		zap.String("pension_id", pension.ID),
		zap.String("payment_id", payment.ID))
	return pension, nil
}
