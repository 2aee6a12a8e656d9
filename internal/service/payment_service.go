package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/siga-peru/academico-api/internal/models"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
)

type paymentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Payment, error)
	AttachReceiptImage(ctx context.Context, id, url string) error
	ListMethods(ctx context.Context) ([]models.PaymentMethod, error)
	FindMethodByID(ctx context.Context, id string) (*models.PaymentMethod, error)
	CreateMethod(ctx context.Context, method *models.PaymentMethod) error
	DeactivateMethod(ctx context.Context, id string) error
}

type receiptStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
}

// PaymentService covers payment reads, the payment-method catalog and
// receipt image uploads. Payments themselves are immutable; they are
// created only inside registration and settlement transactions.
type PaymentService struct {
	payments  paymentRepository
	storage   receiptStorage
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(payments paymentRepository, storage receiptStorage, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PaymentService{payments: payments, storage: storage, validator: validate, logger: logger}
}

// Get returns one payment.
func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	payment, err := s.payments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}
	return payment, nil
}

// AttachReceiptImage stores the uploaded receipt scan and links its URL
// to the payment.
func (s *PaymentService) AttachReceiptImage(ctx context.Context, paymentID, originalName string, r io.Reader) (string, error) {
	payment, err := s.Get(ctx, paymentID)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".pdf":
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "unsupported receipt file type")
	}

	filename := fmt.Sprintf("receipts/%s-%s%s", payment.ID, uuid.NewString()[:8], ext)
	url, err := s.storage.SaveStream(filename, r)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store receipt image")
	}
	if err := s.payments.AttachReceiptImage(ctx, payment.ID, url); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach receipt image")
	}
	s.logger.Info("receipt image attached", zap.String("payment_id", payment.ID))
	return url, nil
}

// ListMethods returns the active payment-method catalog.
func (s *PaymentService) ListMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	methods, err := s.payments.ListMethods(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payment methods")
	}
	return methods, nil
}

// CreateMethod adds a catalog entry.
func (s *PaymentService) CreateMethod(ctx context.Context, name string) (*models.PaymentMethod, error) {
	if strings.TrimSpace(name) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "payment method name is required")
	}
	method := &models.PaymentMethod{Name: name, Active: true}
	if err := s.payments.CreateMethod(ctx, method); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment method")
	}
	return method, nil
}

// DeactivateMethod hides a catalog entry. Existing payments keep
// referencing it.
func (s *PaymentService) DeactivateMethod(ctx context.Context, id string) error {
	if _, err := s.payments.FindMethodByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "payment method not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment method")
	}
	if err := s.payments.DeactivateMethod(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate payment method")
	}
	return nil
}
