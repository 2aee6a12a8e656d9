package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siga-peru/academico-api/internal/models"
)

// PaymentRepository manages payments and the payment-method catalog.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// FindByID returns a payment by its ID.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	const query = `SELECT id, receipt_number, payment_method_id, amount, paid_date, paid_time, receipt_image_url, created_at
        FROM payments WHERE id = $1`
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// AttachReceiptImage persists the uploaded receipt URL verbatim. This is
// the only mutation allowed on a payment after creation.
func (r *PaymentRepository) AttachReceiptImage(ctx context.Context, id, url string) error {
	const query = `UPDATE payments SET receipt_image_url = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, url); err != nil {
		return fmt.Errorf("attach receipt image: %w", err)
	}
	return nil
}

// ListMethods returns the active payment-method catalog.
func (r *PaymentRepository) ListMethods(ctx context.Context) ([]models.PaymentMethod, error) {
	const query = `SELECT id, name, active FROM payment_methods WHERE active = true ORDER BY name`
	var methods []models.PaymentMethod
	if err := r.db.SelectContext(ctx, &methods, query); err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return methods, nil
}

// FindMethodByID returns a payment method by its ID.
func (r *PaymentRepository) FindMethodByID(ctx context.Context, id string) (*models.PaymentMethod, error) {
	const query = `SELECT id, name, active FROM payment_methods WHERE id = $1`
	var method models.PaymentMethod
	if err := r.db.GetContext(ctx, &method, query, id); err != nil {
		return nil, err
	}
	return &method, nil
}

// CreateMethod adds a catalog entry.
func (r *PaymentRepository) CreateMethod(ctx context.Context, method *models.PaymentMethod) error {
	if method.ID == "" {
		method.ID = uuid.NewString()
	}
	const query = `INSERT INTO payment_methods (id, name, active) VALUES (:id, :name, :active)`
	if _, err := r.db.NamedExecContext(ctx, query, method); err != nil {
		return fmt.Errorf("create payment method: %w", err)
	}
	return nil
}

// DeactivateMethod marks a catalog entry inactive.
func (r *PaymentRepository) DeactivateMethod(ctx context.Context, id string) error {
	const query = `UPDATE payment_methods SET active = false WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deactivate payment method: %w", err)
	}
	return nil
}

// insertPayment persists a payment on the provided executor, which may be a
// transaction opened by a registration or pension settlement flow.
func insertPayment(ctx context.Context, ext sqlx.ExtContext, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO payments (id, receipt_number, payment_method_id, amount, paid_date, paid_time, receipt_image_url, created_at)
        VALUES (:id, :receipt_number, :payment_method_id, :amount, :paid_date, :paid_time, :receipt_image_url, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}
