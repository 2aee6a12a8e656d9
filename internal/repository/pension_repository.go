package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siga-peru/academico-api/internal/models"
)

// PensionRepository handles tuition dues and their settlement.
type PensionRepository struct {
	db *sqlx.DB
}

// NewPensionRepository constructs the repository.
func NewPensionRepository(db *sqlx.DB) *PensionRepository {
	return &PensionRepository{db: db}
}

// GenerateForEnrollment inserts the monthly dues of an enrollment in one
// transaction. The batch starts at startMonth/startYear and rolls the
// year over after December.
func (r *PensionRepository) GenerateForEnrollment(ctx context.Context, enrollmentID string, startMonth, startYear, months int, amount float64) ([]models.Pension, error) {
	pensions := make([]models.Pension, 0, months)
	month, year := startMonth, startYear
	now := time.Now().UTC()
	for i := 0; i < months; i++ {
		pensions = append(pensions, models.Pension{
			ID:           uuid.NewString(),
			EnrollmentID: enrollmentID,
			DueMonth:     month,
			DueYear:      year,
			Amount:       amount,
			Status:       models.PensionStatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		month++
		if month > 12 {
			month = 1
			year++
		}
	}

	err := runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `INSERT INTO pensions (id, enrollment_id, due_month, due_year, amount, status, payment_id, created_at, updated_at)
            VALUES (:id, :enrollment_id, :due_month, :due_year, :amount, :status, :payment_id, :created_at, :updated_at)`
		for i := range pensions {
			if _, err := sqlx.NamedExecContext(ctx, tx, query, &pensions[i]); err != nil {
				return fmt.Errorf("create pension: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pensions, nil
}

// List returns dues matching the filter, joined with the owning student.
func (r *PensionRepository) List(ctx context.Context, filter models.PensionFilter) ([]models.PensionDetail, error) {
	query := `SELECT p.id, p.enrollment_id, p.due_month, p.due_year, p.amount, p.status, p.payment_id, p.created_at, p.updated_at,
        s.dni AS student_dni, s.first_name || ' ' || s.paternal_name AS student_name, ca.name AS career_name
        FROM pensions p
        JOIN enrollments e ON e.id = p.enrollment_id
        JOIN students s ON s.id = e.student_id
        LEFT JOIN careers ca ON ca.id = e.career_id
        WHERE 1=1`
	var args []interface{}
	if filter.DNI != "" {
		args = append(args, filter.DNI)
		query += fmt.Sprintf(" AND s.dni = $%d", len(args))
	}
	if filter.Year > 0 {
		args = append(args, filter.Year)
		query += fmt.Sprintf(" AND p.due_year = $%d", len(args))
	}
	if filter.Month > 0 {
		args = append(args, filter.Month)
		query += fmt.Sprintf(" AND p.due_month = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND p.status = $%d", len(args))
	}
	query += " ORDER BY p.due_year, p.due_month"

	var pensions []models.PensionDetail
	if err := r.db.SelectContext(ctx, &pensions, query, args...); err != nil {
		return nil, fmt.Errorf("list pensions: %w", err)
	}
	return pensions, nil
}

// FindByID returns a due by its ID.
func (r *PensionRepository) FindByID(ctx context.Context, id string) (*models.Pension, error) {
	const query = `SELECT id, enrollment_id, due_month, due_year, amount, status, payment_id, created_at, updated_at
        FROM pensions WHERE id = $1`
	var pension models.Pension
	if err := r.db.GetContext(ctx, &pension, query, id); err != nil {
		return nil, err
	}
	return &pension, nil
}

// Settle records a payment for a due and marks it PAID, atomically.
func (r *PensionRepository) Settle(ctx context.Context, pensionID string, payment *models.Payment) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertPayment(ctx, tx, payment); err != nil {
			return err
		}
		const query = `UPDATE pensions SET status = $2, payment_id = $3, updated_at = $4 WHERE id = $1`
		if _, err := tx.ExecContext(ctx, query, pensionID, models.PensionStatusPaid, payment.ID, time.Now().UTC()); err != nil {
			return fmt.Errorf("settle pension: %w", err)
		}
		return nil
	})
}
