package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siga-peru/academico-api/internal/models"
)

// CampusRepository manages persistence for campuses (sedes).
type CampusRepository struct {
	db *sqlx.DB
}

// NewCampusRepository constructs a CampusRepository.
func NewCampusRepository(db *sqlx.DB) *CampusRepository {
	return &CampusRepository{db: db}
}

const campusSelect = `SELECT c.id, c.name, c.phone, c.address_id, c.active, c.created_at, c.updated_at,
        a.line AS address_line, a.district AS address_district, a.province AS address_province, a.department AS address_department
        FROM campuses c
        LEFT JOIN addresses a ON a.id = c.address_id`

// List returns all active campuses with their addresses.
func (r *CampusRepository) List(ctx context.Context) ([]models.CampusDetail, error) {
	query := campusSelect + " WHERE c.active = true ORDER BY c.name"
	var campuses []models.CampusDetail
	if err := r.db.SelectContext(ctx, &campuses, query); err != nil {
		return nil, fmt.Errorf("list campuses: %w", err)
	}
	return campuses, nil
}

// FindByID returns a campus by its ID.
func (r *CampusRepository) FindByID(ctx context.Context, id string) (*models.CampusDetail, error) {
	query := campusSelect + " WHERE c.id = $1"
	var detail models.CampusDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create persists a campus together with its owned address in one
// transaction.
func (r *CampusRepository) Create(ctx context.Context, campus *models.Campus, address *models.Address) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertAddress(ctx, tx, address); err != nil {
			return err
		}
		campus.AddressID = address.ID
		if campus.ID == "" {
			campus.ID = uuid.NewString()
		}
		now := time.Now().UTC()
		campus.CreatedAt = now
		campus.UpdatedAt = now
		const query = `INSERT INTO campuses (id, name, phone, address_id, active, created_at, updated_at)
            VALUES (:id, :name, :phone, :address_id, :active, :created_at, :updated_at)`
		if _, err := sqlx.NamedExecContext(ctx, tx, query, campus); err != nil {
			return fmt.Errorf("create campus: %w", err)
		}
		return nil
	})
}

// Update modifies an existing campus.
func (r *CampusRepository) Update(ctx context.Context, campus *models.Campus) error {
	campus.UpdatedAt = time.Now().UTC()
	const query = `UPDATE campuses SET name = :name, phone = :phone, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, campus); err != nil {
		return fmt.Errorf("update campus: %w", err)
	}
	return nil
}

// UpdateAddress rewrites the address record owned by a campus.
func (r *CampusRepository) UpdateAddress(ctx context.Context, address *models.Address) error {
	const query = `UPDATE addresses SET line = :line, district = :district, province = :province, department = :department WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, address); err != nil {
		return fmt.Errorf("update campus address: %w", err)
	}
	return nil
}

// Deactivate marks a campus inactive.
func (r *CampusRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE campuses SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate campus: %w", err)
	}
	return nil
}
