package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siga-peru/academico-api/internal/models"
)

// CareerRepository manages careers, their modules and campus offerings.
type CareerRepository struct {
	db *sqlx.DB
}

// NewCareerRepository constructs a CareerRepository.
func NewCareerRepository(db *sqlx.DB) *CareerRepository {
	return &CareerRepository{db: db}
}

// List returns active careers, optionally restricted to a campus offering.
func (r *CareerRepository) List(ctx context.Context, campusID string) ([]models.Career, error) {
	query := `SELECT c.id, c.name, c.description, c.active, c.created_at, c.updated_at FROM careers c`
	var args []interface{}
	if campusID != "" {
		query += ` JOIN career_campuses cc ON cc.career_id = c.id AND cc.campus_id = $1`
		args = append(args, campusID)
	}
	query += ` WHERE c.active = true ORDER BY c.name`
	var careers []models.Career
	if err := r.db.SelectContext(ctx, &careers, query, args...); err != nil {
		return nil, fmt.Errorf("list careers: %w", err)
	}
	return careers, nil
}

// FindByID returns a career by its ID.
func (r *CareerRepository) FindByID(ctx context.Context, id string) (*models.Career, error) {
	const query = `SELECT id, name, description, active, created_at, updated_at FROM careers WHERE id = $1`
	var career models.Career
	if err := r.db.GetContext(ctx, &career, query, id); err != nil {
		return nil, err
	}
	return &career, nil
}

// FindDetailByID returns a career with its module roster.
func (r *CareerRepository) FindDetailByID(ctx context.Context, id string) (*models.CareerDetail, error) {
	career, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	modules, err := r.ListModules(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.CareerDetail{Career: *career, Modules: modules}, nil
}

// Create persists a new career.
func (r *CareerRepository) Create(ctx context.Context, career *models.Career) error {
	if career.ID == "" {
		career.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	career.CreatedAt = now
	career.UpdatedAt = now
	const query = `INSERT INTO careers (id, name, description, active, created_at, updated_at)
        VALUES (:id, :name, :description, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, career); err != nil {
		return fmt.Errorf("create career: %w", err)
	}
	return nil
}

// Update modifies an existing career.
func (r *CareerRepository) Update(ctx context.Context, career *models.Career) error {
	career.UpdatedAt = time.Now().UTC()
	const query = `UPDATE careers SET name = :name, description = :description, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, career); err != nil {
		return fmt.Errorf("update career: %w", err)
	}
	return nil
}

// Deactivate marks a career inactive. Modules are left untouched.
func (r *CareerRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE careers SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate career: %w", err)
	}
	return nil
}

// ListModules returns the active modules of a career.
func (r *CareerRepository) ListModules(ctx context.Context, careerID string) ([]models.CareerModule, error) {
	const query = `SELECT id, career_id, name, duration, active FROM career_modules WHERE career_id = $1 AND active = true ORDER BY name`
	var modules []models.CareerModule
	if err := r.db.SelectContext(ctx, &modules, query, careerID); err != nil {
		return nil, fmt.Errorf("list career modules: %w", err)
	}
	return modules, nil
}

// FindModuleByID returns a module by its ID.
func (r *CareerRepository) FindModuleByID(ctx context.Context, id string) (*models.CareerModule, error) {
	const query = `SELECT id, career_id, name, duration, active FROM career_modules WHERE id = $1`
	var module models.CareerModule
	if err := r.db.GetContext(ctx, &module, query, id); err != nil {
		return nil, err
	}
	return &module, nil
}

// CreateModule adds a module to a career. The duration string is stored
// as received.
func (r *CareerRepository) CreateModule(ctx context.Context, module *models.CareerModule) error {
	if module.ID == "" {
		module.ID = uuid.NewString()
	}
	const query = `INSERT INTO career_modules (id, career_id, name, duration, active)
        VALUES (:id, :career_id, :name, :duration, :active)`
	if _, err := r.db.NamedExecContext(ctx, query, module); err != nil {
		return fmt.Errorf("create career module: %w", err)
	}
	return nil
}

// UpdateModule modifies an existing module.
func (r *CareerRepository) UpdateModule(ctx context.Context, module *models.CareerModule) error {
	const query = `UPDATE career_modules SET name = :name, duration = :duration, active = :active WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, module); err != nil {
		return fmt.Errorf("update career module: %w", err)
	}
	return nil
}

// DeactivateModule marks a module inactive.
func (r *CareerRepository) DeactivateModule(ctx context.Context, id string) error {
	const query = `UPDATE career_modules SET active = false WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deactivate career module: %w", err)
	}
	return nil
}

// AddCampusOffering links a career to a campus.
func (r *CareerRepository) AddCampusOffering(ctx context.Context, careerID, campusID string) error {
	const query = `INSERT INTO career_campuses (career_id, campus_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, careerID, campusID); err != nil {
		return fmt.Errorf("add campus offering: %w", err)
	}
	return nil
}

// RemoveCampusOffering unlinks a career from a campus.
func (r *CareerRepository) RemoveCampusOffering(ctx context.Context, careerID, campusID string) error {
	const query = `DELETE FROM career_campuses WHERE career_id = $1 AND campus_id = $2`
	if _, err := r.db.ExecContext(ctx, query, careerID, campusID); err != nil {
		return fmt.Errorf("remove campus offering: %w", err)
	}
	return nil
}
