package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siga-peru/academico-api/internal/models"
)

// TeacherRepository manages persistence for teaching staff.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers matching the provided filters.
func (r *TeacherRepository) List(ctx context.Context, filter models.StaffFilter) ([]models.Teacher, int, error) {
	base := "FROM teachers t"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.CampusID != "" {
		conditions = append(conditions, fmt.Sprintf("t.campus_id = $%d", len(args)+1))
		args = append(args, filter.CampusID)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("t.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		cond := fmt.Sprintf("(LOWER(t.first_name) LIKE $%d OR LOWER(t.paternal_name) LIKE $%d OR t.dni LIKE $%d)", len(args)+1, len(args)+1, len(args)+1)
		conditions = append(conditions, cond)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT t.id, t.dni, t.first_name, t.paternal_name, t.maternal_name, t.phone, t.email,
        t.specialty, t.campus_id, t.user_id, t.active, t.created_at, t.updated_at
        %s ORDER BY t.paternal_name ASC LIMIT %d OFFSET %d`, base, size, offset)

	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}
	return teachers, total, nil
}

// FindByID returns a teacher by its ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	const query = `SELECT id, dni, first_name, paternal_name, maternal_name, phone, email, specialty, campus_id, user_id, active, created_at, updated_at
        FROM teachers WHERE id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindByUserID resolves the teacher profile owning a credential.
func (r *TeacherRepository) FindByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	const query = `SELECT id, dni, first_name, paternal_name, maternal_name, phone, email, specialty, campus_id, user_id, active, created_at, updated_at
        FROM teachers WHERE user_id = $1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, userID); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// Create persists a teacher together with its login credential in one
// transaction.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher, user *models.User) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if user != nil {
			if err := insertUser(ctx, tx, user); err != nil {
				return err
			}
			teacher.UserID = &user.ID
		}
		if teacher.ID == "" {
			teacher.ID = uuid.NewString()
		}
		now := time.Now().UTC()
		teacher.CreatedAt = now
		teacher.UpdatedAt = now
		const query = `INSERT INTO teachers (id, dni, first_name, paternal_name, maternal_name, phone, email, specialty, campus_id, user_id, active, created_at, updated_at)
            VALUES (:id, :dni, :first_name, :paternal_name, :maternal_name, :phone, :email, :specialty, :campus_id, :user_id, :active, :created_at, :updated_at)`
		if _, err := sqlx.NamedExecContext(ctx, tx, query, teacher); err != nil {
			return fmt.Errorf("create teacher: %w", err)
		}
		return nil
	})
}

// Update modifies an existing teacher.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teachers SET dni = :dni, first_name = :first_name, paternal_name = :paternal_name,
        maternal_name = :maternal_name, phone = :phone, email = :email, specialty = :specialty,
        campus_id = :campus_id, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return nil
}

// Deactivate marks a teacher inactive.
func (r *TeacherRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE teachers SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate teacher: %w", err)
	}
	return nil
}

// SecretaryRepository manages persistence for secretaries.
type SecretaryRepository struct {
	db *sqlx.DB
}

// NewSecretaryRepository constructs a SecretaryRepository.
func NewSecretaryRepository(db *sqlx.DB) *SecretaryRepository {
	return &SecretaryRepository{db: db}
}

// List returns secretaries, optionally filtered by campus.
func (r *SecretaryRepository) List(ctx context.Context, campusID string) ([]models.Secretary, error) {
	query := `SELECT id, dni, first_name, paternal_name, maternal_name, phone, email, campus_id, user_id, active, created_at, updated_at
        FROM secretaries WHERE active = true`
	var args []interface{}
	if campusID != "" {
		query += " AND campus_id = $1"
		args = append(args, campusID)
	}
	query += " ORDER BY paternal_name"
	var secretaries []models.Secretary
	if err := r.db.SelectContext(ctx, &secretaries, query, args...); err != nil {
		return nil, fmt.Errorf("list secretaries: %w", err)
	}
	return secretaries, nil
}

// FindByID returns a secretary by its ID.
func (r *SecretaryRepository) FindByID(ctx context.Context, id string) (*models.Secretary, error) {
	const query = `SELECT id, dni, first_name, paternal_name, maternal_name, phone, email, campus_id, user_id, active, created_at, updated_at
        FROM secretaries WHERE id = $1`
	var secretary models.Secretary
	if err := r.db.GetContext(ctx, &secretary, query, id); err != nil {
		return nil, err
	}
	return &secretary, nil
}

// FindByUserID resolves the secretary profile owning a credential.
func (r *SecretaryRepository) FindByUserID(ctx context.Context, userID string) (*models.Secretary, error) {
	const query = `SELECT id, dni, first_name, paternal_name, maternal_name, phone, email, campus_id, user_id, active, created_at, updated_at
        FROM secretaries WHERE user_id = $1`
	var secretary models.Secretary
	if err := r.db.GetContext(ctx, &secretary, query, userID); err != nil {
		return nil, err
	}
	return &secretary, nil
}

// Create persists a secretary together with its login credential in one
// transaction.
func (r *SecretaryRepository) Create(ctx context.Context, secretary *models.Secretary, user *models.User) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if user != nil {
			if err := insertUser(ctx, tx, user); err != nil {
				return err
			}
			secretary.UserID = &user.ID
		}
		if secretary.ID == "" {
			secretary.ID = uuid.NewString()
		}
		now := time.Now().UTC()
		secretary.CreatedAt = now
		secretary.UpdatedAt = now
		const query = `INSERT INTO secretaries (id, dni, first_name, paternal_name, maternal_name, phone, email, campus_id, user_id, active, created_at, updated_at)
            VALUES (:id, :dni, :first_name, :paternal_name, :maternal_name, :phone, :email, :campus_id, :user_id, :active, :created_at, :updated_at)`
		if _, err := sqlx.NamedExecContext(ctx, tx, query, secretary); err != nil {
			return fmt.Errorf("create secretary: %w", err)
		}
		return nil
	})
}

// Update modifies an existing secretary.
func (r *SecretaryRepository) Update(ctx context.Context, secretary *models.Secretary) error {
	secretary.UpdatedAt = time.Now().UTC()
	const query = `UPDATE secretaries SET dni = :dni, first_name = :first_name, paternal_name = :paternal_name,
        maternal_name = :maternal_name, phone = :phone, email = :email, campus_id = :campus_id,
        active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, secretary); err != nil {
		return fmt.Errorf("update secretary: %w", err)
	}
	return nil
}

// Deactivate marks a secretary inactive.
func (r *SecretaryRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE secretaries SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate secretary: %w", err)
	}
	return nil
}

// AdministratorRepository manages persistence for campus administrators.
type AdministratorRepository struct {
	db *sqlx.DB
}

// NewAdministratorRepository constructs an AdministratorRepository.
func NewAdministratorRepository(db *sqlx.DB) *AdministratorRepository {
	return &AdministratorRepository{db: db}
}

// FindByID returns an administrator by its ID.
func (r *AdministratorRepository) FindByID(ctx context.Context, id string) (*models.Administrator, error) {
	const query = `SELECT id, dni, first_name, paternal_name, maternal_name, phone, email, campus_id, user_id, active, created_at, updated_at
        FROM administrators WHERE id = $1`
	var admin models.Administrator
	if err := r.db.GetContext(ctx, &admin, query, id); err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByUserID resolves the administrator profile owning a credential.
func (r *AdministratorRepository) FindByUserID(ctx context.Context, userID string) (*models.Administrator, error) {
	const query = `SELECT id, dni, first_name, paternal_name, maternal_name, phone, email, campus_id, user_id, active, created_at, updated_at
        FROM administrators WHERE user_id = $1`
	var admin models.Administrator
	if err := r.db.GetContext(ctx, &admin, query, userID); err != nil {
		return nil, err
	}
	return &admin, nil
}

// ExistsActiveForCampus reports whether a campus already has an active
// administrator. At most one is allowed.
func (r *AdministratorRepository) ExistsActiveForCampus(ctx context.Context, campusID string) (bool, error) {
	const query = `SELECT 1 FROM administrators WHERE campus_id = $1 AND active = true LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, campusID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check campus administrator: %w", err)
	}
	return true, nil
}

// Create persists an administrator together with its login credential in
// one transaction.
func (r *AdministratorRepository) Create(ctx context.Context, admin *models.Administrator, user *models.User) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if user != nil {
			if err := insertUser(ctx, tx, user); err != nil {
				return err
			}
			admin.UserID = &user.ID
		}
		if admin.ID == "" {
			admin.ID = uuid.NewString()
		}
		now := time.Now().UTC()
		admin.CreatedAt = now
		admin.UpdatedAt = now
		const query = `INSERT INTO administrators (id, dni, first_name, paternal_name, maternal_name, phone, email, campus_id, user_id, active, created_at, updated_at)
            VALUES (:id, :dni, :first_name, :paternal_name, :maternal_name, :phone, :email, :campus_id, :user_id, :active, :created_at, :updated_at)`
		if _, err := sqlx.NamedExecContext(ctx, tx, query, admin); err != nil {
			return fmt.Errorf("create administrator: %w", err)
		}
		return nil
	})
}

// Deactivate marks an administrator inactive.
func (r *AdministratorRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE administrators SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate administrator: %w", err)
	}
	return nil
}
