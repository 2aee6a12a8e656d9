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

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentSelect = `SELECT s.id, s.dni, s.first_name, s.paternal_name, s.maternal_name, s.sex, s.age, s.phone, s.email,
        s.education_level, s.address_id, s.user_id, s.active, s.created_at, s.updated_at,
        a.line AS address_line, a.district AS address_district, a.province AS address_province, a.department AS address_department
        FROM students s
        LEFT JOIN addresses a ON a.id = s.address_id`

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := "FROM students s LEFT JOIN addresses a ON a.id = s.address_id"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.CampusID != "" {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM enrollments e WHERE e.student_id = s.id AND e.campus_id = $%d)", len(args)+1))
		args = append(args, filter.CampusID)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("s.active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		cond := fmt.Sprintf("(LOWER(s.first_name) LIKE $%d OR LOWER(s.paternal_name) LIKE $%d OR s.dni LIKE $%d)", len(args)+1, len(args)+1, len(args)+1)
		conditions = append(conditions, cond)
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"dni":           "s.dni",
		"paternal_name": "s.paternal_name",
		"created_at":    "s.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "s.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT s.id, s.dni, s.first_name, s.paternal_name, s.maternal_name, s.sex, s.age, s.phone, s.email,
        s.education_level, s.address_id, s.user_id, s.active, s.created_at, s.updated_at,
        a.line AS address_line, a.district AS address_district, a.province AS address_province, a.department AS address_department
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student detail by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	query := studentSelect + " WHERE s.id = $1"
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByDNI fetches a student detail by document number.
func (r *StudentRepository) FindByDNI(ctx context.Context, dni string) (*models.StudentDetail, error) {
	query := studentSelect + " WHERE s.dni = $1"
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, dni); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByUserID resolves the student profile owning a credential.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error) {
	query := studentSelect + " WHERE s.user_id = $1"
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, userID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByDNI checks if a student with the given DNI exists, optionally
// excluding an ID.
func (r *StudentRepository) ExistsByDNI(ctx context.Context, dni string, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE dni = $1"
	args := []interface{}{dni}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check dni: %w", err)
	}
	return true, nil
}

// Update modifies an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET dni = :dni, first_name = :first_name, paternal_name = :paternal_name,
        maternal_name = :maternal_name, sex = :sex, age = :age, phone = :phone, email = :email,
        education_level = :education_level, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// UpdateAddress rewrites the address record owned by a student.
func (r *StudentRepository) UpdateAddress(ctx context.Context, address *models.Address) error {
	const query = `UPDATE addresses SET line = :line, district = :district, province = :province, department = :department WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, address); err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	return nil
}

// Deactivate marks a student as inactive. Repeated calls rewrite the flag
// and succeed.
func (r *StudentRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE students SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate student: %w", err)
	}
	return nil
}

// insertAddress persists an address within the caller's transaction scope.
func insertAddress(ctx context.Context, ext sqlx.ExtContext, address *models.Address) error {
	if address.ID == "" {
		address.ID = uuid.NewString()
	}
	const query = `INSERT INTO addresses (id, line, district, province, department)
        VALUES (:id, :line, :district, :province, :department)`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, address); err != nil {
		return fmt.Errorf("create address: %w", err)
	}
	return nil
}

// insertStudent persists a student within the caller's transaction scope.
func insertStudent(ctx context.Context, ext sqlx.ExtContext, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, dni, first_name, paternal_name, maternal_name, sex, age, phone, email,
        education_level, address_id, user_id, active, created_at, updated_at)
        VALUES (:id, :dni, :first_name, :paternal_name, :maternal_name, :sex, :age, :phone, :email,
        :education_level, :address_id, :user_id, :active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}
