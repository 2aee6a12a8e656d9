package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siga-peru/academico-api/internal/models"
)

// GroupRepository manages persistence for groups.
type GroupRepository struct {
	db *sqlx.DB
}

// NewGroupRepository constructs a GroupRepository.
func NewGroupRepository(db *sqlx.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// List returns groups with contextual names and the current enrolled count.
func (r *GroupRepository) List(ctx context.Context, filter models.GroupFilter) ([]models.GroupDetail, int, error) {
	base := `FROM groups g
LEFT JOIN careers ca ON ca.id = g.career_id
LEFT JOIN campuses cp ON cp.id = g.campus_id
LEFT JOIN career_modules m ON m.id = g.module_id
LEFT JOIN teachers t ON t.id = g.teacher_id`
	conditions := []string{"g.active = true"}
	var args []interface{}

	if filter.CareerID != "" {
		conditions = append(conditions, fmt.Sprintf("g.career_id = $%d", len(args)+1))
		args = append(args, filter.CareerID)
	}
	if filter.CampusID != "" {
		conditions = append(conditions, fmt.Sprintf("g.campus_id = $%d", len(args)+1))
		args = append(args, filter.CampusID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("g.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	clause := " WHERE " + strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT g.id, g.career_id, g.campus_id, g.module_id, g.teacher_id, g.max_slots, g.status,
        g.start_date, g.active, g.created_at, g.updated_at,
        ca.name AS career_name, cp.name AS campus_name, m.name AS module_name,
        t.first_name || ' ' || t.paternal_name AS teacher_name,
        (SELECT COUNT(*) FROM enrollments e WHERE e.group_id = g.id AND e.active = true) AS enrolled
        %s ORDER BY g.start_date DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var groups []models.GroupDetail
	if err := r.db.SelectContext(ctx, &groups, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list groups: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count groups: %w", err)
	}
	return groups, total, nil
}

// FindByID returns a group by its ID.
func (r *GroupRepository) FindByID(ctx context.Context, id string) (*models.Group, error) {
	const query = `SELECT id, career_id, campus_id, module_id, teacher_id, max_slots, status, start_date, active, created_at, updated_at
        FROM groups WHERE id = $1`
	var group models.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}
	return &group, nil
}

// Create persists a new group.
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now
	if group.Status == "" {
		group.Status = models.GroupStatusOpen
	}
	const query = `INSERT INTO groups (id, career_id, campus_id, module_id, teacher_id, max_slots, status, start_date, active, created_at, updated_at)
        VALUES (:id, :career_id, :campus_id, :module_id, :teacher_id, :max_slots, :status, :start_date, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

// Update modifies an existing group.
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	group.UpdatedAt = time.Now().UTC()
	const query = `UPDATE groups SET career_id = :career_id, campus_id = :campus_id, module_id = :module_id,
        teacher_id = :teacher_id, max_slots = :max_slots, status = :status, start_date = :start_date,
        active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, group); err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	return nil
}

// UpdateStatus changes only the open/closed status.
func (r *GroupRepository) UpdateStatus(ctx context.Context, id string, status models.GroupStatus) error {
	const query = `UPDATE groups SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update group status: %w", err)
	}
	return nil
}

// Deactivate marks a group inactive.
func (r *GroupRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE groups SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate group: %w", err)
	}
	return nil
}
