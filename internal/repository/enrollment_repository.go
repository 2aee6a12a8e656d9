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

// EnrollmentRepository handles persistence of enrollments and the
// multi-record registration transaction.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Register persists every record of a new registration inside one
// transaction. Inserts run in FK-dependency order (address, user, student,
// schedule, enrollment, payment); any failure rolls back the whole batch.
func (r *EnrollmentRepository) Register(ctx context.Context, reg *models.EnrollmentRegistration) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertAddress(ctx, tx, reg.Address); err != nil {
			return err
		}
		if reg.User != nil {
			if err := insertUser(ctx, tx, reg.User); err != nil {
				return err
			}
			reg.Student.UserID = &reg.User.ID
		}
		reg.Student.AddressID = reg.Address.ID
		if err := insertStudent(ctx, tx, reg.Student); err != nil {
			return err
		}
		if err := insertSchedule(ctx, tx, reg.Schedule); err != nil {
			return err
		}
		if reg.Payment != nil {
			if err := insertPayment(ctx, tx, reg.Payment); err != nil {
				return err
			}
			reg.Enrollment.PaymentID = &reg.Payment.ID
		}
		reg.Enrollment.StudentID = reg.Student.ID
		reg.Enrollment.ScheduleID = reg.Schedule.ID
		return insertEnrollment(ctx, tx, reg.Enrollment)
	})
}

// List returns enrollments filtered by the provided criteria.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	base := `FROM enrollments e
LEFT JOIN students s ON s.id = e.student_id
LEFT JOIN careers ca ON ca.id = e.career_id
LEFT JOIN campuses cp ON cp.id = e.campus_id`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.CareerID != "" {
		conditions = append(conditions, fmt.Sprintf("e.career_id = $%d", len(args)+1))
		args = append(args, filter.CareerID)
	}
	if filter.CampusID != "" {
		conditions = append(conditions, fmt.Sprintf("e.campus_id = $%d", len(args)+1))
		args = append(args, filter.CampusID)
	}
	if filter.Year > 0 {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM e.enrollment_date) = $%d", len(args)+1))
		args = append(args, filter.Year)
	}
	if filter.Month > 0 {
		conditions = append(conditions, fmt.Sprintf("EXTRACT(MONTH FROM e.enrollment_date) = $%d", len(args)+1))
		args = append(args, filter.Month)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"enrollment_date": "e.enrollment_date",
		"student_name":    "s.paternal_name",
		"career_name":     "ca.name",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "e.enrollment_date"
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

	query := fmt.Sprintf(`SELECT e.id, e.student_id, e.career_id, e.group_id, e.campus_id, e.secretary_id, e.schedule_id,
        e.payment_id, e.enrollment_date, e.start_date, e.active, e.created_at, e.updated_at,
        s.dni AS student_dni, s.first_name || ' ' || s.paternal_name AS student_name,
        ca.name AS career_name, cp.name AS campus_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, career_id, group_id, campus_id, secretary_id, schedule_id, payment_id,
        enrollment_date, start_date, active, created_at, updated_at FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindDetailByID returns the fully-populated enrollment aggregate.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	const query = `SELECT e.id, e.student_id, e.career_id, e.group_id, e.campus_id, e.secretary_id, e.schedule_id,
        e.payment_id, e.enrollment_date, e.start_date, e.active, e.created_at, e.updated_at,
        s.dni AS student_dni, s.first_name || ' ' || s.paternal_name AS student_name,
        ca.name AS career_name, cp.name AS campus_name
        FROM enrollments e
        LEFT JOIN students s ON s.id = e.student_id
        LEFT JOIN careers ca ON ca.id = e.career_id
        LEFT JOIN campuses cp ON cp.id = e.campus_id
        WHERE e.id = $1`
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}

	const scheduleQuery = `SELECT id, days, start_time, end_time, type, active FROM schedules WHERE id = $1`
	var schedule models.Schedule
	if err := r.db.GetContext(ctx, &schedule, scheduleQuery, detail.ScheduleID); err == nil {
		detail.Schedule = &schedule
	}

	if detail.PaymentID != nil {
		const paymentQuery = `SELECT id, receipt_number, payment_method_id, amount, paid_date, paid_time, receipt_image_url, created_at
            FROM payments WHERE id = $1`
		var payment models.Payment
		if err := r.db.GetContext(ctx, &payment, paymentQuery, *detail.PaymentID); err == nil {
			detail.Payment = &payment
		}
	}

	return &detail, nil
}

// CountActiveByGroup returns the number of active enrollments for a group.
func (r *EnrollmentRepository) CountActiveByGroup(ctx context.Context, groupID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE group_id = $1 AND active = true`
	var count int
	if err := r.db.GetContext(ctx, &count, query, groupID); err != nil {
		return 0, fmt.Errorf("count group enrollments: %w", err)
	}
	return count, nil
}

// UpdateDates adjusts the enrollment and start dates.
func (r *EnrollmentRepository) UpdateDates(ctx context.Context, id string, enrollmentDate, startDate time.Time) error {
	const query = `UPDATE enrollments SET enrollment_date = $2, start_date = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, enrollmentDate, startDate, time.Now().UTC()); err != nil {
		return fmt.Errorf("update enrollment dates: %w", err)
	}
	return nil
}

// Deactivate marks an enrollment inactive. Rows are never removed.
func (r *EnrollmentRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE enrollments SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate enrollment: %w", err)
	}
	return nil
}

// insertEnrollment persists an enrollment within the caller's transaction scope.
func insertEnrollment(ctx context.Context, ext sqlx.ExtContext, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = now
	}
	enrollment.UpdatedAt = now
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = now
	}
	const query = `INSERT INTO enrollments (id, student_id, career_id, group_id, campus_id, secretary_id, schedule_id,
        payment_id, enrollment_date, start_date, active, created_at, updated_at)
        VALUES (:id, :student_id, :career_id, :group_id, :campus_id, :secretary_id, :schedule_id,
        :payment_id, :enrollment_date, :start_date, :active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}
