package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siga-peru/academico-api/internal/models"
)

// SpecializationRepository handles specializations and their enrollments.
type SpecializationRepository struct {
	db *sqlx.DB
}

// NewSpecializationRepository constructs the repository.
func NewSpecializationRepository(db *sqlx.DB) *SpecializationRepository {
	return &SpecializationRepository{db: db}
}

// List returns active specializations.
func (r *SpecializationRepository) List(ctx context.Context) ([]models.Specialization, error) {
	const query = `SELECT id, name, description, duration, active, created_at, updated_at
        FROM specializations WHERE active = true ORDER BY name`
	var specs []models.Specialization
	if err := r.db.SelectContext(ctx, &specs, query); err != nil {
		return nil, fmt.Errorf("list specializations: %w", err)
	}
	return specs, nil
}

// FindByID returns a specialization by its ID.
func (r *SpecializationRepository) FindByID(ctx context.Context, id string) (*models.Specialization, error) {
	const query = `SELECT id, name, description, duration, active, created_at, updated_at
        FROM specializations WHERE id = $1`
	var spec models.Specialization
	if err := r.db.GetContext(ctx, &spec, query, id); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Create persists a new specialization.
func (r *SpecializationRepository) Create(ctx context.Context, spec *models.Specialization) error {
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	spec.CreatedAt = now
	spec.UpdatedAt = now
	const query = `INSERT INTO specializations (id, name, description, duration, active, created_at, updated_at)
        VALUES (:id, :name, :description, :duration, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, spec); err != nil {
		return fmt.Errorf("create specialization: %w", err)
	}
	return nil
}

// Update modifies an existing specialization.
func (r *SpecializationRepository) Update(ctx context.Context, spec *models.Specialization) error {
	spec.UpdatedAt = time.Now().UTC()
	const query = `UPDATE specializations SET name = :name, description = :description, duration = :duration,
        active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, spec); err != nil {
		return fmt.Errorf("update specialization: %w", err)
	}
	return nil
}

// Deactivate marks a specialization inactive.
func (r *SpecializationRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE specializations SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate specialization: %w", err)
	}
	return nil
}

// Register persists a specialization registration inside one transaction.
// When the student is new the address, user and student records are
// inserted first; an existing student keeps its records untouched.
func (r *SpecializationRepository) Register(ctx context.Context, reg *models.SpecializationRegistration) error {
	return runInTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if reg.Student != nil {
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
			reg.Enrollment.StudentID = reg.Student.ID
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
		reg.Enrollment.ScheduleID = reg.Schedule.ID
		return insertSpecializationEnrollment(ctx, tx, reg.Enrollment)
	})
}

// ListEnrollments returns specialization enrollments, optionally scoped
// to a specialization or campus.
func (r *SpecializationRepository) ListEnrollments(ctx context.Context, specializationID, campusID string) ([]models.SpecializationEnrollmentDetail, error) {
	query := `SELECT se.id, se.student_id, se.specialization_id, se.campus_id, se.secretary_id, se.teacher_id,
        se.schedule_id, se.payment_id, se.enrollment_date, se.start_date, se.active, se.created_at, se.updated_at,
        st.dni AS student_dni, st.first_name || ' ' || st.paternal_name AS student_name,
        sp.name AS specialization_name, cp.name AS campus_name
        FROM specialization_enrollments se
        LEFT JOIN students st ON st.id = se.student_id
        LEFT JOIN specializations sp ON sp.id = se.specialization_id
        LEFT JOIN campuses cp ON cp.id = se.campus_id
        WHERE se.active = true`
	var args []interface{}
	if specializationID != "" {
		args = append(args, specializationID)
		query += fmt.Sprintf(" AND se.specialization_id = $%d", len(args))
	}
	if campusID != "" {
		args = append(args, campusID)
		query += fmt.Sprintf(" AND se.campus_id = $%d", len(args))
	}
	query += " ORDER BY se.enrollment_date DESC"

	var enrollments []models.SpecializationEnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, fmt.Errorf("list specialization enrollments: %w", err)
	}
	return enrollments, nil
}

// FindEnrollmentDetail returns a specialization enrollment aggregate.
func (r *SpecializationRepository) FindEnrollmentDetail(ctx context.Context, id string) (*models.SpecializationEnrollmentDetail, error) {
	const query = `SELECT se.id, se.student_id, se.specialization_id, se.campus_id, se.secretary_id, se.teacher_id,
        se.schedule_id, se.payment_id, se.enrollment_date, se.start_date, se.active, se.created_at, se.updated_at,
        st.dni AS student_dni, st.first_name || ' ' || st.paternal_name AS student_name,
        sp.name AS specialization_name, cp.name AS campus_name
        FROM specialization_enrollments se
        LEFT JOIN students st ON st.id = se.student_id
        LEFT JOIN specializations sp ON sp.id = se.specialization_id
        LEFT JOIN campuses cp ON cp.id = se.campus_id
        WHERE se.id = $1`
	var detail models.SpecializationEnrollmentDetail
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

// AssignTeacher sets the teacher in charge of a specialization enrollment.
func (r *SpecializationRepository) AssignTeacher(ctx context.Context, enrollmentID, teacherID string) error {
	const query = `UPDATE specialization_enrollments SET teacher_id = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, enrollmentID, teacherID, time.Now().UTC()); err != nil {
		return fmt.Errorf("assign specialization teacher: %w", err)
	}
	return nil
}

// DeactivateEnrollment marks a specialization enrollment inactive.
func (r *SpecializationRepository) DeactivateEnrollment(ctx context.Context, id string) error {
	const query = `UPDATE specialization_enrollments SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate specialization enrollment: %w", err)
	}
	return nil
}

func insertSpecializationEnrollment(ctx context.Context, ext sqlx.ExtContext, enrollment *models.SpecializationEnrollment) error {
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
	const query = `INSERT INTO specialization_enrollments (id, student_id, specialization_id, campus_id, secretary_id,
        teacher_id, schedule_id, payment_id, enrollment_date, start_date, active, created_at, updated_at)
        VALUES (:id, :student_id, :specialization_id, :campus_id, :secretary_id,
        :teacher_id, :schedule_id, :payment_id, :enrollment_date, :start_date, :active, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, enrollment); err != nil {
		return fmt.Errorf("create specialization enrollment: %w", err)
	}
	return nil
}
