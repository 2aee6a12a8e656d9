package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siga-peru/academico-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func sampleRegistration() *models.EnrollmentRegistration {
	return &models.EnrollmentRegistration{
		Address: &models.Address{Line: "Av. Los Incas 123", District: "Miraflores", Province: "Lima", Department: "Lima"},
		User:    &models.User{Username: "12345678", PasswordHash: "hash", Role: models.RoleStudent, MustChangePassword: true, Active: true},
		Student: &models.Student{
			DNI:          "12345678",
			FirstName:    "Ana",
			PaternalName: "Pérez",
			Sex:          "F",
			Age:          21,
			Active:       true,
		},
		Schedule: &models.Schedule{Days: "MON,WED,FRI", StartTime: "18:00", EndTime: "21:00", Type: models.ScheduleTypeRegular, Active: true},
		Enrollment: &models.Enrollment{
			CareerID:    "career-1",
			CampusID:    "campus-1",
			SecretaryID: "secretary-1",
			Active:      true,
		},
		Payment: &models.Payment{ReceiptNumber: "R-001", PaymentMethodID: "method-1", Amount: 150, PaidDate: "2026-03-01", PaidTime: "10:30"},
	}
}

func TestEnrollmentRepositoryRegister(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO addresses")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedules")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	reg := sampleRegistration()
	err := repo.Register(context.Background(), reg)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, reg.Address.ID, reg.Student.AddressID)
	require.NotNil(t, reg.Student.UserID)
	assert.Equal(t, reg.User.ID, *reg.Student.UserID)
	assert.Equal(t, reg.Student.ID, reg.Enrollment.StudentID)
	assert.Equal(t, reg.Schedule.ID, reg.Enrollment.ScheduleID)
	require.NotNil(t, reg.Enrollment.PaymentID)
	assert.Equal(t, reg.Payment.ID, *reg.Enrollment.PaymentID)
	assert.False(t, reg.Enrollment.EnrollmentDate.IsZero())
}

func TestEnrollmentRepositoryRegisterWithoutPayment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO addresses")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedules")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	reg := sampleRegistration()
	reg.Payment = nil
	err := repo.Register(context.Background(), reg)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Nil(t, reg.Enrollment.PaymentID)
}

func TestEnrollmentRepositoryRegisterRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO addresses")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedules")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).WillReturnError(errors.New("duplicate receipt"))
	mock.ExpectRollback()

	reg := sampleRegistration()
	err := repo.Register(context.Background(), reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate receipt")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCountActiveByGroup(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"count"}).AddRow(17)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM enrollments WHERE group_id = $1 AND active = true")).
		WithArgs("group-1").
		WillReturnRows(rows)

	count, err := repo.CountActiveByGroup(context.Background(), "group-1")
	require.NoError(t, err)
	assert.Equal(t, 17, count)
}

func TestEnrollmentRepositoryListFiltersByPeriod(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "career_id", "campus_id", "secretary_id", "schedule_id", "student_dni", "student_name", "career_name", "campus_name"}).
		AddRow("enr-1", "student-1", "career-1", "campus-1", "secretary-1", "schedule-1", "12345678", "Ana Pérez", "Computación", "Sede Lima")

	mock.ExpectQuery("SELECT").
		WithArgs(2026, 3).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(2026, 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), models.EnrollmentFilter{Year: 2026, Month: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "12345678", items[0].StudentDNI)
	assert.Equal(t, "Computación", items[0].CareerName)
}
