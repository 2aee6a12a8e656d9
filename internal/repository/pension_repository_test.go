package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siga-peru/academico-api/internal/models"
)

func TestPensionRepositoryGenerateRollsOverYear(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPensionRepository(db)

	mock.ExpectBegin()
	for i := 0; i < 4; i++ {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pensions")).WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	pensions, err := repo.GenerateForEnrollment(context.Background(), "enr-1", 11, 2026, 4, 120)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	require.Len(t, pensions, 4)

	assert.Equal(t, 11, pensions[0].DueMonth)
	assert.Equal(t, 2026, pensions[0].DueYear)
	assert.Equal(t, 12, pensions[1].DueMonth)
	assert.Equal(t, 1, pensions[2].DueMonth)
	assert.Equal(t, 2027, pensions[2].DueYear)
	assert.Equal(t, 2, pensions[3].DueMonth)
	for _, p := range pensions {
		assert.Equal(t, models.PensionStatusPending, p.Status)
		assert.Equal(t, 120.0, p.Amount)
	}
}

func TestPensionRepositoryGenerateRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPensionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pensions")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pensions")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := repo.GenerateForEnrollment(context.Background(), "enr-1", 3, 2026, 2, 120)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPensionRepositorySettle(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPensionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pensions SET status = $2, payment_id = $3")).
		WithArgs("pension-1", models.PensionStatusPaid, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment := &models.Payment{ReceiptNumber: "R-044", PaymentMethodID: "method-1", Amount: 120, PaidDate: "2026-04-02", PaidTime: "09:15"}
	err := repo.Settle(context.Background(), "pension-1", payment)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.NotEmpty(t, payment.ID)
}

func TestPensionRepositoryListByDNI(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPensionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "enrollment_id", "due_month", "due_year", "amount", "status", "student_dni", "student_name", "career_name"}).
		AddRow("pension-1", "enr-1", 3, 2026, 120.0, "PENDING", "12345678", "Ana Pérez", "Computación")

	mock.ExpectQuery("SELECT").
		WithArgs("12345678", 2026).
		WillReturnRows(rows)

	items, err := repo.List(context.Background(), models.PensionFilter{DNI: "12345678", Year: 2026})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.PensionStatusPending, items[0].Status)
	assert.Equal(t, "Ana Pérez", items[0].StudentName)
}
