package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siga-peru/academico-api/internal/models"
)

func TestStudentRepositoryFindByDNI(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "dni", "first_name", "paternal_name", "maternal_name", "sex", "age", "active", "address_line", "address_district"}).
		AddRow("student-1", "12345678", "Ana", "Pérez", "García", "F", 21, true, sql.NullString{String: "Av. Los Incas 123", Valid: true}, sql.NullString{String: "Miraflores", Valid: true})

	mock.ExpectQuery("SELECT").
		WithArgs("12345678").
		WillReturnRows(rows)

	detail, err := repo.FindByDNI(context.Background(), "12345678")
	require.NoError(t, err)
	assert.Equal(t, "student-1", detail.ID)
	assert.Equal(t, "Ana", detail.FirstName)
	require.NotNil(t, detail.AddressLine)
	assert.Equal(t, "Av. Los Incas 123", *detail.AddressLine)
}

func TestStudentRepositoryFindByDNINotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT").
		WithArgs("99999999").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByDNI(context.Background(), "99999999")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStudentRepositoryExistsByDNI(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE dni = $1 LIMIT 1")).
		WithArgs("12345678").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByDNI(context.Background(), "12345678", "")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE dni = $1 AND id <> $2 LIMIT 1")).
		WithArgs("12345678", "student-1").
		WillReturnError(sql.ErrNoRows)

	exists, err = repo.ExistsByDNI(context.Background(), "12345678", "student-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStudentRepositoryListClampsPagination(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "dni", "first_name", "paternal_name", "active"}).
		AddRow("student-1", "12345678", "Ana", "Pérez", true)

	mock.ExpectQuery("LIMIT 20 OFFSET 0").WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), models.StudentFilter{Page: -3, PageSize: 999})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
}

func TestStudentRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE students SET active = false")).
		WithArgs("student-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "student-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
