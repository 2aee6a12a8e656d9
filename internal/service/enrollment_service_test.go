package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/siga-peru/academico-api/internal/models"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	registered  *models.EnrollmentRegistration
	registerErr error
	details     map[string]models.EnrollmentDetail
	enrollments map[string]models.Enrollment
	groupCounts map[string]int
	deactivated []string
}

func (m *mockEnrollmentRepo) Register(ctx context.Context, reg *models.EnrollmentRegistration) error {
	if m.registerErr != nil {
		return m.registerErr
	}
	reg.Enrollment.ID = "enr-1"
	m.registered = reg
	if m.details == nil {
		m.details = make(map[string]models.EnrollmentDetail)
	}
	m.details["enr-1"] = models.EnrollmentDetail{
		Enrollment:  *reg.Enrollment,
		StudentDNI:  reg.Student.DNI,
		StudentName: reg.Student.FirstName + " " + reg.Student.PaternalName,
	}
	return nil
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	return nil, 0, nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	if d, ok := m.details[id]; ok {
		return &d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) CountActiveByGroup(ctx context.Context, groupID string) (int, error) {
	return m.groupCounts[groupID], nil
}

func (m *mockEnrollmentRepo) UpdateDates(ctx context.Context, id string, enrollmentDate, startDate time.Time) error {
	return nil
}

func (m *mockEnrollmentRepo) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	return nil
}

type mockStudentChecker struct {
	existing map[string]bool
}

func (m *mockStudentChecker) ExistsByDNI(ctx context.Context, dni string, excludeID string) (bool, error) {
	return m.existing[dni], nil
}

type mockCareerReader struct{}

func (m *mockCareerReader) FindByID(ctx context.Context, id string) (*models.Career, error) {
	if id == "missing" {
		return nil, sql.ErrNoRows
	}
	return &models.Career{ID: id, Name: "Computación"}, nil
}

type mockCampusReader struct{}

func (m *mockCampusReader) FindByID(ctx context.Context, id string) (*models.CampusDetail, error) {
	if id == "missing" {
		return nil, sql.ErrNoRows
	}
	return &models.CampusDetail{Campus: models.Campus{ID: id, Name: "Sede Lima"}}, nil
}

type mockSecretaryReader struct{}

func (m *mockSecretaryReader) FindByID(ctx context.Context, id string) (*models.Secretary, error) {
	if id == "missing" {
		return nil, sql.ErrNoRows
	}
	return &models.Secretary{ID: id}, nil
}

type mockGroupReader struct {
	groups map[string]models.Group
}

func (m *mockGroupReader) FindByID(ctx context.Context, id string) (*models.Group, error) {
	if g, ok := m.groups[id]; ok {
		return &g, nil
	}
	return nil, sql.ErrNoRows
}

func newEnrollmentService(repo *mockEnrollmentRepo, students *mockStudentChecker, groups *mockGroupReader) *EnrollmentService {
	if students == nil {
		students = &mockStudentChecker{}
	}
	if groups == nil {
		groups = &mockGroupReader{}
	}
	return NewEnrollmentService(repo, students, &mockCareerReader{}, &mockCampusReader{}, &mockSecretaryReader{}, groups, nil, nil)
}

func validRegistration() models.RegisterEnrollmentRequest {
	return models.RegisterEnrollmentRequest{
		Student: models.StudentInput{
			DNI:          "12345678",
			FirstName:    "Ana",
			PaternalName: "Pérez",
			Sex:          "F",
			Age:          21,
		},
		Address: models.AddressInput{
			Line:       "Av. Los Incas 123",
			District:   "Miraflores",
			Province:   "Lima",
			Department: "Lima",
		},
		CareerID:    "career-1",
		CampusID:    "campus-1",
		SecretaryID: "secretary-1",
		Schedule: models.ScheduleInput{
			Days:      []string{"MON", "WED", "FRI"},
			StartTime: "18:00",
			EndTime:   "21:00",
		},
	}
}

func TestEnrollmentServiceRegister(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, nil, nil)

	detail, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	require.NotNil(t, repo.registered)

	assert.Equal(t, "12345678", detail.StudentDNI)
	assert.Equal(t, "Ana Pérez", detail.StudentName)

	user := repo.registered.User
	require.NotNil(t, user)
	assert.Equal(t, "12345678", user.Username)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.True(t, user.MustChangePassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("12345678")))

	assert.Equal(t, "MON,WED,FRI", repo.registered.Schedule.Days)
	assert.Equal(t, models.ScheduleTypeRegular, repo.registered.Schedule.Type)
	assert.Nil(t, repo.registered.Payment)
}

func TestEnrollmentServiceRegisterWithPayment(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, nil, nil)

	req := validRegistration()
	req.Payment = &models.PaymentInput{
		ReceiptNumber:   "R-001",
		PaymentMethodID: "method-1",
		Amount:          150,
		PaidDate:        "2026-03-01",
		PaidTime:        "10:30",
	}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, repo.registered.Payment)
	assert.Equal(t, "R-001", repo.registered.Payment.ReceiptNumber)
	assert.Equal(t, 150.0, repo.registered.Payment.Amount)
}

func TestEnrollmentServiceRegisterDuplicateDNI(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, &mockStudentChecker{existing: map[string]bool{"12345678": true}}, nil)

	_, err := svc.Register(context.Background(), validRegistration())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrAlreadyExists.Code, appErr.Code)
	assert.Nil(t, repo.registered)
}

func TestEnrollmentServiceRegisterMissingCareer(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, nil, nil)

	req := validRegistration()
	req.CareerID = "missing"

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Nil(t, repo.registered)
}

func TestEnrollmentServiceRegisterInvalidPayload(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, nil, nil)

	req := validRegistration()
	req.Student.DNI = "123"

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Nil(t, repo.registered)
}

func TestEnrollmentServiceRegisterGroupFull(t *testing.T) {
	groupID := "group-1"
	repo := &mockEnrollmentRepo{groupCounts: map[string]int{groupID: 20}}
	groups := &mockGroupReader{groups: map[string]models.Group{
		groupID: {ID: groupID, MaxSlots: 20, Status: models.GroupStatusOpen},
	}}
	svc := newEnrollmentService(repo, nil, groups)

	req := validRegistration()
	req.GroupID = &groupID

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Nil(t, repo.registered)
}

func TestEnrollmentServiceRegisterGroupClosed(t *testing.T) {
	groupID := "group-1"
	repo := &mockEnrollmentRepo{}
	groups := &mockGroupReader{groups: map[string]models.Group{
		groupID: {ID: groupID, MaxSlots: 20, Status: models.GroupStatusClosed},
	}}
	svc := newEnrollmentService(repo, nil, groups)

	req := validRegistration()
	req.GroupID = &groupID

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestEnrollmentServiceRegisterRepositoryFailure(t *testing.T) {
	repo := &mockEnrollmentRepo{registerErr: errors.New("tx aborted")}
	svc := newEnrollmentService(repo, nil, nil)

	_, err := svc.Register(context.Background(), validRegistration())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}

func TestEnrollmentServiceDeactivateNotFound(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, nil, nil)

	err := svc.Deactivate(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestEnrollmentServiceDeactivate(t *testing.T) {
	repo := &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"enr-1": {ID: "enr-1", Active: false},
	}}
	svc := newEnrollmentService(repo, nil, nil)

	require.NoError(t, svc.Deactivate(context.Background(), "enr-1"))
	assert.Equal(t, []string{"enr-1"}, repo.deactivated)
}
