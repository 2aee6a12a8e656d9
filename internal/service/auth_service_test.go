package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/siga-peru/academico-api/internal/models"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
)

type mockUserRepo struct {
	users       map[string]*models.User
	lastLogin   map[string]time.Time
	passwords   map[string]string
	deactivated []string
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if m.lastLogin == nil {
		m.lastLogin = make(map[string]time.Time)
	}
	m.lastLogin[id] = ts
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if m.passwords == nil {
		m.passwords = make(map[string]string)
	}
	m.passwords[id] = passwordHash
	return nil
}

func (m *mockUserRepo) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	return nil
}

type mockStudentProfiles struct{}

func (m *mockStudentProfiles) FindByUserID(ctx context.Context, userID string) (*models.StudentDetail, error) {
	return &models.StudentDetail{Student: models.Student{ID: "student-1", DNI: "12345678", FirstName: "Ana"}}, nil
}

type mockTeacherProfiles struct{}

func (m *mockTeacherProfiles) FindByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	return nil, sql.ErrNoRows
}

type mockSecretaryProfiles struct{}

func (m *mockSecretaryProfiles) FindByUserID(ctx context.Context, userID string) (*models.Secretary, error) {
	return &models.Secretary{ID: "secretary-1"}, nil
}

type mockAdminProfiles struct{}

func (m *mockAdminProfiles) FindByUserID(ctx context.Context, userID string) (*models.Administrator, error) {
	return &models.Administrator{ID: "admin-1"}, nil
}

func newAuthService(users *mockUserRepo) *AuthService {
	return NewAuthService(users, &mockStudentProfiles{}, &mockTeacherProfiles{}, &mockSecretaryProfiles{}, &mockAdminProfiles{}, nil, nil, AuthConfig{
		Secret: "test-secret",
		Expiry: time.Hour,
		Issuer: "academico-api",
	})
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthServiceLogin(t *testing.T) {
	users := &mockUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1", Username: "12345678", PasswordHash: hashOf(t, "12345678"), Role: models.RoleStudent, MustChangePassword: true, Active: true},
	}}
	svc := newAuthService(users)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "12345678", Password: "12345678"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.True(t, resp.MustChangePassword)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	require.NotNil(t, resp.Profile)

	student, ok := resp.Profile.(*models.StudentDetail)
	require.True(t, ok)
	assert.Equal(t, "12345678", student.DNI)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)

	assert.Contains(t, users.lastLogin, "user-1")
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	users := &mockUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1", Username: "12345678", PasswordHash: hashOf(t, "12345678"), Role: models.RoleStudent, Active: true},
	}}
	svc := newAuthService(users)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "12345678", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc := newAuthService(&mockUserRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "99999999", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	users := &mockUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1", Username: "12345678", PasswordHash: hashOf(t, "12345678"), Role: models.RoleStudent, Active: false},
	}}
	svc := newAuthService(users)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "12345678", Password: "12345678"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginTeacherWithoutProfile(t *testing.T) {
	users := &mockUserRepo{users: map[string]*models.User{
		"user-2": {ID: "user-2", Username: "87654321", PasswordHash: hashOf(t, "87654321"), Role: models.RoleTeacher, Active: true},
	}}
	svc := newAuthService(users)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "87654321", Password: "87654321"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceChangePassword(t *testing.T) {
	users := &mockUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1", Username: "12345678", PasswordHash: hashOf(t, "12345678"), Role: models.RoleStudent, Active: true},
	}}
	svc := newAuthService(users)

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "12345678",
		NewPassword: "s3cret-new",
	})
	require.NoError(t, err)

	newHash := users.passwords["user-1"]
	require.NotEmpty(t, newHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("s3cret-new")))
}

func TestAuthServiceChangePasswordWrongOld(t *testing.T) {
	users := &mockUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1", Username: "12345678", PasswordHash: hashOf(t, "12345678"), Role: models.RoleStudent, Active: true},
	}}
	svc := newAuthService(users)

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "nope",
		NewPassword: "s3cret-new",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, users.passwords)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	users := &mockUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1", Username: "12345678", PasswordHash: hashOf(t, "12345678"), Role: models.RoleStudent, Active: true},
	}}
	svc := newAuthService(users)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "12345678", Password: "12345678"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken + "x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
