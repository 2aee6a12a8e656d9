package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siga-peru/academico-api/internal/models"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
)

type enrollmentServiceMock struct {
	registerResp   *models.EnrollmentDetail
	registerErr    error
	listResp       []models.EnrollmentDetail
	listErr        error
	lastFilter     models.EnrollmentFilter
	lastRequest    models.RegisterEnrollmentRequest
	registerCalled bool
	listCalled     bool
}

func (m *enrollmentServiceMock) Register(ctx context.Context, req models.RegisterEnrollmentRequest) (*models.EnrollmentDetail, error) {
	m.registerCalled = true
	m.lastRequest = req
	return m.registerResp, m.registerErr
}

func (m *enrollmentServiceMock) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	m.listCalled = true
	m.lastFilter = filter
	return m.listResp, &models.Pagination{Page: 1, PageSize: 20}, m.listErr
}

func (m *enrollmentServiceMock) Get(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	if m.registerResp != nil {
		return m.registerResp, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
}

func (m *enrollmentServiceMock) UpdateDates(ctx context.Context, id string, enrollmentDate, startDate time.Time) error {
	return nil
}

func (m *enrollmentServiceMock) Deactivate(ctx context.Context, id string) error {
	return nil
}

func registrationPayload() models.RegisterEnrollmentRequest {
	return models.RegisterEnrollmentRequest{
		Student: models.StudentInput{
			DNI:          "12345678",
			FirstName:    "Ana",
			PaternalName: "Pérez",
			Sex:          "F",
			Age:          21,
		},
		Address: models.AddressInput{
			Line:       "Av. Los Olivos 123",
			District:   "Cercado",
			Province:   "Arequipa",
			Department: "Arequipa",
		},
		CareerID:    "career-1",
		CampusID:    "campus-1",
		SecretaryID: "secretary-1",
		Schedule: models.ScheduleInput{
			Days:      []string{"MON", "WED"},
			StartTime: "18:00",
			EndTime:   "20:00",
		},
	}
}

func TestEnrollmentHandlerRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &enrollmentServiceMock{
		registerResp: &models.EnrollmentDetail{
			Enrollment: models.Enrollment{ID: "enrollment-1", StudentID: "student-1"},
			StudentDNI: "12345678",
		},
	}
	h := NewEnrollmentHandler(mockSvc, nil)

	payload, _ := json.Marshal(registrationPayload())
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Register(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, mockSvc.registerCalled)
	assert.Equal(t, "12345678", mockSvc.lastRequest.Student.DNI)
}

func TestEnrollmentHandlerRegisterInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &enrollmentServiceMock{}
	h := NewEnrollmentHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewBufferString(`{"student":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Register(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.registerCalled)
}

func TestEnrollmentHandlerRegisterConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &enrollmentServiceMock{
		registerErr: appErrors.Clone(appErrors.ErrAlreadyExists, "a student with this DNI is already registered"),
	}
	h := NewEnrollmentHandler(mockSvc, nil)

	payload, _ := json.Marshal(registrationPayload())
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Register(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestEnrollmentHandlerListParsesFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &enrollmentServiceMock{}
	h := NewEnrollmentHandler(mockSvc, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/enrollments?year=2026&month=3&campusId=campus-1&page=2", nil)
	c.Request = req

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.listCalled)
	assert.Equal(t, 2026, mockSvc.lastFilter.Year)
	assert.Equal(t, 3, mockSvc.lastFilter.Month)
	assert.Equal(t, "campus-1", mockSvc.lastFilter.CampusID)
	assert.Equal(t, 2, mockSvc.lastFilter.Page)
}
