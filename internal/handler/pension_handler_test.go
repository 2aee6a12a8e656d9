package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siga-peru/academico-api/internal/models"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
)

type pensionServiceMock struct {
	generateResp []models.Pension
	generateErr  error
	listResp     []models.PensionDetail
	listErr      error
	payResp      *models.Pension
	payErr       error
	lastFilter   models.PensionFilter
	payCalled    bool
}

func (m *pensionServiceMock) Generate(ctx context.Context, req models.GeneratePensionsRequest) ([]models.Pension, error) {
	return m.generateResp, m.generateErr
}

func (m *pensionServiceMock) List(ctx context.Context, filter models.PensionFilter) ([]models.PensionDetail, error) {
	m.lastFilter = filter
	return m.listResp, m.listErr
}

func (m *pensionServiceMock) Pay(ctx context.Context, req models.PayPensionRequest) (*models.Pension, error) {
	m.payCalled = true
	return m.payResp, m.payErr
}

func TestPensionHandlerListByDNI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &pensionServiceMock{
		listResp: []models.PensionDetail{{Pension: models.Pension{ID: "pension-1", DueMonth: 3, DueYear: 2026}}},
	}
	h := NewPensionHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/pensions/12345678?year=2026&month=3&status=PENDING", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "dni", Value: "12345678"}}

	h.ListByDNI(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345678", mockSvc.lastFilter.DNI)
	assert.Equal(t, 2026, mockSvc.lastFilter.Year)
	assert.Equal(t, 3, mockSvc.lastFilter.Month)
	assert.Equal(t, models.PensionStatusPending, mockSvc.lastFilter.Status)
}

func TestPensionHandlerPay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &pensionServiceMock{
		payResp: &models.Pension{ID: "pension-1", Status: models.PensionStatusPaid},
	}
	h := NewPensionHandler(mockSvc)

	payload, _ := json.Marshal(models.PayPensionRequest{
		PensionID: "pension-1",
		Payment: models.PaymentInput{
			ReceiptNumber:   "R-010",
			PaymentMethodID: "method-1",
			Amount:          150,
			PaidDate:        "2026-03-05",
			PaidTime:        "10:30",
		},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/pensions/pay", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Pay(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.payCalled)
}

func TestPensionHandlerPayAlreadySettled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &pensionServiceMock{
		payErr: appErrors.Clone(appErrors.ErrConflict, "pension is already paid"),
	}
	h := NewPensionHandler(mockSvc)

	payload, _ := json.Marshal(models.PayPensionRequest{
		PensionID: "pension-1",
		Payment: models.PaymentInput{
			ReceiptNumber:   "R-010",
			PaymentMethodID: "method-1",
			Amount:          150,
			PaidDate:        "2026-03-05",
			PaidTime:        "10:30",
		},
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/pensions/pay", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	h.Pay(c)
	require.Equal(t, http.StatusConflict, w.Code)
}
