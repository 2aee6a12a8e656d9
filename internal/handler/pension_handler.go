package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/siga-peru/academico-api/internal/models"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
	"github.com/siga-peru/academico-api/pkg/response"
)

type pensionService interface {
	Generate(ctx context.Context, req models.GeneratePensionsRequest) ([]models.Pension, error)
	List(ctx context.Context, filter models.PensionFilter) ([]models.PensionDetail, error)
	Pay(ctx context.Context, req models.PayPensionRequest) (*models.Pension, error)
}

// PensionHandler exposes tuition due endpoints.
type PensionHandler struct {
	pensions pensionService
}

// NewPensionHandler constructs PensionHandler.
func NewPensionHandler(pensions pensionService) *PensionHandler {
	return &PensionHandler{pensions: pensions}
}

// Generate godoc
// @Summary Generate monthly dues for an enrollment
// @Tags Pensions
// @Accept json
// @Produce json
// @Param payload body models.GeneratePensionsRequest true "Generation payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pensions/generate [post]
func (h *PensionHandler) Generate(c *gin.Context) {
	var req models.GeneratePensionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	pensions, err := h.pensions.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pensions)
}

// ListByDNI godoc
// @Summary List dues of a student by document
// @Tags Pensions
// @Produce json
// @Param dni path string true "Document number"
// @Param year query int false "Due year"
// @Param month query int false "Due month"
// @Param status query string false "PENDING or PAID"
// @Success 200 {object} response.Envelope
// @Router /pensions/{dni} [get]
func (h *PensionHandler) ListByDNI(c *gin.Context) {
	filter := models.PensionFilter{
		DNI:    c.Param("dni"),
		Status: models.PensionStatus(c.Query("status")),
	}
	if year, err := strconv.Atoi(c.Query("year")); err == nil {
		filter.Year = year
	}
	if month, err := strconv.Atoi(c.Query("month")); err == nil {
		filter.Month = month
	}

	pensions, err := h.pensions.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pensions, nil)
}

// Pay godoc
// @Summary Settle a due with a payment
// @Tags Pensions
// @Accept json
// @Produce json
// @Param payload body models.PayPensionRequest true "Payment payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /pensions/pay [post]
func (h *PensionHandler) Pay(c *gin.Context) {
	var req models.PayPensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	pension, err := h.pensions.Pay(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pension, nil)
}
