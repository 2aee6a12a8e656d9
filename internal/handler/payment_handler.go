package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/siga-peru/academico-api/internal/service"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
	"github.com/siga-peru/academico-api/pkg/response"
)

// PaymentHandler exposes payment and payment method endpoints.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Get godoc
// @Summary Get payment
// @Tags Payments
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Envelope
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.payments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, payment, nil)
}

// AttachReceipt godoc
// @Summary Attach a receipt image to a payment
// @Tags Payments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Payment ID"
// @Param image formData file true "Receipt image"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /payments/{id}/receipt [post]
func (h *PaymentHandler) AttachReceipt(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "image file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read image"))
		return
	}
	defer file.Close()

	url, err := h.payments.AttachReceiptImage(c.Request.Context(), c.Param("id"), fileHeader.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"receipt_image_url": url}, nil)
}

// ListMethods godoc
// @Summary List payment methods
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /payment-methods [get]
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	methods, err := h.payments.ListMethods(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, methods, nil)
}

// CreateMethod godoc
// @Summary Add a payment method to the catalog
// @Tags Payments
// @Accept json
// @Produce json
// @Param payload body map[string]string true "Method payload"
// @Success 201 {object} response.Envelope
// @Router /payment-methods [post]
func (h *PaymentHandler) CreateMethod(c *gin.Context) {
	var payload struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "name required"))
		return
	}
	method, err := h.payments.CreateMethod(c.Request.Context(), strings.TrimSpace(payload.Name))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, method)
}

// DeleteMethod godoc
// @Summary Deactivate a payment method
// @Tags Payments
// @Produce json
// @Param id path string true "Method ID"
// @Success 204
// @Router /payment-methods/{id} [delete]
func (h *PaymentHandler) DeleteMethod(c *gin.Context) {
	if err := h.payments.DeactivateMethod(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
