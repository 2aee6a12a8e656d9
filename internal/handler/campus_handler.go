package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siga-peru/academico-api/internal/models"
	"github.com/siga-peru/academico-api/internal/service"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
	"github.com/siga-peru/academico-api/pkg/response"
)

// CampusHandler exposes campus endpoints.
type CampusHandler struct {
	campuses *service.CampusService
}

// NewCampusHandler constructs CampusHandler.
func NewCampusHandler(campuses *service.CampusService) *CampusHandler {
	return &CampusHandler{campuses: campuses}
}

// List godoc
// @Summary List campuses
// @Tags Campuses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /campuses [get]
func (h *CampusHandler) List(c *gin.Context) {
	campuses, err := h.campuses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, campuses, nil)
}

// Get godoc
// @Summary Get campus detail
// @Tags Campuses
// @Produce json
// @Param id path string true "Campus ID"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id} [get]
func (h *CampusHandler) Get(c *gin.Context) {
	campus, err := h.campuses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, campus, nil)
}

// Create godoc
// @Summary Open a campus
// @Tags Campuses
// @Accept json
// @Produce json
// @Param payload body models.CreateCampusRequest true "Campus payload"
// @Success 201 {object} response.Envelope
// @Router /campuses [post]
func (h *CampusHandler) Create(c *gin.Context) {
	var req models.CreateCampusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	campus, err := h.campuses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, campus)
}

type updateCampusRequest struct {
	Name    string               `json:"name"`
	Phone   string               `json:"phone"`
	Active  bool                 `json:"active"`
	Address *models.AddressInput `json:"address,omitempty"`
}

// Update godoc
// @Summary Update campus
// @Tags Campuses
// @Accept json
// @Produce json
// @Param id path string true "Campus ID"
// @Param payload body handler.updateCampusRequest true "Campus payload"
// @Success 200 {object} response.Envelope
// @Router /campuses/{id} [put]
func (h *CampusHandler) Update(c *gin.Context) {
	var req updateCampusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	campus := &models.Campus{ID: c.Param("id"), Name: req.Name, Phone: req.Phone, Active: req.Active}
	var address *models.Address
	if req.Address != nil {
		address = &models.Address{
			Line:       req.Address.Line,
			District:   req.Address.District,
			Province:   req.Address.Province,
			Department: req.Address.Department,
		}
	}

	if err := h.campuses.Update(c.Request.Context(), campus, address); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, campus, nil)
}

// Delete godoc
// @Summary Deactivate campus
// @Tags Campuses
// @Produce json
// @Param id path string true "Campus ID"
// @Success 204
// @Router /campuses/{id} [delete]
func (h *CampusHandler) Delete(c *gin.Context) {
	if err := h.campuses.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
