package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siga-peru/academico-api/internal/models"
	"github.com/siga-peru/academico-api/internal/service"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
	"github.com/siga-peru/academico-api/pkg/response"
)

// CareerHandler exposes the career catalog endpoints.
type CareerHandler struct {
	careers *service.CareerService
}

// NewCareerHandler constructs CareerHandler.
func NewCareerHandler(careers *service.CareerService) *CareerHandler {
	return &CareerHandler{careers: careers}
}

// List godoc
// @Summary List careers
// @Tags Careers
// @Produce json
// @Param campusId query string false "Filter by offering campus"
// @Success 200 {object} response.Envelope
// @Router /careers [get]
func (h *CareerHandler) List(c *gin.Context) {
	careers, err := h.careers.List(c.Request.Context(), c.Query("campusId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, careers, nil)
}

// Get godoc
// @Summary Get career with its modules
// @Tags Careers
// @Produce json
// @Param id path string true "Career ID"
// @Success 200 {object} response.Envelope
// @Router /careers/{id} [get]
func (h *CareerHandler) Get(c *gin.Context) {
	career, err := h.careers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, career, nil)
}

// Create godoc
// @Summary Create career
// @Tags Careers
// @Accept json
// @Produce json
// @Param payload body models.CreateCareerRequest true "Career payload"
// @Success 201 {object} response.Envelope
// @Router /careers [post]
func (h *CareerHandler) Create(c *gin.Context) {
	var req models.CreateCareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	career, err := h.careers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, career)
}

type updateCareerRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// Update godoc
// @Summary Update career
// @Tags Careers
// @Accept json
// @Produce json
// @Param id path string true "Career ID"
// @Param payload body handler.updateCareerRequest true "Career payload"
// @Success 200 {object} response.Envelope
// @Router /careers/{id} [put]
func (h *CareerHandler) Update(c *gin.Context) {
	var req updateCareerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	career := &models.Career{ID: c.Param("id"), Name: req.Name, Description: req.Description, Active: req.Active}
	if err := h.careers.Update(c.Request.Context(), career); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, career, nil)
}

// Delete godoc
// @Summary Deactivate career
// @Tags Careers
// @Produce json
// @Param id path string true "Career ID"
// @Success 204
// @Router /careers/{id} [delete]
func (h *CareerHandler) Delete(c *gin.Context) {
	if err := h.careers.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListModules godoc
// @Summary List modules of a career
// @Tags Careers
// @Produce json
// @Param id path string true "Career ID"
// @Success 200 {object} response.Envelope
// @Router /careers/{id}/modules [get]
func (h *CareerHandler) ListModules(c *gin.Context) {
	modules, err := h.careers.ListModules(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules, nil)
}

// CreateModule godoc
// @Summary Add a module to a career
// @Tags Careers
// @Accept json
// @Produce json
// @Param id path string true "Career ID"
// @Param payload body models.CreateCareerModuleRequest true "Module payload"
// @Success 201 {object} response.Envelope
// @Router /careers/{id}/modules [post]
func (h *CareerHandler) CreateModule(c *gin.Context) {
	var req models.CreateCareerModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	module, err := h.careers.CreateModule(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, module)
}

type updateModuleRequest struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
	Active   bool   `json:"active"`
}

// UpdateModule godoc
// @Summary Update a career module
// @Tags Careers
// @Accept json
// @Produce json
// @Param id path string true "Career ID"
// @Param moduleId path string true "Module ID"
// @Param payload body handler.updateModuleRequest true "Module payload"
// @Success 200 {object} response.Envelope
// @Router /careers/{id}/modules/{moduleId} [put]
func (h *CareerHandler) UpdateModule(c *gin.Context) {
	var req updateModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	module := &models.CareerModule{
		ID:       c.Param("moduleId"),
		CareerID: c.Param("id"),
		Name:     req.Name,
		Duration: req.Duration,
		Active:   req.Active,
	}
	if err := h.careers.UpdateModule(c.Request.Context(), module); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, module, nil)
}

// DeleteModule godoc
// @Summary Deactivate a career module
// @Tags Careers
// @Produce json
// @Param id path string true "Career ID"
// @Param moduleId path string true "Module ID"
// @Success 204
// @Router /careers/{id}/modules/{moduleId} [delete]
func (h *CareerHandler) DeleteModule(c *gin.Context) {
	if err := h.careers.DeactivateModule(c.Request.Context(), c.Param("moduleId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddOffering godoc
// @Summary Offer a career at a campus
// @Tags Careers
// @Produce json
// @Param id path string true "Career ID"
// @Param campusId path string true "Campus ID"
// @Success 204
// @Router /careers/{id}/campuses/{campusId} [post]
func (h *CareerHandler) AddOffering(c *gin.Context) {
	if err := h.careers.AddCampusOffering(c.Request.Context(), c.Param("id"), c.Param("campusId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RemoveOffering godoc
// @Summary Withdraw a career from a campus
// @Tags Careers
// @Produce json
// @Param id path string true "Career ID"
// @Param campusId path string true "Campus ID"
// @Success 204
// @Router /careers/{id}/campuses/{campusId} [delete]
func (h *CareerHandler) RemoveOffering(c *gin.Context) {
	if err := h.careers.RemoveCampusOffering(c.Request.Context(), c.Param("id"), c.Param("campusId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
