package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siga-peru/academico-api/internal/models"
	"github.com/siga-peru/academico-api/internal/service"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
	"github.com/siga-peru/academico-api/pkg/response"
)

// SpecializationHandler exposes the specialization catalog and its
// enrollment endpoints.
type SpecializationHandler struct {
	specializations *service.SpecializationService
}

// NewSpecializationHandler constructs SpecializationHandler.
func NewSpecializationHandler(specializations *service.SpecializationService) *SpecializationHandler {
	return &SpecializationHandler{specializations: specializations}
}

// List godoc
// @Summary List specializations
// @Tags Specializations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /specializations [get]
func (h *SpecializationHandler) List(c *gin.Context) {
	specs, err := h.specializations.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, specs, nil)
}

// Get godoc
// @Summary Get specialization
// @Tags Specializations
// @Produce json
// @Param id path string true "Specialization ID"
// @Success 200 {object} response.Envelope
// @Router /specializations/{id} [get]
func (h *SpecializationHandler) Get(c *gin.Context) {
	spec, err := h.specializations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, spec, nil)
}

// Create godoc
// @Summary Create specialization
// @Tags Specializations
// @Accept json
// @Produce json
// @Param payload body models.CreateSpecializationRequest true "Specialization payload"
// @Success 201 {object} response.Envelope
// @Router /specializations [post]
func (h *SpecializationHandler) Create(c *gin.Context) {
	var req models.CreateSpecializationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	spec, err := h.specializations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, spec)
}

type updateSpecializationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Active      bool   `json:"active"`
}

// Update godoc
// @Summary Update specialization
// @Tags Specializations
// @Accept json
// @Produce json
// @Param id path string true "Specialization ID"
// @Param payload body handler.updateSpecializationRequest true "Specialization payload"
// @Success 200 {object} response.Envelope
// @Router /specializations/{id} [put]
func (h *SpecializationHandler) Update(c *gin.Context) {
	var req updateSpecializationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	spec := &models.Specialization{
		ID:          c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Active:      req.Active,
	}
	if err := h.specializations.Update(c.Request.Context(), spec); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, spec, nil)
}

// Delete godoc
// @Summary Deactivate specialization
// @Tags Specializations
// @Produce json
// @Param id path string true "Specialization ID"
// @Success 204
// @Router /specializations/{id} [delete]
func (h *SpecializationHandler) Delete(c *gin.Context) {
	if err := h.specializations.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Register godoc
// @Summary Enroll a student into a specialization
// @Description Accepts an existing student_id or a new student with address
// @Tags Specializations
// @Accept json
// @Produce json
// @Param payload body models.RegisterSpecializationRequest true "Registration form"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /specializations/enrollments [post]
func (h *SpecializationHandler) Register(c *gin.Context) {
	var req models.RegisterSpecializationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}
	detail, err := h.specializations.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

// ListEnrollments godoc
// @Summary List specialization enrollments
// @Tags Specializations
// @Produce json
// @Param id path string true "Specialization ID"
// @Param campusId query string false "Filter by campus"
// @Success 200 {object} response.Envelope
// @Router /specializations/{id}/enrollments [get]
func (h *SpecializationHandler) ListEnrollments(c *gin.Context) {
	enrollments, err := h.specializations.ListEnrollments(c.Request.Context(), c.Param("id"), c.Query("campusId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// GetEnrollment godoc
// @Summary Get specialization enrollment detail
// @Tags Specializations
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /specializations/enrollments/{id} [get]
func (h *SpecializationHandler) GetEnrollment(c *gin.Context) {
	detail, err := h.specializations.GetEnrollment(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// AssignTeacher godoc
// @Summary Assign a teacher to a specialization enrollment
// @Tags Specializations
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body map[string]string true "Teacher payload"
// @Success 204
// @Router /specializations/enrollments/{id}/teacher [patch]
func (h *SpecializationHandler) AssignTeacher(c *gin.Context) {
	var payload struct {
		TeacherID string `json:"teacher_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "teacher_id required"))
		return
	}
	if err := h.specializations.AssignTeacher(c.Request.Context(), c.Param("id"), payload.TeacherID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteEnrollment godoc
// @Summary Deactivate specialization enrollment
// @Tags Specializations
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 204
// @Router /specializations/enrollments/{id} [delete]
func (h *SpecializationHandler) DeleteEnrollment(c *gin.Context) {
	if err := h.specializations.DeactivateEnrollment(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
