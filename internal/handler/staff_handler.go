package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/siga-peru/academico-api/internal/models"
	"github.com/siga-peru/academico-api/internal/service"
	appErrors "github.com/siga-peru/academico-api/pkg/errors"
	"github.com/siga-peru/academico-api/pkg/response"
)

// StaffHandler exposes teacher, secretary and administrator endpoints.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs StaffHandler.
func NewStaffHandler(staff *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// ListTeachers godoc
// @Summary List teachers
// @Tags Staff
// @Produce json
// @Param search query string false "Search by name or DNI"
// @Param campusId query string false "Filter by campus"
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *StaffHandler) ListTeachers(c *gin.Context) {
	filter := staffFilterFromQuery(c)
	teachers, pagination, err := h.staff.ListTeachers(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}

// GetTeacher godoc
// @Summary Get teacher
// @Tags Staff
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [get]
func (h *StaffHandler) GetTeacher(c *gin.Context) {
	teacher, err := h.staff.GetTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// CreateTeacher godoc
// @Summary Register a teacher
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body models.CreateTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *StaffHandler) CreateTeacher(c *gin.Context) {
	var req models.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	teacher, err := h.staff.CreateTeacher(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

type updateTeacherRequest struct {
	models.StaffInput
	Specialty string `json:"specialty"`
	Active    bool   `json:"active"`
}

// UpdateTeacher godoc
// @Summary Update teacher
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body handler.updateTeacherRequest true "Teacher payload"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [put]
func (h *StaffHandler) UpdateTeacher(c *gin.Context) {
	var req updateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	teacher := &models.Teacher{
		ID:           c.Param("id"),
		DNI:          req.DNI,
		FirstName:    req.FirstName,
		PaternalName: req.PaternalName,
		MaternalName: req.MaternalName,
		Phone:        req.Phone,
		Email:        req.Email,
		Specialty:    req.Specialty,
		CampusID:     req.CampusID,
		Active:       req.Active,
	}
	if err := h.staff.UpdateTeacher(c.Request.Context(), teacher); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// DeleteTeacher godoc
// @Summary Deactivate teacher
// @Tags Staff
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 204
// @Router /teachers/{id} [delete]
func (h *StaffHandler) DeleteTeacher(c *gin.Context) {
	if err := h.staff.DeactivateTeacher(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListSecretaries godoc
// @Summary List secretaries
// @Tags Staff
// @Produce json
// @Param campusId query string false "Filter by campus"
// @Success 200 {object} response.Envelope
// @Router /secretaries [get]
func (h *StaffHandler) ListSecretaries(c *gin.Context) {
	secretaries, err := h.staff.ListSecretaries(c.Request.Context(), c.Query("campusId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, secretaries, nil)
}

// GetSecretary godoc
// @Summary Get secretary
// @Tags Staff
// @Produce json
// @Param id path string true "Secretary ID"
// @Success 200 {object} response.Envelope
// @Router /secretaries/{id} [get]
func (h *StaffHandler) GetSecretary(c *gin.Context) {
	secretary, err := h.staff.GetSecretary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, secretary, nil)
}

// CreateSecretary godoc
// @Summary Register a secretary
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body models.CreateSecretaryRequest true "Secretary payload"
// @Success 201 {object} response.Envelope
// @Router /secretaries [post]
func (h *StaffHandler) CreateSecretary(c *gin.Context) {
	var req models.CreateSecretaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	secretary, err := h.staff.CreateSecretary(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, secretary)
}

type updateSecretaryRequest struct {
	models.StaffInput
	Active bool `json:"active"`
}

// UpdateSecretary godoc
// @Summary Update secretary
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path string true "Secretary ID"
// @Param payload body handler.updateSecretaryRequest true "Secretary payload"
// @Success 200 {object} response.Envelope
// @Router /secretaries/{id} [put]
func (h *StaffHandler) UpdateSecretary(c *gin.Context) {
	var req updateSecretaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	secretary := &models.Secretary{
		ID:           c.Param("id"),
		DNI:          req.DNI,
		FirstName:    req.FirstName,
		PaternalName: req.PaternalName,
		MaternalName: req.MaternalName,
		Phone:        req.Phone,
		Email:        req.Email,
		CampusID:     req.CampusID,
		Active:       req.Active,
	}
	if err := h.staff.UpdateSecretary(c.Request.Context(), secretary); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, secretary, nil)
}

// DeleteSecretary godoc
// @Summary Deactivate secretary
// @Tags Staff
// @Produce json
// @Param id path string true "Secretary ID"
// @Success 204
// @Router /secretaries/{id} [delete]
func (h *StaffHandler) DeleteSecretary(c *gin.Context) {
	if err := h.staff.DeactivateSecretary(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetAdministrator godoc
// @Summary Get administrator
// @Tags Staff
// @Produce json
// @Param id path string true "Administrator ID"
// @Success 200 {object} response.Envelope
// @Router /administrators/{id} [get]
func (h *StaffHandler) GetAdministrator(c *gin.Context) {
	admin, err := h.staff.GetAdministrator(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admin, nil)
}

// CreateAdministrator godoc
// @Summary Register a campus administrator
// @Description At most one active administrator is allowed per campus
// @Tags Staff
// @Accept json
// @Produce json
// @Param payload body models.CreateAdministratorRequest true "Administrator payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /administrators [post]
func (h *StaffHandler) CreateAdministrator(c *gin.Context) {
	var req models.CreateAdministratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	admin, err := h.staff.CreateAdministrator(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, admin)
}

// DeleteAdministrator godoc
// @Summary Deactivate administrator
// @Tags Staff
// @Produce json
// @Param id path string true "Administrator ID"
// @Success 204
// @Router /administrators/{id} [delete]
func (h *StaffHandler) DeleteAdministrator(c *gin.Context) {
	if err := h.staff.DeactivateAdministrator(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func staffFilterFromQuery(c *gin.Context) models.StaffFilter {
	var filter models.StaffFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.CampusID = c.Query("campusId")
	if active := c.Query("active"); active != "" {
		if active == "true" {
			v := true
			filter.Active = &v
		} else if active == "false" {
			v := false
			filter.Active = &v
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	return filter
}
