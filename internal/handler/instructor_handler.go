package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ccrm-api/internal/dto"
	"github.com/noah-isme/ccrm-api/internal/models"
	"github.com/noah-isme/ccrm-api/internal/service"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
	"github.com/noah-isme/ccrm-api/pkg/response"
)

// InstructorHandler exposes instructor endpoints.
type InstructorHandler struct {
	instructors *service.InstructorService
}

// NewInstructorHandler constructs InstructorHandler.
func NewInstructorHandler(instructors *service.InstructorService) *InstructorHandler {
	return &InstructorHandler{instructors: instructors}
}

// List godoc
// @Summary List instructors
// @Tags Instructors
// @Produce json
// @Param department query string false "Department (case-insensitive)"
// @Success 200 {object} response.Envelope
// @Router /instructors [get]
func (h *InstructorHandler) List(c *gin.Context) {
	var instructors []*models.Instructor
	if department := c.Query("department"); department != "" {
		instructors = h.instructors.FindByDepartment(department)
	} else {
		instructors = h.instructors.FindAll()
	}
	response.List(c, dto.NewInstructorViews(instructors))
}

// Get godoc
// @Summary Get instructor
// @Tags Instructors
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instructors/{id} [get]
func (h *InstructorHandler) Get(c *gin.Context) {
	instructor, ok := h.instructors.FindByID(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "instructor not found"))
		return
	}
	response.JSON(c, http.StatusOK, dto.NewInstructorView(instructor))
}

// Profile godoc
// @Summary Render instructor profile
// @Tags Instructors
// @Produce json
// @Param id path string true "Instructor ID"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/profile [get]
func (h *InstructorHandler) Profile(c *gin.Context) {
	instructor, ok := h.instructors.FindByID(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "instructor not found"))
		return
	}
	response.JSON(c, http.StatusOK, dto.ProfileView{ID: instructor.ID(), Role: instructor.Role(), Profile: models.RenderProfile(instructor)})
}

// Create godoc
// @Summary Register instructor
// @Tags Instructors
// @Accept json
// @Produce json
// @Param payload body dto.CreateInstructorRequest true "Instructor payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /instructors [post]
func (h *InstructorHandler) Create(c *gin.Context) {
	var req dto.CreateInstructorRequest
	if !bindJSON(c, &req) {
		return
	}
	instructor, err := h.instructors.Register(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewInstructorView(instructor))
}

// AssignCourse godoc
// @Summary Assign a course to an instructor
// @Tags Instructors
// @Accept json
// @Produce json
// @Param id path string true "Instructor ID"
// @Param payload body dto.AssignCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/courses [post]
func (h *InstructorHandler) AssignCourse(c *gin.Context) {
	var req dto.AssignCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.instructors.AssignCourse(c.Param("id"), req.Code); err != nil {
		response.Error(c, err)
		return
	}
	h.Get(c)
}
