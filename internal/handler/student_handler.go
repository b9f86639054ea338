package handler

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ccrm-api/internal/dto"
	"github.com/noah-isme/ccrm-api/internal/models"
	"github.com/noah-isme/ccrm-api/internal/ordering"
	"github.com/noah-isme/ccrm-api/internal/service"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
	"github.com/noah-isme/ccrm-api/pkg/response"
)

const defaultTopStudents = 5

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param status query string false "Filter by status (ACTIVE, INACTIVE, GRADUATED, SUSPENDED)"
// @Param min_gpa query number false "Minimum GPA; ungraded students are excluded"
// @Param sort query string false "gpa, name or registration; prefix with - to reverse"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var status models.StudentStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := models.ParseStudentStatus(raw)
		if err != nil {
			response.Error(c, invalid(err))
			return
		}
		status = parsed
	}
	minGPA, hasMin, err := queryFloat(c, "min_gpa")
	if err != nil {
		response.Error(c, err)
		return
	}
	order, err := ordering.StudentPolicy(c.Query("sort"))
	if err != nil {
		response.Error(c, invalid(err))
		return
	}

	var students []*models.Student
	switch {
	case hasMin:
		students = h.students.FindByMinGPA(minGPA)
		if status != "" {
			students = slices.DeleteFunc(students, func(s *models.Student) bool { return s.Status() != status })
		}
	case status != "":
		students = h.students.FindByStatus(status)
	default:
		students = h.students.FindAll()
	}
	if order != nil {
		students = ordering.Sort(students, order)
	}
	response.List(c, dto.NewStudentViews(students))
}

// Get godoc
// @Summary Get student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, ok := h.students.FindByID(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "student not found"))
		return
	}
	response.JSON(c, http.StatusOK, dto.NewStudentView(student))
}

// Profile godoc
// @Summary Render student profile
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/profile [get]
func (h *StudentHandler) Profile(c *gin.Context) {
	student, ok := h.students.FindByID(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "student not found"))
		return
	}
	response.JSON(c, http.StatusOK, dto.ProfileView{ID: student.ID(), Role: student.Role(), Profile: models.RenderProfile(student)})
}

// Create godoc
// @Summary Register student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.RegisterStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	student, err := h.students.Register(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewStudentView(student))
}

// UpdateEmail godoc
// @Summary Update student email
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.UpdateEmailRequest true "Email payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/email [patch]
func (h *StudentHandler) UpdateEmail(c *gin.Context) {
	var req dto.UpdateEmailRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.students.UpdateEmail(c.Param("id"), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	h.Get(c)
}

// ChangeStatus godoc
// @Summary Change student status
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.ChangeStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/status [patch]
func (h *StudentHandler) ChangeStatus(c *gin.Context) {
	var req dto.ChangeStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.students.ChangeStatus(c.Param("id"), models.StudentStatus(req.Status)); err != nil {
		response.Error(c, err)
		return
	}
	h.Get(c)
}

// Deactivate godoc
// @Summary Deactivate student
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/deactivate [post]
func (h *StudentHandler) Deactivate(c *gin.Context) {
	if err := h.students.Deactivate(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.Get(c)
}

// Top godoc
// @Summary Top students by GPA
// @Tags Students
// @Produce json
// @Param n query int false "How many students (default 5)"
// @Success 200 {object} response.Envelope
// @Router /students/top [get]
func (h *StudentHandler) Top(c *gin.Context) {
	n, err := queryInt(c, "n", defaultTopStudents)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, dto.NewStudentViews(h.students.TopByGPA(n)))
}
