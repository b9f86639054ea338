package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ccrm-api/internal/dto"
	"github.com/noah-isme/ccrm-api/internal/models"
	"github.com/noah-isme/ccrm-api/internal/ordering"
	"github.com/noah-isme/ccrm-api/internal/service"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
	"github.com/noah-isme/ccrm-api/pkg/response"
)

// CourseHandler exposes the course catalogue.
type CourseHandler struct {
	courses *service.CourseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param department query string false "Department (case-insensitive)"
// @Param instructor query string false "Instructor name (case-insensitive)"
// @Param semester query string false "SPRING, SUMMER or FALL"
// @Param min_credits query int false "Minimum credits"
// @Param sort query string false "credits or code; prefix with - to reverse"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var semester models.Semester
	if raw := c.Query("semester"); raw != "" {
		parsed, err := models.ParseSemester(raw)
		if err != nil {
			response.Error(c, invalid(err))
			return
		}
		semester = parsed
	}
	minCredits, err := queryInt(c, "min_credits", 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	order, err := ordering.CoursePolicy(c.Query("sort"))
	if err != nil {
		response.Error(c, invalid(err))
		return
	}

	department, instructor := c.Query("department"), c.Query("instructor")
	filtered := h.courses.Search(func(course *models.Course) bool {
		if department != "" && !strings.EqualFold(course.Department(), department) {
			return false
		}
		if instructor != "" && !strings.EqualFold(course.Instructor(), instructor) {
			return false
		}
		if semester != "" && course.Semester() != semester {
			return false
		}
		return course.Credits() >= minCredits
	})
	if order != nil {
		filtered = ordering.Sort(filtered, order)
	}
	response.List(c, dto.NewCourseViews(filtered))
}

// Get godoc
// @Summary Get course
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{code} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, ok := h.courses.FindByID(c.Param("code"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "course not found"))
		return
	}
	response.JSON(c, http.StatusOK, dto.NewCourseView(course))
}

// Create godoc
// @Summary Create or replace course
// @Description Adding a course whose code already exists replaces it and returns 200.
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Success 200 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, replaced, err := h.courses.Create(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if replaced {
		response.JSON(c, http.StatusOK, dto.NewCourseView(course))
		return
	}
	response.Created(c, dto.NewCourseView(course))
}

// UpdateInstructor godoc
// @Summary Change course instructor
// @Tags Courses
// @Accept json
// @Produce json
// @Param code path string true "Course code"
// @Param payload body dto.UpdateInstructorRequest true "Instructor payload"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/instructor [patch]
func (h *CourseHandler) UpdateInstructor(c *gin.Context) {
	var req dto.UpdateInstructorRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.courses.UpdateInstructor(c.Param("code"), req.Instructor); err != nil {
		response.Error(c, err)
		return
	}
	h.Get(c)
}

// Deactivate godoc
// @Summary Deactivate course
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/deactivate [post]
func (h *CourseHandler) Deactivate(c *gin.Context) {
	if err := h.courses.Deactivate(c.Param("code")); err != nil {
		response.Error(c, err)
		return
	}
	h.Get(c)
}
