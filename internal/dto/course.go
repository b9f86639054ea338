package dto

import (
	"time"

	"github.com/noah-isme/ccrm-api/internal/models"
)

// CreateCourseRequest describes a new course. Optional fields take the
// course defaults when empty.
type CreateCourseRequest struct {
	Code       string `json:"code" validate:"required,excludes=;"`
	Title      string `json:"title" validate:"required"`
	Credits    int    `json:"credits" validate:"gt=0"`
	Instructor string `json:"instructor"`
	Semester   string `json:"semester" validate:"omitempty,oneof=SPRING SUMMER FALL"`
	Department string `json:"department"`
}

// UpdateInstructorRequest reassigns the instructor name on a course.
type UpdateInstructorRequest struct {
	Instructor string `json:"instructor" validate:"required"`
}

// CourseView is the JSON shape of a course.
type CourseView struct {
	Code       string          `json:"code"`
	Title      string          `json:"title"`
	Credits    int             `json:"credits"`
	Instructor string          `json:"instructor"`
	Semester   models.Semester `json:"semester"`
	Department string          `json:"department"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewCourseView renders c.
func NewCourseView(c *models.Course) CourseView {
	return CourseView{
		Code:       c.Code(),
		Title:      c.Title(),
		Credits:    c.Credits(),
		Instructor: c.Instructor(),
		Semester:   c.Semester(),
		Department: c.Department(),
		Active:     c.Active(),
		CreatedAt:  c.CreatedAt(),
	}
}

// NewCourseViews renders every course in order.
func NewCourseViews(courses []*models.Course) []CourseView {
	out := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		out = append(out, NewCourseView(c))
	}
	return out
}
