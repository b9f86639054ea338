package dto

import (
	"time"

	"github.com/noah-isme/ccrm-api/internal/models"
)

// CreateInstructorRequest carries the fields needed to create an instructor.
type CreateInstructorRequest struct {
	ID         string `json:"id" validate:"required"`
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"required"`
}

// AssignCourseRequest names the course handed to an instructor.
type AssignCourseRequest struct {
	Code string `json:"code" validate:"required"`
}

// InstructorView is the JSON shape of an instructor.
type InstructorView struct {
	ID              string      `json:"id"`
	Name            models.Name `json:"name"`
	FullName        string      `json:"full_name"`
	Email           string      `json:"email"`
	Department      string      `json:"department"`
	AssignedCourses []string    `json:"assigned_courses"`
	CreatedAt       time.Time   `json:"created_at"`
}

// NewInstructorView renders i.
func NewInstructorView(i *models.Instructor) InstructorView {
	assigned := i.AssignedCourses()
	if assigned == nil {
		assigned = []string{}
	}
	return InstructorView{
		ID:              i.ID(),
		Name:            i.FullName(),
		FullName:        i.FullName().Full(),
		Email:           i.Email(),
		Department:      i.Department(),
		AssignedCourses: assigned,
		CreatedAt:       i.CreatedAt(),
	}
}

// NewInstructorViews renders every instructor in order.
func NewInstructorViews(instructors []*models.Instructor) []InstructorView {
	out := make([]InstructorView, 0, len(instructors))
	for _, i := range instructors {
		out = append(out, NewInstructorView(i))
	}
	return out
}
