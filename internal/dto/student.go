package dto

import (
	"time"

	"github.com/noah-isme/ccrm-api/internal/models"
)

// RegisterStudentRequest carries the fields needed to create a student.
type RegisterStudentRequest struct {
	ID        string `json:"id" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	RegNo     string `json:"reg_no" validate:"required"`
}

// UpdateEmailRequest changes a student's email.
type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangeStatusRequest moves a student to another lifecycle status.
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE GRADUATED SUSPENDED"`
}

// StudentView is the JSON shape of a student.
type StudentView struct {
	ID              string               `json:"id"`
	RegNo           string               `json:"reg_no"`
	Name            models.Name          `json:"name"`
	FullName        string               `json:"full_name"`
	Email           string               `json:"email"`
	Status          models.StudentStatus `json:"status"`
	EnrolledCourses []string             `json:"enrolled_courses"`
	TotalCredits    int                  `json:"total_credits"`
	Grades          []models.Grade       `json:"grades"`
	GPA             float64              `json:"gpa"`
	CreatedAt       time.Time            `json:"created_at"`
}

// NewStudentView renders s.
func NewStudentView(s *models.Student) StudentView {
	enrolled := s.EnrolledCourses()
	if enrolled == nil {
		enrolled = []string{}
	}
	grades := s.Grades()
	if grades == nil {
		grades = []models.Grade{}
	}
	return StudentView{
		ID:              s.ID(),
		RegNo:           s.RegNo(),
		Name:            s.FullName(),
		FullName:        s.FullName().Full(),
		Email:           s.Email(),
		Status:          s.Status(),
		EnrolledCourses: enrolled,
		TotalCredits:    s.TotalCredits(),
		Grades:          grades,
		GPA:             s.GPA(),
		CreatedAt:       s.CreatedAt(),
	}
}

// NewStudentViews renders every student in order.
func NewStudentViews(students []*models.Student) []StudentView {
	out := make([]StudentView, 0, len(students))
	for _, s := range students {
		out = append(out, NewStudentView(s))
	}
	return out
}

// ProfileView wraps the role-specific text profile of a person.
type ProfileView struct {
	ID      string      `json:"id"`
	Role    models.Role `json:"role"`
	Profile string      `json:"profile"`
}
