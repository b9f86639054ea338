package dto

import (
	"time"

	"github.com/noah-isme/ccrm-api/internal/models"
)

// GPABucket counts graded students whose GPA falls in a band.
type GPABucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Count int     `json:"count"`
}

// CourseStatistics summarises the catalogue.
type CourseStatistics struct {
	Total          int                     `json:"total"`
	BySemester     map[models.Semester]int `json:"by_semester"`
	AverageCredits float64                 `json:"average_credits"`
}

// StudentStatistics summarises the student body. AverageGPA only counts
// students with at least one grade.
type StudentStatistics struct {
	Total          int                          `json:"total"`
	GradedStudents int                          `json:"graded_students"`
	AverageGPA     float64                      `json:"average_gpa"`
	ByStatus       map[models.StudentStatus]int `json:"by_status"`
}

// DepartmentCourses groups courses under their department.
type DepartmentCourses struct {
	Department string       `json:"department"`
	Courses    []CourseView `json:"courses"`
}

// TranscriptEntry is one recorded grade, numbered in recording order.
type TranscriptEntry struct {
	Number int          `json:"number"`
	Grade  models.Grade `json:"grade"`
	Points float64      `json:"points"`
	Failed bool         `json:"failed"`
}

// Transcript is a student's grade history with the courses they hold.
type Transcript struct {
	Student StudentView       `json:"student"`
	Courses []CourseView      `json:"courses"`
	Entries []TranscriptEntry `json:"entries"`
	GPA     float64           `json:"gpa"`
}

// ExportRequest asks for a report rendered to a file.
type ExportRequest struct {
	Report string `json:"report" validate:"required,oneof=students courses top-students"`
	Format string `json:"format" validate:"required,oneof=csv pdf"`
	Limit  int    `json:"limit" validate:"gte=0"`
	Async  bool   `json:"async"`
}

// ExportResult describes a written export file.
type ExportResult struct {
	Path      string    `json:"path"`
	Format    string    `json:"format"`
	Rows      int       `json:"rows"`
	Bytes     int       `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}
