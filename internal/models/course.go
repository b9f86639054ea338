package models

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
)

// Course defaults applied by NewCourse.
const (
	DefaultInstructor = "TBA"
	DefaultDepartment = "General"
	DefaultSemester   = SemesterFall
)

var courseValidator = validator.New()

// CourseConfig describes a course to build. Code, Title and Credits are
// required and Code may not contain the ';' list separator used by snapshots; every other field falls back to its default when left empty:
// Instructor "TBA", Semester FALL, Department "General", Active true.
type CourseConfig struct {
	Code       string   `validate:"required,excludes=;"`
	Title      string   `validate:"required"`
	Credits    int      `validate:"gt=0"`
	Instructor string   `validate:"omitempty"`
	Semester   Semester `validate:"omitempty,oneof=SPRING SUMMER FALL"`
	Department string   `validate:"omitempty"`
	Active     *bool
}

// Course is a catalogue entry keyed by code. Only the instructor and the
// active flag change after construction.
type Course struct {
	code       string
	title      string
	credits    int
	instructor string
	semester   Semester
	department string
	active     bool
	createdAt  time.Time
}

// NewCourse validates cfg and builds the course with defaults filled in.
func NewCourse(cfg CourseConfig) (*Course, error) {
	if err := courseValidator.Struct(cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course")
	}
	c := &Course{
		code:       cfg.Code,
		title:      cfg.Title,
		credits:    cfg.Credits,
		instructor: cfg.Instructor,
		semester:   cfg.Semester,
		department: cfg.Department,
		active:     true,
		createdAt:  time.Now().UTC(),
	}
	if c.instructor == "" {
		c.instructor = DefaultInstructor
	}
	if c.semester == "" {
		c.semester = DefaultSemester
	}
	if c.department == "" {
		c.department = DefaultDepartment
	}
	if cfg.Active != nil {
		c.active = *cfg.Active
	}
	return c, nil
}

// Code returns the unique course code.
func (c *Course) Code() string { return c.code }

// Title returns the course title.
func (c *Course) Title() string { return c.title }

// Credits returns the credit weight.
func (c *Course) Credits() int { return c.credits }

// Instructor returns the instructor's display name.
func (c *Course) Instructor() string { return c.instructor }

// Semester returns the semester the course runs in.
func (c *Course) Semester() Semester { return c.semester }

// Department returns the owning department.
func (c *Course) Department() string { return c.department }

// Active reports whether the course is offered.
func (c *Course) Active() bool { return c.active }

// CreatedAt returns when the course was built.
func (c *Course) CreatedAt() time.Time { return c.createdAt }

// SetInstructor replaces the instructor name.
func (c *Course) SetInstructor(instructor string) { c.instructor = instructor }

// SetActive flips the offered flag.
func (c *Course) SetActive(active bool) { c.active = active }

func (c *Course) String() string {
	return fmt.Sprintf("Course[%s] %s (%d credits) - %s, %s", c.code, c.title, c.credits, c.instructor, c.semester)
}
