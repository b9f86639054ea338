package models

import (
	"fmt"
	"slices"
	"time"

	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
)

// StudentRecord is the flat, storable form of a Student.
type StudentRecord struct {
	ID              string        `db:"id" json:"id"`
	RegNo           string        `db:"reg_no" json:"reg_no"`
	FirstName       string        `db:"first_name" json:"first_name"`
	LastName        string        `db:"last_name" json:"last_name"`
	Email           string        `db:"email" json:"email"`
	Status          StudentStatus `db:"status" json:"status"`
	EnrolledCourses []string      `db:"enrolled_courses" json:"enrolled_courses"`
	TotalCredits    int           `db:"total_credits" json:"total_credits"`
	Grades          []Grade       `db:"grades" json:"grades"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
}

// CourseRecord is the flat, storable form of a Course.
type CourseRecord struct {
	Code       string    `db:"code" json:"code"`
	Title      string    `db:"title" json:"title"`
	Credits    int       `db:"credits" json:"credits"`
	Instructor string    `db:"instructor" json:"instructor"`
	Semester   Semester  `db:"semester" json:"semester"`
	Department string    `db:"department" json:"department"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// InstructorRecord is the flat, storable form of an Instructor.
type InstructorRecord struct {
	ID              string    `db:"id" json:"id"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	Email           string    `db:"email" json:"email"`
	Department      string    `db:"department" json:"department"`
	AssignedCourses []string  `db:"assigned_courses" json:"assigned_courses"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// Record captures the full student state.
func (s *Student) Record() StudentRecord {
	return StudentRecord{
		ID:              s.id,
		RegNo:           s.regNo,
		FirstName:       s.fullName.First,
		LastName:        s.fullName.Last,
		Email:           s.email,
		Status:          s.status,
		EnrolledCourses: s.EnrolledCourses(),
		TotalCredits:    s.totalCredits,
		Grades:          s.Grades(),
		CreatedAt:       s.createdAt,
	}
}

// RestoreStudent rebuilds a student from a record, bypassing Enroll so the
// stored total is kept. Records that could never have been produced by the
// enrollment engine are rejected.
func RestoreStudent(rec StudentRecord) (*Student, error) {
	if err := checkStudentRecord(rec); err != nil {
		return nil, err
	}
	status := rec.Status
	if status == "" {
		status = StatusActive
	}
	return &Student{
		identity: identity{
			id:        rec.ID,
			fullName:  Name{First: rec.FirstName, Last: rec.LastName},
			email:     rec.Email,
			createdAt: rec.CreatedAt,
		},
		regNo:        rec.RegNo,
		status:       status,
		enrolled:     slices.Clone(rec.EnrolledCourses),
		totalCredits: rec.TotalCredits,
		grades:       slices.Clone(rec.Grades),
	}, nil
}

func checkStudentRecord(rec StudentRecord) error {
	invalid := func(format string, args ...interface{}) error {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student %q: ", rec.ID)+fmt.Sprintf(format, args...))
	}
	if rec.ID == "" {
		return invalid("missing id")
	}
	if rec.TotalCredits < 0 || rec.TotalCredits > MaxCredits {
		return invalid("total credits %d outside 0..%d", rec.TotalCredits, MaxCredits)
	}
	if rec.Status != "" && !rec.Status.Valid() {
		return invalid("unknown status %q", rec.Status)
	}
	for _, g := range rec.Grades {
		if !g.Valid() {
			return invalid("unknown grade %q", g)
		}
	}
	seen := make(map[string]struct{}, len(rec.EnrolledCourses))
	for _, code := range rec.EnrolledCourses {
		if code == "" {
			return invalid("empty course code")
		}
		if _, dup := seen[code]; dup {
			return invalid("course %s listed twice", code)
		}
		seen[code] = struct{}{}
	}
	if len(rec.EnrolledCourses) == 0 && rec.TotalCredits != 0 {
		return invalid("%d credits without enrolled courses", rec.TotalCredits)
	}
	return nil
}

// Record captures the full course state.
func (c *Course) Record() CourseRecord {
	return CourseRecord{
		Code:       c.code,
		Title:      c.title,
		Credits:    c.credits,
		Instructor: c.instructor,
		Semester:   c.semester,
		Department: c.department,
		Active:     c.active,
		CreatedAt:  c.createdAt,
	}
}

// RestoreCourse rebuilds a course from a record, validating it like NewCourse.
func RestoreCourse(rec CourseRecord) (*Course, error) {
	active := rec.Active
	c, err := NewCourse(CourseConfig{
		Code:       rec.Code,
		Title:      rec.Title,
		Credits:    rec.Credits,
		Instructor: rec.Instructor,
		Semester:   rec.Semester,
		Department: rec.Department,
		Active:     &active,
	})
	if err != nil {
		return nil, err
	}
	if !rec.CreatedAt.IsZero() {
		c.createdAt = rec.CreatedAt
	}
	return c, nil
}

// Record captures the full instructor state.
func (i *Instructor) Record() InstructorRecord {
	return InstructorRecord{
		ID:              i.id,
		FirstName:       i.fullName.First,
		LastName:        i.fullName.Last,
		Email:           i.email,
		Department:      i.department,
		AssignedCourses: i.AssignedCourses(),
		CreatedAt:       i.createdAt,
	}
}

// RestoreInstructor rebuilds an instructor from a record.
func RestoreInstructor(rec InstructorRecord) *Instructor {
	return &Instructor{
		identity: identity{
			id:        rec.ID,
			fullName:  Name{First: rec.FirstName, Last: rec.LastName},
			email:     rec.Email,
			createdAt: rec.CreatedAt,
		},
		department: rec.Department,
		assigned:   slices.Clone(rec.AssignedCourses),
	}
}
