package models

import (
	"fmt"
	"slices"

	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
)

// MaxCredits is the per-student enrollment cap.
const MaxCredits = 18

// Student is a person enrolled in courses and accumulating grades.
//
// totalCredits always equals the credits passed for the currently enrolled
// codes and never exceeds MaxCredits after Enroll.
type Student struct {
	identity
	regNo        string
	status       StudentStatus
	enrolled     []string
	totalCredits int
	grades       []Grade
}

// NewStudent creates an active student with no enrollments or grades.
func NewStudent(id string, name Name, email, regNo string) *Student {
	return &Student{
		identity: newIdentity(id, name, email),
		regNo:    regNo,
		status:   StatusActive,
	}
}

// Role identifies the variant.
func (s *Student) Role() Role { return RoleStudent }

// RegNo returns the registration number.
func (s *Student) RegNo() string { return s.regNo }

// Status returns the lifecycle status.
func (s *Student) Status() StudentStatus { return s.status }

// SetStatus changes the lifecycle status.
func (s *Student) SetStatus(status StudentStatus) { s.status = status }

// TotalCredits returns the running credit total.
func (s *Student) TotalCredits() int { return s.totalCredits }

// EnrolledCourses returns a copy of the enrolled course codes in enrollment order.
func (s *Student) EnrolledCourses() []string { return slices.Clone(s.enrolled) }

// IsEnrolled reports whether code is currently enrolled.
func (s *Student) IsEnrolled(code string) bool { return slices.Contains(s.enrolled, code) }

// Grades returns a copy of the grade history.
func (s *Student) Grades() []Grade { return slices.Clone(s.grades) }

// HasGrades reports whether any grade was recorded.
func (s *Student) HasGrades() bool { return len(s.grades) > 0 }

// Enroll adds code worth credits. The cap is checked before the duplicate
// check, so a student at the cap gets CREDIT_LIMIT_EXCEEDED even for a code
// they already hold. Enrolling an already enrolled code is otherwise a no-op.
func (s *Student) Enroll(code string, credits int) error {
	if credits <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("credits must be positive, got %d", credits))
	}
	if s.totalCredits+credits > MaxCredits {
		return appErrors.Clone(appErrors.ErrCreditLimitExceeded,
			fmt.Sprintf("cannot exceed %d credits per semester: have %d, requested %d", MaxCredits, s.totalCredits, credits))
	}
	if s.IsEnrolled(code) {
		return nil
	}
	s.enrolled = append(s.enrolled, code)
	s.totalCredits += credits
	return nil
}

// Unenroll removes code and subtracts credits. Unknown codes are ignored and
// report false.
func (s *Student) Unenroll(code string, credits int) bool {
	idx := slices.Index(s.enrolled, code)
	if idx < 0 {
		return false
	}
	s.enrolled = slices.Delete(s.enrolled, idx, idx+1)
	s.totalCredits -= credits
	return true
}

// AddGrade appends to the grade history. Grades are not tied to a course.
func (s *Student) AddGrade(g Grade) {
	s.grades = append(s.grades, g)
}

// GPA is the mean grade point of the recorded grades, 0 when there are none.
func (s *Student) GPA() float64 {
	if len(s.grades) == 0 {
		return 0
	}
	var sum float64
	for _, g := range s.grades {
		sum += g.Point()
	}
	return sum / float64(len(s.grades))
}

func (s *Student) String() string {
	return fmt.Sprintf("Student[%s] %s (%s) - %s", s.regNo, s.fullName, s.email, s.status)
}
