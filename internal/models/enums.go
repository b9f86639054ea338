package models

import (
	"fmt"
	"slices"
	"strings"
)

// Grade is a letter grade carrying a fixed grade point.
type Grade string

// Letter grades from best to worst.
const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
	GradeF Grade = "F"
)

var gradePoints = map[Grade]float64{
	GradeS: 10,
	GradeA: 9,
	GradeB: 8,
	GradeC: 7,
	GradeD: 6,
	GradeE: 5,
	GradeF: 0,
}

// Grades lists every grade in declaration order.
func Grades() []Grade {
	return []Grade{GradeS, GradeA, GradeB, GradeC, GradeD, GradeE, GradeF}
}

// Point returns the numeric grade point; unknown grades score 0.
func (g Grade) Point() float64 {
	return gradePoints[g]
}

// Valid reports whether g is one of the declared grades.
func (g Grade) Valid() bool {
	_, ok := gradePoints[g]
	return ok
}

func (g Grade) String() string {
	return fmt.Sprintf("%s (%.1f)", string(g), g.Point())
}

// ParseGrade accepts a letter in any case.
func ParseGrade(raw string) (Grade, error) {
	g := Grade(strings.ToUpper(strings.TrimSpace(raw)))
	if !g.Valid() {
		return "", fmt.Errorf("unknown grade %q", raw)
	}
	return g, nil
}

// Semester identifies the term a course runs in.
type Semester string

// Semesters in calendar order.
const (
	SemesterSpring Semester = "SPRING"
	SemesterSummer Semester = "SUMMER"
	SemesterFall   Semester = "FALL"
)

// Semesters lists every semester in calendar order.
func Semesters() []Semester {
	return []Semester{SemesterSpring, SemesterSummer, SemesterFall}
}

// DisplayName returns the human readable semester name.
func (s Semester) DisplayName() string {
	switch s {
	case SemesterSpring:
		return "Spring"
	case SemesterSummer:
		return "Summer"
	case SemesterFall:
		return "Fall"
	default:
		return string(s)
	}
}

// Order is the 1-based position of the semester within the year, 0 if unknown.
func (s Semester) Order() int {
	switch s {
	case SemesterSpring:
		return 1
	case SemesterSummer:
		return 2
	case SemesterFall:
		return 3
	default:
		return 0
	}
}

func (s Semester) String() string {
	return s.DisplayName()
}

// ParseSemester accepts either the code or the display name, in any case.
func ParseSemester(raw string) (Semester, error) {
	s := Semester(strings.ToUpper(strings.TrimSpace(raw)))
	if s.Order() == 0 {
		return "", fmt.Errorf("unknown semester %q", raw)
	}
	return s, nil
}

// StudentStatus is the lifecycle state of a student record.
type StudentStatus string

// Student statuses.
const (
	StatusActive    StudentStatus = "ACTIVE"
	StatusInactive  StudentStatus = "INACTIVE"
	StatusGraduated StudentStatus = "GRADUATED"
	StatusSuspended StudentStatus = "SUSPENDED"
)

// StudentStatuses lists every status in declaration order.
func StudentStatuses() []StudentStatus {
	return []StudentStatus{StatusActive, StatusInactive, StatusGraduated, StatusSuspended}
}

// DisplayName returns the human readable status.
func (s StudentStatus) DisplayName() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusInactive:
		return "Inactive"
	case StatusGraduated:
		return "Graduated"
	case StatusSuspended:
		return "Suspended"
	default:
		return string(s)
	}
}

func (s StudentStatus) String() string {
	return s.DisplayName()
}

// Valid reports whether s is one of the declared statuses.
func (s StudentStatus) Valid() bool {
	return slices.Contains(StudentStatuses(), s)
}

// ParseStudentStatus accepts the status code in any case.
func ParseStudentStatus(raw string) (StudentStatus, error) {
	s := StudentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range StudentStatuses() {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown student status %q", raw)
}

// Role names the kind of person a record describes.
type Role string

// Person roles.
const (
	RoleStudent    Role = "Student"
	RoleInstructor Role = "Instructor"
)
