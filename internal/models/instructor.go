package models

import (
	"fmt"
	"slices"
)

// Instructor teaches courses, referenced by course code only.
type Instructor struct {
	identity
	department string
	assigned   []string
}

// NewInstructor creates an instructor with no assigned courses.
func NewInstructor(id string, name Name, email, department string) *Instructor {
	return &Instructor{identity: newIdentity(id, name, email), department: department}
}

// Role identifies the variant.
func (i *Instructor) Role() Role { return RoleInstructor }

// Department returns the owning department.
func (i *Instructor) Department() string { return i.department }

// SetDepartment moves the instructor to another department.
func (i *Instructor) SetDepartment(department string) { i.department = department }

// AssignedCourses returns a copy of the assigned course codes.
func (i *Instructor) AssignedCourses() []string { return slices.Clone(i.assigned) }

// AssignCourse records code once.
func (i *Instructor) AssignCourse(code string) {
	if !slices.Contains(i.assigned, code) {
		i.assigned = append(i.assigned, code)
	}
}

// UnassignCourse drops code if present.
func (i *Instructor) UnassignCourse(code string) {
	if idx := slices.Index(i.assigned, code); idx >= 0 {
		i.assigned = slices.Delete(i.assigned, idx, idx+1)
	}
}

func (i *Instructor) String() string {
	return fmt.Sprintf("Instructor[%s] %s (%s) - %s", i.id, i.fullName, i.email, i.department)
}
