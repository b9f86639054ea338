package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProfileDispatchesOnVariant(t *testing.T) {
	student := NewStudent("S001", NewName("John", "Doe"), "john@example.com", "REG001")
	require.NoError(t, student.Enroll("CS101", 3))
	student.AddGrade(GradeA)

	instructor := NewInstructor("I001", NewName("Ada", "Wilson"), "ada@example.com", "Computer Science")
	instructor.AssignCourse("CS101")
	instructor.AssignCourse("CS101")

	people := []Person{student, instructor}

	studentProfile := RenderProfile(people[0])
	assert.Contains(t, studentProfile, "=== Student Profile ===")
	assert.Contains(t, studentProfile, "ID: S001")
	assert.Contains(t, studentProfile, "Email: john@example.com")
	assert.Contains(t, studentProfile, "Status: Active")
	assert.Contains(t, studentProfile, "Total Credits: 3")
	assert.Contains(t, studentProfile, "GPA: 9.00")

	instructorProfile := RenderProfile(people[1])
	assert.Contains(t, instructorProfile, "=== Instructor Profile ===")
	assert.Contains(t, instructorProfile, "Name: Ada Wilson")
	assert.Contains(t, instructorProfile, "Department: Computer Science")
	assert.Contains(t, instructorProfile, "Assigned Courses: 1")
	assert.Equal(t, RoleInstructor, people[1].Role())
}

func TestSetEmailThroughPerson(t *testing.T) {
	s := NewStudent("S001", NewName("John", "Doe"), "old@example.com", "REG001")
	s.SetEmail("new@example.com")
	assert.Equal(t, "new@example.com", s.Email())
}

func TestNameEquality(t *testing.T) {
	assert.Equal(t, NewName("Jane", "Smith"), NewName(" Jane ", "Smith"))
	assert.NotEqual(t, NewName("Jane", "Smith"), NewName("Smith", "Jane"))
	assert.Equal(t, "Jane Smith", NewName("Jane", "Smith").String())
}

func TestInstructorUnassign(t *testing.T) {
	i := NewInstructor("I001", NewName("Ada", "Wilson"), "ada@example.com", "CS")
	i.AssignCourse("CS101")
	i.AssignCourse("CS102")
	i.UnassignCourse("CS101")
	i.UnassignCourse("NOPE")

	assert.Equal(t, []string{"CS102"}, i.AssignedCourses())
	restored := RestoreInstructor(i.Record())
	assert.Equal(t, i.Record(), restored.Record())
}

func TestParseEnums(t *testing.T) {
	g, err := ParseGrade("a")
	require.NoError(t, err)
	assert.Equal(t, 9.0, g.Point())
	_, err = ParseGrade("Z")
	assert.Error(t, err)

	sem, err := ParseSemester("spring")
	require.NoError(t, err)
	assert.Equal(t, 1, sem.Order())
	assert.Equal(t, "Spring", sem.DisplayName())

	st, err := ParseStudentStatus("graduated")
	require.NoError(t, err)
	assert.Equal(t, StatusGraduated, st)
	_, err = ParseStudentStatus("expelled")
	assert.Error(t, err)
}
