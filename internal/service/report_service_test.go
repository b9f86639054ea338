package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm-api/internal/models"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
)

func gradedStudent(t *testing.T, f *fixture, id string, grades ...models.Grade) *models.Student {
	t.Helper()
	st := newStudent(id)
	for _, g := range grades {
		st.AddGrade(g)
	}
	require.NoError(t, f.students.Add(st))
	return st
}

func TestReportServiceGPADistribution(t *testing.T) {
	f := newFixture()
	gradedStudent(t, f, "S1", models.GradeS)
	gradedStudent(t, f, "S2", models.GradeA, models.GradeB) // 8.5
	gradedStudent(t, f, "S3", models.GradeC)
	gradedStudent(t, f, "S4", models.GradeF)
	gradedStudent(t, f, "S5")

	buckets := f.reports.GPADistribution()
	require.Len(t, buckets, 5)
	counts := map[string]int{}
	total := 0
	for _, b := range buckets {
		counts[b.Label] = b.Count
		total += b.Count
	}
	assert.Equal(t, 1, counts["Excellent (9.0+)"])
	assert.Equal(t, 1, counts["Very Good (8.0-8.9)"])
	assert.Equal(t, 1, counts["Good (7.0-7.9)"])
	assert.Equal(t, 0, counts["Average (6.0-6.9)"])
	assert.Equal(t, 1, counts["Below Average (<6.0)"])
	assert.Equal(t, 4, total, "ungraded students are left out")
}

func TestReportServiceStatistics(t *testing.T) {
	f := newFixture()
	f.courses.Add(mustCourse("CS101", 3))
	spring, err := models.NewCourse(models.CourseConfig{Code: "MATH201", Title: "Calc", Credits: 4, Semester: models.SemesterSpring})
	require.NoError(t, err)
	f.courses.Add(spring)

	courses := f.reports.CourseStatistics()
	assert.Equal(t, 2, courses.Total)
	assert.Equal(t, 1, courses.BySemester[models.SemesterFall])
	assert.Equal(t, 1, courses.BySemester[models.SemesterSpring])
	assert.InDelta(t, 3.5, courses.AverageCredits, 1e-9)

	gradedStudent(t, f, "S1", models.GradeS)
	gradedStudent(t, f, "S2", models.GradeB)
	gradedStudent(t, f, "S3")
	require.NoError(t, f.students.ChangeStatus("S3", models.StatusGraduated))

	students := f.reports.StudentStatistics()
	assert.Equal(t, 3, students.Total)
	assert.Equal(t, 2, students.GradedStudents)
	assert.InDelta(t, 9.0, students.AverageGPA, 1e-9)
	assert.Equal(t, 2, students.ByStatus[models.StatusActive])
	assert.Equal(t, 1, students.ByStatus[models.StatusGraduated])
}

func TestReportServiceEmptyStatistics(t *testing.T) {
	f := newFixture()
	assert.Zero(t, f.reports.CourseStatistics().AverageCredits)
	assert.Zero(t, f.reports.StudentStatistics().AverageGPA)
	assert.Empty(t, f.reports.CoursesByDepartment())
}

func TestReportServiceCoursesByDepartment(t *testing.T) {
	f := newFixture()
	for _, cfg := range []models.CourseConfig{
		{Code: "MATH201", Title: "Calc", Credits: 4, Department: "Mathematics"},
		{Code: "CS101", Title: "Intro", Credits: 3, Department: "Computer Science"},
		{Code: "CS201", Title: "Data", Credits: 3, Department: "Computer Science"},
	} {
		c, err := models.NewCourse(cfg)
		require.NoError(t, err)
		f.courses.Add(c)
	}

	groups := f.reports.CoursesByDepartment()
	require.Len(t, groups, 2)
	assert.Equal(t, "Computer Science", groups[0].Department)
	assert.Len(t, groups[0].Courses, 2)
	assert.Equal(t, "Mathematics", groups[1].Department)
}

func TestReportServiceTranscript(t *testing.T) {
	f := newFixture()
	f.courses.Add(mustCourse("CS101", 3))
	st := gradedStudent(t, f, "S1", models.GradeA, models.GradeF)
	require.NoError(t, st.Enroll("CS101", 3))

	tr, err := f.reports.Transcript("S1")
	require.NoError(t, err)
	require.Len(t, tr.Entries, 2)
	assert.Equal(t, 1, tr.Entries[0].Number)
	assert.False(t, tr.Entries[0].Failed)
	assert.True(t, tr.Entries[1].Failed)
	assert.InDelta(t, 4.5, tr.GPA, 1e-9)
	require.Len(t, tr.Courses, 1)
	assert.Equal(t, "CS101", tr.Courses[0].Code)

	_, err = f.reports.Transcript("S404")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
