package service

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm-api/internal/models"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
)

func TestEnrollmentServiceUsesCatalogueCredits(t *testing.T) {
	f := newFixture()
	f.courses.Add(mustCourse("CS101", 3))
	f.courses.Add(mustCourse("MATH201", 4))
	require.NoError(t, f.students.Add(newStudent("S001")))

	st, err := f.enrollment.Enroll("S001", "CS101")
	require.NoError(t, err)
	_, err = f.enrollment.Enroll("S001", "MATH201")
	require.NoError(t, err)
	assert.Equal(t, 7, st.TotalCredits())

	_, err = f.enrollment.Enroll("S001", "CS101")
	require.NoError(t, err)
	assert.Equal(t, 7, st.TotalCredits(), "re-enrolling is a no-op")

	_, err = f.enrollment.Unenroll("S001", "CS101")
	require.NoError(t, err)
	assert.Equal(t, 4, st.TotalCredits())
	assert.Equal(t, []string{"MATH201"}, st.EnrolledCourses())

	_, err = f.enrollment.Unenroll("S001", "CS101")
	require.NoError(t, err)
	assert.Equal(t, 4, st.TotalCredits())

	assert.Equal(t, float64(2), testutil.ToFloat64(f.metrics.enrollments.WithLabelValues(EnrollmentEnrolled)))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.enrollments.WithLabelValues(EnrollmentDuplicate)))
}

func TestEnrollmentServiceCreditCap(t *testing.T) {
	f := newFixture()
	for _, code := range []string{"C1", "C2", "C3", "C4"} {
		f.courses.Add(mustCourse(code, 4))
	}
	f.courses.Add(mustCourse("C5", 3))
	require.NoError(t, f.students.Add(newStudent("S001")))

	for _, code := range []string{"C1", "C2", "C3", "C4"} {
		_, err := f.enrollment.Enroll("S001", code)
		require.NoError(t, err)
	}
	_, err := f.enrollment.Enroll("S001", "C5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrCreditLimitExceeded))

	st, _ := f.students.FindByID("S001")
	assert.Equal(t, 16, st.TotalCredits())
	assert.False(t, st.IsEnrolled("C5"))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.enrollments.WithLabelValues(EnrollmentRejected)))
}

func TestEnrollmentServiceNotFound(t *testing.T) {
	f := newFixture()
	f.courses.Add(mustCourse("CS101", 3))
	require.NoError(t, f.students.Add(newStudent("S001")))

	_, err := f.enrollment.Enroll("S404", "CS101")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	_, err = f.enrollment.Enroll("S001", "NOPE")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	_, err = f.enrollment.Unenroll("S001", "NOPE")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	_, err = f.enrollment.RecordGrade("S404", models.GradeA)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestEnrollmentServiceRecordGrade(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.students.Add(newStudent("S001")))

	_, err := f.enrollment.RecordGrade("S001", models.GradeA)
	require.NoError(t, err)
	st, err := f.enrollment.RecordGrade("S001", models.GradeS)
	require.NoError(t, err)
	assert.InDelta(t, 9.5, st.GPA(), 1e-9)

	_, err = f.enrollment.RecordGrade("S001", "Z")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Len(t, st.Grades(), 2)
}
