package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
)

func TestDataServiceSeed(t *testing.T) {
	f := newFixture()
	assert.True(t, f.data.Empty())
	require.NoError(t, f.data.SeedSampleData())

	john, ok := f.students.FindByID("S001")
	require.True(t, ok)
	assert.Equal(t, []string{"CS101"}, john.EnrolledCourses())
	assert.InDelta(t, 9.0, john.GPA(), 1e-9)

	jane, _ := f.students.FindByID("S002")
	assert.Equal(t, 4, jane.TotalCredits())
	assert.InDelta(t, 10.0, jane.GPA(), 1e-9)

	c, _ := f.courses.FindByID("CS101")
	assert.Equal(t, "Dr. Wilson", c.Instructor())
	assert.False(t, f.data.Empty())
}

func TestDataServiceSaveAndLoadAll(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.data.LoadAll(ctx)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	require.NoError(t, f.data.SeedSampleData())
	counts, err := f.data.SaveAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Students)
	assert.Equal(t, 3, f.store.saves)

	fresh := newFixture()
	fresh.store = f.store
	fresh.students = NewStudentService(f.store, nil, nil, nil)
	fresh.courses = NewCourseService(f.store, nil, nil, nil)
	fresh.instructors = NewInstructorService(f.store, fresh.courses, nil, nil, nil)
	data := NewDataService(fresh.students, fresh.courses, fresh.instructors, NewEnrollmentService(fresh.students, fresh.courses, nil, nil), nil)

	loaded, err := data.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Students)
	assert.Equal(t, 2, loaded.Courses)
	assert.Zero(t, loaded.Instructors)
}

func TestDataServiceSaveAllStopsOnFailure(t *testing.T) {
	f := newFixture()
	f.store.saveErr = errDiskFull
	_, err := f.data.SaveAll(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrPersistence))
}
