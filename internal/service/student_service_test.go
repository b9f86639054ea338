package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm-api/internal/dto"
	"github.com/noah-isme/ccrm-api/internal/models"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
)

func TestStudentServiceAddRejectsDuplicate(t *testing.T) {
	f := newFixture()
	original := newStudent("S001")
	require.NoError(t, f.students.Add(original))

	impostor := models.NewStudent("S001", models.NewName("Other", "Person"), "other@example.com", "REG999")
	err := f.students.Add(impostor)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateKey))

	stored, ok := f.students.FindByID("S001")
	require.True(t, ok)
	assert.Same(t, original, stored)
	assert.Equal(t, "S001@example.com", stored.Email())
	assert.Equal(t, 1, f.students.Count())
}

func TestStudentServiceRegisterValidates(t *testing.T) {
	f := newFixture()

	_, err := f.students.Register(dto.RegisterStudentRequest{ID: "S001", FirstName: "John", LastName: "Doe", Email: "not-an-email", RegNo: "REG001"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	st, err := f.students.Register(dto.RegisterStudentRequest{ID: " S001 ", FirstName: " John ", LastName: "Doe", Email: "john@example.com", RegNo: "REG001"})
	require.NoError(t, err)
	assert.Equal(t, "S001", st.ID())
	assert.Equal(t, "John Doe", st.FullName().Full())
	assert.Equal(t, models.StatusActive, st.Status())
}

func TestStudentServiceUpdatesReportNotFound(t *testing.T) {
	f := newFixture()

	err := f.students.UpdateEmail("missing", "x@example.com")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.True(t, errors.Is(f.students.Deactivate("missing"), appErrors.ErrNotFound))
	assert.Zero(t, f.students.Count())
}

func TestStudentServiceUpdateEmailAndStatus(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.students.Add(newStudent("S001")))

	require.NoError(t, f.students.UpdateEmail("S001", "new@example.com"))
	require.Error(t, f.students.UpdateEmail("S001", "broken"))

	require.NoError(t, f.students.Deactivate("S001"))
	st, _ := f.students.FindByID("S001")
	assert.Equal(t, "new@example.com", st.Email())
	assert.Equal(t, models.StatusInactive, st.Status())
	assert.Len(t, f.students.FindAll(), 1, "deactivation keeps the student")

	require.NoError(t, f.students.ChangeStatus("S001", models.StatusGraduated))
	assert.Len(t, f.students.FindByStatus(models.StatusGraduated), 1)
	assert.True(t, errors.Is(f.students.ChangeStatus("S001", "EXPELLED"), appErrors.ErrValidation))
}

func TestStudentServiceFindAllIsolation(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.students.Add(newStudent("S001")))
	require.NoError(t, f.students.Add(newStudent("S002")))

	all := f.students.FindAll()
	all[0] = newStudent("X999")
	all = append(all, newStudent("S003"))
	_ = all

	st, ok := f.students.FindByID("S001")
	require.True(t, ok)
	assert.Equal(t, "S001", st.ID())
	_, ok = f.students.FindByID("S003")
	assert.False(t, ok)
	assert.Equal(t, []string{"S001", "S002"}, studentIDs(f.students.FindAll()))
}

func TestStudentServiceTopByGPA(t *testing.T) {
	f := newFixture()
	for id, g := range map[string]models.Grade{"S3": models.GradeA, "S2": models.GradeC, "S1": models.GradeA} {
		st := newStudent(id)
		st.AddGrade(g)
		require.NoError(t, f.students.Add(st))
	}

	top := f.students.TopByGPA(2)
	assert.Equal(t, []string{"S1", "S3"}, studentIDs(top))
	assert.Len(t, f.students.TopByGPA(10), 3)
	assert.Empty(t, f.students.TopByGPA(0))
}

func TestStudentServiceSearch(t *testing.T) {
	f := newFixture()
	high := newStudent("S1")
	high.AddGrade(models.GradeS)
	low := newStudent("S2")
	low.AddGrade(models.GradeE)
	require.NoError(t, f.students.Add(high))
	require.NoError(t, f.students.Add(low))

	assert.Equal(t, []string{"S1"}, studentIDs(f.students.FindByMinGPA(9)))
	require.NoError(t, f.students.Add(newStudent("S3")))
	assert.Equal(t, []string{"S1", "S2"}, studentIDs(f.students.FindByMinGPA(0)), "ungraded students have no GPA to compare")
	assert.Equal(t, []string{"S2"}, studentIDs(f.students.Search(func(s *models.Student) bool { return s.GPA() < 6 })))
	assert.Equal(t, 2, Count[*models.Student](f.students))
}

func TestStudentServiceSaveLoadRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	st := newStudent("S001")
	require.NoError(t, st.Enroll("CS101", 3))
	st.AddGrade(models.GradeB)
	require.NoError(t, f.students.Add(st))
	require.NoError(t, f.students.Add(newStudent("S002")))
	require.NoError(t, f.students.Save(ctx))

	other := NewStudentService(f.store, nil, nil, nil)
	require.NoError(t, other.Load(ctx))
	assert.Equal(t, []string{"S001", "S002"}, studentIDs(other.FindAll()))
	loaded, _ := other.FindByID("S001")
	assert.Equal(t, 3, loaded.TotalCredits())
	assert.Equal(t, []string{"CS101"}, loaded.EnrolledCourses())
	assert.InDelta(t, 8.0, loaded.GPA(), 1e-9)
}

func TestStudentServiceLoadFailureKeepsState(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.students.Add(newStudent("S001")))

	err := f.students.Load(ctx)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound), "nothing saved yet")

	f.store.loadErr = errDiskFull
	err = f.students.Load(ctx)
	assert.True(t, errors.Is(err, appErrors.ErrPersistence))
	assert.True(t, errors.Is(err, errDiskFull))
	assert.Equal(t, 1, f.students.Count())

	f.store.saveErr = errDiskFull
	assert.True(t, errors.Is(f.students.Save(ctx), appErrors.ErrPersistence))
}

func studentIDs(students []*models.Student) []string {
	out := make([]string, len(students))
	for i, s := range students {
		out[i] = s.ID()
	}
	return out
}

func TestStudentServiceLoadRejectsInvalidSnapshot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.students.Add(newStudent("S001")))
	require.NoError(t, f.students.Save(ctx))

	f.store.students = append(f.store.students, models.StudentRecord{
		ID:              "S002",
		EnrolledCourses: []string{"CS101"},
		TotalCredits:    40,
		Grades:          []models.Grade{"Z", models.GradeS},
	})
	err := f.students.Load(ctx)
	assert.True(t, errors.Is(err, appErrors.ErrPersistence))
	assert.Equal(t, 1, f.students.Count())
	_, ok := f.students.FindByID("S002")
	assert.False(t, ok)

	f.store.students[1].TotalCredits = 3
	err = f.students.Load(ctx)
	assert.True(t, errors.Is(err, appErrors.ErrPersistence), "unknown grade still rejects the snapshot")

	f.store.students[1].Grades = []models.Grade{models.GradeS}
	require.NoError(t, f.students.Load(ctx))
	loaded, ok := f.students.FindByID("S002")
	require.True(t, ok)
	assert.Equal(t, 3, loaded.TotalCredits())
	assert.Equal(t, 10.0, loaded.GPA())
}
