package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm-api/internal/models"
)

func TestRedisStoreKeys(t *testing.T) {
	store := NewRedisStore(nil, "")
	assert.Equal(t, "ccrm:students", store.key("students"))

	store = NewRedisStore(nil, "campus")
	assert.Equal(t, "campus:courses", store.key("courses"))
}

func TestRedisStoreUnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	store := NewRedisStore(client, "test")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := store.SaveStudents(ctx, []models.StudentRecord{{ID: "S001"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set test:students")

	_, err = store.LoadCourses(ctx)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoSnapshot))
}

func newMiniRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test"), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newMiniRedisStore(t)
	ctx := context.Background()
	created := time.Date(2024, 9, 1, 8, 30, 0, 0, time.UTC)

	students := []models.StudentRecord{{
		ID:              "S001",
		RegNo:           "REG001",
		FirstName:       "John",
		LastName:        "Doe",
		Email:           "john@example.com",
		Status:          models.StatusActive,
		EnrolledCourses: []string{"CS101", "MATH201"},
		TotalCredits:    7,
		Grades:          []models.Grade{models.GradeS, models.GradeA},
		CreatedAt:       created,
	}}
	courses := []models.CourseRecord{{
		Code: "CS101", Title: "Intro", Credits: 3, Instructor: "I001",
		Semester: models.SemesterFall, Department: "CS", Active: true, CreatedAt: created,
	}}
	instructors := []models.InstructorRecord{{
		ID: "I001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Department: "CS", AssignedCourses: []string{"CS101"}, CreatedAt: created,
	}}

	require.NoError(t, store.SaveStudents(ctx, students))
	require.NoError(t, store.SaveCourses(ctx, courses))
	require.NoError(t, store.SaveInstructors(ctx, instructors))
	assert.True(t, mr.Exists("test:students"))
	assert.True(t, mr.Exists("test:courses"))
	assert.True(t, mr.Exists("test:instructors"))

	gotStudents, err := store.LoadStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, students, gotStudents)

	gotCourses, err := store.LoadCourses(ctx)
	require.NoError(t, err)
	assert.Equal(t, courses, gotCourses)

	gotInstructors, err := store.LoadInstructors(ctx)
	require.NoError(t, err)
	assert.Equal(t, instructors, gotInstructors)
}

func TestRedisStoreMissingKey(t *testing.T) {
	store, mr := newMiniRedisStore(t)
	ctx := context.Background()

	_, err := store.LoadStudents(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	require.NoError(t, store.SaveCourses(ctx, []models.CourseRecord{}))
	got, err := store.LoadCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	mr.Del("test:courses")
	_, err = store.LoadCourses(ctx)
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestRedisStoreRejectsCorruptValue(t *testing.T) {
	store, mr := newMiniRedisStore(t)
	require.NoError(t, mr.Set("test:instructors", "not json"))

	_, err := store.LoadInstructors(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoSnapshot))
}
