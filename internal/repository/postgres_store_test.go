package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm-api/internal/models"
)

func newPostgresStoreMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresStore(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestPostgresStoreSaveStudentsReplacesRows(t *testing.T) {
	store, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	now := time.Now().UTC()
	records := []models.StudentRecord{
		{ID: "S001", RegNo: "REG001", FirstName: "John", LastName: "Doe", Email: "john@example.com", Status: models.StatusActive, EnrolledCourses: []string{"CS101"}, TotalCredits: 3, Grades: []models.Grade{models.GradeA}, CreatedAt: now},
		{ID: "S002", RegNo: "REG002", FirstName: "Jane", LastName: "Smith", Email: "jane@example.com", Status: models.StatusActive, CreatedAt: now},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM ccrm_students")).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ccrm_students")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ccrm_students")).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, store.SaveStudents(context.Background(), records))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSaveRollsBackOnFailure(t *testing.T) {
	store, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM ccrm_courses")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ccrm_courses")).WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := store.SaveCourses(context.Background(), []models.CourseRecord{{Code: "CS101", Title: "Intro", Credits: 3, Semester: models.SemesterFall, Active: true}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert into ccrm_courses")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadStudents(t *testing.T) {
	store, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"position", "id", "reg_no", "first_name", "last_name", "email", "status", "enrolled_courses", "total_credits", "grades", "created_at"}).
		AddRow(0, "S001", "REG001", "John", "Doe", "john@example.com", "ACTIVE", "{CS101}", 3, "{A}", now).
		AddRow(1, "S002", "REG002", "Jane", "Smith", "jane@example.com", "GRADUATED", "{}", 0, "{}", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM ccrm_students ORDER BY position")).WillReturnRows(rows)

	got, err := store.LoadStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "S001", got[0].ID)
	assert.Equal(t, []string{"CS101"}, got[0].EnrolledCourses)
	assert.Equal(t, []models.Grade{models.GradeA}, got[0].Grades)
	assert.Equal(t, models.StatusGraduated, got[1].Status)
	assert.Empty(t, got[1].EnrolledCourses)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreLoadCoursesAndInstructors(t *testing.T) {
	store, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM ccrm_courses ORDER BY position")).WillReturnRows(
		sqlmock.NewRows([]string{"position", "code", "title", "credits", "instructor", "semester", "department", "active", "created_at"}).
			AddRow(0, "MATH201", "Calculus II", 4, "Prof. Johnson", "SPRING", "Mathematics", true, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM ccrm_instructors ORDER BY position")).WillReturnRows(
		sqlmock.NewRows([]string{"position", "id", "first_name", "last_name", "email", "department", "assigned_courses", "created_at"}).
			AddRow(0, "I001", "Ada", "Wilson", "ada@example.com", "Computer Science", "{CS101,CS102}", now))

	courses, err := store.LoadCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, models.SemesterSpring, courses[0].Semester)
	assert.Equal(t, 4, courses[0].Credits)

	instructors, err := store.LoadInstructors(context.Background())
	require.NoError(t, err)
	require.Len(t, instructors, 1)
	assert.Equal(t, []string{"CS101", "CS102"}, instructors[0].AssignedCourses)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreEnsureSchema(t *testing.T) {
	store, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS ccrm_students").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, store.EnsureSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
