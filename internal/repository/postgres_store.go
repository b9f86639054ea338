package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/ccrm-api/internal/models"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS ccrm_students (
	position INT PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	reg_no TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL,
	status TEXT NOT NULL,
	enrolled_courses TEXT[] NOT NULL DEFAULT '{}',
	total_credits INT NOT NULL,
	grades TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS ccrm_courses (
	position INT PRIMARY KEY,
	code TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	credits INT NOT NULL,
	instructor TEXT NOT NULL,
	semester TEXT NOT NULL,
	department TEXT NOT NULL,
	active BOOLEAN NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS ccrm_instructors (
	position INT PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	email TEXT NOT NULL,
	department TEXT NOT NULL,
	assigned_courses TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL
);`

type studentRow struct {
	Position        int            `db:"position"`
	ID              string         `db:"id"`
	RegNo           string         `db:"reg_no"`
	FirstName       string         `db:"first_name"`
	LastName        string         `db:"last_name"`
	Email           string         `db:"email"`
	Status          string         `db:"status"`
	EnrolledCourses pq.StringArray `db:"enrolled_courses"`
	TotalCredits    int            `db:"total_credits"`
	Grades          pq.StringArray `db:"grades"`
	CreatedAt       time.Time      `db:"created_at"`
}

type courseRow struct {
	Position int `db:"position"`
	models.CourseRecord
}

type instructorRow struct {
	Position        int            `db:"position"`
	ID              string         `db:"id"`
	FirstName       string         `db:"first_name"`
	LastName        string         `db:"last_name"`
	Email           string         `db:"email"`
	Department      string         `db:"department"`
	AssignedCourses pq.StringArray `db:"assigned_courses"`
	CreatedAt       time.Time      `db:"created_at"`
}

// PostgresStore keeps snapshots in three tables, one row per entity. The
// position column preserves insertion order across a round trip.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the snapshot tables when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SaveStudents replaces the students table contents.
func (s *PostgresStore) SaveStudents(ctx context.Context, records []models.StudentRecord) error {
	rows := make([]studentRow, 0, len(records))
	for i, rec := range records {
		grades := make([]string, len(rec.Grades))
		for j, g := range rec.Grades {
			grades[j] = string(g)
		}
		rows = append(rows, studentRow{
			Position:        i,
			ID:              rec.ID,
			RegNo:           rec.RegNo,
			FirstName:       rec.FirstName,
			LastName:        rec.LastName,
			Email:           rec.Email,
			Status:          string(rec.Status),
			EnrolledCourses: pq.StringArray(nonNil(rec.EnrolledCourses)),
			TotalCredits:    rec.TotalCredits,
			Grades:          pq.StringArray(grades),
			CreatedAt:       rec.CreatedAt,
		})
	}
	return replaceTable(ctx, s.db, "ccrm_students", `INSERT INTO ccrm_students
		(position, id, reg_no, first_name, last_name, email, status, enrolled_courses, total_credits, grades, created_at)
		VALUES (:position, :id, :reg_no, :first_name, :last_name, :email, :status, :enrolled_courses, :total_credits, :grades, :created_at)`, rows)
}

// LoadStudents returns every stored student in saved order.
func (s *PostgresStore) LoadStudents(ctx context.Context) ([]models.StudentRecord, error) {
	var rows []studentRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT position, id, reg_no, first_name, last_name, email, status,
		enrolled_courses, total_credits, grades, created_at FROM ccrm_students ORDER BY position`); err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	out := make([]models.StudentRecord, 0, len(rows))
	for _, row := range rows {
		grades := make([]models.Grade, len(row.Grades))
		for i, g := range row.Grades {
			grades[i] = models.Grade(g)
		}
		out = append(out, models.StudentRecord{
			ID:              row.ID,
			RegNo:           row.RegNo,
			FirstName:       row.FirstName,
			LastName:        row.LastName,
			Email:           row.Email,
			Status:          models.StudentStatus(row.Status),
			EnrolledCourses: []string(row.EnrolledCourses),
			TotalCredits:    row.TotalCredits,
			Grades:          grades,
			CreatedAt:       row.CreatedAt,
		})
	}
	return out, nil
}

// SaveCourses replaces the courses table contents.
func (s *PostgresStore) SaveCourses(ctx context.Context, records []models.CourseRecord) error {
	rows := make([]courseRow, 0, len(records))
	for i, rec := range records {
		rows = append(rows, courseRow{Position: i, CourseRecord: rec})
	}
	return replaceTable(ctx, s.db, "ccrm_courses", `INSERT INTO ccrm_courses
		(position, code, title, credits, instructor, semester, department, active, created_at)
		VALUES (:position, :code, :title, :credits, :instructor, :semester, :department, :active, :created_at)`, rows)
}

// LoadCourses returns every stored course in saved order.
func (s *PostgresStore) LoadCourses(ctx context.Context) ([]models.CourseRecord, error) {
	var rows []courseRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT position, code, title, credits, instructor, semester,
		department, active, created_at FROM ccrm_courses ORDER BY position`); err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	out := make([]models.CourseRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.CourseRecord)
	}
	return out, nil
}

// SaveInstructors replaces the instructors table contents.
func (s *PostgresStore) SaveInstructors(ctx context.Context, records []models.InstructorRecord) error {
	rows := make([]instructorRow, 0, len(records))
	for i, rec := range records {
		rows = append(rows, instructorRow{
			Position:        i,
			ID:              rec.ID,
			FirstName:       rec.FirstName,
			LastName:        rec.LastName,
			Email:           rec.Email,
			Department:      rec.Department,
			AssignedCourses: pq.StringArray(nonNil(rec.AssignedCourses)),
			CreatedAt:       rec.CreatedAt,
		})
	}
	return replaceTable(ctx, s.db, "ccrm_instructors", `INSERT INTO ccrm_instructors
		(position, id, first_name, last_name, email, department, assigned_courses, created_at)
		VALUES (:position, :id, :first_name, :last_name, :email, :department, :assigned_courses, :created_at)`, rows)
}

// LoadInstructors returns every stored instructor in saved order.
func (s *PostgresStore) LoadInstructors(ctx context.Context) ([]models.InstructorRecord, error) {
	var rows []instructorRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT position, id, first_name, last_name, email, department,
		assigned_courses, created_at FROM ccrm_instructors ORDER BY position`); err != nil {
		return nil, fmt.Errorf("load instructors: %w", err)
	}
	out := make([]models.InstructorRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.InstructorRecord{
			ID:              row.ID,
			FirstName:       row.FirstName,
			LastName:        row.LastName,
			Email:           row.Email,
			Department:      row.Department,
			AssignedCourses: []string(row.AssignedCourses),
			CreatedAt:       row.CreatedAt,
		})
	}
	return out, nil
}

// replaceTable deletes every row of table and inserts rows in one transaction.
func replaceTable[T any](ctx context.Context, db *sqlx.DB, table, insert string, rows []T) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace %s: %w", table, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for _, row := range rows {
		if _, err = tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace %s: %w", table, err)
	}
	return nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
