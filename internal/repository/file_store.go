package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/noah-isme/ccrm-api/internal/models"
	"github.com/noah-isme/ccrm-api/pkg/export"
)

const (
	studentsFile    = "students.csv"
	coursesFile     = "courses.csv"
	instructorsFile = "instructors.csv"
)

var (
	studentHeaders    = []string{"id", "reg_no", "first_name", "last_name", "email", "status", "enrolled_courses", "total_credits", "grades", "created_at"}
	courseHeaders     = []string{"code", "title", "credits", "instructor", "semester", "department", "active", "created_at"}
	instructorHeaders = []string{"id", "first_name", "last_name", "email", "department", "assigned_courses", "created_at"}
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// FileStore keeps snapshots as CSV files in the data folder.
type FileStore struct {
	storage fileStorage
	csv     csvRenderer
}

// NewFileStore constructs a FileStore writing through storage.
func NewFileStore(storage fileStorage, renderer csvRenderer) *FileStore {
	if renderer == nil {
		renderer = export.NewCSVExporter()
	}
	return &FileStore{storage: storage, csv: renderer}
}

// StudentDataset flattens student records into CSV rows.
func StudentDataset(records []models.StudentRecord) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]string{
			"id":               rec.ID,
			"reg_no":           rec.RegNo,
			"first_name":       rec.FirstName,
			"last_name":        rec.LastName,
			"email":            rec.Email,
			"status":           string(rec.Status),
			"enrolled_courses": joinList(rec.EnrolledCourses),
			"total_credits":    strconv.Itoa(rec.TotalCredits),
			"grades":           joinList(rec.Grades),
			"created_at":       rec.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return export.Dataset{Headers: studentHeaders, Rows: rows}
}

// CourseDataset flattens course records into CSV rows.
func CourseDataset(records []models.CourseRecord) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]string{
			"code":       rec.Code,
			"title":      rec.Title,
			"credits":    strconv.Itoa(rec.Credits),
			"instructor": rec.Instructor,
			"semester":   string(rec.Semester),
			"department": rec.Department,
			"active":     strconv.FormatBool(rec.Active),
			"created_at": rec.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return export.Dataset{Headers: courseHeaders, Rows: rows}
}

// InstructorDataset flattens instructor records into CSV rows.
func InstructorDataset(records []models.InstructorRecord) export.Dataset {
	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]string{
			"id":               rec.ID,
			"first_name":       rec.FirstName,
			"last_name":        rec.LastName,
			"email":            rec.Email,
			"department":       rec.Department,
			"assigned_courses": joinList(rec.AssignedCourses),
			"created_at":       rec.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	return export.Dataset{Headers: instructorHeaders, Rows: rows}
}

// SaveStudents overwrites students.csv.
func (s *FileStore) SaveStudents(ctx context.Context, records []models.StudentRecord) error {
	for _, rec := range records {
		if err := checkList("student "+rec.ID+" enrolled_courses", rec.EnrolledCourses); err != nil {
			return err
		}
		if err := checkList("student "+rec.ID+" grades", rec.Grades); err != nil {
			return err
		}
	}
	return s.write(ctx, studentsFile, StudentDataset(records))
}

// LoadStudents reads students.csv.
func (s *FileStore) LoadStudents(ctx context.Context) ([]models.StudentRecord, error) {
	rows, err := s.read(ctx, studentsFile, studentHeaders)
	if err != nil {
		return nil, err
	}
	out := make([]models.StudentRecord, 0, len(rows))
	for i, row := range rows {
		credits, err := strconv.Atoi(row["total_credits"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: total_credits: %w", studentsFile, i+1, err)
		}
		createdAt, err := parseTime(row["created_at"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: created_at: %w", studentsFile, i+1, err)
		}
		out = append(out, models.StudentRecord{
			ID:              row["id"],
			RegNo:           row["reg_no"],
			FirstName:       row["first_name"],
			LastName:        row["last_name"],
			Email:           row["email"],
			Status:          models.StudentStatus(row["status"]),
			EnrolledCourses: splitList[string](row["enrolled_courses"]),
			TotalCredits:    credits,
			Grades:          splitList[models.Grade](row["grades"]),
			CreatedAt:       createdAt,
		})
	}
	return out, nil
}

// SaveCourses overwrites courses.csv.
func (s *FileStore) SaveCourses(ctx context.Context, records []models.CourseRecord) error {
	return s.write(ctx, coursesFile, CourseDataset(records))
}

// LoadCourses reads courses.csv.
func (s *FileStore) LoadCourses(ctx context.Context) ([]models.CourseRecord, error) {
	rows, err := s.read(ctx, coursesFile, courseHeaders)
	if err != nil {
		return nil, err
	}
	out := make([]models.CourseRecord, 0, len(rows))
	for i, row := range rows {
		credits, err := strconv.Atoi(row["credits"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: credits: %w", coursesFile, i+1, err)
		}
		active, err := strconv.ParseBool(row["active"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: active: %w", coursesFile, i+1, err)
		}
		createdAt, err := parseTime(row["created_at"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: created_at: %w", coursesFile, i+1, err)
		}
		out = append(out, models.CourseRecord{
			Code:       row["code"],
			Title:      row["title"],
			Credits:    credits,
			Instructor: row["instructor"],
			Semester:   models.Semester(row["semester"]),
			Department: row["department"],
			Active:     active,
			CreatedAt:  createdAt,
		})
	}
	return out, nil
}

// SaveInstructors overwrites instructors.csv.
func (s *FileStore) SaveInstructors(ctx context.Context, records []models.InstructorRecord) error {
	for _, rec := range records {
		if err := checkList("instructor "+rec.ID+" assigned_courses", rec.AssignedCourses); err != nil {
			return err
		}
	}
	return s.write(ctx, instructorsFile, InstructorDataset(records))
}

// LoadInstructors reads instructors.csv.
func (s *FileStore) LoadInstructors(ctx context.Context) ([]models.InstructorRecord, error) {
	rows, err := s.read(ctx, instructorsFile, instructorHeaders)
	if err != nil {
		return nil, err
	}
	out := make([]models.InstructorRecord, 0, len(rows))
	for i, row := range rows {
		createdAt, err := parseTime(row["created_at"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: created_at: %w", instructorsFile, i+1, err)
		}
		out = append(out, models.InstructorRecord{
			ID:              row["id"],
			FirstName:       row["first_name"],
			LastName:        row["last_name"],
			Email:           row["email"],
			Department:      row["department"],
			AssignedCourses: splitList[string](row["assigned_courses"]),
			CreatedAt:       createdAt,
		})
	}
	return out, nil
}

func (s *FileStore) write(ctx context.Context, name string, data export.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := s.csv.Render(data)
	if err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	if _, err := s.storage.Save(name, payload); err != nil {
		return err
	}
	return nil
}

func (s *FileStore) read(ctx context.Context, name string, headers []string) ([]map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := s.storage.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}
	defer file.Close() //nolint:errcheck

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse %s: missing header", name)
	}
	index := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		index[h] = i
	}
	for _, h := range headers {
		if _, ok := index[h]; !ok {
			return nil, fmt.Errorf("parse %s: missing column %q", name, h)
		}
	}
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(headers))
		for _, h := range headers {
			if idx := index[h]; idx < len(rec) {
				row[h] = rec[idx]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, raw)
}
