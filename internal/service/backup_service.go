package service

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/ccrm-api/internal/dto"
	"github.com/noah-isme/ccrm-api/internal/models"
	"github.com/noah-isme/ccrm-api/internal/repository"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
	"github.com/noah-isme/ccrm-api/pkg/export"
	"github.com/noah-isme/ccrm-api/pkg/storage"
)

const (
	backupDirLayout   = "2006-01-02_15-04-05"
	backupManifest    = "manifest.yaml"
	backupDataVersion = 1
)

var enrollmentHeaders = []string{"student_id", "course_code", "credits"}

type backupStorage interface {
	Root() string
	Save(filename string, data []byte) (string, error)
	Size(dir string) (int64, error)
	Tree(dir string, maxDepth int) ([]storage.Entry, error)
}

type studentLister interface {
	FindAll() []*models.Student
}

type courseLister interface {
	FindAll() []*models.Course
	FindByID(code string) (*models.Course, bool)
}

type instructorLister interface {
	FindAll() []*models.Instructor
}

// BackupService writes timestamped copies of the in-memory data under the
// backup folder and inspects that folder.
type BackupService struct {
	storage     backupStorage
	students    studentLister
	courses     courseLister
	instructors instructorLister
	csv         csvRenderer
	metrics     *MetricsService
	logger      *zap.Logger
	now         func() time.Time
}

// NewBackupService constructs BackupService.
func NewBackupService(storage backupStorage, students studentLister, courses courseLister, instructors instructorLister, csv csvRenderer, metrics *MetricsService, logger *zap.Logger) *BackupService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{
		storage:     storage,
		students:    students,
		courses:     courses,
		instructors: instructors,
		csv:         csv,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateBackup writes students.csv, courses.csv, instructors.csv,
// enrollments.csv and manifest.yaml into a new backup_<timestamp> directory.
func (s *BackupService) CreateBackup(ctx context.Context) (*dto.BackupResult, error) {
	result, err := s.createBackup(ctx)
	s.metrics.RecordBackup(err)
	if err != nil {
		s.logger.Error("backup failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("backup created", zap.String("directory", result.Directory), zap.String("backup_id", result.Manifest.ID))
	return result, nil
}

func (s *BackupService) createBackup(ctx context.Context) (*dto.BackupResult, error) {
	createdAt := s.now()
	dir := "backup_" + createdAt.Format(backupDirLayout)

	students := s.students.FindAll()
	courses := s.courses.FindAll()
	instructors := s.instructors.FindAll()

	studentRecords := make([]models.StudentRecord, 0, len(students))
	enrollments := make([]map[string]string, 0)
	for _, st := range students {
		studentRecords = append(studentRecords, st.Record())
		for _, code := range st.EnrolledCourses() {
			credits := ""
			if c, ok := s.courses.FindByID(code); ok {
				credits = strconv.Itoa(c.Credits())
			}
			enrollments = append(enrollments, map[string]string{"student_id": st.ID(), "course_code": code, "credits": credits})
		}
	}
	courseRecords := make([]models.CourseRecord, 0, len(courses))
	for _, c := range courses {
		courseRecords = append(courseRecords, c.Record())
	}
	instructorRecords := make([]models.InstructorRecord, 0, len(instructors))
	for _, i := range instructors {
		instructorRecords = append(instructorRecords, i.Record())
	}

	files := []struct {
		name string
		data export.Dataset
	}{
		{"students.csv", repository.StudentDataset(studentRecords)},
		{"courses.csv", repository.CourseDataset(courseRecords)},
		{"instructors.csv", repository.InstructorDataset(instructorRecords)},
		{"enrollments.csv", export.Dataset{Headers: enrollmentHeaders, Rows: enrollments}},
	}

	manifest := dto.BackupManifest{
		ID:        uuid.NewString(),
		CreatedAt: createdAt.UTC(),
		Counts: map[string]int{
			"students":    len(studentRecords),
			"courses":     len(courseRecords),
			"instructors": len(instructorRecords),
			"enrollments": len(enrollments),
		},
		DataVersion: backupDataVersion,
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		payload, err := s.csv.Render(f.data)
		if err != nil {
			return nil, appErrors.Persistence(err, "failed to render "+f.name)
		}
		if _, err := s.storage.Save(path.Join(dir, f.name), payload); err != nil {
			return nil, appErrors.Persistence(err, "failed to write "+f.name)
		}
		manifest.Files = append(manifest.Files, f.name)
	}

	raw, err := yaml.Marshal(manifest)
	if err != nil {
		return nil, appErrors.Persistence(err, "failed to encode backup manifest")
	}
	if _, err := s.storage.Save(path.Join(dir, backupManifest), raw); err != nil {
		return nil, appErrors.Persistence(err, "failed to write backup manifest")
	}

	return &dto.BackupResult{Directory: path.Join(s.storage.Root(), dir), Manifest: manifest}, nil
}

// DirectorySize sums the size of every file below dir, relative to the
// backup folder. An empty dir means the whole folder; a missing one is 0.
// Absolute paths and paths climbing out of the folder are rejected.
func (s *BackupService) DirectorySize(dir string) (*dto.DirectorySize, error) {
	if dir == "" {
		dir = "."
	}
	if !filepath.IsLocal(dir) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("path %q must stay inside the backup folder", dir))
	}
	size, err := s.storage.Size(dir)
	if err != nil {
		return nil, appErrors.Persistence(err, "failed to measure backup directory")
	}
	return &dto.DirectorySize{Path: path.Join(s.storage.Root(), dir), Bytes: size, Human: humanBytes(size)}, nil
}

// ListFiles lists the backup folder down to maxDepth levels.
func (s *BackupService) ListFiles(maxDepth int) ([]storage.Entry, error) {
	if maxDepth <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "depth must be positive")
	}
	entries, err := s.storage.Tree(".", maxDepth)
	if err != nil {
		return nil, appErrors.Persistence(err, "failed to list backup directory")
	}
	if entries == nil {
		entries = []storage.Entry{}
	}
	return entries, nil
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
