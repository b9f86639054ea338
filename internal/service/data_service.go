package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/ccrm-api/internal/dto"
	"github.com/noah-isme/ccrm-api/internal/models"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
)

// DataService saves and loads every entity service together.
type DataService struct {
	students    *StudentService
	courses     *CourseService
	instructors *InstructorService
	enrollment  *EnrollmentService
	logger      *zap.Logger
}

// NewDataService constructs DataService.
func NewDataService(students *StudentService, courses *CourseService, instructors *InstructorService, enrollment *EnrollmentService, logger *zap.Logger) *DataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DataService{students: students, courses: courses, instructors: instructors, enrollment: enrollment, logger: logger}
}

func (s *DataService) persistables() []Persistable {
	return []Persistable{s.courses, s.students, s.instructors}
}

// SaveAll saves courses, students and instructors, stopping at the first failure.
func (s *DataService) SaveAll(ctx context.Context) (dto.DataCounts, error) {
	for _, p := range s.persistables() {
		if err := p.Save(ctx); err != nil {
			return dto.DataCounts{}, err
		}
	}
	return s.Counts(), nil
}

// LoadAll loads every service. A collection without a snapshot is skipped;
// NOT_FOUND is returned only when nothing was saved at all. Any other failure
// stops the load.
func (s *DataService) LoadAll(ctx context.Context) (dto.DataCounts, error) {
	missing := 0
	for _, p := range s.persistables() {
		err := p.Load(ctx)
		switch {
		case err == nil:
		case errors.Is(err, appErrors.ErrNotFound):
			missing++
		default:
			return dto.DataCounts{}, err
		}
	}
	if missing == len(s.persistables()) {
		return dto.DataCounts{}, appErrors.Clone(appErrors.ErrNotFound, "no saved data")
	}
	counts := s.Counts()
	s.logger.Info("data loaded", zap.Int("students", counts.Students), zap.Int("courses", counts.Courses), zap.Int("instructors", counts.Instructors))
	return counts, nil
}

// Counts reports the size of every table.
func (s *DataService) Counts() dto.DataCounts {
	return dto.DataCounts{
		Students:    Count[*models.Student](s.students),
		Courses:     Count[*models.Course](s.courses),
		Instructors: Count[*models.Instructor](s.instructors),
	}
}

// Empty reports whether no entity is stored.
func (s *DataService) Empty() bool {
	c := s.Counts()
	return c.Students == 0 && c.Courses == 0 && c.Instructors == 0
}

// SeedSampleData installs the demo catalogue: two students, two courses,
// one enrollment and grade each.
func (s *DataService) SeedSampleData() error {
	cs101, err := models.NewCourse(models.CourseConfig{
		Code: "CS101", Title: "Introduction to Programming", Credits: 3,
		Instructor: "Dr. Wilson", Semester: models.SemesterFall, Department: "Computer Science",
	})
	if err != nil {
		return err
	}
	math201, err := models.NewCourse(models.CourseConfig{
		Code: "MATH201", Title: "Calculus II", Credits: 4,
		Instructor: "Prof. Johnson", Semester: models.SemesterSpring, Department: "Mathematics",
	})
	if err != nil {
		return err
	}
	s.courses.Add(cs101)
	s.courses.Add(math201)

	seed := []struct {
		student *models.Student
		course  string
		grade   models.Grade
	}{
		{models.NewStudent("S001", models.NewName("John", "Doe"), "john@example.com", "REG001"), "CS101", models.GradeA},
		{models.NewStudent("S002", models.NewName("Jane", "Smith"), "jane@example.com", "REG002"), "MATH201", models.GradeS},
	}
	for _, item := range seed {
		if err := s.students.Add(item.student); err != nil {
			return fmt.Errorf("seed %s: %w", item.student.ID(), err)
		}
		if _, err := s.enrollment.Enroll(item.student.ID(), item.course); err != nil {
			return fmt.Errorf("seed %s: %w", item.student.ID(), err)
		}
		if _, err := s.enrollment.RecordGrade(item.student.ID(), item.grade); err != nil {
			return fmt.Errorf("seed %s: %w", item.student.ID(), err)
		}
	}
	s.logger.Info("sample data seeded", zap.Int("students", len(seed)), zap.Int("courses", 2))
	return nil
}
