package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ccrm-api/internal/dto"
	"github.com/noah-isme/ccrm-api/internal/models"
	"github.com/noah-isme/ccrm-api/internal/repository"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
)

type courseStore interface {
	SaveCourses(ctx context.Context, records []models.CourseRecord) error
	LoadCourses(ctx context.Context) ([]models.CourseRecord, error)
}

// CourseService owns the course catalogue. Unlike students, adding a course
// whose code already exists replaces the stored course.
type CourseService struct {
	courses   *repository.MemoryStore[*models.Course]
	store     courseStore
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

var _ Searchable[*models.Course] = (*CourseService)(nil)
var _ Persistable = (*CourseService)(nil)

// NewCourseService constructs the course service.
func NewCourseService(store courseStore, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{
		courses:   repository.NewMemoryStore[*models.Course](),
		store:     store,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// Add upserts course by code and reports whether an existing course was replaced.
func (s *CourseService) Add(course *models.Course) bool {
	replaced := s.courses.Put(course.Code(), course)
	if replaced {
		s.logger.Warn("course replaced", zap.String("code", course.Code()))
	} else {
		s.logger.Info("course added", zap.String("code", course.Code()))
	}
	return replaced
}

// Create validates req, builds the course and upserts it. The semester is
// matched case-insensitively.
func (s *CourseService) Create(req dto.CreateCourseRequest) (*models.Course, bool, error) {
	if req.Semester != "" {
		if semester, err := models.ParseSemester(req.Semester); err == nil {
			req.Semester = string(semester)
		}
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course, err := models.NewCourse(models.CourseConfig{
		Code:       strings.TrimSpace(req.Code),
		Title:      strings.TrimSpace(req.Title),
		Credits:    req.Credits,
		Instructor: strings.TrimSpace(req.Instructor),
		Semester:   models.Semester(req.Semester),
		Department: strings.TrimSpace(req.Department),
	})
	if err != nil {
		return nil, false, err
	}
	return course, s.Add(course), nil
}

// UpdateInstructor sets the instructor name of course code.
func (s *CourseService) UpdateInstructor(code, instructor string) error {
	instructor = strings.TrimSpace(instructor)
	if instructor == "" {
		return appErrors.Clone(appErrors.ErrValidation, "instructor is required")
	}
	course, ok := s.courses.Get(code)
	if !ok {
		return notFound("course", code)
	}
	course.SetInstructor(instructor)
	s.logger.Info("course instructor updated", zap.String("code", code), zap.String("instructor", instructor))
	return nil
}

// Deactivate clears the active flag of course code. The course stays listed.
func (s *CourseService) Deactivate(code string) error {
	course, ok := s.courses.Get(code)
	if !ok {
		return notFound("course", code)
	}
	course.SetActive(false)
	s.logger.Info("course deactivated", zap.String("code", code))
	return nil
}

// FindByID returns the course stored under code.
func (s *CourseService) FindByID(code string) (*models.Course, bool) {
	return s.courses.Get(code)
}

// FindAll returns every course in insertion order as a fresh slice.
func (s *CourseService) FindAll() []*models.Course {
	return s.courses.Values()
}

// Search returns the courses matching match.
func (s *CourseService) Search(match func(*models.Course) bool) []*models.Course {
	return s.courses.Filter(match)
}

// FindByDepartment matches the department case-insensitively.
func (s *CourseService) FindByDepartment(department string) []*models.Course {
	return s.Search(func(c *models.Course) bool { return strings.EqualFold(c.Department(), department) })
}

// FindByInstructor matches the instructor name case-insensitively.
func (s *CourseService) FindByInstructor(instructor string) []*models.Course {
	return s.Search(func(c *models.Course) bool { return strings.EqualFold(c.Instructor(), instructor) })
}

// FindBySemester returns the courses running in semester.
func (s *CourseService) FindBySemester(semester models.Semester) []*models.Course {
	return s.Search(func(c *models.Course) bool { return c.Semester() == semester })
}

// FindByMinCredits returns the courses worth at least min credits.
func (s *CourseService) FindByMinCredits(min int) []*models.Course {
	return s.Search(func(c *models.Course) bool { return c.Credits() >= min })
}

// Count returns the number of stored courses.
func (s *CourseService) Count() int {
	return s.courses.Len()
}

// Save writes the catalogue to the store.
func (s *CourseService) Save(ctx context.Context) error {
	records := make([]models.CourseRecord, 0, s.courses.Len())
	for _, c := range s.courses.Values() {
		records = append(records, c.Record())
	}
	err := persist(s.metrics, s.logger, "courses", "save", func() error {
		return s.store.SaveCourses(ctx, records)
	})
	if err == nil {
		s.logger.Info("courses saved", zap.Int("count", len(records)))
	}
	return err
}

// Load replaces the catalogue with the stored snapshot. A snapshot holding an
// invalid course is rejected as a whole.
func (s *CourseService) Load(ctx context.Context) error {
	var restored []*models.Course
	err := persist(s.metrics, s.logger, "courses", "load", func() error {
		records, err := s.store.LoadCourses(ctx)
		if err != nil {
			return err
		}
		restored = make([]*models.Course, 0, len(records))
		for i, rec := range records {
			course, err := models.RestoreCourse(rec)
			if err != nil {
				return fmt.Errorf("course record %d: %w", i+1, err)
			}
			restored = append(restored, course)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.courses.Reset(restored, func(c *models.Course) string { return c.Code() })
	s.logger.Info("courses loaded", zap.Int("count", len(restored)))
	return nil
}
