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

type instructorStore interface {
	SaveInstructors(ctx context.Context, records []models.InstructorRecord) error
	LoadInstructors(ctx context.Context) ([]models.InstructorRecord, error)
}

// InstructorService owns the instructor table and hands courses to instructors.
type InstructorService struct {
	instructors *repository.MemoryStore[*models.Instructor]
	courses     *CourseService
	store       instructorStore
	validator   *validator.Validate
	metrics     *MetricsService
	logger      *zap.Logger
}

var _ Searchable[*models.Instructor] = (*InstructorService)(nil)
var _ Persistable = (*InstructorService)(nil)

// NewInstructorService constructs the instructor service.
func NewInstructorService(store instructorStore, courses *CourseService, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *InstructorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstructorService{
		instructors: repository.NewMemoryStore[*models.Instructor](),
		courses:     courses,
		store:       store,
		validator:   validate,
		metrics:     metrics,
		logger:      logger,
	}
}

// Add stores a new instructor, rejecting a taken id with DUPLICATE_KEY.
func (s *InstructorService) Add(instructor *models.Instructor) error {
	if instructor == nil || strings.TrimSpace(instructor.ID()) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "instructor id is required")
	}
	if !s.instructors.Insert(instructor.ID(), instructor) {
		return appErrors.Clone(appErrors.ErrDuplicateKey, fmt.Sprintf("instructor %s already exists", instructor.ID()))
	}
	s.logger.Info("instructor added", zap.String("instructor_id", instructor.ID()))
	return nil
}

// Register validates req and adds the resulting instructor.
func (s *InstructorService) Register(req dto.CreateInstructorRequest) (*models.Instructor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid instructor payload")
	}
	instructor := models.NewInstructor(strings.TrimSpace(req.ID), models.NewName(req.FirstName, req.LastName), strings.TrimSpace(req.Email), strings.TrimSpace(req.Department))
	if err := s.Add(instructor); err != nil {
		return nil, err
	}
	return instructor, nil
}

// AssignCourse hands course code to instructor id: the course takes the
// instructor's name and any other instructor holding the code loses it.
func (s *InstructorService) AssignCourse(id, code string) error {
	instructor, ok := s.instructors.Get(id)
	if !ok {
		return notFound("instructor", id)
	}
	course, ok := s.courses.FindByID(code)
	if !ok {
		return notFound("course", code)
	}
	for _, other := range s.instructors.Values() {
		if other.ID() != id {
			other.UnassignCourse(code)
		}
	}
	instructor.AssignCourse(code)
	course.SetInstructor(instructor.FullName().Full())
	s.logger.Info("course assigned", zap.String("instructor_id", id), zap.String("code", code))
	return nil
}

// FindByID returns the instructor stored under id.
func (s *InstructorService) FindByID(id string) (*models.Instructor, bool) {
	return s.instructors.Get(id)
}

// FindAll returns every instructor in insertion order as a fresh slice.
func (s *InstructorService) FindAll() []*models.Instructor {
	return s.instructors.Values()
}

// Search returns the instructors matching match.
func (s *InstructorService) Search(match func(*models.Instructor) bool) []*models.Instructor {
	return s.instructors.Filter(match)
}

// FindByDepartment matches the department case-insensitively.
func (s *InstructorService) FindByDepartment(department string) []*models.Instructor {
	return s.Search(func(i *models.Instructor) bool { return strings.EqualFold(i.Department(), department) })
}

// Count returns the number of stored instructors.
func (s *InstructorService) Count() int {
	return s.instructors.Len()
}

// Save writes every instructor to the store.
func (s *InstructorService) Save(ctx context.Context) error {
	records := make([]models.InstructorRecord, 0, s.instructors.Len())
	for _, i := range s.instructors.Values() {
		records = append(records, i.Record())
	}
	return persist(s.metrics, s.logger, "instructors", "save", func() error {
		return s.store.SaveInstructors(ctx, records)
	})
}

// Load replaces the table with the stored snapshot.
func (s *InstructorService) Load(ctx context.Context) error {
	var records []models.InstructorRecord
	err := persist(s.metrics, s.logger, "instructors", "load", func() error {
		var err error
		records, err = s.store.LoadInstructors(ctx)
		return err
	})
	if err != nil {
		return err
	}
	restored := make([]*models.Instructor, 0, len(records))
	for _, rec := range records {
		restored = append(restored, models.RestoreInstructor(rec))
	}
	s.instructors.Reset(restored, func(i *models.Instructor) string { return i.ID() })
	s.logger.Info("instructors loaded", zap.Int("count", len(restored)))
	return nil
}
