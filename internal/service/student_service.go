package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ccrm-api/internal/dto"
	"github.com/noah-isme/ccrm-api/internal/models"
	"github.com/noah-isme/ccrm-api/internal/repository"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
)

type studentStore interface {
	SaveStudents(ctx context.Context, records []models.StudentRecord) error
	LoadStudents(ctx context.Context) ([]models.StudentRecord, error)
}

// StudentService owns the student table. It is not safe for concurrent use.
type StudentService struct {
	students  *repository.MemoryStore[*models.Student]
	store     studentStore
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

var _ Searchable[*models.Student] = (*StudentService)(nil)
var _ Persistable = (*StudentService)(nil)

// NewStudentService constructs the student service.
func NewStudentService(store studentStore, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		students:  repository.NewMemoryStore[*models.Student](),
		store:     store,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
	}
}

// Add stores a new student. A taken id fails with DUPLICATE_KEY and leaves
// the stored student untouched.
func (s *StudentService) Add(student *models.Student) error {
	if student == nil || strings.TrimSpace(student.ID()) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	if !s.students.Insert(student.ID(), student) {
		return appErrors.Clone(appErrors.ErrDuplicateKey, fmt.Sprintf("student %s already exists", student.ID()))
	}
	s.logger.Info("student added", zap.String("student_id", student.ID()), zap.String("reg_no", student.RegNo()))
	return nil
}

// Register validates req and adds the resulting student.
func (s *StudentService) Register(req dto.RegisterStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := models.NewStudent(strings.TrimSpace(req.ID), models.NewName(req.FirstName, req.LastName), strings.TrimSpace(req.Email), strings.TrimSpace(req.RegNo))
	if err := s.Add(student); err != nil {
		return nil, err
	}
	return student, nil
}

// UpdateEmail changes the email of student id.
func (s *StudentService) UpdateEmail(id, email string) error {
	if err := s.validator.Var(email, "required,email"); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid email")
	}
	student, ok := s.students.Get(id)
	if !ok {
		return notFound("student", id)
	}
	student.SetEmail(email)
	s.logger.Info("student email updated", zap.String("student_id", id))
	return nil
}

// Deactivate marks student id inactive. The student stays in the table.
func (s *StudentService) Deactivate(id string) error {
	return s.ChangeStatus(id, models.StatusInactive)
}

// ChangeStatus moves student id to status.
func (s *StudentService) ChangeStatus(id string, status models.StudentStatus) error {
	if !status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown student status %q", status))
	}
	student, ok := s.students.Get(id)
	if !ok {
		return notFound("student", id)
	}
	previous := student.Status()
	student.SetStatus(status)
	s.logger.Info("student status changed", zap.String("student_id", id), zap.String("from", string(previous)), zap.String("to", string(status)))
	return nil
}

// FindByID returns the student stored under id.
func (s *StudentService) FindByID(id string) (*models.Student, bool) {
	return s.students.Get(id)
}

// FindAll returns every student in insertion order. The slice is a fresh
// copy; appending to or reordering it does not affect the table.
func (s *StudentService) FindAll() []*models.Student {
	return s.students.Values()
}

// Search returns the students matching match, in insertion order.
func (s *StudentService) Search(match func(*models.Student) bool) []*models.Student {
	return s.students.Filter(match)
}

// FindByStatus returns students with the given status.
func (s *StudentService) FindByStatus(status models.StudentStatus) []*models.Student {
	return s.Search(func(st *models.Student) bool { return st.Status() == status })
}

// FindByMinGPA returns graded students whose GPA is at least min. Students
// without grades have no GPA to compare and are never returned.
func (s *StudentService) FindByMinGPA(min float64) []*models.Student {
	return s.Search(func(st *models.Student) bool { return st.HasGrades() && st.GPA() >= min })
}

// TopByGPA returns up to n students by descending GPA. Equal GPAs are
// ordered by ascending id.
func (s *StudentService) TopByGPA(n int) []*models.Student {
	if n <= 0 {
		return []*models.Student{}
	}
	all := s.FindAll()
	slices.SortStableFunc(all, func(a, b *models.Student) int {
		if r := cmp.Compare(b.GPA(), a.GPA()); r != 0 {
			return r
		}
		return strings.Compare(a.ID(), b.ID())
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// Count returns the number of stored students.
func (s *StudentService) Count() int {
	return s.students.Len()
}

// Save writes every student to the store.
func (s *StudentService) Save(ctx context.Context) error {
	records := make([]models.StudentRecord, 0, s.students.Len())
	for _, st := range s.students.Values() {
		records = append(records, st.Record())
	}
	err := persist(s.metrics, s.logger, "students", "save", func() error {
		return s.store.SaveStudents(ctx, records)
	})
	if err == nil {
		s.logger.Info("students saved", zap.Int("count", len(records)))
	}
	return err
}

// Load replaces the table with the stored snapshot. A snapshot holding an
// impossible student is rejected as a whole and the table is left as it was.
func (s *StudentService) Load(ctx context.Context) error {
	var restored []*models.Student
	err := persist(s.metrics, s.logger, "students", "load", func() error {
		records, err := s.store.LoadStudents(ctx)
		if err != nil {
			return err
		}
		restored = make([]*models.Student, 0, len(records))
		for i, rec := range records {
			student, err := models.RestoreStudent(rec)
			if err != nil {
				return fmt.Errorf("student record %d: %w", i+1, err)
			}
			restored = append(restored, student)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.students.Reset(restored, func(st *models.Student) string { return st.ID() })
	s.logger.Info("students loaded", zap.Int("count", len(restored)))
	return nil
}
