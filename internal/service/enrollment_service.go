package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/ccrm-api/internal/models"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
)

type studentFinder interface {
	FindByID(id string) (*models.Student, bool)
}

type courseFinder interface {
	FindByID(code string) (*models.Course, bool)
}

// EnrollmentService connects students to catalogue courses. Credits are
// always taken from the catalogue, never from the caller.
type EnrollmentService struct {
	students studentFinder
	courses  courseFinder
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(students studentFinder, courses courseFinder, metrics *MetricsService, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{students: students, courses: courses, metrics: metrics, logger: logger}
}

func (s *EnrollmentService) resolve(studentID, code string) (*models.Student, *models.Course, error) {
	student, ok := s.students.FindByID(studentID)
	if !ok {
		return nil, nil, notFound("student", studentID)
	}
	course, ok := s.courses.FindByID(code)
	if !ok {
		return nil, nil, notFound("course", code)
	}
	return student, course, nil
}

// Enroll adds course code to student studentID. A request that would pass
// the credit cap fails with CREDIT_LIMIT_EXCEEDED and changes nothing.
// Enrolling twice in the same course is a no-op.
func (s *EnrollmentService) Enroll(studentID, code string) (*models.Student, error) {
	student, course, err := s.resolve(studentID, code)
	if err != nil {
		return nil, err
	}
	already := student.IsEnrolled(code)
	if err := student.Enroll(course.Code(), course.Credits()); err != nil {
		s.metrics.RecordEnrollment(EnrollmentRejected)
		if errors.Is(err, appErrors.ErrCreditLimitExceeded) {
			s.logger.Warn("enrollment rejected",
				zap.String("student_id", studentID),
				zap.String("code", code),
				zap.Int("total_credits", student.TotalCredits()),
				zap.Int("course_credits", course.Credits()))
		}
		return nil, err
	}
	if already {
		s.metrics.RecordEnrollment(EnrollmentDuplicate)
		return student, nil
	}
	s.metrics.RecordEnrollment(EnrollmentEnrolled)
	s.logger.Info("student enrolled", zap.String("student_id", studentID), zap.String("code", code), zap.Int("total_credits", student.TotalCredits()))
	return student, nil
}

// Unenroll drops course code from student studentID. Dropping a course the
// student does not hold is a no-op.
func (s *EnrollmentService) Unenroll(studentID, code string) (*models.Student, error) {
	student, course, err := s.resolve(studentID, code)
	if err != nil {
		return nil, err
	}
	if student.Unenroll(course.Code(), course.Credits()) {
		s.metrics.RecordEnrollment(EnrollmentUnenrolled)
		s.logger.Info("student unenrolled", zap.String("student_id", studentID), zap.String("code", code), zap.Int("total_credits", student.TotalCredits()))
	}
	return student, nil
}

// RecordGrade appends grade to the history of student studentID.
func (s *EnrollmentService) RecordGrade(studentID string, grade models.Grade) (*models.Student, error) {
	if !grade.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown grade "+string(grade))
	}
	student, ok := s.students.FindByID(studentID)
	if !ok {
		return nil, notFound("student", studentID)
	}
	student.AddGrade(grade)
	s.logger.Info("grade recorded", zap.String("student_id", studentID), zap.String("grade", string(grade)), zap.Float64("gpa", student.GPA()))
	return student, nil
}
