package service

import (
	"context"
	"errors"

	"github.com/noah-isme/ccrm-api/internal/models"
	"github.com/noah-isme/ccrm-api/internal/repository"
)

var errDiskFull = errors.New("disk full")

// fakeStore keeps snapshots in memory. A nil slice means nothing was saved.
type fakeStore struct {
	students    []models.StudentRecord
	courses     []models.CourseRecord
	instructors []models.InstructorRecord
	saveErr     error
	loadErr     error
	saves       int
}

func (f *fakeStore) SaveStudents(_ context.Context, records []models.StudentRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.students = append([]models.StudentRecord{}, records...)
	return nil
}

func (f *fakeStore) LoadStudents(context.Context) ([]models.StudentRecord, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.students == nil {
		return nil, repository.ErrNoSnapshot
	}
	return f.students, nil
}

func (f *fakeStore) SaveCourses(_ context.Context, records []models.CourseRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.courses = append([]models.CourseRecord{}, records...)
	return nil
}

func (f *fakeStore) LoadCourses(context.Context) ([]models.CourseRecord, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.courses == nil {
		return nil, repository.ErrNoSnapshot
	}
	return f.courses, nil
}

func (f *fakeStore) SaveInstructors(_ context.Context, records []models.InstructorRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.instructors = append([]models.InstructorRecord{}, records...)
	return nil
}

func (f *fakeStore) LoadInstructors(context.Context) ([]models.InstructorRecord, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.instructors == nil {
		return nil, repository.ErrNoSnapshot
	}
	return f.instructors, nil
}

type fixture struct {
	store       *fakeStore
	metrics     *MetricsService
	students    *StudentService
	courses     *CourseService
	instructors *InstructorService
	enrollment  *EnrollmentService
	reports     *ReportService
	data        *DataService
}

func newFixture() *fixture {
	store := &fakeStore{}
	metrics := NewMetricsService()
	students := NewStudentService(store, nil, metrics, nil)
	courses := NewCourseService(store, nil, metrics, nil)
	instructors := NewInstructorService(store, courses, nil, metrics, nil)
	enrollment := NewEnrollmentService(students, courses, metrics, nil)
	return &fixture{
		store:       store,
		metrics:     metrics,
		students:    students,
		courses:     courses,
		instructors: instructors,
		enrollment:  enrollment,
		reports:     NewReportService(students, courses),
		data:        NewDataService(students, courses, instructors, enrollment, nil),
	}
}

func mustCourse(code string, credits int) *models.Course {
	c, err := models.NewCourse(models.CourseConfig{Code: code, Title: code + " title", Credits: credits})
	if err != nil {
		panic(err)
	}
	return c
}

func newStudent(id string) *models.Student {
	return models.NewStudent(id, models.NewName("First"+id, "Last"+id), id+"@example.com", "REG-"+id)
}
