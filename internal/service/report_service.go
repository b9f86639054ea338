package service

import (
	"sort"

	"github.com/noah-isme/ccrm-api/internal/dto"
	"github.com/noah-isme/ccrm-api/internal/models"
)

type studentReader interface {
	FindByID(id string) (*models.Student, bool)
	FindAll() []*models.Student
	TopByGPA(n int) []*models.Student
}

type courseReader interface {
	FindByID(code string) (*models.Course, bool)
	FindAll() []*models.Course
}

// gpaBands are checked top-down; the first band whose floor the GPA reaches wins.
var gpaBands = []struct {
	label string
	min   float64
}{
	{"Excellent (9.0+)", 9.0},
	{"Very Good (8.0-8.9)", 8.0},
	{"Good (7.0-7.9)", 7.0},
	{"Average (6.0-6.9)", 6.0},
	{"Below Average (<6.0)", 0},
}

// ReportService computes read-only summaries over students and courses.
type ReportService struct {
	students studentReader
	courses  courseReader
}

// NewReportService constructs ReportService.
func NewReportService(students studentReader, courses courseReader) *ReportService {
	return &ReportService{students: students, courses: courses}
}

// TopStudents returns up to n students by GPA.
func (s *ReportService) TopStudents(n int) []*models.Student {
	return s.students.TopByGPA(n)
}

// GPADistribution buckets graded students by GPA band. Every band is
// returned, empty ones with a zero count.
func (s *ReportService) GPADistribution() []dto.GPABucket {
	buckets := make([]dto.GPABucket, len(gpaBands))
	for i, band := range gpaBands {
		buckets[i] = dto.GPABucket{Label: band.label, Min: band.min}
	}
	for _, st := range s.students.FindAll() {
		if !st.HasGrades() {
			continue
		}
		gpa := st.GPA()
		for i, band := range gpaBands {
			if gpa >= band.min {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

// CourseStatistics counts courses per semester and averages their credits.
func (s *ReportService) CourseStatistics() dto.CourseStatistics {
	courses := s.courses.FindAll()
	stats := dto.CourseStatistics{Total: len(courses), BySemester: make(map[models.Semester]int)}
	if len(courses) == 0 {
		return stats
	}
	total := 0
	for _, c := range courses {
		stats.BySemester[c.Semester()]++
		total += c.Credits()
	}
	stats.AverageCredits = float64(total) / float64(len(courses))
	return stats
}

// StudentStatistics counts students per status and averages the GPA of
// those with grades.
func (s *ReportService) StudentStatistics() dto.StudentStatistics {
	students := s.students.FindAll()
	stats := dto.StudentStatistics{Total: len(students), ByStatus: make(map[models.StudentStatus]int)}
	var sum float64
	for _, st := range students {
		stats.ByStatus[st.Status()]++
		if st.HasGrades() {
			stats.GradedStudents++
			sum += st.GPA()
		}
	}
	if stats.GradedStudents > 0 {
		stats.AverageGPA = sum / float64(stats.GradedStudents)
	}
	return stats
}

// CoursesByDepartment groups the catalogue by department name, departments
// sorted alphabetically and courses in catalogue order.
func (s *ReportService) CoursesByDepartment() []dto.DepartmentCourses {
	groups := make(map[string][]dto.CourseView)
	for _, c := range s.courses.FindAll() {
		groups[c.Department()] = append(groups[c.Department()], dto.NewCourseView(c))
	}
	departments := make([]string, 0, len(groups))
	for dep := range groups {
		departments = append(departments, dep)
	}
	sort.Strings(departments)

	out := make([]dto.DepartmentCourses, 0, len(departments))
	for _, dep := range departments {
		out = append(out, dto.DepartmentCourses{Department: dep, Courses: groups[dep]})
	}
	return out
}

// Transcript lists the student's current courses and grade history. Grades
// are numbered in recording order since they are not tied to a course.
func (s *ReportService) Transcript(studentID string) (*dto.Transcript, error) {
	student, ok := s.students.FindByID(studentID)
	if !ok {
		return nil, notFound("student", studentID)
	}
	courses := make([]dto.CourseView, 0)
	for _, code := range student.EnrolledCourses() {
		if c, ok := s.courses.FindByID(code); ok {
			courses = append(courses, dto.NewCourseView(c))
		}
	}
	grades := student.Grades()
	entries := make([]dto.TranscriptEntry, 0, len(grades))
	for i, g := range grades {
		entries = append(entries, dto.TranscriptEntry{
			Number: i + 1,
			Grade:  g,
			Points: g.Point(),
			Failed: g == models.GradeF,
		})
	}
	return &dto.Transcript{
		Student: dto.NewStudentView(student),
		Courses: courses,
		Entries: entries,
		GPA:     student.GPA(),
	}, nil
}
