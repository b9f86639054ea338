package service

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ccrm-api/internal/dto"
	"github.com/noah-isme/ccrm-api/internal/models"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
	"github.com/noah-isme/ccrm-api/pkg/export"
)

// Report names accepted by ExportService.
const (
	ReportStudents    = "students"
	ReportCourses     = "courses"
	ReportTopStudents = "top-students"

	defaultTopLimit = 5
)

type exportStorage interface {
	Root() string
	Save(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type exportStudents interface {
	FindAll() []*models.Student
	TopByGPA(n int) []*models.Student
}

// ExportService renders rosters and rankings to CSV or PDF files in the
// export folder.
type ExportService struct {
	storage   exportStorage
	students  exportStudents
	courses   courseLister
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(storage exportStorage, students exportStudents, courses courseLister, csv csvRenderer, pdf pdfRenderer, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		storage:   storage,
		students:  students,
		courses:   courses,
		csv:       csv,
		pdf:       pdf,
		validator: validate,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Export renders the requested report and writes it to the export folder.
func (s *ExportService) Export(ctx context.Context, req dto.ExportRequest) (*dto.ExportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dataset, title := s.buildDataset(req)

	var payload []byte
	switch format {
	case export.FormatCSV:
		payload, err = s.csv.Render(dataset)
	case export.FormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	createdAt := s.now()
	filename := fmt.Sprintf("%s_%s%s", req.Report, createdAt.Format("20060102_150405"), format.Extension())
	if _, err := s.storage.Save(filename, payload); err != nil {
		return nil, appErrors.Persistence(err, "failed to write export")
	}
	s.metrics.RecordExport(string(format))
	s.logger.Info("export written", zap.String("report", req.Report), zap.String("format", string(format)), zap.String("file", filename), zap.Int("rows", len(dataset.Rows)))

	return &dto.ExportResult{
		Path:      path.Join(s.storage.Root(), filename),
		Format:    string(format),
		Rows:      len(dataset.Rows),
		Bytes:     len(payload),
		CreatedAt: createdAt.UTC(),
	}, nil
}

func (s *ExportService) buildDataset(req dto.ExportRequest) (export.Dataset, string) {
	switch req.Report {
	case ReportCourses:
		return courseRoster(s.courses.FindAll()), "Course Catalogue"
	case ReportTopStudents:
		limit := req.Limit
		if limit <= 0 {
			limit = defaultTopLimit
		}
		return studentRoster(s.students.TopByGPA(limit), true), fmt.Sprintf("Top %d Students by GPA", limit)
	default:
		return studentRoster(s.students.FindAll(), false), "Student Roster"
	}
}

func studentRoster(students []*models.Student, ranked bool) export.Dataset {
	headers := []string{"ID", "Reg No", "Name", "Email", "Status", "Credits", "GPA"}
	if ranked {
		headers = append([]string{"Rank"}, headers...)
	}
	rows := make([]map[string]string, 0, len(students))
	for i, st := range students {
		rows = append(rows, map[string]string{
			"Rank":    strconv.Itoa(i + 1),
			"ID":      st.ID(),
			"Reg No":  st.RegNo(),
			"Name":    st.FullName().Full(),
			"Email":   st.Email(),
			"Status":  st.Status().DisplayName(),
			"Credits": strconv.Itoa(st.TotalCredits()),
			"GPA":     strconv.FormatFloat(st.GPA(), 'f', 2, 64),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func courseRoster(courses []*models.Course) export.Dataset {
	headers := []string{"Code", "Title", "Credits", "Instructor", "Semester", "Department", "Active"}
	rows := make([]map[string]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, map[string]string{
			"Code":       c.Code(),
			"Title":      c.Title(),
			"Credits":    strconv.Itoa(c.Credits()),
			"Instructor": c.Instructor(),
			"Semester":   c.Semester().DisplayName(),
			"Department": c.Department(),
			"Active":     strconv.FormatBool(c.Active()),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
