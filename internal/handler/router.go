package handler

import (
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	internalmiddleware "github.com/noah-isme/ccrm-api/internal/middleware"
	"github.com/noah-isme/ccrm-api/internal/service"
	"github.com/noah-isme/ccrm-api/pkg/logger"
	"github.com/noah-isme/ccrm-api/pkg/middleware/cors"
	"github.com/noah-isme/ccrm-api/pkg/middleware/requestid"
)

// RouterConfig carries everything NewRouter wires into the engine.
type RouterConfig struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool

	Lock    sync.Locker
	Metrics *service.MetricsService
	Logger  *zap.Logger

	Students    *StudentHandler
	Courses     *CourseHandler
	Instructors *InstructorHandler
	Enrollment  *EnrollmentHandler
	Reports     *ReportHandler
	Data        *DataHandler
	Observe     *MetricsHandler
}

// NewRouter builds the gin engine. Every route under the API prefix runs
// while holding cfg.Lock.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Lock == nil {
		cfg.Lock = &sync.Mutex{}
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(cfg.Logger))
	r.Use(cors.New(cfg.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(cfg.Metrics))

	if cfg.Observe != nil {
		r.GET("/health", cfg.Observe.Health)
		r.GET("/metrics", cfg.Observe.Prometheus)
	}
	if cfg.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.Audit(cfg.Logger))
	api.Use(internalmiddleware.Serializer(cfg.Lock))

	if h := cfg.Students; h != nil {
		students := api.Group("/students")
		students.GET("", h.List)
		students.POST("", h.Create)
		students.GET("/top", h.Top)
		students.GET("/:id", h.Get)
		students.GET("/:id/profile", h.Profile)
		students.PATCH("/:id/email", h.UpdateEmail)
		students.PATCH("/:id/status", h.ChangeStatus)
		students.POST("/:id/deactivate", h.Deactivate)
	}

	if h := cfg.Courses; h != nil {
		courses := api.Group("/courses")
		courses.GET("", h.List)
		courses.POST("", h.Create)
		courses.GET("/:code", h.Get)
		courses.PATCH("/:code/instructor", h.UpdateInstructor)
		courses.POST("/:code/deactivate", h.Deactivate)
	}

	if h := cfg.Instructors; h != nil {
		instructors := api.Group("/instructors")
		instructors.GET("", h.List)
		instructors.POST("", h.Create)
		instructors.GET("/:id", h.Get)
		instructors.GET("/:id/profile", h.Profile)
		instructors.POST("/:id/courses", h.AssignCourse)
	}

	if h := cfg.Enrollment; h != nil {
		api.POST("/enrollments", h.Enroll)
		api.DELETE("/enrollments", h.Unenroll)
		api.POST("/grades", h.RecordGrade)
	}

	if h := cfg.Reports; h != nil {
		reports := api.Group("/reports")
		reports.GET("/gpa-distribution", h.GPADistribution)
		reports.GET("/courses", h.CourseStatistics)
		reports.GET("/students", h.StudentStatistics)
		reports.GET("/departments", h.CoursesByDepartment)
		reports.GET("/transcripts/:id", h.Transcript)
	}

	if h := cfg.Data; h != nil {
		api.POST("/data/save", h.Save)
		api.POST("/data/load", h.Load)
		api.POST("/backups", h.Backup)
		api.GET("/backups/size", h.BackupSize)
		api.GET("/backups/files", h.BackupFiles)
		api.POST("/exports", h.Export)
		api.GET("/jobs/:id", h.Job)
	}

	return r
}
