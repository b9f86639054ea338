package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/ccrm-api/api/swagger"
	"github.com/noah-isme/ccrm-api/internal/handler"
	"github.com/noah-isme/ccrm-api/internal/models"
	"github.com/noah-isme/ccrm-api/internal/repository"
	"github.com/noah-isme/ccrm-api/internal/service"
	"github.com/noah-isme/ccrm-api/pkg/cache"
	"github.com/noah-isme/ccrm-api/pkg/config"
	"github.com/noah-isme/ccrm-api/pkg/database"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
	"github.com/noah-isme/ccrm-api/pkg/export"
	"github.com/noah-isme/ccrm-api/pkg/jobs"
	"github.com/noah-isme/ccrm-api/pkg/logger"
	"github.com/noah-isme/ccrm-api/pkg/storage"
)

// @title CCRM API
// @version 1.0.0
// @description Campus course and records manager
// @BasePath /api/v1
// @schemes http

type snapshotStore interface {
	SaveStudents(ctx context.Context, records []models.StudentRecord) error
	LoadStudents(ctx context.Context) ([]models.StudentRecord, error)
	SaveCourses(ctx context.Context, records []models.CourseRecord) error
	LoadCourses(ctx context.Context) ([]models.CourseRecord, error)
	SaveInstructors(ctx context.Context, records []models.InstructorRecord) error
	LoadInstructors(ctx context.Context) ([]models.InstructorRecord, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	csv := export.NewCSVExporter()
	store, closeStore, err := openStore(ctx, cfg, csv)
	if err != nil {
		logr.Sugar().Fatalw("failed to open persistence", "driver", cfg.Persistence.Driver, "error", err)
	}
	defer closeStore()

	validate := validator.New()
	metrics := service.NewMetricsService()

	students := service.NewStudentService(store, validate, metrics, logr)
	courses := service.NewCourseService(store, validate, metrics, logr)
	instructors := service.NewInstructorService(store, courses, validate, metrics, logr)
	enrollment := service.NewEnrollmentService(students, courses, metrics, logr)
	reports := service.NewReportService(students, courses)
	data := service.NewDataService(students, courses, instructors, enrollment, logr)

	bootstrap(ctx, cfg, data, logr)

	backupStorage, err := storage.NewLocalStorage(cfg.Paths.BackupFolder)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare backup folder", "error", err)
	}
	exportStorage, err := storage.NewLocalStorage(cfg.Paths.ExportFolder)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare export folder", "error", err)
	}
	backups := service.NewBackupService(backupStorage, students, courses, instructors, csv, metrics, logr)
	exports := service.NewExportService(exportStorage, students, courses, csv, export.NewPDFExporter(), validate, metrics, logr)

	lock := &sync.Mutex{}
	queue := jobs.NewQueue("ccrm", jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.MaxRetries,
		RetryDelay: cfg.Jobs.RetryDelay,
		Logger:     logr,
	})
	jobService := service.NewJobService(queue, backups, exports, lock)
	queue.Start(ctx)
	defer queue.Stop()

	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Lock:           lock,
		Metrics:        metrics,
		Logger:         logr,
		Students:       handler.NewStudentHandler(students),
		Courses:        handler.NewCourseHandler(courses),
		Instructors:    handler.NewInstructorHandler(instructors),
		Enrollment:     handler.NewEnrollmentHandler(enrollment),
		Reports:        handler.NewReportHandler(reports),
		Data:           handler.NewDataHandler(data, backups, exports, jobService, validate),
		Observe:        handler.NewMetricsHandler(metrics, cfg.StartedAt),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "persistence", cfg.Persistence.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
	logr.Info("server stopped")
}

// openStore returns the persistence backend selected by PERSISTENCE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, csv *export.CSVExporter) (snapshotStore, func(), error) {
	noop := func() {}
	switch cfg.Persistence.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		store := repository.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return store, func() { _ = db.Close() }, nil
	case config.DriverRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewRedisStore(client, cfg.Persistence.KeyPrefix), func() { _ = client.Close() }, nil
	default:
		local, err := storage.NewLocalStorage(cfg.Paths.DataFolder)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewFileStore(local, csv), noop, nil
	}
}

// bootstrap loads the saved snapshot and seeds sample data when nothing was saved.
func bootstrap(ctx context.Context, cfg *config.Config, data *service.DataService, logr *zap.Logger) {
	loadCtx, cancel := context.WithTimeout(ctx, cfg.Persistence.Timeout)
	defer cancel()

	counts, err := data.LoadAll(loadCtx)
	switch {
	case err == nil:
		logr.Info("snapshot loaded", zap.Int("students", counts.Students), zap.Int("courses", counts.Courses), zap.Int("instructors", counts.Instructors))
	case errors.Is(err, appErrors.ErrNotFound):
		logr.Info("no saved snapshot")
	default:
		logr.Warn("snapshot load failed, starting empty", zap.Error(err))
	}

	if cfg.Seed && data.Empty() {
		if err := data.SeedSampleData(); err != nil {
			logr.Warn("sample data seeding failed", zap.Error(err))
			return
		}
		logr.Info("sample data seeded")
	}
}
