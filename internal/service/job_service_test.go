package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/ccrm-api/internal/dto"
	appErrors "github.com/noah-isme/ccrm-api/pkg/errors"
	"github.com/noah-isme/ccrm-api/pkg/jobs"
)

type stubBackup struct{ calls int }

func (s *stubBackup) CreateBackup(context.Context) (*dto.BackupResult, error) {
	s.calls++
	return &dto.BackupResult{Directory: "backups/backup_x"}, nil
}

type stubExporter struct{ last dto.ExportRequest }

func (s *stubExporter) Export(_ context.Context, req dto.ExportRequest) (*dto.ExportResult, error) {
	s.last = req
	return &dto.ExportResult{Path: "exports/x.csv", Format: req.Format}, nil
}

func TestJobServiceRunsBackupAndExportUnderLock(t *testing.T) {
	queue := jobs.NewQueue("test", jobs.QueueConfig{})
	backup := &stubBackup{}
	exporter := &stubExporter{}
	lock := &sync.Mutex{}
	svc := NewJobService(queue, backup, exporter, lock)
	queue.Start(context.Background())
	defer queue.Stop()

	lock.Lock()
	submitted, err := svc.SubmitBackup()
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	res, err := svc.Get(submitted.ID)
	require.NoError(t, err)
	assert.NotEqual(t, jobs.StatusSucceeded, res.Status, "job must wait for the lock")
	lock.Unlock()

	require.Eventually(t, func() bool {
		res, _ := svc.Get(submitted.ID)
		return res.Status == jobs.StatusSucceeded
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, backup.calls)

	exportJob, err := svc.SubmitExport(dto.ExportRequest{Report: ReportStudents, Format: "csv"})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		res, _ := svc.Get(exportJob.ID)
		return res.Status == jobs.StatusSucceeded
	}, 2*time.Second, 10*time.Millisecond)
	lock.Lock()
	assert.Equal(t, ReportStudents, exporter.last.Report)
	lock.Unlock()
}

func TestJobServiceUnknownJob(t *testing.T) {
	svc := NewJobService(jobs.NewQueue("test", jobs.QueueConfig{}), &stubBackup{}, &stubExporter{}, nil)
	_, err := svc.Get("missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}
