package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/noah-isme/ccrm-api/internal/dto"
	"github.com/noah-isme/ccrm-api/pkg/jobs"
)

// Job types run by JobService.
const (
	JobBackup = "backup"
	JobExport = "export"
)

type jobQueue interface {
	Register(jobType string, handler jobs.Handler)
	Submit(jobType string, payload interface{}) (jobs.Result, error)
	Get(id string) (jobs.Result, bool)
}

type backupCreator interface {
	CreateBackup(ctx context.Context) (*dto.BackupResult, error)
}

type exporter interface {
	Export(ctx context.Context, req dto.ExportRequest) (*dto.ExportResult, error)
}

// JobService defers backups and exports to the background queue. Each job
// holds lock while it reads the stores, the same lock HTTP requests take.
type JobService struct {
	queue jobQueue
	lock  sync.Locker
}

// NewJobService registers the backup and export handlers on queue.
func NewJobService(queue jobQueue, backups backupCreator, exports exporter, lock sync.Locker) *JobService {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	s := &JobService{queue: queue, lock: lock}
	queue.Register(JobBackup, func(ctx context.Context, _ jobs.Job) (interface{}, error) {
		s.lock.Lock()
		defer s.lock.Unlock()
		return backups.CreateBackup(ctx)
	})
	queue.Register(JobExport, func(ctx context.Context, job jobs.Job) (interface{}, error) {
		req, ok := job.Payload.(dto.ExportRequest)
		if !ok {
			return nil, fmt.Errorf("export job %s: unexpected payload %T", job.ID, job.Payload)
		}
		s.lock.Lock()
		defer s.lock.Unlock()
		return exports.Export(ctx, req)
	})
	return s
}

// SubmitBackup queues a backup.
func (s *JobService) SubmitBackup() (jobs.Result, error) {
	return s.queue.Submit(JobBackup, nil)
}

// SubmitExport queues an export.
func (s *JobService) SubmitExport(req dto.ExportRequest) (jobs.Result, error) {
	return s.queue.Submit(JobExport, req)
}

// Get returns the state of job id.
func (s *JobService) Get(id string) (jobs.Result, error) {
	res, ok := s.queue.Get(id)
	if !ok {
		return jobs.Result{}, notFound("job", id)
	}
	return res, nil
}
