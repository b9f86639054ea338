package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status describes where a job is in its lifecycle.
type Status string

const (
	StatusQueued    Status = "QUEUED"
	StatusRunning   Status = "RUNNING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

// Job represents a queued background task.
type Job struct {
	ID       string      `json:"id"`
	Type     string      `json:"type"`
	Payload  interface{} `json:"-"`
	Attempt  int         `json:"attempt"`
	Enqueued time.Time   `json:"enqueued_at"`
}

// Result is the observable state of a submitted job.
type Result struct {
	Job
	Status     Status      `json:"status"`
	Output     interface{} `json:"output,omitempty"`
	Error      string      `json:"error,omitempty"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}

// Handler processes a job and returns its output.
type Handler func(context.Context, Job) (interface{}, error)

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Queue is a lightweight in-memory job dispatcher backed by goroutines.
// Handlers are registered per job type.
type Queue struct {
	name string

	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	jobs     chan Job
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.RWMutex
	started  bool
	handlers map[string]Handler
	results  map[string]*Result
}

// NewQueue builds a new queue.
func NewQueue(name string, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue{
		name:       name,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		jobs:       make(chan Job, cfg.BufferSize),
		handlers:   make(map[string]Handler),
		results:    make(map[string]*Result),
	}
}

// Register binds a handler to a job type. Registering twice replaces it.
func (q *Queue) Register(jobType string, handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[jobType] = handler
}

// Start begins worker consumption. Safe to call once.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Sugar().Infow("queue started", "queue", q.name, "workers", q.workers)
}

// Stop cancels workers and waits for them to exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.logger.Sugar().Infow("queue stopped", "queue", q.name)
}

// Submit assigns an id to a new job of jobType and enqueues it.
func (q *Queue) Submit(jobType string, payload interface{}) (Result, error) {
	q.mu.RLock()
	_, ok := q.handlers[jobType]
	q.mu.RUnlock()
	if !ok {
		return Result{}, fmt.Errorf("queue %s: no handler for job type %q", q.name, jobType)
	}

	job := Job{ID: uuid.NewString(), Type: jobType, Payload: payload, Enqueued: time.Now().UTC()}
	q.mu.Lock()
	q.results[job.ID] = &Result{Job: job, Status: StatusQueued}
	q.mu.Unlock()

	if err := q.enqueue(job); err != nil {
		q.mu.Lock()
		delete(q.results, job.ID)
		q.mu.Unlock()
		return Result{}, err
	}
	return q.snapshot(job.ID), nil
}

// Get returns the current state of a submitted job.
func (q *Queue) Get(id string) (Result, bool) {
	q.mu.RLock()
	_, ok := q.results[id]
	q.mu.RUnlock()
	if !ok {
		return Result{}, false
	}
	return q.snapshot(id), true
}

func (q *Queue) snapshot(id string) Result {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return *q.results[id]
}

func (q *Queue) enqueue(job Job) error {
	q.mu.RLock()
	ctx := q.ctx
	started := q.started
	q.mu.RUnlock()

	if !started {
		return fmt.Errorf("queue %s not started", q.name)
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("queue %s stopped: %w", q.name, ctx.Err())
	case q.jobs <- job:
		return nil
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			q.run(job)
		}
	}
}

func (q *Queue) run(job Job) {
	q.mu.Lock()
	handler := q.handlers[job.Type]
	if res, ok := q.results[job.ID]; ok {
		res.Status = StatusRunning
		res.Attempt = job.Attempt
	}
	q.mu.Unlock()

	output, err := handler(q.ctx, job)
	if err != nil {
		q.handleFailure(job, err)
		return
	}
	q.finish(job.ID, StatusSucceeded, output, "")
	q.logger.Sugar().Infow("job completed", "queue", q.name, "job_id", job.ID, "type", job.Type)
}

func (q *Queue) finish(id string, status Status, output interface{}, errMsg string) {
	now := time.Now().UTC()
	q.mu.Lock()
	defer q.mu.Unlock()
	if res, ok := q.results[id]; ok {
		res.Status = status
		res.Output = output
		res.Error = errMsg
		res.FinishedAt = &now
	}
}

func (q *Queue) handleFailure(job Job, err error) {
	job.Attempt++
	if job.Attempt > q.maxRetries {
		q.finish(job.ID, StatusFailed, nil, err.Error())
		q.logger.Sugar().Errorw("job exceeded retries", "queue", q.name, "job_id", job.ID, "type", job.Type, "error", err)
		return
	}
	q.logger.Sugar().Warnw("job failed, retrying", "queue", q.name, "job_id", job.ID, "type", job.Type, "attempt", job.Attempt, "error", err)

	go func(j Job) {
		timer := time.NewTimer(q.retryDelay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
			return
		case <-timer.C:
			if err := q.enqueue(j); err != nil {
				q.finish(j.ID, StatusFailed, nil, err.Error())
				q.logger.Sugar().Errorw("failed to requeue job", "queue", q.name, "job_id", j.ID, "error", err)
			}
		}
	}(job)
}
