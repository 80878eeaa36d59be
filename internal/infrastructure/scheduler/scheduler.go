// Package scheduler runs background jobs (the invoice overdue sweep) on a
// small worker pool with retries.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// JobStatus represents the status of a job run
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is one execution request of a named job
type Job struct {
	ID          uuid.UUID
	Name        string
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time
}

// NewJob creates a pending job
func NewJob(name string, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Name:       name,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

func (j *Job) start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

func (j *Job) finish(err error) {
	now := time.Now()
	j.CompletedAt = &now
	if err != nil {
		j.Status = JobStatusFailed
		j.Error = err.Error()
		return
	}
	j.Status = JobStatusSuccess
}

// ShouldRetry returns true if a failed job has retries left
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

func (j *Job) scheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	next := time.Now().Add(delay)
	j.NextRetryAt = &next
	j.Error = ""
}

// JobExecutor runs a job
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// JobFunc adapts a function to JobExecutor
type JobFunc func(ctx context.Context, job *Job) error

// Execute calls f
func (f JobFunc) Execute(ctx context.Context, job *Job) error {
	return f(ctx, job)
}

// Config holds worker pool settings
type Config struct {
	Workers       int
	QueueSize     int
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Workers:       2,
		QueueSize:     32,
		JobTimeout:    5 * time.Minute,
		RetryAttempts: 3,
		RetryDelay:    time.Minute,
	}
}

// Scheduler dispatches submitted jobs to their registered executors
type Scheduler struct {
	config    Config
	executors map[string]JobExecutor
	metrics   *telemetry.Metrics
	logger    *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a scheduler; register executors before Start
func NewScheduler(cfg Config, metrics *telemetry.Metrics, logger *zap.Logger) *Scheduler {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}
	return &Scheduler{
		config:    cfg,
		executors: make(map[string]JobExecutor),
		metrics:   metrics,
		logger:    logger.Named("scheduler"),
		jobs:      make(chan *Job, cfg.QueueSize),
	}
}

// Register binds an executor to a job name
func (s *Scheduler) Register(name string, executor JobExecutor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executors[name] = executor
}

// Start launches the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true

	ctx, s.cancel = context.WithCancel(ctx)
	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for workers, bounded by ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues a run of the named job
func (s *Scheduler) Submit(name string) (*Job, error) {
	s.mu.Lock()
	running := s.isRunning
	_, known := s.executors[name]
	s.mu.Unlock()

	if !running {
		return nil, ErrSchedulerNotRunning
	}
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	job := NewJob(name, s.config.RetryAttempts)
	if err := s.enqueue(job); err != nil {
		return nil, err
	}
	s.logger.Debug("Job submitted", zap.String("job", name), zap.String("job_id", job.ID.String()))
	return job, nil
}

func (s *Scheduler) enqueue(job *Job) error {
	select {
	case s.jobs <- job:
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context, id int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			if job.NextRetryAt != nil {
				if wait := time.Until(*job.NextRetryAt); wait > 0 {
					select {
					case <-ctx.Done():
						return
					case <-time.After(wait):
					}
				}
			}
			telemetry.WithProfilingLabels(ctx, map[string]string{"job": job.Name}, func(ctx context.Context) {
				s.process(ctx, job, id)
			})
		}
	}
}

func (s *Scheduler) process(ctx context.Context, job *Job, workerID int) {
	s.mu.Lock()
	executor := s.executors[job.Name]
	s.mu.Unlock()

	job.start()
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	err := executor.Execute(jobCtx, job)
	cancel()
	job.finish(err)
	s.metrics.ObserveJobRun(job.Name, err)

	if err == nil {
		s.logger.Info("Job completed",
			zap.Int("worker_id", workerID),
			zap.String("job", job.Name),
			zap.Duration("took", job.CompletedAt.Sub(*job.StartedAt)),
		)
		return
	}

	s.logger.Error("Job failed",
		zap.Int("worker_id", workerID),
		zap.String("job", job.Name),
		zap.Int("retry_count", job.RetryCount),
		zap.Error(err),
	)
	if job.ShouldRetry() && ctx.Err() == nil {
		job.scheduleRetry(s.config.RetryDelay)
		if qerr := s.enqueue(job); qerr != nil {
			s.logger.Warn("Failed to re-queue job for retry", zap.String("job", job.Name), zap.Error(qerr))
		}
	}
}
