package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/octobees/prospector/internal/dto"
)

// ErrJobNotFound indicates there is no job with the requested id, or it expired.
var ErrJobNotFound = errors.New("job not found")

// JobStatus is the lifecycle state of an asynchronous run.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobSearching JobStatus = "searching"
	JobSaving    JobStatus = "saving"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Finished reports whether the job reached a terminal state.
func (s JobStatus) Finished() bool {
	return s == JobCompleted || s == JobFailed
}

// Job is a snapshot of an asynchronous run.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	Keyword     string     `json:"keyword"`
	TargetCount int        `json:"target_count"`
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"`
	Message     string     `json:"message,omitempty"`
	Error       string     `json:"error,omitempty"`
	ResultCount int        `json:"result_count"`
	Result      *RunReport `json:"result,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// RunExecutor is the part of RunService the job manager drives.
type RunExecutor interface {
	Validate(req dto.RunRequest) error
	Execute(ctx context.Context, req dto.RunRequest, progress ProgressFunc) (RunReport, error)
}

var _ RunExecutor = (*RunService)(nil)

// JobManager runs pipeline requests in the background and keeps their state
// in memory. Finished jobs are dropped once older than the retention window.
type JobManager struct {
	exec      RunExecutor
	ctx       context.Context
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu   sync.RWMutex
	jobs map[uuid.UUID]*Job
	wg   sync.WaitGroup
}

// NewJobManager builds a manager whose jobs run under ctx; cancelling ctx
// cancels every running job. A non-positive retention keeps jobs for 24 hours.
func NewJobManager(ctx context.Context, exec RunExecutor, retention time.Duration, logger *zap.Logger) *JobManager {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobManager{
		exec:      exec,
		ctx:       ctx,
		retention: retention,
		logger:    logger,
		now:       time.Now,
		jobs:      make(map[uuid.UUID]*Job),
	}
}

// Submit validates req, registers a pending job and starts it.
func (m *JobManager) Submit(req dto.RunRequest) (Job, error) {
	if err := m.exec.Validate(req); err != nil {
		return Job{}, err
	}
	m.Cleanup()

	now := m.now()
	job := &Job{
		ID:          uuid.New(),
		Keyword:     req.Keyword,
		TargetCount: req.TargetCount,
		Status:      JobPending,
		Message:     "queued",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.mu.Lock()
	m.jobs[job.ID] = job
	snapshot := *job
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(job.ID, req)
	return snapshot, nil
}

// Get returns a snapshot of the job.
func (m *JobManager) Get(id uuid.UUID) (Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return *job, nil
}

// Cleanup drops finished jobs older than the retention window and returns how
// many were removed.
func (m *JobManager) Cleanup() int {
	cutoff := m.now().Add(-m.retention)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, job := range m.jobs {
		if job.Status.Finished() && job.UpdatedAt.Before(cutoff) {
			delete(m.jobs, id)
			removed++
		}
	}
	return removed
}

// Wait blocks until every submitted job has finished.
func (m *JobManager) Wait() {
	m.wg.Wait()
}

func (m *JobManager) run(id uuid.UUID, req dto.RunRequest) {
	defer m.wg.Done()

	report, err := m.exec.Execute(m.ctx, req, func(stage string) {
		switch stage {
		case StageSearching:
			m.update(id, func(j *Job) {
				j.Status, j.Progress, j.Message = JobSearching, 10, "searching and verifying candidates"
			})
		case StageSaving:
			m.update(id, func(j *Job) {
				j.Status, j.Progress, j.Message = JobSaving, 90, "saving results"
			})
		}
	})
	if err != nil {
		m.logger.Warn("job failed", zap.String("job_id", id.String()), zap.Error(err))
		m.update(id, func(j *Job) {
			j.Status, j.Error, j.Message = JobFailed, err.Error(), "failed"
		})
		return
	}

	m.update(id, func(j *Job) {
		j.Status, j.Progress, j.Message = JobCompleted, 100, "completed"
		j.ResultCount = len(report.Records)
		j.Result = &report
	})
}

func (m *JobManager) update(id uuid.UUID, fn func(*Job)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[id]; ok {
		fn(job)
		job.UpdatedAt = m.now()
	}
}
