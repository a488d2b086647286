package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/dvloznov/finsmart/internal/domain"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeMirrorSnapshot copies a session snapshot to the remote store.
	JobTypeMirrorSnapshot JobType = "mirror_snapshot"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed. Failed jobs are not retried.
	JobStatusFailed JobStatus = "failed"
)

var (
	// ErrQueueClosed is returned when publishing to a stopped queue.
	ErrQueueClosed = errors.New("queue is closed")
	// ErrQueueFull is returned when the queue buffer has no room.
	ErrQueueFull = errors.New("queue is full")
	// ErrJobNotFound is returned by JobStore lookups for unknown ids.
	ErrJobNotFound = errors.New("job not found")
)

// MirrorSnapshotJob carries one snapshot to be saved remotely.
type MirrorSnapshotJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// UserID keys the remote document.
	UserID string `json:"user_id"`

	// Snapshot is the state to save. It is not kept in job history.
	Snapshot domain.Snapshot `json:"-"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`
}

// Job is a generic interface for all job types.
type Job interface {
	// GetID returns the unique job identifier.
	GetID() string

	// GetType returns the job type.
	GetType() JobType

	// GetStatus returns the current job status.
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *MirrorSnapshotJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *MirrorSnapshotJob) GetType() JobType {
	return JobTypeMirrorSnapshot
}

// GetStatus implements the Job interface.
func (j *MirrorSnapshotJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher defines the interface for publishing jobs to a queue.
type Publisher interface {
	// PublishMirrorSnapshot enqueues a snapshot save without waiting for it.
	PublishMirrorSnapshot(ctx context.Context, job *MirrorSnapshotJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	// The handler function is called for each job received.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for queued jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler is a function that processes a job.
// A returned error marks the job failed; it is not retried.
type JobHandler func(ctx context.Context, job Job) error

// JobStore defines the interface for storing and retrieving job status.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *MirrorSnapshotJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*MirrorSnapshotJob, error)

	// ListJobs retrieves jobs with optional filtering, newest first.
	ListJobs(ctx context.Context, filter JobFilter) ([]*MirrorSnapshotJob, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// UserID filters jobs by user.
	UserID string

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
