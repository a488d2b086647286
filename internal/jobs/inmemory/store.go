package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/jobs"
)

// DefaultMaxJobs bounds how much job history a Store keeps.
const DefaultMaxJobs = 500

// Store is an in-memory implementation of JobStore.
// It keeps job metadata only; snapshots are stripped from stored copies.
// When full, the oldest finished jobs are evicted first.
type Store struct {
	mu      sync.RWMutex
	jobs    map[string]*jobs.MirrorSnapshotJob
	maxJobs int
}

// NewStore creates a new in-memory job store holding at most maxJobs entries.
// maxJobs below 1 selects DefaultMaxJobs.
func NewStore(maxJobs int) *Store {
	if maxJobs < 1 {
		maxJobs = DefaultMaxJobs
	}
	return &Store{
		jobs:    make(map[string]*jobs.MirrorSnapshotJob),
		maxJobs: maxJobs,
	}
}

// SaveJob implements the JobStore interface.
func (s *Store) SaveJob(ctx context.Context, job *jobs.MirrorSnapshotJob) error {
	if job.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	jobCopy := *job
	jobCopy.Snapshot = domain.Snapshot{}
	s.jobs[job.JobID] = &jobCopy

	if len(s.jobs) > s.maxJobs {
		s.evictLocked()
	}
	return nil
}

func (s *Store) evictLocked() {
	var oldest *jobs.MirrorSnapshotJob
	for _, j := range s.jobs {
		if j.Status != jobs.JobStatusCompleted && j.Status != jobs.JobStatusFailed {
			continue
		}
		if oldest == nil || j.CreatedAt.Before(oldest.CreatedAt) {
			oldest = j
		}
	}
	if oldest != nil {
		delete(s.jobs, oldest.JobID)
	}
}

// GetJob implements the JobStore interface.
func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.MirrorSnapshotJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", jobs.ErrJobNotFound, jobID)
	}

	jobCopy := *job
	return &jobCopy, nil
}

// ListJobs implements the JobStore interface.
func (s *Store) ListJobs(ctx context.Context, filter jobs.JobFilter) ([]*jobs.MirrorSnapshotJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []*jobs.MirrorSnapshotJob{}
	for _, job := range s.jobs {
		if filter.UserID != "" && job.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}

		jobCopy := *job
		result = append(result, &jobCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*jobs.MirrorSnapshotJob{}, nil
		}
		result = result[filter.Offset:]
	}

	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

// Ensure Store implements JobStore interface.
var _ jobs.JobStore = (*Store)(nil)
