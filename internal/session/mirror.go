package session

import (
	"context"
	"fmt"

	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/jobs"
	"github.com/dvloznov/finsmart/internal/persistence"
	"github.com/rs/zerolog"
)

// Mirror receives every committed snapshot of an authenticated session.
// Implementations must not block and do not report failures to the caller.
type Mirror interface {
	Mirror(ctx context.Context, userID string, snap domain.Snapshot)
}

// QueueMirror publishes mirror jobs to a queue.
type QueueMirror struct {
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewQueueMirror creates a Mirror backed by publisher.
func NewQueueMirror(publisher jobs.Publisher, log zerolog.Logger) *QueueMirror {
	return &QueueMirror{publisher: publisher, log: log}
}

// Mirror implements Mirror. A publish failure is logged and the save is dropped.
func (m *QueueMirror) Mirror(ctx context.Context, userID string, snap domain.Snapshot) {
	job := &jobs.MirrorSnapshotJob{UserID: userID, Snapshot: snap}
	if err := m.publisher.PublishMirrorSnapshot(ctx, job); err != nil {
		m.log.Warn().
			Err(err).
			Str("user_id", userID).
			Msg("Dropping snapshot mirror")
		return
	}

	m.log.Debug().
		Str("job_id", job.JobID).
		Str("user_id", userID).
		Msg("Snapshot mirror queued")
}

// MirrorHandler returns the job handler that saves mirrored snapshots to store.
func MirrorHandler(store persistence.Store, log zerolog.Logger) jobs.JobHandler {
	return func(ctx context.Context, job jobs.Job) error {
		mirrorJob, ok := job.(*jobs.MirrorSnapshotJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		if err := store.Save(ctx, mirrorJob.UserID, mirrorJob.Snapshot); err != nil {
			return fmt.Errorf("mirror snapshot for %s: %w", mirrorJob.UserID, err)
		}

		log.Debug().
			Str("job_id", mirrorJob.JobID).
			Str("user_id", mirrorJob.UserID).
			Int("accounts", len(mirrorJob.Snapshot.Accounts)).
			Int("transactions", len(mirrorJob.Snapshot.Transactions)).
			Msg("Snapshot mirrored")
		return nil
	}
}
