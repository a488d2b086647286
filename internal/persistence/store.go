// Package persistence defines how session snapshots are stored remotely.
package persistence

import (
	"context"

	"github.com/dvloznov/finsmart/internal/domain"
)

// Store loads and saves the persisted part of a snapshot, keyed by user id.
// The snapshot's User field is not stored; callers set it after Load.
type Store interface {
	// Load returns the stored snapshot. ok is false when nothing has been
	// stored for the user yet.
	Load(ctx context.Context, userID string) (snap domain.Snapshot, ok bool, err error)

	// Save replaces whatever is stored for the user.
	Save(ctx context.Context, userID string, snap domain.Snapshot) error
}
