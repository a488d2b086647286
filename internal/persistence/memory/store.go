// Package memory is a process-local persistence.Store used for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/persistence"
)

// Store keeps snapshots in a map. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	docs  map[string]domain.Snapshot
	saves int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{docs: make(map[string]domain.Snapshot)}
}

// Load implements persistence.Store.
func (s *Store) Load(ctx context.Context, userID string) (domain.Snapshot, bool, error) {
	if userID == "" {
		return domain.Snapshot{}, false, fmt.Errorf("memory.Load: user id is required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.docs[userID]
	if !ok {
		return domain.Snapshot{}, false, nil
	}
	return snap.Clone(), true, nil
}

// Save implements persistence.Store.
func (s *Store) Save(ctx context.Context, userID string, snap domain.Snapshot) error {
	if userID == "" {
		return fmt.Errorf("memory.Save: user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := snap.Clone()
	stored.User = domain.User{}
	s.docs[userID] = stored
	s.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

var _ persistence.Store = (*Store)(nil)
