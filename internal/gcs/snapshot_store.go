package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/persistence"
	"github.com/rs/zerolog"
)

// documentVersion is written into every stored document.
const documentVersion = 1

// document is the JSON layout of users/<id>.json.
type document struct {
	Version      int                  `json:"version"`
	UserID       string               `json:"userId"`
	UpdatedAt    time.Time            `json:"updatedAt"`
	Accounts     []domain.Account     `json:"accounts"`
	Transactions []domain.Transaction `json:"transactions"`
	Categories   []domain.Category    `json:"categories"`
}

// DocumentStore keeps one JSON document per user in a bucket.
type DocumentStore struct {
	svc    StorageService
	bucket string
	prefix string
	log    zerolog.Logger
	now    func() time.Time
}

// NewDocumentStore returns a persistence.Store writing under
// gs://bucket/prefix/users/<id>.json.
func NewDocumentStore(svc StorageService, bucket, prefix string, log zerolog.Logger) *DocumentStore {
	return &DocumentStore{
		svc:    svc,
		bucket: bucket,
		prefix: prefix,
		log:    log,
		now:    time.Now,
	}
}

// ObjectName returns the object holding the user's document.
func (s *DocumentStore) ObjectName(userID string) string {
	return path.Join(s.prefix, "users", userID+".json")
}

// Load implements persistence.Store.
func (s *DocumentStore) Load(ctx context.Context, userID string) (domain.Snapshot, bool, error) {
	object := s.ObjectName(userID)

	data, err := s.svc.ReadObject(ctx, s.bucket, object)
	if errors.Is(err, ErrObjectNotFound) {
		return domain.Snapshot{}, false, nil
	}
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("DocumentStore.Load: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("DocumentStore.Load: decode %s: %w", URI(s.bucket, object), err)
	}
	if doc.Version > documentVersion {
		return domain.Snapshot{}, false, fmt.Errorf("DocumentStore.Load: unsupported document version %d", doc.Version)
	}

	return domain.Snapshot{
		Accounts:     doc.Accounts,
		Transactions: doc.Transactions,
		Categories:   doc.Categories,
	}, true, nil
}

// Save implements persistence.Store.
func (s *DocumentStore) Save(ctx context.Context, userID string, snap domain.Snapshot) error {
	doc := document{
		Version:      documentVersion,
		UserID:       userID,
		UpdatedAt:    s.now().UTC(),
		Accounts:     nonNil(snap.Accounts),
		Transactions: nonNil(snap.Transactions),
		Categories:   nonNil(snap.Categories),
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("DocumentStore.Save: encode: %w", err)
	}

	object := s.ObjectName(userID)
	if err := s.svc.WriteObject(ctx, s.bucket, object, data, "application/json"); err != nil {
		return fmt.Errorf("DocumentStore.Save: %w", err)
	}

	s.log.Debug().
		Str("uri", URI(s.bucket, object)).
		Int("bytes", len(data)).
		Msg("Snapshot document saved")
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

var _ persistence.Store = (*DocumentStore)(nil)
