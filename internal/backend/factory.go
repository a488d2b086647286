// Package backend selects the persistence.Store named by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/dvloznov/finsmart/internal/config"
	"github.com/dvloznov/finsmart/internal/gcs"
	bq "github.com/dvloznov/finsmart/internal/infra/bigquery"
	"github.com/dvloznov/finsmart/internal/persistence"
	"github.com/dvloznov/finsmart/internal/persistence/memory"
	"github.com/rs/zerolog"
)

// Result is a ready store plus the function that releases its clients.
type Result struct {
	Store   persistence.Store
	Cleanup func() error
}

// NewStore builds the store for cfg.StorageBackend.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Result, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		log.Warn().Msg("Using in-memory storage; data is lost on restart")
		return &Result{Store: memory.NewStore(), Cleanup: func() error { return nil }}, nil

	case config.BackendGCS:
		client, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("NewStore: %w", err)
		}
		log.Info().
			Str("bucket", cfg.GCSBucket).
			Str("prefix", cfg.GCSPrefix).
			Msg("Initialized GCS snapshot store")
		return &Result{
			Store:   gcs.NewDocumentStore(client, cfg.GCSBucket, cfg.GCSPrefix, log),
			Cleanup: client.Close,
		}, nil

	case config.BackendBigQuery:
		repo, err := bq.NewRepository(ctx, cfg.BigQueryProject, cfg.BigQueryDataset)
		if err != nil {
			return nil, fmt.Errorf("NewStore: %w", err)
		}
		log.Info().
			Str("project", cfg.BigQueryProject).
			Str("dataset", cfg.BigQueryDataset).
			Msg("Initialized BigQuery snapshot store")
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	default:
		return nil, fmt.Errorf("NewStore: unsupported storage backend: %s", cfg.StorageBackend)
	}
}
