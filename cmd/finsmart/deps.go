package main

import (
	"context"
	"fmt"

	"github.com/dvloznov/finsmart/internal/advisor"
	"github.com/dvloznov/finsmart/internal/auth"
	"github.com/dvloznov/finsmart/internal/backend"
	"github.com/dvloznov/finsmart/internal/config"
	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/rs/zerolog"
)

func newProvider(ctx context.Context, cfg *config.Config, log zerolog.Logger) (auth.Provider, error) {
	if cfg.AuthAPIKey == "" {
		log.Warn().Msg("No auth API key configured; using in-process accounts")
		return auth.NewStatic(), nil
	}
	p, err := auth.NewIdentityToolkit(ctx, cfg.AuthAPIKey)
	if err != nil {
		return nil, fmt.Errorf("create auth provider: %w", err)
	}
	return p, nil
}

func newAdvisor(ctx context.Context, cfg *config.Config, log zerolog.Logger) (advisor.Advisor, error) {
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("No Gemini API key configured; advice is disabled")
		return advisor.Unavailable{}, nil
	}
	g, err := advisor.NewGemini(ctx, cfg.GeminiAPIKey, advisor.Options{
		Model:    cfg.GeminiModel,
		Language: cfg.AdviceLanguage,
		Currency: cfg.DisplayCurrency,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create advisor: %w", err)
	}
	return g, nil
}

// loadSnapshot returns the stored snapshot of userID, or the seeded demo
// snapshot when userID is empty.
func loadSnapshot(ctx context.Context, cfg *config.Config, log zerolog.Logger, userID string) (domain.Snapshot, error) {
	if userID == "" {
		return domain.Seed(domain.DemoUser), nil
	}

	stores, err := backend.NewStore(ctx, cfg, log)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer stores.Cleanup()

	snap, ok, err := stores.Store.Load(ctx, userID)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load snapshot for %s: %w", userID, err)
	}
	if !ok {
		return domain.Snapshot{}, fmt.Errorf("no snapshot stored for user %s", userID)
	}
	snap.User = domain.User{ID: userID}
	return snap, nil
}
