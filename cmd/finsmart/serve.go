package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dvloznov/finsmart/internal/api"
	"github.com/dvloznov/finsmart/internal/backend"
	"github.com/dvloznov/finsmart/internal/jobs/inmemory"
	"github.com/dvloznov/finsmart/internal/persistence/local"
	"github.com/dvloznov/finsmart/internal/session"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().String("port", "", "HTTP server port (overrides server.port)")
	_ = a.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	log := a.log

	stores, err := backend.NewStore(ctx, a.cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.Cleanup(); err != nil {
			log.Error().Err(err).Msg("Failed to close storage")
		}
	}()

	provider, err := newProvider(ctx, a.cfg, log)
	if err != nil {
		return err
	}
	adv, err := newAdvisor(ctx, a.cfg, log)
	if err != nil {
		return err
	}

	// Mirror worker: one worker keeps saves for a user in order.
	jobStore := inmemory.NewStore(0)
	queue := inmemory.NewQueue(a.cfg.MirrorBuffer, 1, jobStore, log)

	workerCtx, cancelWorker := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelWorker()
	if err := queue.Start(workerCtx, session.MirrorHandler(stores.Store, log)); err != nil {
		return fmt.Errorf("start mirror worker: %w", err)
	}

	manager := session.NewManager(
		provider,
		stores.Store,
		session.NewQueueMirror(queue, log),
		local.NewGuestFile(a.cfg.GuestFile),
		log,
	)
	if _, resumed, err := manager.Resume(ctx); err != nil {
		log.Warn().Err(err).Msg("Could not resume guest session")
	} else if resumed {
		log.Info().Msg("Resumed guest session")
	}

	server := &http.Server{
		Addr: ":" + a.cfg.Port,
		Handler: api.NewHandler(api.Deps{
			Sessions: manager,
			Advisor:  adv,
			Jobs:     jobStore,
			Log:      log,
		}),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", a.cfg.Port).Str("storage", a.cfg.StorageBackend).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown: %w", err))
	}
	// Stop drains snapshots that are already queued.
	if err := queue.Stop(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("stop mirror worker: %w", err))
	}

	log.Info().Msg("Server exited")
	return errors.Join(errs...)
}
