// Package app assembles the media catalogue services from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/Atrasoftware/avlogue/internal/config"
	"github.com/Atrasoftware/avlogue/internal/convert"
	"github.com/Atrasoftware/avlogue/internal/db"
	"github.com/Atrasoftware/avlogue/internal/encoder"
	"github.com/Atrasoftware/avlogue/internal/jobs"
	"github.com/Atrasoftware/avlogue/internal/logger"
	"github.com/Atrasoftware/avlogue/internal/media"
	"github.com/Atrasoftware/avlogue/internal/storage"
)

// App wires the storage backend, encoder, repositories, conversion pool
// and services together.
type App struct {
	config *config.Config
	db     *db.DB
	store  storage.Backend
	pool   *jobs.Pool

	Repos   *db.Repositories
	Media   *media.Service
	Convert *convert.Service
}

// New creates a new application instance
func New(ctx context.Context, cfg *config.Config, database *db.DB) (*App, error) {
	store, err := newStorage(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	enc := encoder.NewFFmpeg(cfg.Encoder.FFmpegPath, cfg.Encoder.FFprobePath)
	pool := jobs.NewPool(cfg.Queue.Workers, cfg.Queue.Backlog)
	repos := db.NewRepositories(database, store)

	logger.Log.Info().
		Str("storage", cfg.Storage.Backend).
		Int("workers", cfg.Queue.Workers).
		Msg("Application initialized")

	return &App{
		config:  cfg,
		db:      database,
		store:   store,
		pool:    pool,
		Repos:   repos,
		Media:   media.NewService(repos, enc, store, cfg.Media),
		Convert: convert.NewService(repos, enc, store, pool, cfg.Encoder.TempDir, cfg.Media),
	}, nil
}

// Queue exposes the conversion pool for callers that submit their own jobs.
func (a *App) Queue() jobs.Queue { return a.pool }

// Storage exposes the configured storage backend.
func (a *App) Storage() storage.Backend { return a.store }

// Shutdown drains the conversion pool and closes the database. Draining
// stops early when ctx expires; the database stays open in that case so
// jobs still running do not write through a closed handle.
func (a *App) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down gracefully")

	drained := make(chan struct{})
	go func() {
		a.pool.Close()
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		logger.Log.Warn().Msg("Shutdown deadline reached with conversions still draining")
		return ctx.Err()
	}

	if err := a.db.Close(); err != nil {
		return fmt.Errorf("database close error: %w", err)
	}

	logger.Log.Info().Msg("Application stopped")
	return nil
}

// newStorage builds the storage backend named by the configuration
func newStorage(ctx context.Context, cfg *config.StorageConfig) (storage.Backend, error) {
	switch cfg.Backend {
	case config.StorageBackendS3:
		return storage.NewMinIO(ctx, cfg.S3)
	default:
		return storage.NewFilesystem(cfg.Local.Root, cfg.Local.BaseURL)
	}
}
