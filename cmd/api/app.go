package main

import (
	"context"
	"fmt"

	"medicine-catalog/internal/config"
	"medicine-catalog/internal/database"
	"medicine-catalog/internal/listcache"
	"medicine-catalog/internal/repository"
	"medicine-catalog/internal/service"
	"medicine-catalog/internal/upload"

	"github.com/rs/zerolog"
)

// app holds the resources shared by every command.
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	repo    repository.MedicineRepository
	db      *database.DB
	closers []func()
}

// newApp loads configuration and opens the configured database.
func newApp(ctx context.Context) (*app, error) {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)

	a := &app{cfg: cfg, logger: logger}

	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	a.db = db
	a.closers = append(a.closers, db.Close)

	if db.SQLite != nil {
		a.repo = repository.NewSQLiteMedicineRepository(db.SQLite, logger)
	} else {
		a.repo = repository.NewMedicineRepository(db.Pool, logger)
	}

	return a, nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newStore selects S3 or the local upload directory.
func (a *app) newStore(ctx context.Context) (upload.Store, error) {
	if a.cfg.S3.Enabled {
		return upload.NewS3Store(ctx, a.cfg.S3.Bucket, a.cfg.S3.Region, a.cfg.S3.Prefix, a.logger)
	}

	a.logger.Info().Msg("using local file system for uploaded images (S3 disabled)")
	return upload.NewLocalStore(a.cfg.Upload.Dir, a.logger)
}

// newService builds the catalog service. The listing cache is closed with the app.
func (a *app) newService(store upload.Store) (service.MedicineService, error) {
	cacheConfig := listcache.DefaultConfig()
	cacheConfig.TTL = a.cfg.Cache.TTL
	cacheConfig.Capacity = a.cfg.Cache.Capacity

	cache, err := listcache.New(cacheConfig, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize listing cache: %w", err)
	}
	a.closers = append(a.closers, cache.Close)

	return service.NewMedicineService(a.repo, upload.NewUploader(store, a.logger), cache, a.logger), nil
}
