// Package database opens the catalog store on PostgreSQL or SQLite and
// applies its schema.
package database

import (
	"context"
	"fmt"
	"time"

	"medicine-catalog/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// DB is an open catalog database. Exactly one of Pool and SQLite is set,
// matching Driver.
type DB struct {
	Driver string
	Pool   *pgxpool.Pool
	SQLite *sqlx.DB
}

// Open connects to the database selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*DB, error) {
	logger = logger.With().Str("component", "database").Str("driver", cfg.Driver).Logger()

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return &DB{Driver: cfg.Driver, SQLite: db}, nil

	case config.DriverPostgres:
		pool, err := NewPool(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &DB{Driver: cfg.Driver, Pool: pool}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Migrate applies the schema for the open backend.
func (db *DB) Migrate(ctx context.Context) error {
	if db.SQLite != nil {
		return MigrateSQLite(ctx, db.SQLite)
	}
	return MigratePostgres(ctx, db.Pool)
}

// Close releases the underlying connections.
func (db *DB) Close() {
	if db.SQLite != nil {
		db.SQLite.Close()
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// poolConfig maps the catalog's database settings onto a pgx pool config.
func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pc.MaxConns = int32(cfg.MaxConnections)
	pc.MinConns = int32(cfg.MinConnections)
	pc.MaxConnLifetime = time.Duration(cfg.MaxConnLifetime) * time.Second
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute

	return pc, nil
}

// NewPool creates a PostgreSQL connection pool and checks it with a ping.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*pgxpool.Pool, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Int32("max_connections", pc.MaxConns).
		Int32("min_connections", pc.MinConns).
		Msg("connecting to medicine catalog database")

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
