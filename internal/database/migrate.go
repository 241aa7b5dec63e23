package database

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Schema returns the DDL for driver ("postgres" or "sqlite").
func Schema(driver string) (string, error) {
	b, err := schemaFS.ReadFile("schema/" + driver + ".sql")
	if err != nil {
		return "", fmt.Errorf("no schema for driver %q: %w", driver, err)
	}
	return string(b), nil
}

// MigratePostgres creates the medicines table and indexes if they are missing.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	ddl, err := Schema("postgres")
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to apply postgres schema: %w", err)
	}
	return nil
}

// MigrateSQLite creates the medicines table and indexes if they are missing.
// Statements run one at a time as the driver executes a single statement per call.
func MigrateSQLite(ctx context.Context, db *sqlx.DB) error {
	ddl, err := Schema("sqlite")
	if err != nil {
		return err
	}
	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply sqlite schema: %w", err)
		}
	}
	return nil
}
