package database

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"modernc.org/sqlite"
)

// SQLiteLowerFunc is a SQL function lower-casing text with Unicode rules.
// SQLite's own LOWER leaves non-ASCII letters untouched.
const SQLiteLowerFunc = "unicode_lower"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(SQLiteLowerFunc, 1, unicodeLower); err != nil {
		panic(fmt.Sprintf("failed to register sqlite function %s: %v", SQLiteLowerFunc, err))
	}
}

func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return nil, fmt.Errorf("%s: unsupported argument type %T", SQLiteLowerFunc, v)
	}
}

// OpenSQLite opens a SQLite database at path. ":memory:" gives a private
// in-memory database.
func OpenSQLite(ctx context.Context, path string, logger zerolog.Logger) (*sqlx.DB, error) {
	logger.Info().Str("path", path).Msg("opening sqlite database")

	db, err := sqlx.ConnectContext(ctx, "sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite serialises writers; a single connection also keeps an
	// in-memory database alive for the lifetime of the handle.
	db.SetMaxOpenConns(1)

	return db, nil
}
