// Package db opens the menu database, applies versioned schema migrations
// and seeds the default menu.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL backend behind a DSN.
type Dialect string

const (
	// Postgres is served by lib/pq.
	Postgres Dialect = "postgres"
	// SQLite is served by the pure Go modernc driver.
	SQLite Dialect = "sqlite"
)

// sqlitePragmas are applied to every sqlite connection. Foreign keys are off
// by default in sqlite and flavor cascades depend on them.
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// ParseDSN maps a configured DSN onto a database/sql driver name and data
// source. Supported forms are postgres://, postgresql://, sqlite://path and
// file:path.
func ParseDSN(dsn string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Postgres, dsn, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite DSN without path: %q", dsn)
		}
		return SQLite, withPragmas("file:" + path), nil
	case strings.HasPrefix(dsn, "file:"):
		return SQLite, withPragmas(dsn), nil
	default:
		return "", "", fmt.Errorf("unsupported database DSN: %q", dsn)
	}
}

func withPragmas(source string) string {
	if strings.Contains(source, "?") {
		return source + "&" + sqlitePragmas
	}
	return source + "?" + sqlitePragmas
}

// Open connects to the database named by dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sqlx.DB, Dialect, error) {
	dialect, source, err := ParseDSN(dsn)
	if err != nil {
		return nil, "", err
	}

	db, err := sqlx.Open(string(dialect), source)
	if err != nil {
		return nil, "", fmt.Errorf("open %s: %w", dialect, err)
	}

	if dialect == SQLite {
		// A single writer avoids SQLITE_BUSY between pooled connections.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("ping %s: %w", dialect, err)
	}

	return db, dialect, nil
}
