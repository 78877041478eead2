// Package sqlite provides an embedded storage backend for dev mode and
// tests. It implements the same registry and numbering contracts as the
// PostgreSQL backend on a single database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
}

// New opens (or creates) the database at path. WAL mode and a busy timeout
// are applied so concurrent writers queue instead of failing immediately.
func New(path string) (*DB, error) {
	dsn := path
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	dsn += sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One writer at a time anyway; a small pool keeps WAL readers cheap
	// without hoarding file handles.
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return &DB{db}, nil
}

// Ping verifies the database file is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.DB.PingContext(ctx)
}

// EnsureSchema creates the registry tables if they do not exist.
// The format map is one JSON document per tenant row, mirroring the
// PostgreSQL JSONB layout.
func (db *DB) EnsureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS tenants (
    id              TEXT PRIMARY KEY,
    slug            TEXT NOT NULL UNIQUE,
    display_name    TEXT NOT NULL,
    status          TEXT NOT NULL DEFAULT 'active',
    plan            TEXT NOT NULL DEFAULT 'standard',
    number_formats  TEXT NOT NULL DEFAULT '{}',
    created_at      TIMESTAMP NOT NULL,
    updated_at      TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tenants_status ON tenants(status);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
