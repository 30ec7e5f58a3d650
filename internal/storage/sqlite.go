package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS collections (
		name       TEXT PRIMARY KEY,
		records    TEXT NOT NULL DEFAULT '[]',
		updated_at TEXT NOT NULL
	)
`

// SQLiteBackend stores each collection as one row in an embedded database.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (or creates) the database at path.
// Use ":memory:" for an in-memory database.
func NewSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create collections table: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// Ensure inserts an empty row for the collection unless one exists.
func (b *SQLiteBackend) Ensure(ctx context.Context, collection string) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO collections (name, records, updated_at) VALUES (?, '[]', ?)`,
		collection, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("ensure collection %s: %w", collection, err)
	}
	return nil
}

// Load returns the stored array.
func (b *SQLiteBackend) Load(ctx context.Context, collection string) ([]byte, error) {
	var records string
	err := b.db.QueryRowContext(ctx,
		`SELECT records FROM collections WHERE name = ?`, collection,
	).Scan(&records)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
		}
		return nil, fmt.Errorf("load collection %s: %w", collection, err)
	}
	return []byte(records), nil
}

// Save upserts the whole array.
func (b *SQLiteBackend) Save(ctx context.Context, collection string, data []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO collections (name, records, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET records = excluded.records, updated_at = excluded.updated_at`,
		collection, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save collection %s: %w", collection, err)
	}
	return nil
}

// Ping checks the database handle.
func (b *SQLiteBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
