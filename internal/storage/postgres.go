package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS collections (
		name       TEXT PRIMARY KEY,
		records    JSONB NOT NULL DEFAULT '[]'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// PostgresBackend stores each collection as one JSONB row.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresBackend connects a pool and bootstraps the collections table.
func NewPostgresBackend(ctx context.Context, databaseURL string) (*PostgresBackend, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create collections table: %w", err)
	}

	return &PostgresBackend{pool: pool}, nil
}

// Ensure inserts an empty row for the collection unless one exists.
func (b *PostgresBackend) Ensure(ctx context.Context, collection string) error {
	query := `
		INSERT INTO collections (name, records)
		VALUES ($1, '[]'::jsonb)
		ON CONFLICT (name) DO NOTHING
	`
	if _, err := b.pool.Exec(ctx, query, collection); err != nil {
		return fmt.Errorf("failed to ensure collection %s: %w", collection, err)
	}
	return nil
}

// Load returns the stored array as JSON text.
func (b *PostgresBackend) Load(ctx context.Context, collection string) ([]byte, error) {
	query := `SELECT records::text FROM collections WHERE name = $1`

	var records string
	if err := b.pool.QueryRow(ctx, query, collection).Scan(&records); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
		}
		return nil, fmt.Errorf("failed to load collection %s: %w", collection, err)
	}
	return []byte(records), nil
}

// Save upserts the whole array.
func (b *PostgresBackend) Save(ctx context.Context, collection string, data []byte) error {
	query := `
		INSERT INTO collections (name, records, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (name) DO UPDATE
		SET records = EXCLUDED.records, updated_at = EXCLUDED.updated_at
	`
	if _, err := b.pool.Exec(ctx, query, collection, string(data)); err != nil {
		return fmt.Errorf("failed to save collection %s: %w", collection, err)
	}
	return nil
}

// Ping checks database connectivity.
func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

// Close closes the connection pool.
func (b *PostgresBackend) Close() error {
	b.pool.Close()
	return nil
}
