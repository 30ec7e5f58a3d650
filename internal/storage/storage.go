// Package storage provides byte-level persistence for named collections.
// Each collection is a single JSON array that is always read and written whole.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// emptyCollection is the document written for a freshly created collection.
var emptyCollection = []byte("[]")

var (
	// ErrCollectionNotFound indicates the collection was never created.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrUnknownBackend indicates an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Backend persists whole collections.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Ensure creates the collection holding an empty array if it does not exist.
	Ensure(ctx context.Context, collection string) error
	// Load returns the raw JSON array stored for the collection.
	Load(ctx context.Context, collection string) ([]byte, error)
	// Save replaces the stored array with data.
	Save(ctx context.Context, collection string, data []byte) error
	// Ping checks backend availability.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend     string
	DataDir     string
	DatabaseURL string
	SQLitePath  string
}

// Open constructs the backend named in opts.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileBackend(opts.DataDir)
	case BackendPostgres:
		return NewPostgresBackend(ctx, opts.DatabaseURL)
	case BackendSQLite:
		return NewSQLiteBackend(ctx, opts.SQLitePath)
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
