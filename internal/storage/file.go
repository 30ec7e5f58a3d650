package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FileBackend stores each collection as <dir>/<collection>.json.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the data directory if needed and returns a backend rooted there.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

// Path returns the file backing a collection.
func (b *FileBackend) Path(collection string) string {
	return filepath.Join(b.dir, collection+".json")
}

// Ensure writes an empty array if the collection file is missing.
func (b *FileBackend) Ensure(ctx context.Context, collection string) error {
	_, err := os.Stat(b.Path(collection))
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", collection, err)
	}
	return b.Save(ctx, collection, emptyCollection)
}

// Load reads the whole collection file.
func (b *FileBackend) Load(_ context.Context, collection string) ([]byte, error) {
	data, err := os.ReadFile(b.Path(collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
		}
		return nil, fmt.Errorf("read %s: %w", collection, err)
	}
	return data, nil
}

// Save writes data to a temp file in the same directory and renames it over
// the collection file, so readers see either the old or the new array.
func (b *FileBackend) Save(_ context.Context, collection string, data []byte) error {
	target := b.Path(collection)
	tmp := filepath.Join(b.dir, "."+collection+"."+ulid.Make().String()+".tmp")

	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", collection, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", collection, err)
	}
	return nil
}

// Ping checks that the data directory is still reachable.
func (b *FileBackend) Ping(_ context.Context) error {
	info, err := os.Stat(b.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", b.dir)
	}
	return nil
}

// Close is a no-op for files.
func (b *FileBackend) Close() error {
	return nil
}
