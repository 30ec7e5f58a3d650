package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/medicare/medicare-api/internal/model"
	"github.com/medicare/medicare-api/internal/storage"
)

// Fields owned by the store; patches cannot overwrite them.
var protectedFields = map[string]bool{
	"id":        true,
	"createdAt": true,
	"updatedAt": true,
}

// Patch is a partial record: the top-level fields of a JSON object.
type Patch map[string]json.RawMessage

// ParsePatch decodes a JSON object into a Patch.
func ParsePatch(data []byte) (Patch, error) {
	var patch Patch
	if err := json.Unmarshal(data, &patch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if patch == nil {
		return nil, fmt.Errorf("%w: expected JSON object", ErrInvalidRecord)
	}
	return patch, nil
}

// Option configures a Collection.
type Option func(*options)

type options struct {
	now func() time.Time
	ids *IDGenerator
}

// WithClock sets the clock used for timestamps and ids.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator shares one id generator across collections.
func WithIDGenerator(ids *IDGenerator) Option {
	return func(o *options) { o.ids = ids }
}

// Collection stores records of type T as one JSON array in a backend.
//
// Mutations hold a per-collection mutex across their load/save cycle so that
// concurrent requests in this process cannot lose each other's writes.
// Writers in other processes sharing the same backend can still race.
type Collection[T any, P EntityPtr[T]] struct {
	name    string
	backend storage.Backend
	now     func() time.Time
	ids     *IDGenerator

	mu sync.Mutex
}

// NewCollection creates a Collection named name on top of backend.
func NewCollection[T any, P EntityPtr[T]](backend storage.Backend, name string, opts ...Option) *Collection[T, P] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ids == nil {
		o.ids = NewIDGenerator(o.now)
	}

	return &Collection[T, P]{
		name:    name,
		backend: backend,
		now:     o.now,
		ids:     o.ids,
	}
}

// Name returns the collection name.
func (c *Collection[T, P]) Name() string {
	return c.name
}

// Ensure creates the collection with an empty array if it does not exist yet.
func (c *Collection[T, P]) Ensure(ctx context.Context) error {
	if err := c.backend.Ensure(ctx, c.name); err != nil {
		return &StorageError{Op: "ensure", Collection: c.name, Err: err}
	}
	return nil
}

// Load returns every record in stored order.
func (c *Collection[T, P]) Load(ctx context.Context) ([]T, error) {
	data, err := c.backend.Load(ctx, c.name)
	if err != nil {
		return nil, &StorageError{Op: "load", Collection: c.name, Err: err}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &StorageError{Op: "parse", Collection: c.name, Err: err}
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save replaces the collection with records, pretty-printed.
func (c *Collection[T, P]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &StorageError{Op: "encode", Collection: c.name, Err: err}
	}

	if err := c.backend.Save(ctx, c.name, data); err != nil {
		return &StorageError{Op: "save", Collection: c.name, Err: err}
	}
	return nil
}

// FindByID returns the record with the given id or ErrNotFound.
func (c *Collection[T, P]) FindByID(ctx context.Context, id int64) (*T, error) {
	return c.Find(ctx, func(rec *T) bool { return P(rec).GetID() == id })
}

// Find returns the first record matching match or ErrNotFound.
func (c *Collection[T, P]) Find(ctx context.Context, match func(*T) bool) (*T, error) {
	records, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range records {
		if match(&records[i]) {
			return &records[i], nil
		}
	}
	return nil, ErrNotFound
}

// Insert assigns an id and creation timestamp to rec, appends it and saves.
func (c *Collection[T, P]) Insert(ctx context.Context, rec T) (*T, error) {
	return c.InsertUnique(ctx, rec, nil)
}

// InsertUnique is Insert that fails with ErrConflict when conflicts reports
// true for any existing record. The check runs under the collection lock.
func (c *Collection[T, P]) InsertUnique(ctx context.Context, rec T, conflicts func(existing *T) bool) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}

	taken := make(map[int64]bool, len(records))
	for i := range records {
		if conflicts != nil && conflicts(&records[i]) {
			return nil, ErrConflict
		}
		taken[P(&records[i]).GetID()] = true
	}

	id := c.ids.Next()
	for taken[id] {
		id = c.ids.Next()
	}

	P(&rec).SetID(id)
	P(&rec).SetCreatedAt(model.FormatTimestamp(c.now()))
	P(&rec).SetUpdatedAt("")

	records = append(records, rec)
	if err := c.Save(ctx, records); err != nil {
		return nil, err
	}

	return &rec, nil
}

// UpdateByID merges patch over the record with the given id, stamps the
// update time and saves. Fields absent from patch keep their values.
func (c *Collection[T, P]) UpdateByID(ctx context.Context, id int64, patch Patch) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}

	index := -1
	for i := range records {
		if P(&records[i]).GetID() == id {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, ErrNotFound
	}

	merged, err := merge(records[index], patch)
	if err != nil {
		return nil, err
	}
	P(&merged).SetUpdatedAt(model.FormatTimestamp(c.now()))

	records[index] = merged
	if err := c.Save(ctx, records); err != nil {
		return nil, err
	}

	return &merged, nil
}

// DeleteByID removes every record with the given id. It saves only when
// something was removed and reports whether it was.
func (c *Collection[T, P]) DeleteByID(ctx context.Context, id int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.Load(ctx)
	if err != nil {
		return false, err
	}

	kept := records[:0]
	for _, rec := range records {
		if P(&rec).GetID() != id {
			kept = append(kept, rec)
		}
	}

	if len(kept) == len(records) {
		return false, nil
	}

	if err := c.Save(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// merge overlays patch onto the JSON form of existing and decodes the result.
func merge[T any](existing T, patch Patch) (T, error) {
	var zero T

	base, err := json.Marshal(existing)
	if err != nil {
		return zero, fmt.Errorf("encode existing record: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(base, &doc); err != nil {
		return zero, fmt.Errorf("decode existing record: %w", err)
	}

	for key, value := range patch {
		if protectedFields[key] {
			continue
		}
		doc[key] = value
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	var merged T
	if err := json.Unmarshal(out, &merged); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return merged, nil
}
