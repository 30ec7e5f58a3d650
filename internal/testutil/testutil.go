// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medicare/medicare-api/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// FixedClock returns a clock that advances by step on every call, starting at start.
func FixedClock(start time.Time, step time.Duration) func() time.Time {
	var calls atomic.Int64
	return func() time.Time {
		n := calls.Add(1) - 1
		return start.Add(time.Duration(n) * step)
	}
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestMedicine creates an unsaved medicine with sensible defaults.
func NewTestMedicine(t testing.TB, name, category string) *model.Medicine {
	t.Helper()
	return &model.Medicine{
		Name:     name,
		Generic:  name + " generic",
		Category: category,
		Uses:     "used in tests",
	}
}

var uniqueCounter atomic.Int64

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d-%d@example.com", prefix, time.Now().UnixNano(), uniqueCounter.Add(1))
}
