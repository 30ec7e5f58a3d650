package repository

import (
	"sync/atomic"
	"time"
)

// IDGenerator hands out clock-derived integer ids (Unix milliseconds) that
// strictly increase within the process, even when called faster than the
// clock ticks or when the clock steps backwards.
type IDGenerator struct {
	now  func() time.Time
	last atomic.Int64
}

// NewIDGenerator returns a generator reading from now. A nil now uses time.Now.
func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

// Next returns max(now in ms, previous+1).
func (g *IDGenerator) Next() int64 {
	for {
		prev := g.last.Load()
		next := g.now().UnixMilli()
		if next <= prev {
			next = prev + 1
		}
		if g.last.CompareAndSwap(prev, next) {
			return next
		}
	}
}
