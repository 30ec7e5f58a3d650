package cache

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// localIdleTTL is how long an unused per-IP bucket is kept.
	localIdleTTL = 10 * time.Minute
	// defaultMaxLocalBuckets bounds memory when many distinct IPs appear.
	defaultMaxLocalBuckets = 10000
)

// LocalLimiter is an in-process token bucket per scope and IP. It is used
// when no Redis is configured, so limits are per instance rather than shared.
type LocalLimiter struct {
	now        func() time.Time
	maxBuckets int

	mu        sync.Mutex
	buckets   map[string]*localBucket
	lastSweep time.Time
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter creates an empty LocalLimiter.
func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{
		now:        time.Now,
		maxBuckets: defaultMaxLocalBuckets,
		buckets:    make(map[string]*localBucket),
	}
}

// CheckIPRateLimit consumes one token from the bucket for scope and ip.
func (l *LocalLimiter) CheckIPRateLimit(_ context.Context, scope, ip string, ratePerSecond, burst int) (*RateLimitResult, error) {
	now := l.now()
	key := scope + ":" + hashIP(ip)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > localIdleTTL {
		l.sweep(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= l.maxBuckets {
			l.sweep(now)
		}
		// A full table rejects unknown clients until buckets go idle.
		if len(l.buckets) >= l.maxBuckets {
			return &RateLimitResult{
				Allowed:    false,
				ResetAt:    now.Add(time.Second),
				RetryAfter: time.Second,
			}, nil
		}
		b = &localBucket{limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)

	result := &RateLimitResult{
		Allowed:   allowed,
		Remaining: int64(math.Max(0, math.Floor(tokens))),
		ResetAt:   now.Add(time.Duration(float64(time.Second) / float64(ratePerSecond))),
	}
	if !allowed {
		wait := (1 - tokens) / float64(ratePerSecond)
		result.RetryAfter = time.Duration(math.Ceil(wait)) * time.Second
	}
	return result, nil
}

// sweep drops buckets idle for longer than localIdleTTL. Callers hold l.mu.
func (l *LocalLimiter) sweep(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > localIdleTTL {
			delete(l.buckets, k)
		}
	}
	l.lastSweep = now
}
