package ratelimit

import (
	"context"
	"sync"
	"time"
)

const defaultSweepInterval = 5 * time.Minute

// record is one key's window
type record struct {
	count       int
	windowStart time.Time
}

// MemoryLimiter keeps windows in process memory. Expired windows are
// removed by Sweep, which Run calls periodically.
type MemoryLimiter struct {
	cfg     Config
	now     func() time.Time
	mu      sync.Mutex
	records map[string]*record
}

// MemoryOption configures a MemoryLimiter
type MemoryOption func(*MemoryLimiter)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) {
		l.now = now
	}
}

// NewMemoryLimiter creates an in-memory fixed-window limiter
func NewMemoryLimiter(cfg Config, opts ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		cfg:     cfg.normalized(),
		now:     time.Now,
		records: make(map[string]*record),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CheckAndRecord resets the window when none exists or it has expired,
// otherwise increments it. It never returns an error.
func (l *MemoryLimiter) CheckAndRecord(_ context.Context, key string) (Result, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[key]
	if !ok || now.Sub(rec.windowStart) > l.cfg.Window {
		rec = &record{count: 1, windowStart: now}
		l.records[key] = rec
	} else {
		rec.count++
	}

	return Result{
		Allowed: rec.count <= l.cfg.Limit,
		Count:   rec.count,
		Limit:   l.cfg.Limit,
		ResetAt: rec.windowStart.Add(l.cfg.Window),
	}, nil
}

// Sweep deletes every record whose window ended before now and returns
// how many were removed
func (l *MemoryLimiter) Sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, rec := range l.records {
		if now.Sub(rec.windowStart) > l.cfg.Window {
			delete(l.records, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Run sweeps every interval until ctx is cancelled. A non-positive
// interval uses the window length or five minutes, whichever is larger.
func (l *MemoryLimiter) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSweepInterval
		if l.cfg.Window > interval {
			interval = l.cfg.Window
		}
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}
