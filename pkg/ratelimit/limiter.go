// Package ratelimit implements the fixed-window per-key counters used by the
// contact form. A window opens on a key's first request and lasts Window;
// requests past Limit inside the window are rejected. Bursts across a window
// boundary are allowed.
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of one CheckAndRecord call
type Result struct {
	Allowed bool
	Count   int
	Limit   int
	ResetAt time.Time
}

// Remaining is how many more requests the window admits
func (r Result) Remaining() int {
	if r.Count >= r.Limit {
		return 0
	}
	return r.Limit - r.Count
}

// Limiter records a hit for key and reports whether it is allowed
type Limiter interface {
	CheckAndRecord(ctx context.Context, key string) (Result, error)
}

// Config holds the window settings shared by all limiter implementations
type Config struct {
	Limit  int
	Window time.Duration
}

// DefaultContactConfig is 8 requests per 60 seconds per client
func DefaultContactConfig() Config {
	return Config{
		Limit:  8,
		Window: time.Minute,
	}
}

func (c Config) normalized() Config {
	def := DefaultContactConfig()
	if c.Limit <= 0 {
		c.Limit = def.Limit
	}
	if c.Window <= 0 {
		c.Window = def.Window
	}
	return c
}
