package ratelimit

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = window in milliseconds
// Returns: [current_count, pttl_remaining]
const fixedWindowLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
return {count, ttl}
`

var fixedWindowScript = goredis.NewScript(fixedWindowLuaScript)

// RedisLimiter shares windows between instances through Redis. Key expiry
// is the eviction. On Redis errors it fails open to the fallback limiter.
type RedisLimiter struct {
	client    *goredis.Client
	cfg       Config
	keyPrefix string
	fallback  Limiter
	log       *zap.Logger
}

// NewRedisLimiter creates a Redis-backed limiter. fallback may be nil, in
// which case Redis errors are returned to the caller.
func NewRedisLimiter(client *goredis.Client, cfg Config, keyPrefix string, fallback Limiter, log *zap.Logger) *RedisLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisLimiter{
		client:    client,
		cfg:       cfg.normalized(),
		keyPrefix: keyPrefix,
		fallback:  fallback,
		log:       log,
	}
}

func (l *RedisLimiter) CheckAndRecord(ctx context.Context, key string) (Result, error) {
	res, err := l.check(ctx, key)
	if err == nil {
		return res, nil
	}
	if l.fallback == nil {
		return Result{}, err
	}
	l.log.Warn("redis rate limit failed, using in-memory fallback", zap.Error(err))
	return l.fallback.CheckAndRecord(ctx, key)
}

func (l *RedisLimiter) check(ctx context.Context, key string) (Result, error) {
	fullKey := l.keyPrefix + key

	raw, err := fixedWindowScript.Run(ctx, l.client, []string{fullKey}, l.cfg.Window.Milliseconds()).Result()
	if err != nil {
		return Result{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := raw.([]interface{})
	if !ok || len(arr) < 2 {
		return Result{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	pttl, _ := arr[1].(int64)
	if pttl < 0 {
		pttl = l.cfg.Window.Milliseconds()
	}

	return Result{
		Allowed: int(count) <= l.cfg.Limit,
		Count:   int(count),
		Limit:   l.cfg.Limit,
		ResetAt: time.Now().Add(time.Duration(pttl) * time.Millisecond),
	}, nil
}
