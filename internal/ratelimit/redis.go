package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces contact rate-limit counters in Redis.
const KeyPrefix = "ratelimit:contact:"

// fixedWindowScript runs the same algorithm as FixedWindow atomically.
// The key TTL stands in for resetTime; an expired key is a fresh window.
//
// KEYS[1] counter key, ARGV[1] max, ARGV[2] window in milliseconds.
var fixedWindowScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
  redis.call('SET', KEYS[1], 1, 'PX', ARGV[2])
  return 1
end
if tonumber(current) >= tonumber(ARGV[1]) then
  return 0
end
redis.call('INCR', KEYS[1])
return 1
`)

// Redis is a Limiter backed by a shared Redis counter, for deployments
// running more than one instance.
type Redis struct {
	client redis.Scripter
	max    int
	window time.Duration
}

var _ Limiter = (*Redis)(nil)

// NewRedis wraps an existing client. Non-positive arguments fall back to the
// defaults.
func NewRedis(client redis.Scripter, max int, window time.Duration) *Redis {
	if max <= 0 {
		max = DefaultMax
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Redis{client: client, max: max, window: window}
}

// NewRedisClient parses a redis:// URL and verifies the server is reachable.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Allow implements Limiter.
func (l *Redis) Allow(ctx context.Context, key string) (bool, error) {
	if key == "" {
		key = UnknownKey
	}
	res, err := fixedWindowScript.Run(ctx, l.client, []string{KeyPrefix + key}, l.max, l.window.Milliseconds()).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit script: %w", err)
	}
	return res == 1, nil
}
