// Package ratelimit implements a fixed window request limiter shared between
// server instances through Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultPrefix = "ratelimit"

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// New creates a Limiter allowing limit requests per key in every window.
func New(client *redis.Client, limit int, window time.Duration, prefix string) *Limiter {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Limiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
	}
}

// allowScript increments the window counter and returns it with the
// remaining window in milliseconds. A counter without expiry, such as one
// left behind by an older writer, gets the window applied again.
var allowScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// Allow records a request for key. On Redis failure the request is allowed
// and the error is returned for logging.
func (l *Limiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := allowScript.Run(ctx, l.client, []string{l.key(key)}, l.window.Milliseconds()).Result()
	if err != nil {
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit}, fmt.Errorf("redis error: %w", err)
	}

	count, ttl, err := parseAllowReply(res)
	if err != nil {
		return Decision{Allowed: true, Limit: l.limit, Remaining: l.limit}, err
	}

	retryAfter := time.Duration(ttl) * time.Millisecond
	if retryAfter <= 0 {
		retryAfter = l.window
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:    count <= int64(l.limit),
		Limit:      l.limit,
		Remaining:  remaining,
		RetryAfter: retryAfter,
	}, nil
}

func parseAllowReply(res interface{}) (count, ttl int64, err error) {
	values, ok := res.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected limiter reply: %v", res)
	}
	count, ok = values[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected limiter count: %v", values[0])
	}
	ttl, ok = values[1].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("unexpected limiter ttl: %v", values[1])
	}
	return count, ttl, nil
}

func (l *Limiter) key(key string) string {
	return fmt.Sprintf("%s:%s", l.prefix, key)
}
