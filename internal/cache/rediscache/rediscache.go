// Package rediscache provides an optional distributed mirror of the
// in-process Translation Cache, so multiple process instances can share
// hits. It satisfies the same advisory contract: any error is swallowed
// with a warning log, never propagated to the pipeline.
package rediscache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Mirror wraps a redis.Client to back the Translation Cache across
// process instances, following the teacher's go-redis usage in
// message-service and the rate limiter middleware.
type Mirror struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// New constructs a Mirror. logger may be nil in tests.
func New(client *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *Mirror {
	return &Mirror{client: client, ttl: ttl, logger: logger}
}

func (m *Mirror) warn(msg string, err error, key string) {
	if m.logger != nil {
		m.logger.Warnw(msg, "error", err, "key", key)
	}
}

// Get returns the mirrored value for key, or false on miss or any error
// (the cache is advisory; errors never propagate).
func (m *Mirror) Get(ctx context.Context, key string) (string, bool) {
	val, err := m.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			m.warn("rediscache get failed", err, key)
		}
		return "", false
	}
	return val, true
}

// Set mirrors value under key with the configured TTL. Errors are logged
// and swallowed.
func (m *Mirror) Set(ctx context.Context, key, value string) {
	if err := m.client.Set(ctx, key, value, m.ttl).Err(); err != nil {
		m.warn("rediscache set failed", err, key)
	}
}
