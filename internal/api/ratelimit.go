package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fathima-sithara/lingua-relay/internal/auth"
)

// RateLimiter throttles POST /messages per user via a Redis counter,
// grounded in the teacher's shared rate-limiting middleware.
type RateLimiter struct {
	redis  *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRateLimiter constructs a RateLimiter. A nil client disables limiting
// (the middleware becomes a no-op), so deployments without Redis configured
// still run.
func NewRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{redis: client, prefix: prefix, limit: limit, window: window}
}

// Middleware enforces limit requests per window per authenticated user.
func (r *RateLimiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if r == nil || r.redis == nil || r.limit <= 0 {
			return c.Next()
		}

		ctx := context.Background()
		key := fmt.Sprintf("%s:%s", r.prefix, auth.UserID(c))
		count, err := r.redis.Incr(ctx, key).Result()
		if err != nil {
			// Redis unavailable: fail open rather than blocking message
			// posting on an advisory dependency.
			return c.Next()
		}
		if count == 1 {
			r.redis.Expire(ctx, key, r.window)
		}
		if count > int64(r.limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}
		return c.Next()
	}
}
