package rest

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vidhub/internal/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Counter is the subset of the redis client used for fixed-window limits.
// A key with no expiry reports a TTL of -1.
// *redis.Client satisfies it.
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RateLimiter allows at most limit requests per client IP and window.
type RateLimiter struct {
	store  Counter
	prefix string
	limit  int64
	window time.Duration
	logger logging.Logger
}

func NewRateLimiter(store Counter, prefix string, limit int, window time.Duration, l logging.Logger) *RateLimiter {
	return &RateLimiter{
		store:  store,
		prefix: prefix,
		limit:  int64(limit),
		window: window,
		logger: l.With("module", "rate_limiter"),
	}
}

// Handler counts the request against the caller's window. Counter failures
// let the request through.
func (r *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		key := fmt.Sprintf("%s:%s", r.prefix, c.IP())

		count, err := r.store.Incr(ctx, key).Result()
		if err != nil {
			r.logger.Warn(ctx, "rate limiter unavailable", "key", key, "error", err)
			return c.Next()
		}
		if count == 1 {
			r.expire(ctx, key)
		}
		if count > r.limit {
			// A window whose expiry was lost would block the caller forever.
			if ttl, err := r.store.TTL(ctx, key).Result(); err == nil && ttl == -1 {
				r.expire(ctx, key)
			}
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later")
		}
		return c.Next()
	}
}

func (r *RateLimiter) expire(ctx context.Context, key string) {
	if err := r.store.Expire(ctx, key, r.window).Err(); err != nil {
		r.logger.Warn(ctx, "rate limiter expire failed", "key", key, "error", err)
	}
}

func (s *Server) rateLimited() fiber.Handler {
	if s.limiter == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return s.limiter.Handler()
}
