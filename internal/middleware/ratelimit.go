package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimit caps requests per key per minute using a Redis counter. keyFn
// derives the bucket key from the request (phone path param, client IP, ...);
// an empty key falls back to the client IP. Cache errors fail open.
func RateLimit(cache *redis.Client, scope string, maxPerMin int, keyFn func(*fiber.Ctx) string) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 30
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		key := ""
		if keyFn != nil {
			key = keyFn(c)
		}
		if key == "" {
			key = c.IP()
		}

		bucket := "rl:" + scope + ":" + key
		cnt, err := cache.Incr(c.UserContext(), bucket).Result()
		if err != nil {
			return c.Next() // fail-open on cache errors
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), bucket, time.Minute)
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many requests, try again later")
		}
		return c.Next()
	}
}
