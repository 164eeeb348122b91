package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"popshop/apperr"
	"popshop/ratelimit"
)

// RateLimit enforces limiter's fixed-window counter keyed by client
// identity. Placed before any expensive downstream work so a flooding
// client is turned away cheaply.
func RateLimit(limiter *ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := ClientIdentity(c)
		if allowed, _ := limiter.Allow(identity); !allowed {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(limiter.Window().Seconds())))
			return respondError(c, apperr.RateLimited.Status(), "Too Many Requests")
		}
		return c.Next()
	}
}
