package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientIdentity derives the rate-limit key for a request: the first
// non-empty value of X-Forwarded-For (leftmost entry, trimmed), else
// X-Real-IP (trimmed), else the remote socket address, else "unknown".
func ClientIdentity(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		first := strings.SplitN(xff, ",", 2)[0]
		if id := strings.TrimSpace(first); id != "" {
			return id
		}
	}
	if xri := strings.TrimSpace(c.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}
