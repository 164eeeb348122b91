package middleware

import (
	"github.com/gofiber/fiber/v2"

	"popshop/apperr"
)

// HostAllowList requires the request's Host header to exactly match one of
// allowedHosts when that list is non-empty. An empty list disables the
// check entirely.
func HostAllowList(allowedHosts []string) fiber.Handler {
	allowed := make(map[string]struct{}, len(allowedHosts))
	for _, h := range allowedHosts {
		allowed[h] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		if len(allowed) == 0 {
			return c.Next()
		}
		host := c.Get(fiber.HeaderHost)
		if host == "" {
			host = c.Hostname()
		}
		if _, ok := allowed[host]; !ok {
			return respondError(c, apperr.InvalidHost.Status(), "Invalid host")
		}
		return c.Next()
	}
}
