package middleware

import "github.com/gofiber/fiber/v2"

// respondError writes a plain-text error body with the given status. CORS
// decoration still applies to it since CORS wraps the whole chain.
func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).SendString(message)
}
