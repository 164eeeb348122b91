package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig configures the decoration applied by CORS.
type CORSConfig struct {
	AllowOrigins []string // empty means "*"
	AllowMethods []string // empty means GET, POST, PUT, DELETE, PATCH, OPTIONS
	AllowHeaders []string // empty means the default set
}

var defaultAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
var defaultAllowHeaders = []string{"Content-Type", "Authorization"}

// CORS short-circuits OPTIONS requests with a 200 and the configured CORS
// headers, and decorates every other response — including error responses
// produced by earlier middleware, since this wraps the whole chain.
func CORS(cfg CORSConfig) fiber.Handler {
	origin := "*"
	if len(cfg.AllowOrigins) > 0 {
		origin = strings.Join(cfg.AllowOrigins, ", ")
	}
	methods := cfg.AllowMethods
	if len(methods) == 0 {
		methods = defaultAllowMethods
	}
	headers := cfg.AllowHeaders
	if len(headers) == 0 {
		headers = defaultAllowHeaders
	}
	methodsHeader := strings.Join(methods, ", ")
	headersHeader := strings.Join(headers, ", ")

	decorate := func(c *fiber.Ctx) {
		c.Set(fiber.HeaderAccessControlAllowOrigin, origin)
		c.Set(fiber.HeaderAccessControlAllowMethods, methodsHeader)
		c.Set(fiber.HeaderAccessControlAllowHeaders, headersHeader)
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			decorate(c)
			return c.SendStatus(fiber.StatusOK)
		}
		err := c.Next()
		decorate(c)
		return err
	}
}
