package middleware

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"popshop/apperr"
)

const defaultMaxHeaderSize = 8 * 1024 // 8 KiB

// SizeGuard rejects requests whose declared Content-Length exceeds
// maxRequestSize (413) or whose total header-line length exceeds
// maxHeaderSize (431) — the cheapest, fail-loudest check in the chain,
// run early so an oversized request never reaches the matcher.
func SizeGuard(maxRequestSize, maxHeaderSize int) fiber.Handler {
	if maxHeaderSize <= 0 {
		maxHeaderSize = defaultMaxHeaderSize
	}
	return func(c *fiber.Ctx) error {
		if cl := c.Get(fiber.HeaderContentLength); cl != "" {
			if n, err := strconv.Atoi(cl); err == nil && maxRequestSize > 0 && n > maxRequestSize {
				return respondError(c, apperr.RequestTooLarge.Status(), "Request entity too large")
			}
		}

		headerBytes := 0
		c.Request().Header.VisitAll(func(key, value []byte) {
			// "name: value\r\n" per header line on the wire
			headerBytes += len(key) + len(": ") + len(value) + len("\r\n")
		})
		if headerBytes > maxHeaderSize {
			return respondError(c, apperr.HeadersTooLarge.Status(), fmt.Sprintf("Request header fields too large (%d bytes)", headerBytes))
		}

		return c.Next()
	}
}
