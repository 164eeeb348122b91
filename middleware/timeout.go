package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"popshop/apperr"
)

// PerRequestTimeout wraps only the downstream handler — not the guards
// ahead of it — in a deadline. On expiry it responds 408 and abandons the
// in-flight handler goroutine; the deadline context installed as the
// request's user context (c.UserContext()) is cancelled, and the pipeline
// passes that context to the proxy client, so any in-flight proxy call
// unwinds too.
func PerRequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(c.Context(), d)
		defer cancel()
		c.SetUserContext(ctx)

		done := make(chan error, 1)
		go func() {
			done <- c.Next()
		}()

		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return respondError(c, apperr.RequestTimeout.Status(), "Request timeout")
		}
	}
}
