package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	mslogger "popshop/logger"
	"popshop/middleware"
	"popshop/proxy"
	"popshop/store"
)

// StartServer builds a fully configured *fiber.App: panic recovery, the
// ingress middleware chain, the optional admin API, and the request
// pipeline. It does not call Listen; the caller controls the listen/shutdown
// lifecycle separately so tests can drive the app with app.Test without
// binding a socket.
func StartServer(opts Options, st *store.Store) *fiber.App {
	opts = opts.WithDefaults()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())

	ring := NewRingBuffer(opts.RingBufferSize)
	client := proxy.New()

	limiter := middleware.Apply(app, opts.Middleware)

	if opts.Admin.Enabled {
		mountAdmin(app, adminDeps{
			store:      st,
			ring:       ring,
			secret:     opts.Admin.Secret,
			path:       opts.Admin.Path,
			limiter:    limiter,
			configPath: opts.ConfigPath,
		})
	}

	app.Use(pipelineHandler(st, client, ring))

	return app
}

// errorHandler converts an unhandled panic/error recovered further up the
// chain into a flat 500 with body "Internal server error", logging the
// underlying error for the operator without leaking it to the client.
func errorHandler(c *fiber.Ctx, err error) error {
	mslogger.LogError("internal failure: " + err.Error())
	return c.Status(fiber.StatusInternalServerError).SendString("Internal server error")
}

// normalizeAdminPath ensures the admin mount path has a leading slash and
// no trailing slash.
func normalizeAdminPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimSuffix(p, "/")
}
