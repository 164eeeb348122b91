package server

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	popshopauth "popshop/auth"
	"popshop/config"
	"popshop/internal/appinfo"
	mslogger "popshop/logger"
	"popshop/ratelimit"
	"popshop/store"
)

type adminDeps struct {
	store      *store.Store
	ring       *RingBuffer
	secret     []byte
	path       string
	limiter    *ratelimit.Limiter
	configPath string
}

var startTime = time.Now()

// mountAdmin registers the bearer-authenticated operator surface: health,
// rule summary, recent requests, and a manual reload trigger that bypasses
// the watcher's debounce window.
func mountAdmin(app *fiber.App, deps adminDeps) {
	base := normalizeAdminPath(deps.path)

	grp := app.Group(base, adminAuth(deps.secret))

	grp.Get("/health", func(c *fiber.Ctx) error {
		total, mock, proxyCount := deps.store.Snapshot().Counts()
		return c.JSON(fiber.Map{
			"status":      "ok",
			"version":     appinfo.Version,
			"uptime_s":    int(time.Since(startTime).Seconds()),
			"rules_total": total,
			"rules_mock":  mock,
			"rules_proxy": proxyCount,
		})
	})

	grp.Get("/rules", func(c *fiber.Ctx) error {
		snapshot := deps.store.Snapshot()
		out := make([]fiber.Map, 0, len(snapshot.Rules))
		for _, r := range snapshot.Rules {
			out = append(out, fiber.Map{
				"name":   r.Name,
				"method": r.Pattern.Method,
				"path":   r.Pattern.Path,
				"kind":   r.Kind(),
			})
		}
		return c.JSON(out)
	})

	grp.Get("/requests", func(c *fiber.Ctx) error {
		return c.JSON(deps.ring.Recent())
	})

	grp.Post("/reload", func(c *fiber.Ctx) error {
		newList, err := config.Load(deps.configPath)
		if err != nil {
			mslogger.LogError("admin-triggered reload failed: " + err.Error())
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"reloaded": false,
				"error":    err.Error(),
			})
		}
		deps.store.Replace(newList)
		total, mock, proxyCount := newList.Counts()
		mslogger.LogSuccess("admin-triggered reload succeeded")
		return c.JSON(fiber.Map{
			"reloaded":    true,
			"rules_total": total,
			"rules_mock":  mock,
			"rules_proxy": proxyCount,
		})
	})
}

// adminAuth validates the Authorization: Bearer <token> header against
// secret, rejecting the "none" algorithm and expired tokens.
func adminAuth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing admin token"})
		}
		if _, err := popshopauth.ValidateToken(secret, token); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid admin token"})
		}
		return c.Next()
	}
}
