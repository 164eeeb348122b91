// Package middleware implements PopShop's ingress chain: size/header
// guards, rate limiting, host allow-listing, per-request timeout, and CORS.
// The registration order is deliberate: cheap/loud guards first, rate
// limiting before any expensive work, host validation is semantic, timeout
// wraps only the handler, and CORS wraps everything so preflights always
// succeed and error responses from earlier stages still carry CORS headers.
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"popshop/ratelimit"
)

// Config bundles every tunable of the ingress chain, along with the
// defaults Apply falls back to when a field is left zero-valued.
type Config struct {
	MaxRequestSize         int // bytes; default 1 MiB
	MaxHeaderSize          int // bytes; default 8 KiB
	RateLimitRequests      int // default 100
	RateLimitWindowSeconds int // default 60
	AllowedHosts           []string
	RequestTimeoutSeconds  int // default 30
	CORS                   CORSConfig
}

const (
	DefaultMaxRequestSize        = 1 << 20 // 1 MiB
	DefaultRateLimitRequests     = 100
	DefaultRateLimitWindowSecs   = 60
	DefaultRequestTimeoutSeconds = 30
)

// WithDefaults fills in any zero-valued field with its documented default.
func (c Config) WithDefaults() Config {
	if c.MaxRequestSize <= 0 {
		c.MaxRequestSize = DefaultMaxRequestSize
	}
	if c.MaxHeaderSize <= 0 {
		c.MaxHeaderSize = defaultMaxHeaderSize
	}
	if c.RateLimitRequests <= 0 {
		c.RateLimitRequests = DefaultRateLimitRequests
	}
	if c.RateLimitWindowSeconds <= 0 {
		c.RateLimitWindowSeconds = DefaultRateLimitWindowSecs
	}
	if c.RequestTimeoutSeconds <= 0 {
		c.RequestTimeoutSeconds = DefaultRequestTimeoutSeconds
	}
	return c
}

// Apply mounts the full ingress chain onto app in the fixed order described
// above, and returns the Limiter so the caller (or the admin API) can
// inspect it.
func Apply(app *fiber.App, cfg Config) *ratelimit.Limiter {
	cfg = cfg.WithDefaults()

	limiter := ratelimit.New(cfg.RateLimitRequests, time.Duration(cfg.RateLimitWindowSeconds)*time.Second)

	app.Use(CORS(cfg.CORS))
	app.Use(SizeGuard(cfg.MaxRequestSize, cfg.MaxHeaderSize))
	app.Use(RateLimit(limiter))
	app.Use(HostAllowList(cfg.AllowedHosts))
	app.Use(PerRequestTimeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second))

	return limiter
}
