package server

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"popshop/apperr"
	mslogger "popshop/logger"
	"popshop/match"
	"popshop/proxy"
	"popshop/respond"
	"popshop/store"
)

// pipelineHandler builds the fiber.Handler that binds the matcher to the
// mock responder or proxy client. It is the innermost handler in the
// chain, mounted after the full middleware stack.
func pipelineHandler(st *store.Store, client *proxy.Client, ring *RingBuffer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		req := match.Request{
			Method:  c.Method(),
			Path:    c.Path(),
			Headers: fiberHeaders(c),
			Body:    c.Body(),
		}

		snapshot := st.Snapshot()
		matched := match.Find(snapshot, req)

		if matched == nil {
			latency := time.Since(start)
			ring.Record(req.Method, req.Path, "none", apperr.NoRuleMatched.Status(), latency)
			mslogger.LogRoute(req.Method, req.Path, c.IP(), apperr.NoRuleMatched.Status(), latency, "")
			return c.Status(apperr.NoRuleMatched.Status()).SendString("No matching rule found")
		}

		var status int
		if matched.IsMock() {
			resp := respond.Mock(matched.Response)
			for k, v := range resp.Headers {
				c.Set(k, v)
			}
			status = resp.Status
			c.Status(status)
			_ = c.Send(resp.Body)
		} else {
			in := proxy.Incoming{
				Method:  req.Method,
				Headers: req.Headers,
				Body:    req.Body,
			}
			resp := client.Forward(c.UserContext(), matched.Proxy, in, c.IP())
			for k, v := range resp.Headers {
				c.Set(k, v)
			}
			status = resp.Status
			c.Status(status)
			_ = c.Send(resp.Body)
		}

		latency := time.Since(start)
		matchedName := "proxy"
		if matched.IsMock() {
			matchedName = matched.Name
		}
		ring.Record(req.Method, req.Path, matchedName, status, latency)
		mslogger.LogRoute(req.Method, req.Path, c.IP(), status, latency, "")
		return nil
	}
}

// fiberHeaders converts fasthttp's request headers into net/http's
// representation so the matcher (which is framing-library-agnostic) can
// consume them.
func fiberHeaders(c *fiber.Ctx) http.Header {
	h := make(http.Header)
	c.Request().Header.VisitAll(func(key, value []byte) {
		h.Add(string(key), string(value))
	})
	return h
}
