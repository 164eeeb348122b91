// Package proxy implements the forward-proxy client: SSRF validation,
// header hygiene, and upstream relay.
package proxy

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"popshop/apperr"
	"popshop/proxy/ssrf"
	"popshop/rule"
)

func ssrfValid(rawURL string) bool {
	return ssrf.IsValidProxyURL(rawURL)
}

// requestSideStrip is the hop-by-hop / identity header set removed from the
// incoming request before it's forwarded upstream.
var requestSideStrip = buildStripSet(
	"host", "connection", "upgrade", "proxy-connection",
	"proxy-authenticate", "proxy-authorization", "te", "trailers", "transfer-encoding",
)

// responseSideStrip is removed from the upstream response before it's
// relayed to the client.
var responseSideStrip = buildStripSet(
	"content-encoding", "content-length", "transfer-encoding",
	"connection", "upgrade", "proxy-authenticate", "proxy-authorization",
)

func buildStripSet(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[strings.ToLower(n)] = struct{}{}
	}
	return m
}

// Incoming is the subset of the client's request the proxy client needs.
type Incoming struct {
	Method  string
	Headers http.Header
	Body    []byte
}

// Response is the framing-layer-agnostic result of a proxy attempt.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// Client forwards requests to proxy targets. It holds a single reused
// http.Client so connection pooling is shared across requests; Client is
// safe for concurrent use.
type Client struct {
	httpClient *http.Client
	// ProxyIdentity names this proxy hop. Forward does not send it
	// upstream: the X-Forwarded-For entry it appends is the client address.
	ProxyIdentity string
}

// New builds a Client with a shared transport. The client itself sets no
// timeout; Forward bounds each request by its target's timeout_ms (30s when
// unset) via context.
func New() *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: http.DefaultTransport,
		},
		ProxyIdentity: "popshop",
	}
}

// badGatewayBody returns a short diagnostic body naming the failure kind,
// so an operator reading the response body can tell a DNS/connect failure
// from a deadline without reaching for server logs.
func badGatewayBody(kind string, err error) []byte {
	return []byte("upstream " + kind + ": " + err.Error())
}

// Forward validates target.URL, then issues the upstream request and
// relays its response. On SSRF rejection it returns a 400 without ever
// making a network call. On transport/timeout failure it returns a 502
// diagnostic.
func (c *Client) Forward(ctx context.Context, target *rule.ProxyTarget, in Incoming, clientAddr string) Response {
	if !ssrfValid(target.URL) {
		return Response{Status: apperr.UnsafeProxyURL.Status(), Body: []byte("Invalid proxy URL")}
	}

	parsed, err := url.Parse(target.URL)
	if err != nil {
		return Response{Status: apperr.UnsafeProxyURL.Status(), Body: []byte("Invalid proxy URL")}
	}

	method := target.MethodOverride
	if method == "" {
		method = in.Method
	}
	method = strings.ToUpper(method)

	timeout := 30 * time.Second
	if target.TimeoutMs > 0 {
		timeout = time.Duration(target.TimeoutMs) * time.Millisecond
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bodyReader io.Reader
	if methodAdmitsBody(method) && len(in.Body) > 0 {
		bodyReader = bytes.NewReader(in.Body)
	}

	outReq, err := http.NewRequestWithContext(reqCtx, method, parsed.String(), bodyReader)
	if err != nil {
		return Response{Status: apperr.ProxyTransportFailure.Status(), Body: badGatewayBody("request construction failed", err)}
	}
	outReq.Header = buildOutboundHeaders(in.Headers, target.Headers, clientAddr)

	resp, err := c.httpClient.Do(outReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Response{Status: apperr.UpstreamTimeout.Status(), Body: []byte("upstream timeout")}
		}
		return Response{Status: apperr.ProxyTransportFailure.Status(), Body: badGatewayBody("transport failure", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{Status: apperr.ProxyTransportFailure.Status(), Body: badGatewayBody("body read failure", err)}
	}

	return Response{
		Status:  resp.StatusCode,
		Headers: filterResponseHeaders(resp.Header),
		Body:    body,
	}
}

func methodAdmitsBody(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

// buildOutboundHeaders starts from the incoming headers, strips the
// request-side hop-by-hop set, overlays the target's injected headers
// (which win on collision), and appends X-Forwarded-For.
func buildOutboundHeaders(incoming http.Header, inject map[string]string, clientAddr string) http.Header {
	out := make(http.Header, len(incoming)+len(inject)+1)
	for k, vals := range incoming {
		if _, stripped := requestSideStrip[strings.ToLower(k)]; stripped {
			continue
		}
		for _, v := range vals {
			out.Add(k, v)
		}
	}
	for k, v := range inject {
		out.Set(k, v)
	}

	xff := clientAddr
	if prior := out.Get("X-Forwarded-For"); prior != "" {
		xff = prior + ", " + clientAddr
	}
	if clientAddr != "" {
		out.Set("X-Forwarded-For", xff)
	}
	return out
}

func filterResponseHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vals := range h {
		if _, stripped := responseSideStrip[strings.ToLower(k)]; stripped {
			continue
		}
		if len(vals) > 0 {
			out[k] = vals[0]
		}
	}
	return out
}
