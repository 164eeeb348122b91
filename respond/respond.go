// Package respond builds an HTTP response from a matched rule's mock
// payload. No templating, no transformation — the rule's body is returned
// verbatim.
package respond

import (
	"strings"

	"popshop/rule"
)

// Response is the framing-layer-agnostic result of the mock responder.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

const defaultContentType = "application/json"

// Mock builds a Response from a rule's mock payload, defaulting
// Content-Type to application/json when the rule doesn't set one.
func Mock(m *rule.MockResponse) Response {
	headers := make(map[string]string, len(m.Headers)+1)
	hasContentType := false
	for k, v := range m.Headers {
		headers[k] = v
		if strings.EqualFold(k, "Content-Type") {
			hasContentType = true
		}
	}
	if !hasContentType {
		headers["Content-Type"] = defaultContentType
	}

	return Response{
		Status:  m.Status,
		Headers: headers,
		Body:    m.Body,
	}
}
