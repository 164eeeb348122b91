package respond

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"popshop/rule"
)

func TestMock_DefaultsContentType(t *testing.T) {
	resp := Mock(&rule.MockResponse{Status: 200, Body: []byte(`{"ok":true}`)})
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, 200, resp.Status)
}

func TestMock_RespectsExplicitContentType(t *testing.T) {
	resp := Mock(&rule.MockResponse{
		Status:  200,
		Headers: map[string]string{"content-type": "text/plain"},
		Body:    []byte("hi"),
	})
	assert.Equal(t, "text/plain", resp.Headers["content-type"])
	_, hasCanonical := resp.Headers["Content-Type"]
	assert.False(t, hasCanonical, "should not add a second Content-Type header under different casing")
}

func TestMock_CopiesHeadersWithoutMutatingSource(t *testing.T) {
	src := map[string]string{"X-Custom": "value"}
	m := &rule.MockResponse{Status: 200, Headers: src, Body: []byte("x")}

	resp := Mock(m)
	resp.Headers["X-Custom"] = "mutated"

	assert.Equal(t, "value", src["X-Custom"])
}
