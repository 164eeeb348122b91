package apperr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Status(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{RequestTooLarge, 413},
		{HeadersTooLarge, 431},
		{RateLimited, 429},
		{InvalidHost, 400},
		{RequestTimeout, 408},
		{NoRuleMatched, 404},
		{UnsafeProxyURL, 400},
		{ProxyTransportFailure, 502},
		{UpstreamTimeout, 502},
		{InternalFailure, 500},
		{InvalidConfiguration, 500},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestError_MessageFormatting(t *testing.T) {
	err := New(InvalidConfiguration, "rule %s: %s", "r1", "bad")
	assert.Equal(t, "InvalidConfiguration: rule r1: bad", err.Error())

	withFile := err.WithFile("rules.yaml", 12)
	assert.Equal(t, "InvalidConfiguration: rule r1: bad (rules.yaml:12)", withFile.Error())
}
