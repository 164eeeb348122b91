package match

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popshop/rule"
)

func mustRule(t *testing.T, name string, p rule.Pattern) *rule.Rule {
	t.Helper()
	r, err := rule.New(name, p, &rule.MockResponse{Status: 200}, nil)
	require.NoError(t, err)
	return r
}

func TestFind_FirstMatchWins(t *testing.T) {
	r1 := mustRule(t, "first", rule.Pattern{Path: "/a", Method: "GET"})
	r2 := mustRule(t, "second", rule.Pattern{Path: "/a", Method: "GET"})
	list := &rule.List{Rules: []*rule.Rule{r1, r2}}

	got := Find(list, Request{Method: "GET", Path: "/a"})
	require.NotNil(t, got)
	assert.Equal(t, "first", got.Name)
}

func TestFind_MethodIsCaseInsensitive(t *testing.T) {
	r := mustRule(t, "r", rule.Pattern{Path: "/a", Method: "GET"})
	list := &rule.List{Rules: []*rule.Rule{r}}

	got := Find(list, Request{Method: "get", Path: "/a"})
	assert.NotNil(t, got)
}

func TestFind_PathIsExact(t *testing.T) {
	r := mustRule(t, "r", rule.Pattern{Path: "/a", Method: "GET"})
	list := &rule.List{Rules: []*rule.Rule{r}}

	assert.Nil(t, Find(list, Request{Method: "GET", Path: "/a/"}))
	assert.Nil(t, Find(list, Request{Method: "GET", Path: "/b"}))
}

func TestFind_NoMatchReturnsNil(t *testing.T) {
	list := &rule.List{Rules: []*rule.Rule{mustRule(t, "r", rule.Pattern{Path: "/a", Method: "GET"})}}
	assert.Nil(t, Find(list, Request{Method: "POST", Path: "/a"}))
	assert.Nil(t, Find(nil, Request{Method: "GET", Path: "/a"}))
}

func TestMatches_HeaderConstraints(t *testing.T) {
	pattern := rule.Pattern{
		Path:    "/a",
		Method:  "GET",
		Headers: map[string]string{"X-Api-Key": "secret"},
	}
	r, err := rule.New("r", pattern, &rule.MockResponse{Status: 200}, nil)
	require.NoError(t, err)
	list := &rule.List{Rules: []*rule.Rule{r}}

	t.Run("matching header present", func(t *testing.T) {
		headers := http.Header{}
		headers.Set("X-Api-Key", "secret")
		assert.NotNil(t, Find(list, Request{Method: "GET", Path: "/a", Headers: headers}))
	})

	t.Run("header missing fails match", func(t *testing.T) {
		assert.Nil(t, Find(list, Request{Method: "GET", Path: "/a"}))
	})

	t.Run("header value mismatch fails match", func(t *testing.T) {
		headers := http.Header{}
		headers.Set("X-Api-Key", "wrong")
		assert.Nil(t, Find(list, Request{Method: "GET", Path: "/a", Headers: headers}))
	})
}

func TestMatches_BodyConstraint(t *testing.T) {
	pattern := rule.Pattern{Path: "/a", Method: "POST", Body: []byte(`{"x":1}`)}
	r, err := rule.New("r", pattern, &rule.MockResponse{Status: 200}, nil)
	require.NoError(t, err)
	list := &rule.List{Rules: []*rule.Rule{r}}

	assert.NotNil(t, Find(list, Request{Method: "POST", Path: "/a", Body: []byte(`{"x":1}`)}))
	assert.Nil(t, Find(list, Request{Method: "POST", Path: "/a", Body: []byte(`{"x":2}`)}))
}

func TestMatches_NilBodyAcceptsAnyBody(t *testing.T) {
	r := mustRule(t, "r", rule.Pattern{Path: "/a", Method: "POST"})
	list := &rule.List{Rules: []*rule.Rule{r}}

	assert.NotNil(t, Find(list, Request{Method: "POST", Path: "/a", Body: []byte("anything")}))
}

func TestFind_NonDispatchVerbNeverMatches(t *testing.T) {
	r, err := rule.New("r", rule.Pattern{Path: "/a", Method: "TRACE"}, &rule.MockResponse{Status: 200}, nil)
	require.NoError(t, err)
	list := &rule.List{Rules: []*rule.Rule{r}}

	assert.Nil(t, Find(list, Request{Method: "TRACE", Path: "/a"}))
	assert.Nil(t, Find(list, Request{Method: "trace", Path: "/a"}))
	assert.Nil(t, Find(list, Request{Method: "CONNECT", Path: "/a"}))
}
