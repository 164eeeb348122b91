package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ExactlyOneOfResponseOrProxy(t *testing.T) {
	pattern := Pattern{Path: "/hello", Method: "get"}

	t.Run("neither set is an error", func(t *testing.T) {
		_, err := New("r1", pattern, nil, nil)
		require.Error(t, err)
	})

	t.Run("both set is an error", func(t *testing.T) {
		_, err := New("r1", pattern, &MockResponse{Status: 200}, &ProxyTarget{URL: "http://upstream"})
		require.Error(t, err)
	})

	t.Run("response only is valid", func(t *testing.T) {
		r, err := New("r1", pattern, &MockResponse{Status: 200}, nil)
		require.NoError(t, err)
		assert.True(t, r.IsMock())
		assert.False(t, r.IsProxy())
		assert.Equal(t, "mock", r.Kind())
	})

	t.Run("proxy only is valid", func(t *testing.T) {
		r, err := New("r1", pattern, nil, &ProxyTarget{URL: "http://upstream"})
		require.NoError(t, err)
		assert.True(t, r.IsProxy())
		assert.Equal(t, "proxy", r.Kind())
	})
}

func TestNew_NormalizesMethod(t *testing.T) {
	r, err := New("r1", Pattern{Path: "/hello", Method: " get "}, &MockResponse{Status: 200}, nil)
	require.NoError(t, err)
	assert.Equal(t, "GET", r.Pattern.Method)
}

func TestList_Counts(t *testing.T) {
	mock, err := New("mock", Pattern{Path: "/a", Method: "GET"}, &MockResponse{Status: 200}, nil)
	require.NoError(t, err)
	proxy, err := New("proxy", Pattern{Path: "/b", Method: "GET"}, nil, &ProxyTarget{URL: "http://upstream"})
	require.NoError(t, err)

	list := &List{Rules: []*Rule{mock, proxy}}
	total, mockCount, proxyCount := list.Counts()
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, mockCount)
	assert.Equal(t, 1, proxyCount)
}

func TestList_Counts_Nil(t *testing.T) {
	var list *List
	total, mockCount, proxyCount := list.Counts()
	assert.Zero(t, total)
	assert.Zero(t, mockCount)
	assert.Zero(t, proxyCount)
}
