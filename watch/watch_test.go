package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popshop/config"
	"popshop/store"
)

const ruleA = `
request:
  path: /hello
  method: GET
response:
  body: "a"
`

const ruleB = `
request:
  path: /hello
  method: GET
response:
  body: "b"
`

func TestWatcher_ReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(ruleA), 0644))

	st := store.New(nil)
	w, err := New(path, st)
	require.NoError(t, err)

	stop := make(chan struct{})
	defer close(stop)
	go w.Start(stop)

	require.NoError(t, os.WriteFile(path, []byte(ruleB), 0644))

	require.Eventually(t, func() bool {
		return st.Snapshot().Rules != nil && len(st.Snapshot().Rules) == 1 &&
			string(st.Snapshot().Rules[0].Response.Body) == "b"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatcher_KeepsOldRulesOnBadReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(ruleA), 0644))

	initial, err := config.Load(path)
	require.NoError(t, err)
	st := store.New(initial)

	w, err := New(path, st)
	require.NoError(t, err)

	stop := make(chan struct{})
	defer close(stop)
	go w.Start(stop)

	require.NoError(t, os.WriteFile(path, []byte("not: [valid, yaml, rule"), 0644))

	time.Sleep(debounceDelay + 200*time.Millisecond)

	assert.Equal(t, "a", string(st.Snapshot().Rules[0].Response.Body))
}
