package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"popshop/auth"
	"popshop/config"
	"popshop/middleware"
	"popshop/rule"
	"popshop/store"
)

func mustParse(t *testing.T, doc string) *rule.List {
	t.Helper()
	rules, err := config.ParseDocument([]byte(doc), "test.yaml")
	require.NoError(t, err)
	return &rule.List{Rules: rules}
}

// TestIntegration_SimpleMock builds a config, starts the app, and asserts
// the HTTP-level response through app.Test.
func TestIntegration_SimpleMock(t *testing.T) {
	list := mustParse(t, `
request:
  path: /hello
  method: GET
response:
  status: 200
  body: '{"message":"world"}'
`)
	app := StartServer(Options{}, store.New(list))

	req := httptest.NewRequest("GET", "/hello", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"message":"world"}`, string(body))
}

func TestIntegration_NoMatchingRuleReturns404(t *testing.T) {
	app := StartServer(Options{}, store.New(&rule.List{}))

	resp, err := app.Test(httptest.NewRequest("GET", "/nothing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestIntegration_HeaderConstraintMustMatch(t *testing.T) {
	list := mustParse(t, `
request:
  path: /secure
  method: GET
  headers:
    X-Api-Key: "secret-123"
response:
  body: "ok"
`)
	app := StartServer(Options{}, store.New(list))

	noKey := httptest.NewRequest("GET", "/secure", nil)
	respFail, err := app.Test(noKey, -1)
	require.NoError(t, err)
	assert.Equal(t, 404, respFail.StatusCode)

	withKey := httptest.NewRequest("GET", "/secure", nil)
	withKey.Header.Set("X-Api-Key", "secret-123")
	respOK, err := app.Test(withKey, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, respOK.StatusCode)
}

func TestIntegration_FirstMatchWins(t *testing.T) {
	list := mustParse(t, `
- request: {path: /dup, method: GET}
  response: {body: "first"}
- request: {path: /dup, method: GET}
  response: {body: "second"}
`)
	app := StartServer(Options{}, store.New(list))

	resp, err := app.Test(httptest.NewRequest("GET", "/dup", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "first", string(body))
}

func TestIntegration_SizeGuardRejectsOversizedBody(t *testing.T) {
	list := mustParse(t, `
request: {path: /upload, method: POST}
response: {body: "ok"}
`)
	opts := Options{Middleware: middleware.Config{MaxRequestSize: 10}}
	app := StartServer(opts, store.New(list))

	req := httptest.NewRequest("POST", "/upload", bytes.NewReader(bytes.Repeat([]byte("x"), 100)))
	req.Header.Set("Content-Length", "100")
	req.ContentLength = 100

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 413, resp.StatusCode)
}

func TestIntegration_AdminRequiresBearerToken(t *testing.T) {
	secret := []byte("admin-secret")
	opts := Options{Admin: AdminOptions{Enabled: true, Secret: secret}}
	app := StartServer(opts, store.New(&rule.List{}))

	respNoAuth, err := app.Test(httptest.NewRequest("GET", "/__popshop/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 401, respNoAuth.StatusCode)

	token, err := auth.IssueToken(secret, "tester", time.Hour)
	require.NoError(t, err)

	reqAuth := httptest.NewRequest("GET", "/__popshop/health", nil)
	reqAuth.Header.Set("Authorization", "Bearer "+token)
	respAuth, err := app.Test(reqAuth, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, respAuth.StatusCode)

	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(respAuth.Body).Decode(&payload))
	assert.Equal(t, "ok", payload["status"])
}

func TestIntegration_AdminReloadAppliesNewRules(t *testing.T) {
	secret := []byte("admin-secret")
	list := mustParse(t, `
request: {path: /a, method: GET}
response: {body: "old"}
`)
	st := store.New(list)
	opts := Options{Admin: AdminOptions{Enabled: true, Secret: secret}, ConfigPath: writeTempConfig(t, `
request: {path: /a, method: GET}
response: {body: "new"}
`)}
	app := StartServer(opts, st)

	token, err := auth.IssueToken(secret, "tester", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/__popshop/reload", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	getResp, err := app.Test(httptest.NewRequest("GET", "/a", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(getResp.Body)
	assert.Equal(t, "new", string(body))
}

func writeTempConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}
