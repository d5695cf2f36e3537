package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/webterm/internal/infrastructure/config"
	"github.com/GriffinCanCode/webterm/internal/infrastructure/logging"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *httptest.Server, string) {
	t.Helper()
	chdir(t, t.TempDir())

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Session.StartDir = dir
	cfg.Sysinfo.SampleInterval = 10 * time.Millisecond
	cfg.RateLimit.Enabled = false
	if mutate != nil {
		mutate(cfg)
	}

	srv, err := NewServer(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts, dir
}

func execute(t *testing.T, ts *httptest.Server, cmd string) map[string]any {
	t.Helper()
	body, err := json.Marshal(map[string]string{"command": cmd})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/execute", "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestExecuteEndToEnd(t *testing.T) {
	srv, ts, dir := newTestServer(t, nil)

	out := execute(t, ts, "ai create a folder named reports")
	assert.Equal(t, "Folder 'reports' created successfully.", out["output"])
	assert.Equal(t, "Create folder 'reports'", out["ai_translation"])
	assert.DirExists(t, filepath.Join(dir, "reports"))

	out = execute(t, ts, "cd reports")
	assert.Equal(t, "Changed directory to: "+filepath.Join(dir, "reports"), out["output"])
	assert.Equal(t, filepath.Join(dir, "reports"), srv.Session().Dir())

	out = execute(t, ts, "echo hello from $0")
	assert.Contains(t, out["output"], "hello from")
	_, hasTranslation := out["ai_translation"]
	assert.False(t, hasTranslation)

	out = execute(t, ts, "cd ..")
	assert.Equal(t, dir, srv.Session().Dir())

	out = execute(t, ts, "sysinfo")
	assert.Regexp(t, `^CPU: \d+\.\d% \| Memory: \d+\.\d%$`, out["output"])

	out = execute(t, ts, "   ")
	assert.Equal(t, "No command provided", out["error"])
}

func TestShellDisabled(t *testing.T) {
	_, ts, _ := newTestServer(t, func(cfg *config.Config) {
		cfg.Shell.Mode = config.ShellModeDisabled
	})

	out := execute(t, ts, "uname")
	assert.Equal(t, "An unexpected error occurred: shell fallback is disabled", out["error"])

	out = execute(t, ts, "pwd")
	assert.Empty(t, out["error"])

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, config.ShellModeDisabled, body["shell_mode"])
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	chdir(t, t.TempDir())

	cfg := config.Default()
	cfg.Session.StartDir = filepath.Join(t.TempDir(), "missing")
	_, err := NewServer(cfg, logging.NewNop())
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Shell.Mode = config.ShellModeAllowlist
	cfg.Shell.Allowlist = []string{"[bad"}
	_, err = NewServer(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestMetricsAndTraceHeaders(t *testing.T) {
	_, ts, _ := newTestServer(t, nil)
	execute(t, ts, "pwd")

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), `webterm_commands_total{kind="pwd",status="ok"} 1`)
	assert.Contains(t, string(data), `webterm_http_requests_total{method="POST",path="/execute",status="200"} 1`)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}

func TestGzipResponses(t *testing.T) {
	_, ts, dir := newTestServer(t, nil)
	for i := 0; i < 100; i++ {
		name := fmt.Sprintf("a-rather-long-file-name-for-compression-%03d.txt", i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/execute", strings.NewReader(`{"command":"ls"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
}

func TestWebSocketThroughCompression(t *testing.T) {
	_, ts, _ := newTestServer(t, nil)

	header := http.Header{}
	header.Set("Accept-Encoding", "gzip")
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/stream"

	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	var welcome map[string]any
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, "system", welcome["type"])

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "execute", "command": "help"}))

	var result map[string]any
	require.NoError(t, conn.ReadJSON(&result))
	assert.Equal(t, "result", result["type"])
	assert.Contains(t, result["output"], "Available Commands:")
}

func TestHealth(t *testing.T) {
	_, ts, dir := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, dir, body["cwd"])
	assert.Equal(t, config.ShellModeShell, body["shell_mode"])
}
