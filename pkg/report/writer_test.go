package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/webtest/pkg/config"
)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)
	return w
}

func TestWriteEnvironment(t *testing.T) {
	w := newTestWriter(t)

	cfg, err := config.Resolve(map[string]string{config.KeyBrowser: "firefox"})
	require.NoError(t, err)
	require.NoError(t, w.WriteEnvironment(cfg))

	matches, err := filepath.Glob(filepath.Join(w.Dir(), "environment-*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)

	var env Environment
	require.NoError(t, json.Unmarshal(data, &env))
	assert.NotEmpty(t, env.RunID)
	assert.NotEmpty(t, env.GoVersion)
	assert.Equal(t, "firefox", env.Settings[config.KeyBrowser])
}

func TestWriteResult(t *testing.T) {
	w := newTestWriter(t)

	require.NoError(t, w.WriteResult(TestResult{
		Name:     "TestLogin/valid_credentials",
		Status:   StatusFailed,
		Markers:  []string{"smoke", "ui"},
		Duration: (3 * time.Second).String(),
		Error:    "element id=dashboard-welcome not found",
	}))

	matches, err := filepath.Glob(filepath.Join(w.Dir(), "result-TestLogin_valid_credentials-*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	var result TestResult
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, []string{"smoke", "ui"}, result.Markers)
	assert.False(t, result.FinishedAt.IsZero())
}

func TestAttachPageSource(t *testing.T) {
	w := newTestWriter(t)

	raw := `<html><head><title>Login</title><script>alert(1)</script><style>body{}</style></head>` +
		`<body><!-- comment --><div id="error">Invalid password</div></body></html>`

	path, err := w.AttachPageSource("TestLogin", raw)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cleaned := string(data)

	assert.Contains(t, cleaned, `<div id="error">Invalid password</div>`)
	assert.Contains(t, cleaned, "<title>Login</title>")
	assert.NotContains(t, cleaned, "alert(1)")
	assert.NotContains(t, cleaned, "<style>")
	assert.NotContains(t, cleaned, "comment")
}

func TestAttachPageSourceUnwritableDir(t *testing.T) {
	w := newTestWriter(t)
	require.NoError(t, os.RemoveAll(w.Dir()))

	_, err := w.AttachPageSource("TestLogin", "<html></html>")
	require.Error(t, err)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "TestLogin_valid_credentials", sanitize("TestLogin/valid credentials"))
	assert.False(t, strings.ContainsAny(sanitize(`a/b\c:d e`), `/\: `))
}
