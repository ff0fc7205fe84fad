package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"studio/internal/catalog"
	"studio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBackend points the CLI at handler and keeps drafts in a temp dir.
func setupBackend(t *testing.T, handler http.HandlerFunc, extraYAML ...string) string {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	tmp := t.TempDir()
	draftDir := filepath.Join(tmp, "drafts")
	configPath := filepath.Join(tmp, "config.yaml")
	content := "session:\n  name: \"test\"\n  draft_dir: '" + draftDir + "'\n" + strings.Join(extraYAML, "\n")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	t.Setenv("STUDIO_BACKEND_URL", ts.URL)
	t.Setenv("STUDIO_CONFIG_PATH", configPath)
	return draftDir
}

func TestRun_CatalogFallsBack(t *testing.T) {
	setupBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/services" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	var out bytes.Buffer
	require.NoError(t, run("catalog", []string{"-json"}, &out))

	var c catalog.Catalog
	require.NoError(t, json.Unmarshal(out.Bytes(), &c))
	assert.Len(t, c.Services, 4)
	assert.Len(t, c.Portfolio, 9)
	assert.Equal(t, catalog.SourceSample, c.ServicesSource)
}

func TestRun_Book(t *testing.T) {
	setupBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/appointments", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"abc123"}`))
	})

	var out bytes.Buffer
	require.NoError(t, run("book", []string{"-name", "Ann", "-phone", "+1"}, &out))
	assert.Contains(t, out.String(), "Заявка отправлена. Номер: abc123")
}

func TestRun_BookRetryAcrossRuns(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	var got atomic.Value
	draftDir := setupBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		got.Store(body)
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"id":"r42"}`))
	})

	var out bytes.Buffer
	err := run("book", []string{"-name", "Ann", "-phone", "+1", "-note", "роза"}, &out)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out.String(), models.MsgBookingFailed)
	assert.Contains(t, out.String(), models.MsgDraftKept)

	entries, err := os.ReadDir(draftDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	failing.Store(false)
	out.Reset()
	require.NoError(t, run("book", []string{"-retry"}, &out))
	assert.Contains(t, out.String(), "Заявка отправлена. Номер: r42")
	body := got.Load().(map[string]string)
	assert.Equal(t, "Ann", body["client_name"])
	assert.Equal(t, "роза", body["note"])

	out.Reset()
	err = run("book", []string{"-retry"}, &out)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out.String(), models.MsgNoDraft)
}

func TestRun_BookValidationFails(t *testing.T) {
	var calls int
	setupBackend(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

	var out bytes.Buffer
	err := run("book", []string{"-name", "Ann"}, &out)
	assert.ErrorIs(t, err, errReported)
	assert.Zero(t, calls)
}

func TestRun_AdminBackup(t *testing.T) {
	setupBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("password") != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"services":[]}`))
	})
	dir := t.TempDir()

	var out bytes.Buffer
	require.NoError(t, run("admin", []string{"-password", "pw", "backup", "-dir", dir}, &out))

	data, err := os.ReadFile(filepath.Join(dir, "tattoo-backup.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"services\": []\n}", string(data))

	out.Reset()
	err = run("admin", []string{"-password", "nope", "appointments"}, &out)
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out.String(), "Ошибка авторизации")
}

func TestRun_Probe(t *testing.T) {
	setupBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			_, _ = w.Write([]byte(`{"message":"hi"}`))
			return
		}
		_, _ = w.Write([]byte(`{"connection_status":"connected","collections":["services"]}`))
	})

	var out bytes.Buffer
	require.NoError(t, run("probe", nil, &out))
	assert.Contains(t, out.String(), "Connected - hi")
	assert.Contains(t, out.String(), "collections: services")
}

func TestRun_UnknownCommand(t *testing.T) {
	setupBackend(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.Error(t, run("nope", nil, &bytes.Buffer{}))
}

func TestRun_ComponentLoggersTaggedOnce(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "studio.log")
	setupBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, "logging:\n  level: debug\n  output: file\n  file_path: '"+logPath+"'\n")

	require.NoError(t, run("catalog", nil, &bytes.Buffer{}))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.NotEmpty(t, lines)

	components := map[string]bool{}
	for _, line := range lines {
		assert.LessOrEqual(t, strings.Count(line, `"component"`), 1, line)
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if c, ok := entry["component"].(string); ok {
			components[c] = true
		}
	}
	assert.True(t, components["catalog"])
	assert.True(t, components["gateway"])
}
