package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"TASKFLOW_API_URL", "FETCH_CONCURRENCY", "REQUEST_TIMEOUT_SECONDS", "LOG_LEVEL", "SESSION_TTL", "STUB_WRAP_COLLECTIONS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 8, cfg.Sync.FetchConcurrency)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.False(t, cfg.Stub.WrapCollections)
	assert.NotEmpty(t, cfg.Session.Path)
	assert.Equal(t, "127.0.0.1:5000", cfg.StubAddress())
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TASKFLOW_API_URL", "https://tasks.example.com/api/")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("REFRESH_INTERVAL_SECONDS", "1m")
	t.Setenv("FETCH_CONCURRENCY", "-2")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("STUB_WRAP_COLLECTIONS", "true")
	t.Setenv("STUB_PORT", "6000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://tasks.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.Sync.RefreshInterval)
	assert.Equal(t, 1, cfg.Sync.FetchConcurrency)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Stub.WrapCollections)
	assert.Equal(t, "127.0.0.1:6000", cfg.StubAddress())
}

// chdir switches the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
