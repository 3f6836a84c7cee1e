package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salescast.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:3000", cfg.Client.Endpoint)
	assert.Equal(t, 15*time.Second, cfg.Client.SubmitTimeout.Duration)
	assert.Equal(t, BackendLinear, cfg.Scoring.Backend)
}

func TestLoadTomlOverlay(t *testing.T) {
	path := writeFile(t, `
[client]
endpoint = "https://sales-prediction-backend.onrender.com"
submit_timeout = "3s"
require_festival = true

[server]
public_dir = "/srv/public"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://sales-prediction-backend.onrender.com", cfg.Client.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Client.SubmitTimeout.Duration)
	assert.True(t, cfg.Client.RequireFestival)
	assert.Equal(t, "/srv/public", cfg.Server.PublicDir)
	// untouched keys keep their defaults
	assert.Equal(t, "http://localhost:3000", cfg.Client.StaticURL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, `
[client]
endpoint = "http://from-file:3000"
`)
	t.Setenv("PREDICT_ENDPOINT", "http://from-env:3000")
	t.Setenv("SUBMIT_TIMEOUT", "250ms")
	t.Setenv("RATE_LIMIT_BURST", "7")
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:3000", cfg.Client.Endpoint)
	assert.Equal(t, 250*time.Millisecond, cfg.Client.SubmitTimeout.Duration)
	assert.Equal(t, 7, cfg.Server.RateLimitBurst)
	assert.Equal(t, "secret", cfg.Scoring.GeminiAPIKey)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeFile(t, `[client]
submit_timeout = "soon"`))
	assert.Error(t, err)

	t.Setenv("SUBMIT_TIMEOUT", "-1s")
	_, err = Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidateBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scoring.Backend = "oracle"
	assert.Error(t, cfg.Validate())

	cfg.Scoring.Backend = BackendGemini
	assert.NoError(t, cfg.Validate())
}

func TestValidateRateLimitBurst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.RateLimitBurst = 0
	assert.Error(t, cfg.Validate())

	cfg.Server.RateLimitRPS = 0
	assert.NoError(t, cfg.Validate())

	t.Setenv("RATE_LIMIT_BURST", "0")
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorContains(t, err, "rate_limit_burst")
}
