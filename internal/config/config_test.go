package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATABASE_URL", "REDIS_URL", "STORE_KEY", "STORE_TIMEOUT",
		"RATE_RPS", "RATE_BURST", "FLUSH_SCHEDULE", "SEED_DEMO", "BOARD_DAYS", "CONFIG_FILE",
		"WEBHOOK_URLS", "WEBHOOK_SECRET", "WEBHOOK_EVENTS", "WEBHOOK_MAX_ATTEMPTS"} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "memory", cfg.Backend())
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "tripboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"9000\"\nboardDays: 7\nstoreTimeout: 5s\nredisUrl: redis://localhost:6379/0\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("BOARD_DAYS", "21")
	t.Setenv("SEED_DEMO", "false")
	t.Setenv("RATE_RPS", "2.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 21, cfg.BoardDays, "env wins over file")
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.False(t, cfg.SeedDemo)
	assert.Equal(t, 2.5, cfg.RateRPS)
	assert.Equal(t, "redis", cfg.Backend())

	t.Setenv("DATABASE_URL", "postgres://x")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Backend())
	assert.Equal(t, true, cfg.Redacted()["HAS_DATABASE_URL"])
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOARD_DAYS", "0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("BOARD_DAYS", "")
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = Load()
	assert.Error(t, err)
}

func TestWebhookList(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEBHOOK_URLS", " https://a.example/hook, ,https://b.example/hook ")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/hook", "https://b.example/hook"}, cfg.WebhookURLs)
	assert.Equal(t, 2, cfg.Redacted()["WEBHOOK_TARGETS"])
}

func TestEnvHelpersIgnoreGarbage(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "soon")
	assert.Equal(t, 3, getEnvInt("X_INT", 3))
	assert.Equal(t, time.Second, getEnvDuration("X_DUR", time.Second))
}
