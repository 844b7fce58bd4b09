package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("ANALYTICS_CACHE_TTL_SECONDS", "")
	t.Setenv("ANALYTICS_ACTIVE_WINDOW_DAYS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 60*time.Second, cfg.Analytics.CacheTTL())
	assert.Equal(t, 365*24*time.Hour, cfg.Analytics.ActiveWindow())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("ANALYTICS_CACHE_TTL_SECONDS", "0")
	t.Setenv("ANALYTICS_ACTIVE_WINDOW_DAYS", "30")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "not-a-bool")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.App.Addr())
	assert.Equal(t, time.Duration(0), cfg.Analytics.CacheTTL())
	assert.Equal(t, 30*24*time.Hour, cfg.Analytics.ActiveWindow())
	assert.True(t, cfg.Postgres.RunMigrations, "invalid bool falls back to default")
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}
