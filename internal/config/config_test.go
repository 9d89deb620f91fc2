package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, Default(), *cfg)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CURRENCY_API_BASE", "http://localhost:9999")
	t.Setenv("RATE_CACHE_TTL", "30m")
	t.Setenv("HTTP_TIMEOUT", "2s")
	t.Setenv("RATE_CACHE_BACKEND", "redis")
	t.Setenv("RATE_SINGLEFLIGHT", "false")
	t.Setenv("SUPPORTED_CURRENCIES", "usd, jpy")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999", cfg.Provider.BaseURL)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 2*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.False(t, cfg.Cache.SingleFlight)
	assert.Equal(t, []string{"USD", "JPY"}, cfg.SupportedCurrencies)
}

func TestLoadFromDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("REDIS_DB=3\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("REDIS_DB") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Cache.RedisDB)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Provider.BaseURL = ""
	cfg.Cache.TTL = 0
	cfg.Cache.Backend = "memcached"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CURRENCY_API_BASE")
	assert.Contains(t, err.Error(), "RATE_CACHE_TTL")
	assert.Contains(t, err.Error(), "memcached")

	t.Setenv("RATE_CACHE_BACKEND", "memcached")
	_, err = Load()
	assert.Error(t, err)
}
