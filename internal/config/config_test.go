package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, LoadEnvConfig())
	cfg := DefaultEnvConfig

	assert.Equal(t, 8080, cfg.APP_PORT)
	assert.Equal(t, StoreFile, cfg.STORE_BACKEND)
	assert.Equal(t, "data", cfg.DATA_DIR)
	assert.Equal(t, 1000, cfg.PREDICTED_OUTPUT)
	assert.Equal(t, 100, cfg.DEPARTMENT_TARGET)
	assert.Equal(t, 10, cfg.UNIT_OUTPUT)
	assert.Equal(t, 30*time.Second, cfg.STATS_CACHE_TTL)
	assert.Equal(t, CacheNone, cfg.STATS_CACHE)
	assert.Equal(t, []string{"*"}, cfg.CORS_ALLOW_ORIGINS)
}

func TestLoadEnvConfigFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	env := "STORE_BACKEND=memory\nAPP_PORT=9090\nSTATS_CACHE_TTL=5\nCORS_ALLOW_ORIGINS=http://a, http://b\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644))
	t.Cleanup(func() {
		for _, k := range []string{"STORE_BACKEND", "APP_PORT", "STATS_CACHE_TTL", "CORS_ALLOW_ORIGINS"} {
			os.Unsetenv(k)
		}
	})

	require.NoError(t, LoadEnvConfig())
	cfg := DefaultEnvConfig

	assert.Equal(t, StoreMemory, cfg.STORE_BACKEND)
	assert.Equal(t, 9090, cfg.APP_PORT)
	assert.Equal(t, 5*time.Second, cfg.STATS_CACHE_TTL)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.CORS_ALLOW_ORIGINS)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "mongo")
		assert.ErrorContains(t, LoadEnvConfig(), "STORE_BACKEND")
	})

	t.Run("datastore needs a project", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "datastore")
		assert.ErrorContains(t, LoadEnvConfig(), "DATASTORE_PROJECT_ID")
	})

	t.Run("redis cache needs an address", func(t *testing.T) {
		t.Setenv("STATS_CACHE", "redis")
		assert.ErrorContains(t, LoadEnvConfig(), "REDIS_URI")
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("APP_PORT", "70000")
		assert.ErrorContains(t, LoadEnvConfig(), "APP_PORT")
	})

	t.Run("bad timezone", func(t *testing.T) {
		t.Setenv("TIMEZONE", "Mars/Olympus")
		assert.ErrorContains(t, LoadEnvConfig(), "TIMEZONE")
	})
}
