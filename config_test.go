package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendLRU, cfg.Cache.Backend)
	assert.Equal(t, allPrunes(), cfg.Prune)
	assert.Equal(t, VariantConfig{Minutes: 24}, cfg.Quality)
	assert.Equal(t, VariantConfig{Minutes: 32, Blueprints: 3}, cfg.Product)
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 1, cfg.FanOutDepth)
	assert.Equal(t, CacheConfig{Backend: BackendRistretto, Capacity: 50000}, cfg.Cache)
	assert.Equal(t, PruneConfig{Horizon: true, Saturation: true, Deferred: true, Bound: false}, cfg.Prune,
		"keys absent from the file keep their defaults")
	assert.Equal(t, 28, cfg.Product.Minutes)
	assert.Equal(t, 3, cfg.Product.Blueprints)
	assert.Equal(t, 24, cfg.Quality.Minutes)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("GEODE_WORKERS", "7")
	t.Setenv("GEODE_FANOUT_DEPTH", "2")
	t.Setenv("GEODE_TRACE_DEPTH", "not a number")
	t.Setenv("GEODE_CACHE_BACKEND", BackendRistretto)
	t.Setenv("GEODE_CACHE_CAPACITY", "4096")

	cfg, err := LoadConfig("testdata/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Workers, "environment wins over the file")
	assert.Equal(t, 2, cfg.FanOutDepth)
	assert.Zero(t, cfg.TraceDepth)
	assert.Equal(t, CacheConfig{Backend: BackendRistretto, Capacity: 4096}, cfg.Cache)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Run("env", func(t *testing.T) {
		t.Setenv("GEODE_CACHE_BACKEND", "redis")
		_, err := LoadConfig("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Config.Cache.Backend")
	})
	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("workers: [1, 2]\n"), 0o644))
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "load config file")
	})
}

func TestConfigValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"negative workers": func(c *Config) { c.Workers = -1 },
		"deep fan-out":     func(c *Config) { c.FanOutDepth = 5 },
		"zero capacity":    func(c *Config) { c.Cache.Capacity = 0 },
		"zero minutes":     func(c *Config) { c.Quality.Minutes = 0 },
		"huge horizon":     func(c *Config) { c.Product.Minutes = 65 },
		"negative prefix":  func(c *Config) { c.Product.Blueprints = -1 },
		"unknown backend":  func(c *Config) { c.Cache.Backend = "bigcache" },
		"negative tracing": func(c *Config) { c.TraceDepth = -3 },
	}
	for name, tweak := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			tweak(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
