package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factoryplan/pkg/domain/entities"
)

var allEnvVars = []string{
	EnvLogLevel, EnvLogFormat, EnvReferencePolicy, EnvReferenceResource,
	EnvSelector, EnvCacheSize, EnvThreshold, EnvMaxPasses,
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range allEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("uses defaults when no env vars set", func(t *testing.T) {
		clearEnvVars(t)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, entities.ReferenceDesignated, cfg.Policy())
	})

	t.Run("loads config from environment variables", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv(EnvLogLevel, "debug")
		t.Setenv(EnvLogFormat, "json")
		t.Setenv(EnvReferencePolicy, "max")
		t.Setenv(EnvSelector, "cheapest")
		t.Setenv(EnvCacheSize, "4")
		t.Setenv(EnvThreshold, "0.001")
		t.Setenv(EnvMaxPasses, "50")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, entities.ReferenceMaxFinite, cfg.Policy())
		assert.Equal(t, SelectorCheapest, cfg.Selector)
		assert.Equal(t, 4, cfg.CacheSize)
		assert.InDelta(t, 0.001, cfg.Threshold, 1e-12)
		assert.Equal(t, 50, cfg.MaxPasses)
	})

	t.Run("loads explicit env file", func(t *testing.T) {
		clearEnvVars(t)
		path := filepath.Join(t.TempDir(), "plan.env")
		require.NoError(t, os.WriteFile(path, []byte(EnvReferenceResource+"=Coal\n"), 0o600))
		// godotenv never overrides variables that are already set, even to empty
		require.NoError(t, os.Unsetenv(EnvReferenceResource))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "Coal", cfg.ReferenceResource)
		require.NoError(t, os.Unsetenv(EnvReferenceResource))
	})

	t.Run("missing explicit env file is an error", func(t *testing.T) {
		clearEnvVars(t)
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("rejects malformed numbers", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv(EnvCacheSize, "lots")

		_, err := Load()
		assert.ErrorContains(t, err, EnvCacheSize)
	})
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad policy", func(c *Config) { c.ReferencePolicy = "median" }},
		{"bad selector", func(c *Config) { c.Selector = "random" }},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }},
		{"zero cache", func(c *Config) { c.CacheSize = 0 }},
		{"zero threshold", func(c *Config) { c.Threshold = 0 }},
		{"zero passes", func(c *Config) { c.MaxPasses = 0 }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}
