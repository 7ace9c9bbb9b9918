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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3205, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Driver)
	assert.Equal(t, 25, cfg.Ingestion.BatchSize)
	assert.Equal(t, 4*time.Second, cfg.Ingestion.CallInterval)
	assert.Equal(t, int64(10*1024), cfg.Ingestion.MinDocumentBytes)
	assert.Equal(t, 500, cfg.Ingestion.MinTextLength)
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 9090
llm:
  model: test-model
  backoff_base: 2s
ingestion:
  batch_size: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "test-model", cfg.LLM.Model)
	assert.Equal(t, 2*time.Second, cfg.LLM.BackoffBase)
	assert.Equal(t, 5, cfg.Ingestion.BatchSize)
	// Untouched sections keep their defaults.
	assert.Equal(t, "memory", cfg.Cache.Driver)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8181")
	t.Setenv("OPENROUTER_API_KEY", "env-key")
	t.Setenv("REDIS_URL", "redis://cache.internal:6379")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "env-key", cfg.LLM.APIKey)
	assert.Equal(t, "redis", cfg.Cache.Driver)
	assert.Equal(t, "cache.internal:6379", cfg.Cache.Redis.Addr)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"bad cache driver", func(c *Config) { c.Cache.Driver = "memcached" }},
		{"negative retries", func(c *Config) { c.LLM.MaxRetries = -1 }},
		{"zero batch size", func(c *Config) { c.Ingestion.BatchSize = 0 }},
		{"inverted size bounds", func(c *Config) {
			c.Ingestion.MinDocumentBytes = 100
			c.Ingestion.MaxDocumentBytes = 50
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}
