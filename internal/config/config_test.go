package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	result := Default().Validate()
	assert.False(t, result.HasErrors(), result.Error())
	assert.NoError(t, result.Err())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
storage:
  type: none
analysis:
  tab_width: 8
  scope_policy: any
  added_params_break: false
output:
  format: json
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "none", cfg.Storage.Type)
	assert.Equal(t, 8, cfg.Analysis.TabWidth)
	assert.Equal(t, "any", cfg.Analysis.ScopePolicy)
	assert.False(t, cfg.Analysis.AddedParamsBreak)
	assert.Equal(t, "json", cfg.Output.Format)
	// untouched keys keep their defaults
	assert.Equal(t, 8, cfg.Analysis.Workers)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis:\n  workers: 2\n"), 0644))
	t.Setenv("FUNCRISK_ANALYSIS_WORKERS", "5")
	t.Setenv("FUNCRISK_STORAGE_TYPE", "postgres")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/funcrisk")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Analysis.Workers)
	assert.Equal(t, "postgres", cfg.Storage.Type)
	assert.Equal(t, "postgres://localhost/funcrisk", cfg.Storage.PostgresDSN)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("analysis: [\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown storage", func(c *Config) { c.Storage.Type = "mongo" }},
		{"postgres without dsn", func(c *Config) { c.Storage.Type = "postgres" }},
		{"bad tab width", func(c *Config) { c.Analysis.TabWidth = 0 }},
		{"bad scope policy", func(c *Config) { c.Analysis.ScopePolicy = "brace" }},
		{"no workers", func(c *Config) { c.Analysis.Workers = 0 }},
		{"bad format", func(c *Config) { c.Output.Format = "xlsx" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"cache without path", func(c *Config) { c.Cache.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			result := cfg.Validate()
			require.True(t, result.HasErrors())
			assert.Len(t, result.Errors, 1)
			assert.True(t, errors.IsFatal(result.Err()))
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Storage.Type = "none"
	cfg.Analysis.ScopePolicy = "close"
	cfg.Output.WriteDiffs = false

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
