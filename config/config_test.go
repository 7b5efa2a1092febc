package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("AISDK_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	result, err := Load()
	require.NoError(t, err)
	assert.Empty(t, result.Path)

	cfg := result.Config
	assert.Equal(t, "https://api.openai.com/v1", cfg.API.BaseURL)
	assert.Equal(t, 2, cfg.Retry.MaxRetries)
	assert.True(t, cfg.Retry.CircuitBreaker.Enabled)
	assert.Equal(t, "none", cfg.Cache.Type)
	assert.Equal(t, "sqlite", cfg.Storage.Type)
	assert.Equal(t, 10, cfg.FineTuning.PollIntervalSeconds)
}

func TestLoad_YAMLWithPlaceholders(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
api:
  api_key: "${TEST_KEY_DEFAULTS:-default-key}"
  organization: org-1
mock:
  port: "${TEST_PORT_DEFAULTS:-9999}"
storage:
  type: mongodb
  mongodb:
    url: mongodb://localhost:27017
`)
	t.Setenv("AISDK_CONFIG", path)

	t.Run("UseDefaultValue", func(t *testing.T) {
		unsetForTest(t, "TEST_KEY_DEFAULTS")
		unsetForTest(t, "TEST_PORT_DEFAULTS")

		result, err := Load()
		require.NoError(t, err)
		assert.Equal(t, path, result.Path)
		assert.Equal(t, "default-key", result.Config.API.APIKey)
		assert.Equal(t, "org-1", result.Config.API.Organization)
		assert.Equal(t, "9999", result.Config.Mock.Port)
		assert.Equal(t, "mongodb", result.Config.Storage.Type)
		// untouched sections keep their defaults
		assert.Equal(t, "aisdk", result.Config.Storage.MongoDB.Database)
	})

	t.Run("OverrideDefaultValue", func(t *testing.T) {
		t.Setenv("TEST_KEY_DEFAULTS", "real-key")
		t.Setenv("TEST_PORT_DEFAULTS", "1111")

		result, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "real-key", result.Config.API.APIKey)
		assert.Equal(t, "1111", result.Config.Mock.Port)
	})

	t.Run("EnvOverridesFile", func(t *testing.T) {
		t.Setenv("AISDK_API_KEY", "sk-from-env")

		result, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "sk-from-env", result.Config.API.APIKey)
	})
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("AISDK_CONFIG", writeConfig(t, "api: [unterminated"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "unknown storage type",
			mutate:  func(cfg *Config) { cfg.Storage.Type = "dynamo" },
			wantErr: "Storage.Type",
		},
		{
			name:    "unknown cache type",
			mutate:  func(cfg *Config) { cfg.Cache.Type = "memcached" },
			wantErr: "Cache.Type",
		},
		{
			name:    "redis cache without url",
			mutate:  func(cfg *Config) { cfg.Cache.Type = "redis" },
			wantErr: "cache.redis.url",
		},
		{
			name:    "negative retries",
			mutate:  func(cfg *Config) { cfg.Retry.MaxRetries = -1 },
			wantErr: "Retry.MaxRetries",
		},
		{
			name:    "bad body size",
			mutate:  func(cfg *Config) { cfg.Mock.BodySizeLimit = "1G" },
			wantErr: "mock.body_size_limit",
		},
		{
			name:    "non-numeric port",
			mutate:  func(cfg *Config) { cfg.Mock.Port = "http" },
			wantErr: "Mock.Port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := buildDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateBodySizeLimit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{"empty string is valid", "", false},
		{"plain number", "1048576", false},
		{"kilobytes lowercase", "100k", false},
		{"kilobytes with B suffix", "100KB", false},
		{"megabytes uppercase", "10M", false},
		{"megabytes lowercase with b", "10mb", false},
		{"whitespace trimmed", "  10M  ", false},
		{"minimum valid (1KB)", "1K", false},
		{"maximum valid (100MB)", "100M", false},

		{"invalid format with letters", "abc", true},
		{"invalid unit", "10X", true},
		{"negative number", "-10M", true},
		{"decimal number", "10.5M", true},
		{"bare B unit", "10B", true},
		{"below minimum (100 bytes)", "100", true},
		{"above maximum (200MB)", "200M", true},
		{"gigabytes unsupported", "1G", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBodySizeLimit(tt.input)
			if tt.expectError {
				assert.Error(t, err, "input %q", tt.input)
			} else {
				assert.NoError(t, err, "input %q", tt.input)
			}
		})
	}
}

func TestParseBodySizeLimit(t *testing.T) {
	n, err := ParseBodySizeLimit("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBodySizeLimit, n)

	n, err = ParseBodySizeLimit("2M")
	require.NoError(t, err)
	assert.Equal(t, int64(2*1024*1024), n)

	n, err = ParseBodySizeLimit("512KB")
	require.NoError(t, err)
	assert.Equal(t, int64(512*1024), n)
}
