// Package config loads SDK, CLI and mock server settings from config.yaml,
// a .env file and environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBodySizeLimit is the mock server's request body cap (10MB).
const DefaultBodySizeLimit int64 = 10 * 1024 * 1024

// Config is the full configuration tree.
type Config struct {
	API        APIConfig        `yaml:"api"`
	Retry      RetryConfig      `yaml:"retry"`
	HTTP       HTTPConfig       `yaml:"http"`
	Cache      CacheConfig      `yaml:"cache"`
	Storage    StorageConfig    `yaml:"storage"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LogConfig        `yaml:"logging"`
	Mock       MockConfig       `yaml:"mock"`
	FineTuning FineTuningConfig `yaml:"fine_tuning"`
}

// APIConfig identifies the platform account.
type APIConfig struct {
	BaseURL      string `yaml:"base_url" validate:"omitempty,url"`
	APIKey       string `yaml:"api_key"`
	Organization string `yaml:"organization"`
	Project      string `yaml:"project"`
}

// RetryConfig controls retries and the circuit breaker of the REST client.
type RetryConfig struct {
	MaxRetries       int                  `yaml:"max_retries" validate:"gte=0,lte=10"`
	InitialBackoffMs int                  `yaml:"initial_backoff_ms" validate:"gte=0"`
	MaxBackoffMs     int                  `yaml:"max_backoff_ms" validate:"gte=0"`
	BackoffFactor    float64              `yaml:"backoff_factor" validate:"gte=1"`
	CircuitBreaker   CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// CircuitBreakerConfig mirrors llmclient.CircuitBreakerConfig.
type CircuitBreakerConfig struct {
	Enabled          bool `yaml:"enabled"`
	FailureThreshold int  `yaml:"failure_threshold" validate:"gte=1"`
	SuccessThreshold int  `yaml:"success_threshold" validate:"gte=1"`
	TimeoutSeconds   int  `yaml:"timeout_seconds" validate:"gte=1"`
}

// HTTPConfig holds transport timeouts in seconds.
type HTTPConfig struct {
	Timeout               int `yaml:"timeout" validate:"gte=0"`
	ResponseHeaderTimeout int `yaml:"response_header_timeout" validate:"gte=0"`
}

// CacheConfig selects the response cache used for file downloads.
type CacheConfig struct {
	Type  string      `yaml:"type" validate:"oneof=none local redis"`
	Dir   string      `yaml:"dir"`
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	URL    string `yaml:"url"`
	Prefix string `yaml:"prefix"`
	TTL    int    `yaml:"ttl" validate:"gte=0"`
}

// StorageConfig selects the database backing the fine-tuning job store.
type StorageConfig struct {
	Type       string           `yaml:"type" validate:"oneof=sqlite postgresql mongodb"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
	PostgreSQL PostgreSQLConfig `yaml:"postgresql"`
	MongoDB    MongoDBConfig    `yaml:"mongodb"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type PostgreSQLConfig struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns" validate:"gte=0"`
}

type MongoDBConfig struct {
	URL      string `yaml:"url"`
	Database string `yaml:"database"`
}

// MetricsConfig enables Prometheus request metrics.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint" validate:"startswith=/"`
}

// LogConfig configures the slog handler installed by the CLI.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=auto text json"`
}

// MockConfig configures the in-memory platform server.
type MockConfig struct {
	Port          string `yaml:"port" validate:"required,numeric"`
	MasterKey     string `yaml:"master_key"`
	BodySizeLimit string `yaml:"body_size_limit"`
}

// FineTuningConfig configures the job watcher.
type FineTuningConfig struct {
	PollIntervalSeconds int `yaml:"poll_interval_seconds" validate:"gte=1"`
}

// LoadResult is the outcome of Load.
type LoadResult struct {
	Config *Config
	// Path is the config file that was read, or "" when none was found.
	Path string
}

// configPaths are searched in order unless AISDK_CONFIG names a file.
var configPaths = []string{"config/config.yaml", "config.yaml"}

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and the process environment. Variables already present
// in the environment win over .env entries.
func Load() (*LoadResult, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := buildDefaultConfig()
	path, err := readConfigFile(cfg)
	if err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &LoadResult{Config: cfg, Path: path}, nil
}

func readConfigFile(cfg *Config) (string, error) {
	paths := configPaths
	if p := os.Getenv("AISDK_CONFIG"); p != "" {
		paths = []string{p}
	}
	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", p, err)
		}
		if err := yaml.Unmarshal([]byte(expandString(string(raw))), cfg); err != nil {
			return "", fmt.Errorf("failed to parse config file %s: %w", p, err)
		}
		return p, nil
	}
	return "", nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return buildDefaultConfig()
}

func buildDefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "https://api.openai.com/v1",
		},
		Retry: RetryConfig{
			MaxRetries:       2,
			InitialBackoffMs: 500,
			MaxBackoffMs:     8000,
			BackoffFactor:    2.0,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:          true,
				FailureThreshold: 5,
				SuccessThreshold: 2,
				TimeoutSeconds:   30,
			},
		},
		HTTP: HTTPConfig{
			Timeout:               600,
			ResponseHeaderTimeout: 600,
		},
		Cache: CacheConfig{
			Type: "none",
			Dir:  ".cache/aisdk",
			Redis: RedisConfig{
				Prefix: "aisdk:responses:",
				TTL:    86400,
			},
		},
		Storage: StorageConfig{
			Type:       "sqlite",
			SQLite:     SQLiteConfig{Path: ".cache/aisdk.db"},
			PostgreSQL: PostgreSQLConfig{MaxConns: 10},
			MongoDB:    MongoDBConfig{Database: "aisdk"},
		},
		Metrics: MetricsConfig{
			Endpoint: "/metrics",
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "auto",
		},
		Mock: MockConfig{
			Port: "8080",
		},
		FineTuning: FineTuningConfig{
			PollIntervalSeconds: 10,
		},
	}
}

// Validate checks field constraints and the cross-field rules of the
// selected backends.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", e.Namespace(), e.Tag(), e.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Cache.Type == "redis" && c.Cache.Redis.URL == "" {
		return fmt.Errorf("invalid configuration: cache.redis.url is required when cache.type is redis")
	}
	if err := ValidateBodySizeLimit(c.Mock.BodySizeLimit); err != nil {
		return fmt.Errorf("invalid configuration: mock.body_size_limit: %w", err)
	}
	return nil
}
