package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-([^}]*))?\}`)

// expandString replaces ${VAR} and ${VAR:-default} placeholders. A variable
// that is unset or empty takes the default when one is given; without a
// default the placeholder is left as is.
func expandString(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := placeholderPattern.FindStringSubmatch(match)
		name, hasDefault, def := m[1], m[2] != "", m[3]
		if val := os.Getenv(name); val != "" {
			return val
		}
		if hasDefault {
			return def
		}
		return match
	})
}

// applyEnvOverrides copies recognised environment variables over cfg.
func applyEnvOverrides(cfg *Config) error {
	firstEnv(&cfg.API.APIKey, "AISDK_API_KEY", "OPENAI_API_KEY")
	firstEnv(&cfg.API.BaseURL, "AISDK_BASE_URL", "OPENAI_BASE_URL")
	firstEnv(&cfg.API.Organization, "AISDK_ORGANIZATION", "OPENAI_ORG_ID")
	firstEnv(&cfg.API.Project, "AISDK_PROJECT", "OPENAI_PROJECT_ID")

	firstEnv(&cfg.Cache.Type, "AISDK_CACHE_TYPE")
	firstEnv(&cfg.Cache.Dir, "AISDK_CACHE_DIR")
	firstEnv(&cfg.Cache.Redis.URL, "REDIS_URL")
	firstEnv(&cfg.Cache.Redis.Prefix, "REDIS_PREFIX")

	firstEnv(&cfg.Storage.Type, "STORAGE_TYPE")
	firstEnv(&cfg.Storage.SQLite.Path, "SQLITE_PATH")
	firstEnv(&cfg.Storage.PostgreSQL.URL, "POSTGRES_URL")
	firstEnv(&cfg.Storage.MongoDB.URL, "MONGODB_URL")
	firstEnv(&cfg.Storage.MongoDB.Database, "MONGODB_DATABASE")

	firstEnv(&cfg.Metrics.Endpoint, "METRICS_ENDPOINT")
	firstEnv(&cfg.Logging.Level, "LOG_LEVEL")
	firstEnv(&cfg.Logging.Format, "LOG_FORMAT")

	firstEnv(&cfg.Mock.Port, "PORT")
	firstEnv(&cfg.Mock.MasterKey, "AISDK_MASTER_KEY")
	firstEnv(&cfg.Mock.BodySizeLimit, "BODY_SIZE_LIMIT")

	ints := []struct {
		key string
		dst *int
	}{
		{"AISDK_MAX_RETRIES", &cfg.Retry.MaxRetries},
		{"HTTP_TIMEOUT", &cfg.HTTP.Timeout},
		{"HTTP_RESPONSE_HEADER_TIMEOUT", &cfg.HTTP.ResponseHeaderTimeout},
		{"REDIS_TTL", &cfg.Cache.Redis.TTL},
		{"POSTGRES_MAX_CONNS", &cfg.Storage.PostgreSQL.MaxConns},
		{"FINE_TUNING_POLL_INTERVAL", &cfg.FineTuning.PollIntervalSeconds},
	}
	for _, e := range ints {
		if err := envInt(e.key, e.dst); err != nil {
			return err
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"METRICS_ENABLED", &cfg.Metrics.Enabled},
		{"CIRCUIT_BREAKER_ENABLED", &cfg.Retry.CircuitBreaker.Enabled},
	}
	for _, e := range bools {
		if err := envBool(e.key, e.dst); err != nil {
			return err
		}
	}
	return nil
}

func firstEnv(dst *string, keys ...string) {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			*dst = v
			return
		}
	}
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s %q: must be an integer", key, v)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s %q: must be a boolean", key, v)
	}
	*dst = b
	return nil
}
