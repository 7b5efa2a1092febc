// Package sdk assembles every platform sub-client from configuration.
package sdk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"aisdk/config"
	"aisdk/internal/assistants"
	"aisdk/internal/cache"
	"aisdk/internal/chat"
	"aisdk/internal/files"
	"aisdk/internal/finetuning"
	"aisdk/internal/httpclient"
	"aisdk/internal/jobstore"
	"aisdk/internal/llmclient"
	"aisdk/internal/observability"
	"aisdk/internal/vectorstores"
)

// Client bundles the identifier-based clients with their entity forms.
// The caller must call Close when done.
type Client struct {
	HTTP *llmclient.Client

	Assistants   *assistants.Client
	VectorStores *vectorstores.Client
	Files        *files.Client
	FineTuning   *finetuning.Client
	Chat         *chat.Client

	AssistantEntities   *assistants.Entities
	VectorStoreEntities *vectorstores.Entities
	FileEntities        *files.Entities
	JobEntities         *finetuning.Entities

	// Jobs is nil unless the client was built WithJobStore.
	Jobs jobstore.Store

	cache        cache.Cache
	jobs         *jobstore.Result
	pollInterval time.Duration
	logger       *slog.Logger
}

type options struct {
	httpClient *http.Client
	logger     *slog.Logger
	registerer prometheus.Registerer
	jobStore   bool
}

// Option customises New.
type Option func(*options)

// WithHTTPClient replaces the transport built from the http section.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger sets the logger for the base client and the job watcher.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRegisterer registers request metrics on reg instead of the default
// registry. It has no effect unless metrics are enabled.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithJobStore opens the configured storage backend for job snapshots.
func WithJobStore() Option {
	return func(o *options) { o.jobStore = true }
}

// New builds a Client from cfg.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	clientOpts := []llmclient.Option{llmclient.WithLogger(o.logger)}

	hc := o.httpClient
	if hc == nil {
		hc = httpclient.NewHTTPClient(httpConfig(cfg.HTTP))
	}
	clientOpts = append(clientOpts, llmclient.WithHTTPClient(hc))

	if cfg.Metrics.Enabled {
		metrics, err := observability.NewMetrics(o.registerer)
		if err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		clientOpts = append(clientOpts, llmclient.WithHooks(metrics.Hooks()))
	}

	responseCache, err := initCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	if responseCache != nil {
		clientOpts = append(clientOpts, llmclient.WithCache(responseCache))
		o.logger.Debug("response cache enabled", "type", cfg.Cache.Type)
	}

	base := llmclient.New(clientConfig(cfg), clientOpts...)
	c := &Client{
		HTTP:         base,
		Assistants:   assistants.New(base),
		VectorStores: vectorstores.New(base),
		Files:        files.New(base),
		FineTuning:   finetuning.New(base),
		Chat:         chat.New(base),
		cache:        responseCache,
		pollInterval: time.Duration(cfg.FineTuning.PollIntervalSeconds) * time.Second,
		logger:       o.logger,
	}
	c.AssistantEntities = assistants.NewEntities(c.Assistants)
	c.VectorStoreEntities = vectorstores.NewEntities(c.VectorStores)
	c.FileEntities = files.NewEntities(c.Files)
	c.JobEntities = finetuning.NewEntities(c.FineTuning)

	if o.jobStore {
		jobs, err := jobstore.New(ctx, cfg)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to open job store: %w", err)
		}
		c.jobs = jobs
		c.Jobs = jobs.Store
		o.logger.Debug("job store opened", "storage_type", cfg.Storage.Type)
	}
	return c, nil
}

// Watcher returns a job watcher polling at the configured interval and
// recording snapshots in Jobs when a job store is open.
func (c *Client) Watcher(opts ...finetuning.WatcherOption) *finetuning.Watcher {
	base := []finetuning.WatcherOption{finetuning.WithLogger(c.logger)}
	if c.Jobs != nil {
		base = append(base, finetuning.WithStore(c.Jobs))
	}
	return finetuning.NewWatcher(c.FineTuning, c.pollInterval, append(base, opts...)...)
}

// Close releases the job store and the response cache.
func (c *Client) Close() error {
	var errs []error
	if c.jobs != nil {
		if err := c.jobs.Close(); err != nil {
			errs = append(errs, err)
		}
		c.jobs = nil
	}
	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache close: %w", err))
		}
		c.cache = nil
	}
	return errors.Join(errs...)
}

func clientConfig(cfg *config.Config) llmclient.Config {
	out := llmclient.DefaultConfig(cfg.API.BaseURL, cfg.API.APIKey)
	out.Organization = cfg.API.Organization
	out.Project = cfg.API.Project
	out.MaxRetries = cfg.Retry.MaxRetries
	out.InitialBackoff = time.Duration(cfg.Retry.InitialBackoffMs) * time.Millisecond
	out.MaxBackoff = time.Duration(cfg.Retry.MaxBackoffMs) * time.Millisecond
	out.BackoffFactor = cfg.Retry.BackoffFactor

	cb := cfg.Retry.CircuitBreaker
	if !cb.Enabled {
		out.CircuitBreaker = nil
	} else {
		out.CircuitBreaker = &llmclient.CircuitBreakerConfig{
			FailureThreshold: cb.FailureThreshold,
			SuccessThreshold: cb.SuccessThreshold,
			Timeout:          time.Duration(cb.TimeoutSeconds) * time.Second,
		}
	}
	return out
}

// httpConfig applies the configured timeouts (seconds, 0 keeps the default).
func httpConfig(cfg config.HTTPConfig) *httpclient.ClientConfig {
	out := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		out.Timeout = time.Duration(cfg.Timeout) * time.Second
	}
	if cfg.ResponseHeaderTimeout > 0 {
		out.ResponseHeaderTimeout = time.Duration(cfg.ResponseHeaderTimeout) * time.Second
	}
	return &out
}

// initCache returns nil for the "none" cache type.
func initCache(cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "local":
		return cache.NewLocalCache(cfg.Dir), nil
	case "redis":
		ttl := time.Duration(cfg.Redis.TTL) * time.Second
		if ttl == 0 {
			ttl = cache.DefaultRedisTTL
		}
		rc, err := cache.NewRedisCache(cache.RedisConfig{
			URL:    cfg.Redis.URL,
			Prefix: cfg.Redis.Prefix,
			TTL:    ttl,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
}
