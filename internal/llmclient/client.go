// Package llmclient provides the base REST client of the SDK with:
// - JSON, multipart and streaming requests
// - Retries with exponential backoff on 429/502/503/504 and network errors
// - Circuit breaking
// - Authentication and request-id headers
// - Compressed response decoding and an optional response cache
package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"aisdk/internal/cache"
	"aisdk/internal/core"
	"aisdk/internal/httpclient"
)

const (
	// RequestIDHeader carries the client-generated request id.
	RequestIDHeader = "X-Client-Request-Id"
	// ServerRequestIDHeader is the id the service assigns to a request.
	ServerRequestIDHeader = "X-Request-Id"

	// DefaultBaseURL is the public platform endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"
	// AssistantsBeta opts into the v2 assistants surface.
	AssistantsBeta = "assistants=v2"
)

// Config holds configuration for the client
type Config struct {
	BaseURL      string
	APIKey       string
	Organization string
	Project      string
	// Beta is sent as the OpenAI-Beta header when set
	Beta string

	// Retry configuration
	MaxRetries     int           // Maximum number of retry attempts (default: 2)
	InitialBackoff time.Duration // Initial backoff duration (default: 500ms)
	MaxBackoff     time.Duration // Maximum backoff duration (default: 8s)
	BackoffFactor  float64       // Backoff multiplier (default: 2.0)

	// Circuit breaker configuration, nil disables it
	CircuitBreaker *CircuitBreakerConfig
}

// CircuitBreakerConfig holds circuit breaker settings
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of failures before opening the circuit
	FailureThreshold int
	// SuccessThreshold is the number of successes needed to close a half-open circuit
	SuccessThreshold int
	// Timeout is how long the circuit stays open before probing
	Timeout time.Duration
}

// DefaultConfig returns default client configuration
func DefaultConfig(baseURL, apiKey string) Config {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Config{
		BaseURL:        baseURL,
		APIKey:         apiKey,
		Beta:           AssistantsBeta,
		MaxRetries:     2,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		BackoffFactor:  2.0,
		CircuitBreaker: &CircuitBreakerConfig{
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          30 * time.Second,
		},
	}
}

// Client is the base REST client shared by every sub-client.
// It is safe for concurrent use.
type Client struct {
	httpClient     *http.Client
	config         Config
	hooks          Hooks
	cache          cache.Cache
	logger         *slog.Logger
	circuitBreaker *circuitBreaker
	// cacheScope separates cached bodies of different credentials sharing
	// one cache backend.
	cacheScope string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default tuned HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithHooks installs request lifecycle hooks.
func WithHooks(h Hooks) Option {
	return func(c *Client) { c.hooks = h }
}

// WithCache stores bodies of Cacheable requests in rc.
func WithCache(rc cache.Cache) Option {
	return func(c *Client) { c.cache = rc }
}

// WithLogger sets the logger used for retry and circuit events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new client with the given configuration
func New(config Config, opts ...Option) *Client {
	c := &Client{
		config:     config,
		logger:     slog.Default(),
		cacheScope: cache.Key(config.APIKey, config.Organization, config.Project),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = httpclient.NewHTTPClient(nil)
	}

	if config.CircuitBreaker != nil {
		c.circuitBreaker = newCircuitBreaker(
			config.CircuitBreaker.FailureThreshold,
			config.CircuitBreaker.SuccessThreshold,
			config.CircuitBreaker.Timeout,
		)
	}

	return c
}

// BaseURL returns the current base URL
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// Request represents an HTTP request to be made
type Request struct {
	Method   string
	Endpoint string
	// Operation names the SDK call for hooks and logs (e.g. "runs.create")
	Operation string
	Query     url.Values

	// Body is JSON marshaled when not nil
	Body any
	// RawBody is sent verbatim when Body is nil; set Content-Type in Headers
	RawBody []byte

	Headers map[string]string
	// Cacheable GET responses are served from and stored in the cache
	Cacheable bool
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Do executes a request with retries and circuit breaking, then unmarshals the response
func (c *Client) Do(ctx context.Context, req Request, result any) error {
	resp, err := c.DoRaw(ctx, req)
	if err != nil {
		return err
	}

	if result != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return core.NewServerError(http.StatusBadGateway, "failed to unmarshal response: "+err.Error(), err)
		}
	}

	return nil
}

// DoRaw executes a request with retries and circuit breaking, returning the raw response
func (c *Client) DoRaw(ctx context.Context, req Request) (*Response, error) {
	cacheKey := c.cacheKey(req)
	if cacheKey != "" {
		if body, err := c.cache.Get(ctx, cacheKey); err != nil {
			c.logger.Warn("response cache read failed", "operation", req.Operation, "error", err)
		} else if body != nil {
			return &Response{StatusCode: http.StatusOK, Body: body}, nil
		}
	}

	if c.circuitBreaker != nil && !c.circuitBreaker.Allow() {
		return nil, circuitOpenError()
	}

	payload, err := c.encodeBody(req)
	if err != nil {
		return nil, err
	}
	requestID := requestIDFrom(ctx)

	var lastErr error
	maxAttempts := max(c.config.MaxRetries+1, 1)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := c.calculateBackoff(attempt)
			c.logger.Debug("retrying request",
				"operation", req.Operation, "attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		info := RequestInfo{Operation: req.Operation, Method: req.Method, Endpoint: req.Endpoint, Attempt: attempt}
		start := time.Now()
		hctx := c.hooks.start(ctx, info)
		resp, err := c.doRequest(hctx, req, payload, requestID)
		c.hooks.end(hctx, info, resp, err, time.Since(start))

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if errors.Is(err, core.ErrInvalidArgument) {
				return nil, err
			}
			lastErr = err
			c.recordFailure()
			continue
		}

		if isRetryable(resp.StatusCode) {
			c.recordFailure()
			lastErr = core.ParseAPIError(resp.StatusCode, resp.Body, serverRequestID(resp.Header, requestID))
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if resp.StatusCode >= 500 {
				c.recordFailure()
			}
			return nil, core.ParseAPIError(resp.StatusCode, resp.Body, serverRequestID(resp.Header, requestID))
		}

		c.recordSuccess()
		if cacheKey != "" {
			if err := c.cache.Set(ctx, cacheKey, resp.Body); err != nil {
				c.logger.Warn("response cache write failed", "operation", req.Operation, "error", err)
			}
		}
		return resp, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, core.NewServerError(http.StatusBadGateway, "request failed after retries", nil)
}

// DoStream executes a streaming request, returning the decoded body.
// Streaming requests are never retried: events may already have been consumed.
func (c *Client) DoStream(ctx context.Context, req Request) (io.ReadCloser, error) {
	if c.circuitBreaker != nil && !c.circuitBreaker.Allow() {
		return nil, circuitOpenError()
	}

	payload, err := c.encodeBody(req)
	if err != nil {
		return nil, err
	}
	requestID := requestIDFrom(ctx)

	httpReq, err := c.buildRequest(ctx, req, payload, requestID)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	info := RequestInfo{Operation: req.Operation, Method: req.Method, Endpoint: req.Endpoint, Stream: true}
	start := time.Now()
	ctx = c.hooks.start(ctx, info)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.recordFailure()
		apiErr := core.NewServerError(http.StatusBadGateway, "failed to send request: "+err.Error(), err)
		c.hooks.end(ctx, info, nil, apiErr, time.Since(start))
		return nil, apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := readBody(resp)
		if readErr != nil {
			respBody = []byte("failed to read error response")
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			c.recordFailure()
		}
		apiErr := core.ParseAPIError(resp.StatusCode, respBody, serverRequestID(resp.Header, requestID))
		c.hooks.end(ctx, info, &Response{StatusCode: resp.StatusCode, Header: resp.Header}, apiErr, time.Since(start))
		return nil, apiErr
	}

	c.recordSuccess()
	body, err := decodeBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		_ = resp.Body.Close()
		return nil, core.NewServerError(http.StatusBadGateway, "failed to decode stream: "+err.Error(), err)
	}
	c.hooks.end(ctx, info, &Response{StatusCode: resp.StatusCode, Header: resp.Header}, nil, time.Since(start))
	return body, nil
}

// doRequest executes a single HTTP request without retries
func (c *Client) doRequest(ctx context.Context, req Request, payload []byte, requestID string) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req, payload, requestID)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, core.NewServerError(http.StatusBadGateway, "failed to send request: "+err.Error(), err)
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, core.NewServerError(http.StatusBadGateway, "failed to read response: "+err.Error(), err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func (c *Client) encodeBody(req Request) ([]byte, error) {
	if req.Body == nil {
		return req.RawBody, nil
	}
	b, err := json.Marshal(req.Body)
	if err != nil {
		return nil, core.NewInvalidArgumentError("body", "failed to marshal request: "+err.Error())
	}
	return b, nil
}

// buildRequest creates an HTTP request from a Request
func (c *Client) buildRequest(ctx context.Context, req Request, payload []byte, requestID string) (*http.Request, error) {
	target := c.config.BaseURL + req.Endpoint
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bodyReader)
	if err != nil {
		return nil, core.NewInvalidArgumentError("endpoint", "failed to create request: "+err.Error())
	}

	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Encoding", acceptEncoding)
	httpReq.Header.Set(RequestIDHeader, requestID)
	if c.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	if c.config.Organization != "" {
		httpReq.Header.Set("OpenAI-Organization", c.config.Organization)
	}
	if c.config.Project != "" {
		httpReq.Header.Set("OpenAI-Project", c.config.Project)
	}
	if c.config.Beta != "" {
		httpReq.Header.Set("OpenAI-Beta", c.config.Beta)
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

func (c *Client) cacheKey(req Request) string {
	if c.cache == nil || !req.Cacheable || req.Method != http.MethodGet {
		return ""
	}
	return cache.Key(c.cacheScope, c.config.BaseURL, req.Endpoint, req.Query.Encode())
}

// calculateBackoff calculates the backoff duration for a given attempt
func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffFactor, float64(attempt-1))
	if backoff > float64(c.config.MaxBackoff) {
		backoff = float64(c.config.MaxBackoff)
	}
	return time.Duration(backoff)
}

func (c *Client) recordFailure() {
	if c.circuitBreaker != nil && c.circuitBreaker.RecordFailure() {
		c.logger.Warn("circuit breaker opened", "base_url", c.config.BaseURL)
	}
}

func (c *Client) recordSuccess() {
	if c.circuitBreaker != nil && c.circuitBreaker.RecordSuccess() {
		c.logger.Info("circuit breaker closed", "base_url", c.config.BaseURL)
	}
}

// isRetryable reports whether the status code warrants another attempt
func isRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusBadGateway ||
		statusCode == http.StatusGatewayTimeout
}

// ErrCircuitOpen is wrapped by errors returned while the circuit is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

func circuitOpenError() *core.APIError {
	return core.NewServerError(http.StatusServiceUnavailable,
		"circuit breaker is open - service temporarily unavailable", ErrCircuitOpen)
}

func requestIDFrom(ctx context.Context) string {
	if id := core.GetRequestID(ctx); id != "" {
		return id
	}
	return "req_" + uuid.NewString()
}

func serverRequestID(h http.Header, fallback string) string {
	if id := h.Get(ServerRequestIDHeader); id != "" {
		return id
	}
	return fallback
}
