// Package httpclient builds the tuned *http.Client shared by every SDK sub-client.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

// ClientConfig holds transport and timeout settings.
type ClientConfig struct {
	// Timeout bounds a whole request including reading the body. Streaming
	// runs read for as long as the run lasts, so keep it generous.
	Timeout               time.Duration
	ResponseHeaderTimeout time.Duration

	DialTimeout         time.Duration
	KeepAlive           time.Duration
	TLSHandshakeTimeout time.Duration

	// Idle keep-alive pool limits. Uploads and run polling hit a single
	// host, so the per-host cap matters most.
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// DefaultConfig returns the platform defaults: a 10 minute request and
// response header timeout. config.HTTPConfig overrides both.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Timeout:               10 * time.Minute,
		ResponseHeaderTimeout: 10 * time.Minute,
		DialTimeout:           30 * time.Second,
		KeepAlive:             30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
	}
}

// NewHTTPClient creates a client from cfg, or from DefaultConfig when nil.
// Transparent decompression is off because llmclient negotiates and decodes
// br/gzip/deflate itself.
func NewHTTPClient(cfg *ClientConfig) *http.Client {
	if cfg == nil {
		def := DefaultConfig()
		cfg = &def
	}
	dialer := &net.Dialer{Timeout: cfg.DialTimeout, KeepAlive: cfg.KeepAlive}
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			ForceAttemptHTTP2:     true,
			DisableCompression:    true,
			TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
			ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
			ExpectContinueTimeout: time.Second,
			MaxIdleConns:          cfg.MaxIdleConns,
			MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:       cfg.IdleConnTimeout,
		},
	}
}
