// Package observability exports SDK request metrics to Prometheus.
package observability

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"aisdk/internal/core"
	"aisdk/internal/llmclient"
)

// Metrics holds the collectors fed by the client hooks.
type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aisdk",
			Name:      "requests_total",
			Help:      "API requests by operation, status code and error type.",
		}, []string{"operation", "status", "error_type"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "aisdk",
			Name:      "request_duration_seconds",
			Help:      "Time to response headers (streams) or full body.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"operation", "stream"}),
		InFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "aisdk",
			Name:      "requests_in_flight",
			Help:      "API requests currently awaiting a response.",
		}, []string{"operation"}),
	}

	var err error
	if m.Requests, err = register(reg, m.Requests); err != nil {
		return nil, err
	}
	if m.RequestDuration, err = register(reg, m.RequestDuration); err != nil {
		return nil, err
	}
	if m.InFlight, err = register(reg, m.InFlight); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Hooks returns client hooks recording into m.
func (m *Metrics) Hooks() llmclient.Hooks {
	return llmclient.Hooks{
		OnRequestStart: func(ctx context.Context, info llmclient.RequestInfo) context.Context {
			m.InFlight.WithLabelValues(info.Operation).Inc()
			return ctx
		},
		OnRequestEnd: func(ctx context.Context, info llmclient.RequestInfo, status int, err error, elapsed time.Duration) {
			m.InFlight.WithLabelValues(info.Operation).Dec()
			m.Requests.WithLabelValues(info.Operation, statusLabel(status), errorType(err)).Inc()
			m.RequestDuration.WithLabelValues(info.Operation, strconv.FormatBool(info.Stream)).Observe(elapsed.Seconds())
		},
	}
}

// NewPrometheusHooks registers the collectors on the default registry and
// returns hooks feeding them.
func NewPrometheusHooks() (llmclient.Hooks, error) {
	m, err := NewMetrics(nil)
	if err != nil {
		return llmclient.Hooks{}, err
	}
	return m.Hooks(), nil
}

func statusLabel(status int) string {
	if status == 0 {
		return "none"
	}
	return strconv.Itoa(status)
}

func errorType(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *core.APIError
	if errors.As(err, &apiErr) {
		return string(apiErr.Type)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}
	return "transport"
}
