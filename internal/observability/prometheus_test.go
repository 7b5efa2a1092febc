package observability

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aisdk/internal/core"
	"aisdk/internal/llmclient"
)

func TestMetricsHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()
	info := llmclient.RequestInfo{Operation: "runs.get", Method: http.MethodGet}

	ctx = hooks.OnRequestStart(ctx, info)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InFlight.WithLabelValues("runs.get")))

	hooks.OnRequestEnd(ctx, info, http.StatusOK, nil, 30*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight.WithLabelValues("runs.get")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("runs.get", "200", "")))

	hooks.OnRequestStart(ctx, info)
	hooks.OnRequestEnd(ctx, info, http.StatusTooManyRequests, core.NewRateLimitError("slow down"), time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("runs.get", "429", "rate_limit_error")))

	hooks.OnRequestStart(ctx, info)
	hooks.OnRequestEnd(ctx, info, 0, context.Canceled, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("runs.get", "none", "canceled")))
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	second.Requests.WithLabelValues("files.get", "200", "").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(first.Requests.WithLabelValues("files.get", "200", "")))
}
