package llmclient

import (
	"context"
	"time"
)

// RequestInfo describes one attempt of a request.
type RequestInfo struct {
	Operation string
	Method    string
	Endpoint  string
	Attempt   int
	Stream    bool
}

// Hooks observe the request lifecycle. Either function may be nil.
// OnRequestStart may return a derived context that is passed to the
// transport and to OnRequestEnd.
type Hooks struct {
	OnRequestStart func(ctx context.Context, info RequestInfo) context.Context
	// OnRequestEnd receives the status code (0 when no response arrived)
	OnRequestEnd func(ctx context.Context, info RequestInfo, statusCode int, err error, elapsed time.Duration)
}

func (h Hooks) start(ctx context.Context, info RequestInfo) context.Context {
	if h.OnRequestStart == nil {
		return ctx
	}
	if derived := h.OnRequestStart(ctx, info); derived != nil {
		return derived
	}
	return ctx
}

func (h Hooks) end(ctx context.Context, info RequestInfo, resp *Response, err error, elapsed time.Duration) {
	if h.OnRequestEnd == nil {
		return
	}
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	h.OnRequestEnd(ctx, info, status, err, elapsed)
}
