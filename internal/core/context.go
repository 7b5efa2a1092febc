package core

import "context"

type requestIDKey struct{}

// WithRequestID returns ctx carrying the client request id sent as
// X-Client-Request-Id. Without one the base client generates a fresh id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID returns the request id stored in ctx, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
