// Package cache stores immutable response bodies (downloaded file content)
// keyed by request. Local directory and Redis backends are provided.
package cache

import (
	"context"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Cache defines the interface for response body storage.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key.
	// Returns nil, nil on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases any resources held by the cache.
	Close() error
}

// Key derives a fixed-width cache key from the request identity parts.
func Key(parts ...string) string {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(p)
		_, _ = d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
