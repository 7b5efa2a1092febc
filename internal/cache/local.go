package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// LocalCache implements Cache with one file per key under a directory.
// This is suitable for a single process or a shared developer machine.
type LocalCache struct {
	mu  sync.RWMutex
	dir string
}

// NewLocalCache creates a cache rooted at dir. An empty dir disables it.
func NewLocalCache(dir string) *LocalCache {
	return &LocalCache{dir: dir}
}

func (c *LocalCache) path(key string) string {
	return filepath.Join(c.dir, key+".bin")
}

// Get reads the entry for key.
func (c *LocalCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.dir == "" {
		return nil, nil
	}

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return data, nil
}

// Set writes the entry for key atomically.
func (c *LocalCache) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dir == "" {
		return nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	target := c.path(key)
	tmpFile := target + ".tmp"
	if err := os.WriteFile(tmpFile, value, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := os.Rename(tmpFile, target); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename cache entry: %w", err)
	}
	return nil
}

// Close is a no-op for local cache.
func (c *LocalCache) Close() error {
	return nil
}
