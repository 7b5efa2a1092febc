package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalCache(t *testing.T) {
	t.Run("GetSetRoundTrip", func(t *testing.T) {
		cache := NewLocalCache(t.TempDir())
		ctx := context.Background()
		key := Key("GET", "/files/file_1/content")

		result, err := cache.Get(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != nil {
			t.Fatalf("expected nil result for empty cache, got %q", result)
		}

		if err := cache.Set(ctx, key, []byte(`{"prompt":"p"}`)); err != nil {
			t.Fatalf("unexpected error on set: %v", err)
		}

		result, err = cache.Get(ctx, key)
		if err != nil {
			t.Fatalf("unexpected error on get: %v", err)
		}
		if string(result) != `{"prompt":"p"}` {
			t.Errorf("got %q", result)
		}
	})

	t.Run("CreateDirectoryIfNeeded", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "dir")
		cache := NewLocalCache(dir)

		if err := cache.Set(context.Background(), "k", []byte("v")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "k.bin")); os.IsNotExist(err) {
			t.Fatal("cache entry was not created")
		}
	})

	t.Run("EmptyDirDisablesCache", func(t *testing.T) {
		cache := NewLocalCache("")
		ctx := context.Background()

		if err := cache.Set(ctx, "k", []byte("v")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		result, err := cache.Get(ctx, "k")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != nil {
			t.Fatal("expected nil result for disabled cache")
		}
	})

	t.Run("CloseIsNoOp", func(t *testing.T) {
		if err := NewLocalCache(t.TempDir()).Close(); err != nil {
			t.Fatalf("unexpected error on close: %v", err)
		}
	})
}

func TestKey(t *testing.T) {
	a := Key("GET", "/files/a/content")
	if a != Key("GET", "/files/a/content") {
		t.Error("Key must be deterministic")
	}
	if a == Key("GET", "/files/b/content") {
		t.Error("different requests must not share a key")
	}
	if Key("ab", "c") == Key("a", "bc") {
		t.Error("part boundaries must be part of the key")
	}
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	if _, err := NewRedisCache(RedisConfig{URL: "not-a-url://"}); err == nil {
		t.Fatal("expected error for invalid URL")
	}
}
