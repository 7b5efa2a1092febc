package jobstore

import (
	"context"
	"errors"
	"fmt"

	"aisdk/config"
	"aisdk/internal/storage"
)

// Result holds the job store and the storage connection it owns, if any.
type Result struct {
	Store   Store
	Storage storage.Storage
}

// Close releases the store and any owned storage.
func (r *Result) Close() error {
	var errs []error
	if r.Store != nil {
		if err := r.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store close: %w", err))
		}
	}
	if r.Storage != nil {
		if err := r.Storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage close: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %w", errors.Join(errs...))
	}
	return nil
}

// New opens the configured storage backend and creates a job store on it.
func New(ctx context.Context, cfg *config.Config) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	shared, err := storage.New(ctx, StorageConfig(cfg.Storage))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage: %w", err)
	}

	store, err := createStore(ctx, shared)
	if err != nil {
		_ = shared.Close()
		return nil, err
	}
	return &Result{Store: store, Storage: shared}, nil
}

// NewWithSharedStorage creates a job store on a connection owned by the caller.
func NewWithSharedStorage(ctx context.Context, shared storage.Storage) (*Result, error) {
	if shared == nil {
		return nil, fmt.Errorf("shared storage is required")
	}
	store, err := createStore(ctx, shared)
	if err != nil {
		return nil, err
	}
	return &Result{Store: store}, nil
}

// StorageConfig converts the storage section of the configuration, filling
// in backend defaults.
func StorageConfig(cfg config.StorageConfig) storage.Config {
	out := storage.Config{
		Type:       cfg.Type,
		SQLite:     storage.SQLiteConfig{Path: cfg.SQLite.Path},
		PostgreSQL: storage.PostgreSQLConfig{URL: cfg.PostgreSQL.URL, MaxConns: cfg.PostgreSQL.MaxConns},
		MongoDB:    storage.MongoDBConfig{URL: cfg.MongoDB.URL, Database: cfg.MongoDB.Database},
	}
	if out.Type == "" {
		out.Type = storage.TypeSQLite
	}
	if out.SQLite.Path == "" {
		out.SQLite.Path = storage.DefaultSQLitePath
	}
	if out.MongoDB.Database == "" {
		out.MongoDB.Database = storage.DefaultDatabase
	}
	return out
}

func createStore(ctx context.Context, shared storage.Storage) (Store, error) {
	switch shared.Type() {
	case storage.TypeSQLite:
		return NewSQLiteStore(shared.SQLiteDB())
	case storage.TypePostgreSQL:
		return NewPostgreSQLStore(ctx, shared.PostgreSQLPool())
	case storage.TypeMongoDB:
		return NewMongoDBStore(ctx, shared.MongoDatabase())
	default:
		return nil, fmt.Errorf("unknown storage type: %s", shared.Type())
	}
}
