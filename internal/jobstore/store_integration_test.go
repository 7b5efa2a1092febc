//go:build integration

package jobstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"aisdk/internal/storage"
)

func TestPostgreSQLStore(t *testing.T) {
	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("aisdk_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	shared, err := storage.NewPostgreSQL(ctx, storage.PostgreSQLConfig{URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shared.Close() })

	result, err := NewWithSharedStorage(ctx, shared)
	require.NoError(t, err)
	exerciseStore(t, result.Store)
}

func TestMongoDBStore(t *testing.T) {
	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	shared, err := storage.NewMongoDB(ctx, storage.MongoDBConfig{URL: url, Database: "aisdk_test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shared.Close() })

	result, err := NewWithSharedStorage(ctx, shared)
	require.NoError(t, err)
	exerciseStore(t, result.Store)
}
