package vectorstores

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aisdk/internal/core"
	"aisdk/internal/llmclient"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := llmclient.DefaultConfig(server.URL, "sk-test")
	cfg.MaxRetries = 0
	return New(llmclient.New(cfg, llmclient.WithHTTPClient(server.Client()))), &hits
}

func TestClient_CreateBatchFileJob(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/vector_stores/vs_1/file_batches", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"file_ids":["file_2","file_1"]}`, string(raw))
		_, _ = w.Write([]byte(`{"id":"vsfb_1","object":"vector_store.files_batch","vector_store_id":"vs_1","status":"in_progress","file_counts":{"in_progress":2,"total":2}}`))
	})

	job, err := client.CreateBatchFileJob(context.Background(), "vs_1", slices.Values([]string{"file_2", "file_1"}))
	require.NoError(t, err)
	assert.Equal(t, "vsfb_1", job.BatchID)
	assert.Equal(t, 2, job.FileCounts.Total)
}

func TestClient_CreateBatchFileJobRejectsEmpty(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.CreateBatchFileJob(context.Background(), "vs_1", slices.Values([]string{}))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = client.CreateBatchFileJob(context.Background(), "vs_1", slices.Values([]string{"file_1", ""}))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Zero(t, hits.Load())
}

func TestClient_GetFileAssociationsFilter(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vector_stores/vs_1/file_batches/b_1/files", r.URL.Path)
		assert.Equal(t, "failed", r.URL.Query().Get("filter"))
		assert.Equal(t, "desc", r.URL.Query().Get("order"))
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"file_1","vector_store_id":"vs_1","status":"failed","last_error":{"code":"server_error","message":"x"}}],"has_more":false}`))
	})

	pager, err := client.GetBatchFileAssociations(context.Background(), "vs_1", "b_1", core.ListOrderDescending, core.VectorStoreFileStatusFailed)
	require.NoError(t, err)
	items, err := pager.Collect()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "file_1", items[0].FileID)
	assert.Equal(t, "server_error", items[0].LastError.Code)
}

func TestClient_UnknownFilterRejected(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := client.GetFileAssociations(context.Background(), "vs_1", core.ListOrderDefault, core.VectorStoreFileStatusFilter("stale"))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Zero(t, hits.Load())
}

func TestEntities_MatchIdentifierForms(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vector_stores/vs_1/files/file_1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "file_1", "vector_store_id": "vs_1", "status": "completed"})
	})
	ctx := context.Background()

	byID, err := client.GetFileAssociation(ctx, "vs_1", "file_1")
	require.NoError(t, err)
	byEntity, err := NewEntities(client).GetFileAssociation(ctx, &core.VectorStore{ID: "vs_1"}, &core.FileInfo{ID: "file_1"})
	require.NoError(t, err)
	assert.Equal(t, byID, byEntity)
}
