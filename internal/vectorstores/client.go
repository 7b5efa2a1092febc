package vectorstores

import (
	"context"
	"iter"
	"net/http"
	"net/url"
	"slices"

	"aisdk/internal/core"
	"aisdk/internal/future"
	"aisdk/internal/llmclient"
	"aisdk/internal/pagination"
)

// Client implements Operations over the platform REST API.
type Client struct {
	http *llmclient.Client
}

var _ Operations = (*Client)(nil)

// New returns a Client sending requests through http.
func New(http *llmclient.Client) *Client {
	return &Client{http: http}
}

func do[T any](ctx context.Context, c *Client, operation, method, endpoint string, body any) (*T, error) {
	out := new(T)
	err := c.http.Do(ctx, llmclient.Request{
		Method:    method,
		Endpoint:  endpoint,
		Operation: operation,
		Body:      body,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func storePath(vectorStoreID string, rest ...string) (string, error) {
	if err := core.RequireID("vector_store_id", vectorStoreID); err != nil {
		return "", err
	}
	return llmclient.Path(append([]string{"vector_stores", vectorStoreID}, rest...)...), nil
}

func listQuery(order core.ListOrder, filter core.VectorStoreFileStatusFilter) (url.Values, error) {
	if err := pagination.ValidateOrder(order); err != nil {
		return nil, err
	}
	if !filter.Valid() {
		return nil, core.NewInvalidArgumentError("filter", "unknown file status filter "+string(filter))
	}
	q := url.Values{}
	if filter != core.VectorStoreFileStatusAny {
		q.Set("filter", string(filter))
	}
	return q, nil
}

// Vector stores

func (c *Client) CreateVectorStore(ctx context.Context, opts *core.VectorStoreCreationOptions) (*core.VectorStore, error) {
	var body any = struct{}{}
	if opts != nil {
		body = opts
	}
	return do[core.VectorStore](ctx, c, "vector_stores.create", http.MethodPost, "/vector_stores", body)
}

func (c *Client) CreateVectorStoreAsync(ctx context.Context, opts *core.VectorStoreCreationOptions) *future.Future[*core.VectorStore] {
	return future.Go(ctx, func(ctx context.Context) (*core.VectorStore, error) {
		return c.CreateVectorStore(ctx, opts)
	})
}

func (c *Client) GetVectorStore(ctx context.Context, vectorStoreID string) (*core.VectorStore, error) {
	endpoint, err := storePath(vectorStoreID)
	if err != nil {
		return nil, err
	}
	return do[core.VectorStore](ctx, c, "vector_stores.get", http.MethodGet, endpoint, nil)
}

func (c *Client) GetVectorStoreAsync(ctx context.Context, vectorStoreID string) *future.Future[*core.VectorStore] {
	return future.Go(ctx, func(ctx context.Context) (*core.VectorStore, error) {
		return c.GetVectorStore(ctx, vectorStoreID)
	})
}

func (c *Client) storesFetcher(order core.ListOrder) (pagination.Fetcher[core.VectorStore], error) {
	if err := pagination.ValidateOrder(order); err != nil {
		return nil, err
	}
	return pagination.List[core.VectorStore](c.http, "vector_stores.list", "/vector_stores", order, nil), nil
}

func (c *Client) GetVectorStores(ctx context.Context, order core.ListOrder) (*pagination.Pager[core.VectorStore], error) {
	fetch, err := c.storesFetcher(order)
	if err != nil {
		return nil, err
	}
	return pagination.New(ctx, fetch), nil
}

func (c *Client) GetVectorStoresAsync(ctx context.Context, order core.ListOrder) (*pagination.AsyncPager[core.VectorStore], error) {
	fetch, err := c.storesFetcher(order)
	if err != nil {
		return nil, err
	}
	return pagination.NewAsync(ctx, fetch), nil
}

func (c *Client) ModifyVectorStore(ctx context.Context, vectorStoreID string, opts *core.VectorStoreModificationOptions) (*core.VectorStore, error) {
	endpoint, err := storePath(vectorStoreID)
	if err != nil {
		return nil, err
	}
	var body any = struct{}{}
	if opts != nil {
		body = opts
	}
	return do[core.VectorStore](ctx, c, "vector_stores.modify", http.MethodPost, endpoint, body)
}

func (c *Client) ModifyVectorStoreAsync(ctx context.Context, vectorStoreID string, opts *core.VectorStoreModificationOptions) *future.Future[*core.VectorStore] {
	return future.Go(ctx, func(ctx context.Context) (*core.VectorStore, error) {
		return c.ModifyVectorStore(ctx, vectorStoreID, opts)
	})
}

func (c *Client) DeleteVectorStore(ctx context.Context, vectorStoreID string) (*core.DeletionStatus, error) {
	endpoint, err := storePath(vectorStoreID)
	if err != nil {
		return nil, err
	}
	return do[core.DeletionStatus](ctx, c, "vector_stores.delete", http.MethodDelete, endpoint, nil)
}

func (c *Client) DeleteVectorStoreAsync(ctx context.Context, vectorStoreID string) *future.Future[*core.DeletionStatus] {
	return future.Go(ctx, func(ctx context.Context) (*core.DeletionStatus, error) {
		return c.DeleteVectorStore(ctx, vectorStoreID)
	})
}

// File associations

func (c *Client) AddFileToVectorStore(ctx context.Context, vectorStoreID, fileID string) (*core.VectorStoreFileAssociation, error) {
	endpoint, err := storePath(vectorStoreID, "files")
	if err != nil {
		return nil, err
	}
	if err := core.RequireID("file_id", fileID); err != nil {
		return nil, err
	}
	return do[core.VectorStoreFileAssociation](ctx, c, "vector_store_files.create", http.MethodPost, endpoint, map[string]string{"file_id": fileID})
}

func (c *Client) AddFileToVectorStoreAsync(ctx context.Context, vectorStoreID, fileID string) *future.Future[*core.VectorStoreFileAssociation] {
	return future.Go(ctx, func(ctx context.Context) (*core.VectorStoreFileAssociation, error) {
		return c.AddFileToVectorStore(ctx, vectorStoreID, fileID)
	})
}

func (c *Client) associationsFetcher(vectorStoreID string, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (pagination.Fetcher[core.VectorStoreFileAssociation], error) {
	endpoint, err := storePath(vectorStoreID, "files")
	if err != nil {
		return nil, err
	}
	query, err := listQuery(order, filter)
	if err != nil {
		return nil, err
	}
	return pagination.List[core.VectorStoreFileAssociation](c.http, "vector_store_files.list", endpoint, order, query), nil
}

func (c *Client) GetFileAssociations(ctx context.Context, vectorStoreID string, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (*pagination.Pager[core.VectorStoreFileAssociation], error) {
	fetch, err := c.associationsFetcher(vectorStoreID, order, filter)
	if err != nil {
		return nil, err
	}
	return pagination.New(ctx, fetch), nil
}

func (c *Client) GetFileAssociationsAsync(ctx context.Context, vectorStoreID string, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (*pagination.AsyncPager[core.VectorStoreFileAssociation], error) {
	fetch, err := c.associationsFetcher(vectorStoreID, order, filter)
	if err != nil {
		return nil, err
	}
	return pagination.NewAsync(ctx, fetch), nil
}

func associationPath(vectorStoreID, fileID string) (string, error) {
	if err := core.RequireID("file_id", fileID); err != nil {
		return "", err
	}
	return storePath(vectorStoreID, "files", fileID)
}

func (c *Client) GetFileAssociation(ctx context.Context, vectorStoreID, fileID string) (*core.VectorStoreFileAssociation, error) {
	endpoint, err := associationPath(vectorStoreID, fileID)
	if err != nil {
		return nil, err
	}
	return do[core.VectorStoreFileAssociation](ctx, c, "vector_store_files.get", http.MethodGet, endpoint, nil)
}

func (c *Client) GetFileAssociationAsync(ctx context.Context, vectorStoreID, fileID string) *future.Future[*core.VectorStoreFileAssociation] {
	return future.Go(ctx, func(ctx context.Context) (*core.VectorStoreFileAssociation, error) {
		return c.GetFileAssociation(ctx, vectorStoreID, fileID)
	})
}

func (c *Client) RemoveFileFromStore(ctx context.Context, vectorStoreID, fileID string) (*core.DeletionStatus, error) {
	endpoint, err := associationPath(vectorStoreID, fileID)
	if err != nil {
		return nil, err
	}
	return do[core.DeletionStatus](ctx, c, "vector_store_files.delete", http.MethodDelete, endpoint, nil)
}

func (c *Client) RemoveFileFromStoreAsync(ctx context.Context, vectorStoreID, fileID string) *future.Future[*core.DeletionStatus] {
	return future.Go(ctx, func(ctx context.Context) (*core.DeletionStatus, error) {
		return c.RemoveFileFromStore(ctx, vectorStoreID, fileID)
	})
}

// Batch file jobs

func (c *Client) CreateBatchFileJob(ctx context.Context, vectorStoreID string, fileIDs iter.Seq[string]) (*core.VectorStoreBatchFileJob, error) {
	endpoint, err := storePath(vectorStoreID, "file_batches")
	if err != nil {
		return nil, err
	}
	var ids []string
	if fileIDs != nil {
		ids = slices.Collect(fileIDs)
	}
	if len(ids) == 0 {
		return nil, core.NewInvalidArgumentError("file_ids", "at least one file id is required")
	}
	for _, id := range ids {
		if err := core.RequireID("file_ids", id); err != nil {
			return nil, err
		}
	}
	return do[core.VectorStoreBatchFileJob](ctx, c, "vector_store_file_batches.create", http.MethodPost, endpoint, map[string][]string{"file_ids": ids})
}

func (c *Client) CreateBatchFileJobAsync(ctx context.Context, vectorStoreID string, fileIDs iter.Seq[string]) *future.Future[*core.VectorStoreBatchFileJob] {
	return future.Go(ctx, func(ctx context.Context) (*core.VectorStoreBatchFileJob, error) {
		return c.CreateBatchFileJob(ctx, vectorStoreID, fileIDs)
	})
}

func batchPath(vectorStoreID, batchID string, rest ...string) (string, error) {
	if err := core.RequireID("batch_id", batchID); err != nil {
		return "", err
	}
	return storePath(vectorStoreID, append([]string{"file_batches", batchID}, rest...)...)
}

func (c *Client) GetBatchFileJob(ctx context.Context, vectorStoreID, batchID string) (*core.VectorStoreBatchFileJob, error) {
	endpoint, err := batchPath(vectorStoreID, batchID)
	if err != nil {
		return nil, err
	}
	return do[core.VectorStoreBatchFileJob](ctx, c, "vector_store_file_batches.get", http.MethodGet, endpoint, nil)
}

func (c *Client) GetBatchFileJobAsync(ctx context.Context, vectorStoreID, batchID string) *future.Future[*core.VectorStoreBatchFileJob] {
	return future.Go(ctx, func(ctx context.Context) (*core.VectorStoreBatchFileJob, error) {
		return c.GetBatchFileJob(ctx, vectorStoreID, batchID)
	})
}

func (c *Client) CancelBatchFileJob(ctx context.Context, vectorStoreID, batchID string) (*core.VectorStoreBatchFileJob, error) {
	endpoint, err := batchPath(vectorStoreID, batchID, "cancel")
	if err != nil {
		return nil, err
	}
	return do[core.VectorStoreBatchFileJob](ctx, c, "vector_store_file_batches.cancel", http.MethodPost, endpoint, struct{}{})
}

func (c *Client) CancelBatchFileJobAsync(ctx context.Context, vectorStoreID, batchID string) *future.Future[*core.VectorStoreBatchFileJob] {
	return future.Go(ctx, func(ctx context.Context) (*core.VectorStoreBatchFileJob, error) {
		return c.CancelBatchFileJob(ctx, vectorStoreID, batchID)
	})
}

func (c *Client) batchAssociationsFetcher(vectorStoreID, batchID string, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (pagination.Fetcher[core.VectorStoreFileAssociation], error) {
	endpoint, err := batchPath(vectorStoreID, batchID, "files")
	if err != nil {
		return nil, err
	}
	query, err := listQuery(order, filter)
	if err != nil {
		return nil, err
	}
	return pagination.List[core.VectorStoreFileAssociation](c.http, "vector_store_file_batches.list_files", endpoint, order, query), nil
}

func (c *Client) GetBatchFileAssociations(ctx context.Context, vectorStoreID, batchID string, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (*pagination.Pager[core.VectorStoreFileAssociation], error) {
	fetch, err := c.batchAssociationsFetcher(vectorStoreID, batchID, order, filter)
	if err != nil {
		return nil, err
	}
	return pagination.New(ctx, fetch), nil
}

func (c *Client) GetBatchFileAssociationsAsync(ctx context.Context, vectorStoreID, batchID string, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (*pagination.AsyncPager[core.VectorStoreFileAssociation], error) {
	fetch, err := c.batchAssociationsFetcher(vectorStoreID, batchID, order, filter)
	if err != nil {
		return nil, err
	}
	return pagination.NewAsync(ctx, fetch), nil
}
