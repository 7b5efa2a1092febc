// Package vectorstores is the client for vector stores, their file
// associations and batch file jobs.
package vectorstores

import (
	"context"
	"iter"

	"aisdk/internal/core"
	"aisdk/internal/future"
	"aisdk/internal/pagination"
)

// Operations is the identifier-based operation set. Every operation has a
// blocking form and an Async twin.
type Operations interface {
	CreateVectorStore(ctx context.Context, opts *core.VectorStoreCreationOptions) (*core.VectorStore, error)
	CreateVectorStoreAsync(ctx context.Context, opts *core.VectorStoreCreationOptions) *future.Future[*core.VectorStore]
	GetVectorStore(ctx context.Context, vectorStoreID string) (*core.VectorStore, error)
	GetVectorStoreAsync(ctx context.Context, vectorStoreID string) *future.Future[*core.VectorStore]
	GetVectorStores(ctx context.Context, order core.ListOrder) (*pagination.Pager[core.VectorStore], error)
	GetVectorStoresAsync(ctx context.Context, order core.ListOrder) (*pagination.AsyncPager[core.VectorStore], error)
	ModifyVectorStore(ctx context.Context, vectorStoreID string, opts *core.VectorStoreModificationOptions) (*core.VectorStore, error)
	ModifyVectorStoreAsync(ctx context.Context, vectorStoreID string, opts *core.VectorStoreModificationOptions) *future.Future[*core.VectorStore]
	DeleteVectorStore(ctx context.Context, vectorStoreID string) (*core.DeletionStatus, error)
	DeleteVectorStoreAsync(ctx context.Context, vectorStoreID string) *future.Future[*core.DeletionStatus]

	AddFileToVectorStore(ctx context.Context, vectorStoreID, fileID string) (*core.VectorStoreFileAssociation, error)
	AddFileToVectorStoreAsync(ctx context.Context, vectorStoreID, fileID string) *future.Future[*core.VectorStoreFileAssociation]
	GetFileAssociations(ctx context.Context, vectorStoreID string, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (*pagination.Pager[core.VectorStoreFileAssociation], error)
	GetFileAssociationsAsync(ctx context.Context, vectorStoreID string, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (*pagination.AsyncPager[core.VectorStoreFileAssociation], error)
	GetFileAssociation(ctx context.Context, vectorStoreID, fileID string) (*core.VectorStoreFileAssociation, error)
	GetFileAssociationAsync(ctx context.Context, vectorStoreID, fileID string) *future.Future[*core.VectorStoreFileAssociation]
	RemoveFileFromStore(ctx context.Context, vectorStoreID, fileID string) (*core.DeletionStatus, error)
	RemoveFileFromStoreAsync(ctx context.Context, vectorStoreID, fileID string) *future.Future[*core.DeletionStatus]

	CreateBatchFileJob(ctx context.Context, vectorStoreID string, fileIDs iter.Seq[string]) (*core.VectorStoreBatchFileJob, error)
	CreateBatchFileJobAsync(ctx context.Context, vectorStoreID string, fileIDs iter.Seq[string]) *future.Future[*core.VectorStoreBatchFileJob]
	GetBatchFileJob(ctx context.Context, vectorStoreID, batchID string) (*core.VectorStoreBatchFileJob, error)
	GetBatchFileJobAsync(ctx context.Context, vectorStoreID, batchID string) *future.Future[*core.VectorStoreBatchFileJob]
	CancelBatchFileJob(ctx context.Context, vectorStoreID, batchID string) (*core.VectorStoreBatchFileJob, error)
	CancelBatchFileJobAsync(ctx context.Context, vectorStoreID, batchID string) *future.Future[*core.VectorStoreBatchFileJob]
	GetBatchFileAssociations(ctx context.Context, vectorStoreID, batchID string, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (*pagination.Pager[core.VectorStoreFileAssociation], error)
	GetBatchFileAssociationsAsync(ctx context.Context, vectorStoreID, batchID string, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (*pagination.AsyncPager[core.VectorStoreFileAssociation], error)
}
