package vectorstores

import (
	"context"

	"aisdk/internal/core"
	"aisdk/internal/forward"
	"aisdk/internal/future"
	"aisdk/internal/pagination"
)

// Entities accepts entities in place of identifiers and forwards each call
// to the identifier form on ops. A nil entity is forwarded as an empty
// identifier, list forms included, and ops rejects it.
type Entities struct {
	ops Operations
}

// NewEntities returns the entity forms of ops.
func NewEntities(ops Operations) *Entities {
	return &Entities{ops: ops}
}

func storeID(v *core.VectorStore) string              { return v.ID }
func fileID(f *core.FileInfo) string                  { return f.ID }
func jobStore(j *core.VectorStoreBatchFileJob) string { return j.VectorStoreID }
func jobID(j *core.VectorStoreBatchFileJob) string    { return j.BatchID }

// GetVectorStore fetches store by its ID.
func (e *Entities) GetVectorStore(ctx context.Context, store *core.VectorStore) (*core.VectorStore, error) {
	return e.ops.GetVectorStore(ctx, forward.PassThrough(store, storeID))
}

// GetVectorStoreAsync is the asynchronous form of GetVectorStore.
func (e *Entities) GetVectorStoreAsync(ctx context.Context, store *core.VectorStore) *future.Future[*core.VectorStore] {
	return e.ops.GetVectorStoreAsync(ctx, forward.PassThrough(store, storeID))
}

// ModifyVectorStore applies opts to store.
func (e *Entities) ModifyVectorStore(ctx context.Context, store *core.VectorStore, opts *core.VectorStoreModificationOptions) (*core.VectorStore, error) {
	return e.ops.ModifyVectorStore(ctx, forward.PassThrough(store, storeID), opts)
}

// ModifyVectorStoreAsync is the asynchronous form of ModifyVectorStore.
func (e *Entities) ModifyVectorStoreAsync(ctx context.Context, store *core.VectorStore, opts *core.VectorStoreModificationOptions) *future.Future[*core.VectorStore] {
	return e.ops.ModifyVectorStoreAsync(ctx, forward.PassThrough(store, storeID), opts)
}

// DeleteVectorStore deletes store. The files themselves are kept.
func (e *Entities) DeleteVectorStore(ctx context.Context, store *core.VectorStore) (*core.DeletionStatus, error) {
	return e.ops.DeleteVectorStore(ctx, forward.PassThrough(store, storeID))
}

// DeleteVectorStoreAsync is the asynchronous form of DeleteVectorStore.
func (e *Entities) DeleteVectorStoreAsync(ctx context.Context, store *core.VectorStore) *future.Future[*core.DeletionStatus] {
	return e.ops.DeleteVectorStoreAsync(ctx, forward.PassThrough(store, storeID))
}

// AddFileToVectorStore attaches file to store.
func (e *Entities) AddFileToVectorStore(ctx context.Context, store *core.VectorStore, file *core.FileInfo) (*core.VectorStoreFileAssociation, error) {
	return e.ops.AddFileToVectorStore(ctx, forward.PassThrough(store, storeID), forward.PassThrough(file, fileID))
}

// AddFileToVectorStoreAsync is the asynchronous form of AddFileToVectorStore.
func (e *Entities) AddFileToVectorStoreAsync(ctx context.Context, store *core.VectorStore, file *core.FileInfo) *future.Future[*core.VectorStoreFileAssociation] {
	return e.ops.AddFileToVectorStoreAsync(ctx, forward.PassThrough(store, storeID), forward.PassThrough(file, fileID))
}

// GetFileAssociations lists the files attached to store, optionally filtered
// by status.
func (e *Entities) GetFileAssociations(ctx context.Context, store *core.VectorStore, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (*pagination.Pager[core.VectorStoreFileAssociation], error) {
	return e.ops.GetFileAssociations(ctx, forward.PassThrough(store, storeID), order, filter)
}

// GetFileAssociationsAsync is the asynchronous form of GetFileAssociations.
func (e *Entities) GetFileAssociationsAsync(ctx context.Context, store *core.VectorStore, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (*pagination.AsyncPager[core.VectorStoreFileAssociation], error) {
	return e.ops.GetFileAssociationsAsync(ctx, forward.PassThrough(store, storeID), order, filter)
}

// GetFileAssociation fetches the association between store and file.
func (e *Entities) GetFileAssociation(ctx context.Context, store *core.VectorStore, file *core.FileInfo) (*core.VectorStoreFileAssociation, error) {
	return e.ops.GetFileAssociation(ctx, forward.PassThrough(store, storeID), forward.PassThrough(file, fileID))
}

// GetFileAssociationAsync is the asynchronous form of GetFileAssociation.
func (e *Entities) GetFileAssociationAsync(ctx context.Context, store *core.VectorStore, file *core.FileInfo) *future.Future[*core.VectorStoreFileAssociation] {
	return e.ops.GetFileAssociationAsync(ctx, forward.PassThrough(store, storeID), forward.PassThrough(file, fileID))
}

// RemoveFileFromStore detaches file from store.
func (e *Entities) RemoveFileFromStore(ctx context.Context, store *core.VectorStore, file *core.FileInfo) (*core.DeletionStatus, error) {
	return e.ops.RemoveFileFromStore(ctx, forward.PassThrough(store, storeID), forward.PassThrough(file, fileID))
}

// RemoveFileFromStoreAsync is the asynchronous form of RemoveFileFromStore.
func (e *Entities) RemoveFileFromStoreAsync(ctx context.Context, store *core.VectorStore, file *core.FileInfo) *future.Future[*core.DeletionStatus] {
	return e.ops.RemoveFileFromStoreAsync(ctx, forward.PassThrough(store, storeID), forward.PassThrough(file, fileID))
}

// CreateBatchFileJob attaches files to store in one batch. File IDs are read
// lazily in order.
func (e *Entities) CreateBatchFileJob(ctx context.Context, store *core.VectorStore, files []*core.FileInfo) (*core.VectorStoreBatchFileJob, error) {
	return e.ops.CreateBatchFileJob(ctx, forward.PassThrough(store, storeID), forward.IDs(files, fileID))
}

// CreateBatchFileJobAsync is the asynchronous form of CreateBatchFileJob.
func (e *Entities) CreateBatchFileJobAsync(ctx context.Context, store *core.VectorStore, files []*core.FileInfo) *future.Future[*core.VectorStoreBatchFileJob] {
	return e.ops.CreateBatchFileJobAsync(ctx, forward.PassThrough(store, storeID), forward.IDs(files, fileID))
}

// GetBatchFileJob fetches the current state of job.
func (e *Entities) GetBatchFileJob(ctx context.Context, job *core.VectorStoreBatchFileJob) (*core.VectorStoreBatchFileJob, error) {
	return e.ops.GetBatchFileJob(ctx, forward.PassThrough(job, jobStore), forward.PassThrough(job, jobID))
}

// GetBatchFileJobAsync is the asynchronous form of GetBatchFileJob.
func (e *Entities) GetBatchFileJobAsync(ctx context.Context, job *core.VectorStoreBatchFileJob) *future.Future[*core.VectorStoreBatchFileJob] {
	return e.ops.GetBatchFileJobAsync(ctx, forward.PassThrough(job, jobStore), forward.PassThrough(job, jobID))
}

// CancelBatchFileJob stops job.
func (e *Entities) CancelBatchFileJob(ctx context.Context, job *core.VectorStoreBatchFileJob) (*core.VectorStoreBatchFileJob, error) {
	return e.ops.CancelBatchFileJob(ctx, forward.PassThrough(job, jobStore), forward.PassThrough(job, jobID))
}

// CancelBatchFileJobAsync is the asynchronous form of CancelBatchFileJob.
func (e *Entities) CancelBatchFileJobAsync(ctx context.Context, job *core.VectorStoreBatchFileJob) *future.Future[*core.VectorStoreBatchFileJob] {
	return e.ops.CancelBatchFileJobAsync(ctx, forward.PassThrough(job, jobStore), forward.PassThrough(job, jobID))
}

// GetBatchFileAssociations lists the files added by job.
func (e *Entities) GetBatchFileAssociations(ctx context.Context, job *core.VectorStoreBatchFileJob, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (*pagination.Pager[core.VectorStoreFileAssociation], error) {
	return e.ops.GetBatchFileAssociations(ctx, forward.PassThrough(job, jobStore), forward.PassThrough(job, jobID), order, filter)
}

// GetBatchFileAssociationsAsync is the asynchronous form of GetBatchFileAssociations.
func (e *Entities) GetBatchFileAssociationsAsync(ctx context.Context, job *core.VectorStoreBatchFileJob, order core.ListOrder, filter core.VectorStoreFileStatusFilter) (*pagination.AsyncPager[core.VectorStoreFileAssociation], error) {
	return e.ops.GetBatchFileAssociationsAsync(ctx, forward.PassThrough(job, jobStore), forward.PassThrough(job, jobID), order, filter)
}
