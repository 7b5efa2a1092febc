package files

import (
	"context"

	"aisdk/internal/core"
	"aisdk/internal/forward"
	"aisdk/internal/future"
)

// Entities accepts file entities in place of identifiers. A nil file is
// forwarded as an empty identifier and rejected by ops.
type Entities struct {
	ops Operations
}

// NewEntities returns the entity forms of ops.
func NewEntities(ops Operations) *Entities {
	return &Entities{ops: ops}
}

func fileID(f *core.FileInfo) string { return f.ID }

// GetFile fetches the metadata of file.
func (e *Entities) GetFile(ctx context.Context, file *core.FileInfo) (*core.FileInfo, error) {
	return e.ops.GetFile(ctx, forward.PassThrough(file, fileID))
}

// GetFileAsync is the asynchronous form of GetFile.
func (e *Entities) GetFileAsync(ctx context.Context, file *core.FileInfo) *future.Future[*core.FileInfo] {
	return e.ops.GetFileAsync(ctx, forward.PassThrough(file, fileID))
}

// DeleteFile deletes file.
func (e *Entities) DeleteFile(ctx context.Context, file *core.FileInfo) (*core.DeletionStatus, error) {
	return e.ops.DeleteFile(ctx, forward.PassThrough(file, fileID))
}

// DeleteFileAsync is the asynchronous form of DeleteFile.
func (e *Entities) DeleteFileAsync(ctx context.Context, file *core.FileInfo) *future.Future[*core.DeletionStatus] {
	return e.ops.DeleteFileAsync(ctx, forward.PassThrough(file, fileID))
}

// DownloadFile reads the content of file.
func (e *Entities) DownloadFile(ctx context.Context, file *core.FileInfo) (*core.FileContent, error) {
	return e.ops.DownloadFile(ctx, forward.PassThrough(file, fileID))
}

// DownloadFileAsync is the asynchronous form of DownloadFile.
func (e *Entities) DownloadFileAsync(ctx context.Context, file *core.FileInfo) *future.Future[*core.FileContent] {
	return e.ops.DownloadFileAsync(ctx, forward.PassThrough(file, fileID))
}
