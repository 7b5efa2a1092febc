// Package files is the client for file uploads and downloads.
package files

import (
	"context"

	"aisdk/internal/core"
	"aisdk/internal/future"
	"aisdk/internal/pagination"
)

// Operations is the identifier-based operation set. Every operation has a
// blocking form and an Async twin.
type Operations interface {
	UploadFile(ctx context.Context, opts *core.FileUploadOptions) (*core.FileInfo, error)
	UploadFileAsync(ctx context.Context, opts *core.FileUploadOptions) *future.Future[*core.FileInfo]
	GetFile(ctx context.Context, fileID string) (*core.FileInfo, error)
	GetFileAsync(ctx context.Context, fileID string) *future.Future[*core.FileInfo]
	GetFiles(ctx context.Context, purpose core.FileUploadPurpose, order core.ListOrder) (*pagination.Pager[core.FileInfo], error)
	GetFilesAsync(ctx context.Context, purpose core.FileUploadPurpose, order core.ListOrder) (*pagination.AsyncPager[core.FileInfo], error)
	DeleteFile(ctx context.Context, fileID string) (*core.DeletionStatus, error)
	DeleteFileAsync(ctx context.Context, fileID string) *future.Future[*core.DeletionStatus]
	DownloadFile(ctx context.Context, fileID string) (*core.FileContent, error)
	DownloadFileAsync(ctx context.Context, fileID string) *future.Future[*core.FileContent]
}
