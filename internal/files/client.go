package files

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

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

func (c *Client) UploadFile(ctx context.Context, opts *core.FileUploadOptions) (*core.FileInfo, error) {
	body, contentType, err := encodeUpload(opts)
	if err != nil {
		return nil, err
	}
	var out core.FileInfo
	err = c.http.Do(ctx, llmclient.Request{
		Method:    http.MethodPost,
		Endpoint:  "/files",
		Operation: "files.upload",
		RawBody:   body,
		Headers:   map[string]string{"Content-Type": contentType},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UploadFileAsync(ctx context.Context, opts *core.FileUploadOptions) *future.Future[*core.FileInfo] {
	return future.Go(ctx, func(ctx context.Context) (*core.FileInfo, error) {
		return c.UploadFile(ctx, opts)
	})
}

// UploadFilePath uploads the file at path under its base name.
func (c *Client) UploadFilePath(ctx context.Context, path string, purpose core.FileUploadPurpose) (*core.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewInvalidArgumentError("path", err.Error())
	}
	defer f.Close()

	return c.UploadFile(ctx, &core.FileUploadOptions{
		File:     f,
		Filename: filepath.Base(path),
		Purpose:  purpose,
	})
}

// UploadFilePaths uploads several files with at most limit uploads in
// flight. Results are in the order of paths. The first failure cancels the
// uploads still pending.
func (c *Client) UploadFilePaths(ctx context.Context, paths []string, purpose core.FileUploadPurpose, limit int) ([]*core.FileInfo, error) {
	out := make([]*core.FileInfo, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		g.Go(func() error {
			info, err := c.UploadFilePath(gctx, path, purpose)
			if err != nil {
				return err
			}
			out[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetFile(ctx context.Context, fileID string) (*core.FileInfo, error) {
	if err := core.RequireID("file_id", fileID); err != nil {
		return nil, err
	}
	var out core.FileInfo
	err := c.http.Do(ctx, llmclient.Request{
		Method:    http.MethodGet,
		Endpoint:  llmclient.Path("files", fileID),
		Operation: "files.get",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetFileAsync(ctx context.Context, fileID string) *future.Future[*core.FileInfo] {
	return future.Go(ctx, func(ctx context.Context) (*core.FileInfo, error) {
		return c.GetFile(ctx, fileID)
	})
}

func (c *Client) filesFetcher(purpose core.FileUploadPurpose, order core.ListOrder) (pagination.Fetcher[core.FileInfo], error) {
	if err := pagination.ValidateOrder(order); err != nil {
		return nil, err
	}
	query := url.Values{}
	if purpose != "" {
		if !purpose.Valid() {
			return nil, core.NewInvalidArgumentError("purpose", "unsupported purpose "+string(purpose))
		}
		query.Set("purpose", string(purpose))
	}
	return pagination.List[core.FileInfo](c.http, "files.list", "/files", order, query), nil
}

// GetFiles lists uploaded files, optionally only those with purpose.
func (c *Client) GetFiles(ctx context.Context, purpose core.FileUploadPurpose, order core.ListOrder) (*pagination.Pager[core.FileInfo], error) {
	fetch, err := c.filesFetcher(purpose, order)
	if err != nil {
		return nil, err
	}
	return pagination.New(ctx, fetch), nil
}

func (c *Client) GetFilesAsync(ctx context.Context, purpose core.FileUploadPurpose, order core.ListOrder) (*pagination.AsyncPager[core.FileInfo], error) {
	fetch, err := c.filesFetcher(purpose, order)
	if err != nil {
		return nil, err
	}
	return pagination.NewAsync(ctx, fetch), nil
}

func (c *Client) DeleteFile(ctx context.Context, fileID string) (*core.DeletionStatus, error) {
	if err := core.RequireID("file_id", fileID); err != nil {
		return nil, err
	}
	var out core.DeletionStatus
	err := c.http.Do(ctx, llmclient.Request{
		Method:    http.MethodDelete,
		Endpoint:  llmclient.Path("files", fileID),
		Operation: "files.delete",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteFileAsync(ctx context.Context, fileID string) *future.Future[*core.DeletionStatus] {
	return future.Go(ctx, func(ctx context.Context) (*core.DeletionStatus, error) {
		return c.DeleteFile(ctx, fileID)
	})
}

// DownloadFile returns the content of an uploaded file. File content never
// changes, so responses go through the response cache when one is set.
func (c *Client) DownloadFile(ctx context.Context, fileID string) (*core.FileContent, error) {
	if err := core.RequireID("file_id", fileID); err != nil {
		return nil, err
	}
	resp, err := c.http.DoRaw(ctx, llmclient.Request{
		Method:    http.MethodGet,
		Endpoint:  llmclient.Path("files", fileID, "content"),
		Operation: "files.content",
		Cacheable: true,
	})
	if err != nil {
		return nil, err
	}
	contentType := ""
	if resp.Header != nil {
		contentType = resp.Header.Get("Content-Type")
	}
	if contentType == "" {
		contentType = http.DetectContentType(resp.Body)
	}
	return &core.FileContent{ID: fileID, ContentType: contentType, Data: resp.Body}, nil
}

func (c *Client) DownloadFileAsync(ctx context.Context, fileID string) *future.Future[*core.FileContent] {
	return future.Go(ctx, func(ctx context.Context) (*core.FileContent, error) {
		return c.DownloadFile(ctx, fileID)
	})
}
