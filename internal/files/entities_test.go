package files

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aisdk/internal/core"
	"aisdk/internal/future"
)

type recorder struct {
	Operations
	ids []string
}

func (r *recorder) GetFile(_ context.Context, fileID string) (*core.FileInfo, error) {
	r.ids = append(r.ids, fileID)
	if err := core.RequireID("file_id", fileID); err != nil {
		return nil, err
	}
	return &core.FileInfo{ID: fileID}, nil
}

func (r *recorder) DeleteFileAsync(_ context.Context, fileID string) *future.Future[*core.DeletionStatus] {
	r.ids = append(r.ids, fileID)
	return future.Resolved(&core.DeletionStatus{ID: fileID, Deleted: true}, nil)
}

func (r *recorder) DownloadFile(_ context.Context, fileID string) (*core.FileContent, error) {
	r.ids = append(r.ids, fileID)
	return &core.FileContent{ID: fileID, Data: []byte("data")}, nil
}

func TestEntities_ForwardsFileID(t *testing.T) {
	rec := &recorder{}
	e := NewEntities(rec)
	ctx := context.Background()
	file := &core.FileInfo{ID: "file-1", Filename: "a.txt"}

	got, err := e.GetFile(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, "file-1", got.ID)

	status, err := e.DeleteFileAsync(ctx, file).Await(ctx)
	require.NoError(t, err)
	assert.True(t, status.Deleted)

	content, err := e.DownloadFile(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, "data", string(content.Data))

	assert.Equal(t, []string{"file-1", "file-1", "file-1"}, rec.ids)
}

func TestEntities_NilFilePassesThrough(t *testing.T) {
	rec := &recorder{}
	e := NewEntities(rec)

	_, err := e.GetFile(context.Background(), nil)
	require.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Equal(t, []string{""}, rec.ids)
}
