package assistants

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aisdk/internal/core"
	"aisdk/internal/future"
	"aisdk/internal/pagination"
)

type call struct {
	name string
	ctx  context.Context
	args []any
}

// recorder implements the operations the tests forward to and records each
// call. Any other operation panics through the nil embedded interface.
type recorder struct {
	Operations
	calls []call
}

func (r *recorder) record(ctx context.Context, name string, args ...any) {
	r.calls = append(r.calls, call{name: name, ctx: ctx, args: args})
}

func emptyPager[T any](ctx context.Context) *pagination.Pager[T] {
	return pagination.New(ctx, func(context.Context, string) (pagination.Page[T], error) {
		return pagination.Page[T]{}, nil
	})
}

func (r *recorder) GetAssistant(ctx context.Context, assistantID string) (*core.Assistant, error) {
	r.record(ctx, "GetAssistant", assistantID)
	if assistantID == "" {
		return nil, core.RequireID("assistant_id", assistantID)
	}
	return &core.Assistant{ID: assistantID}, nil
}

func (r *recorder) GetAssistantAsync(ctx context.Context, assistantID string) *future.Future[*core.Assistant] {
	r.record(ctx, "GetAssistantAsync", assistantID)
	return future.Resolved(&core.Assistant{ID: assistantID}, nil)
}

func (r *recorder) ModifyThread(ctx context.Context, threadID string, opts *core.ThreadModificationOptions) (*core.Thread, error) {
	r.record(ctx, "ModifyThread", threadID, opts)
	return &core.Thread{ID: threadID}, nil
}

func (r *recorder) GetMessages(ctx context.Context, threadID string, order core.ListOrder) (*pagination.Pager[core.Message], error) {
	r.record(ctx, "GetMessages", threadID, order)
	return emptyPager[core.Message](ctx), nil
}

func (r *recorder) GetMessagesAsync(ctx context.Context, threadID string, order core.ListOrder) (*pagination.AsyncPager[core.Message], error) {
	r.record(ctx, "GetMessagesAsync", threadID, order)
	return nil, nil
}

func (r *recorder) DeleteMessage(ctx context.Context, threadID, messageID string) (*core.DeletionStatus, error) {
	r.record(ctx, "DeleteMessage", threadID, messageID)
	return &core.DeletionStatus{ID: messageID, Deleted: true}, nil
}

func (r *recorder) CreateRun(ctx context.Context, threadID, assistantID string, opts *core.RunCreationOptions) (*core.Run, error) {
	r.record(ctx, "CreateRun", threadID, assistantID, opts)
	return &core.Run{ThreadID: threadID, AssistantID: assistantID}, nil
}

func (r *recorder) GetRuns(ctx context.Context, threadID string, order core.ListOrder) (*pagination.Pager[core.Run], error) {
	r.record(ctx, "GetRuns", threadID, order)
	return emptyPager[core.Run](ctx), nil
}

func (r *recorder) GetRunsAsync(ctx context.Context, threadID string, order core.ListOrder) (*pagination.AsyncPager[core.Run], error) {
	r.record(ctx, "GetRunsAsync", threadID, order)
	return nil, nil
}

func (r *recorder) CancelRun(ctx context.Context, threadID, runID string) (*core.Run, error) {
	r.record(ctx, "CancelRun", threadID, runID)
	return &core.Run{ID: runID, ThreadID: threadID, Status: core.RunStatusCancelling}, nil
}

func (r *recorder) SubmitToolOutputsToRunAsync(ctx context.Context, threadID, runID string, outputs []core.ToolOutput) *future.Future[*core.Run] {
	r.record(ctx, "SubmitToolOutputsToRunAsync", threadID, runID, outputs)
	return future.Resolved(&core.Run{ID: runID, ThreadID: threadID}, nil)
}

func (r *recorder) GetRunSteps(ctx context.Context, threadID, runID string, order core.ListOrder) (*pagination.Pager[core.RunStep], error) {
	r.record(ctx, "GetRunSteps", threadID, runID, order)
	return emptyPager[core.RunStep](ctx), nil
}

func (r *recorder) GetRunStepsAsync(ctx context.Context, threadID, runID string, order core.ListOrder) (*pagination.AsyncPager[core.RunStep], error) {
	r.record(ctx, "GetRunStepsAsync", threadID, runID, order)
	return nil, nil
}

func (r *recorder) GetRunStep(ctx context.Context, threadID, runID, stepID string) (*core.RunStep, error) {
	r.record(ctx, "GetRunStep", threadID, runID, stepID)
	return &core.RunStep{ID: stepID, RunID: runID, ThreadID: threadID}, nil
}

type ctxKey struct{}

func TestEntities_RunStepsForwardsThreadThenRunOnce(t *testing.T) {
	rec := &recorder{}
	entities := NewEntities(rec)
	ctx := context.WithValue(context.Background(), ctxKey{}, "caller")
	run := &core.Run{ID: "r_1", ThreadID: "t_1", Status: core.RunStatusCompleted}

	pager, err := entities.GetRunSteps(ctx, run, core.ListOrderDescending)
	require.NoError(t, err)
	require.NotNil(t, pager)

	require.Len(t, rec.calls, 1)
	got := rec.calls[0]
	assert.Equal(t, "GetRunSteps", got.name)
	assert.Equal(t, []any{"t_1", "r_1", core.ListOrderDescending}, got.args)
	assert.Equal(t, "caller", got.ctx.Value(ctxKey{}), "context must be forwarded verbatim")
}

func TestEntities_DeleteMessageForwardsThreadFirst(t *testing.T) {
	rec := &recorder{}
	status, err := NewEntities(rec).DeleteMessage(context.Background(), &core.Message{ID: "msg_1", ThreadID: "t_1"})
	require.NoError(t, err)
	assert.True(t, status.Deleted)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, []any{"t_1", "msg_1"}, rec.calls[0].args)
}

func TestEntities_CompositeKeys(t *testing.T) {
	rec := &recorder{}
	entities := NewEntities(rec)
	ctx := context.Background()

	_, err := entities.CancelRun(ctx, &core.Run{ID: "r_1", ThreadID: "t_1"})
	require.NoError(t, err)
	_, err = entities.GetRunStep(ctx, &core.RunStep{ID: "s_1", RunID: "r_1", ThreadID: "t_1"})
	require.NoError(t, err)
	_, err = entities.CreateRun(ctx, &core.Thread{ID: "t_1"}, &core.Assistant{ID: "asst_1"}, nil)
	require.NoError(t, err)

	require.Len(t, rec.calls, 3)
	assert.Equal(t, []any{"t_1", "r_1"}, rec.calls[0].args)
	assert.Equal(t, []any{"t_1", "r_1", "s_1"}, rec.calls[1].args)
	assert.Equal(t, []any{"t_1", "asst_1", (*core.RunCreationOptions)(nil)}, rec.calls[2].args)
}

func TestEntities_ListFormsValidateEagerly(t *testing.T) {
	rec := &recorder{}
	entities := NewEntities(rec)
	ctx := context.Background()

	checks := map[string]func() error{
		"GetMessages": func() error {
			_, err := entities.GetMessages(ctx, nil, core.ListOrderDefault)
			return err
		},
		"GetMessagesAsync": func() error {
			_, err := entities.GetMessagesAsync(ctx, nil, core.ListOrderDefault)
			return err
		},
		"GetRuns": func() error {
			_, err := entities.GetRuns(ctx, nil, core.ListOrderAscending)
			return err
		},
		"GetRunsAsync": func() error {
			_, err := entities.GetRunsAsync(ctx, nil, core.ListOrderAscending)
			return err
		},
		"GetRunSteps": func() error {
			_, err := entities.GetRunSteps(ctx, nil, core.ListOrderDefault)
			return err
		},
		"GetRunStepsAsync": func() error {
			_, err := entities.GetRunStepsAsync(ctx, nil, core.ListOrderDefault)
			return err
		},
	}
	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, check(), core.ErrInvalidArgument)
		})
	}
	assert.Empty(t, rec.calls, "the delegate must never be called for a nil parent")
}

func TestEntities_SingleFormsPassNilThrough(t *testing.T) {
	rec := &recorder{}
	entities := NewEntities(rec)
	ctx := context.Background()

	_, err := entities.GetAssistant(ctx, nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument, "the delegate rejects the empty id")

	_, err = entities.DeleteMessage(ctx, nil)
	require.NoError(t, err)
	_, err = entities.ModifyThread(ctx, nil, nil)
	require.NoError(t, err)
	_, err = entities.SubmitToolOutputsToRunAsync(ctx, nil, nil).Await(ctx)
	require.NoError(t, err)

	require.Len(t, rec.calls, 4)
	assert.Equal(t, []any{""}, rec.calls[0].args)
	assert.Equal(t, []any{"", ""}, rec.calls[1].args)
	assert.Equal(t, "", rec.calls[2].args[0])
	assert.Equal(t, []any{"", "", []core.ToolOutput(nil)}, rec.calls[3].args)
}

func TestEntities_AsyncFormCallsAsyncTwin(t *testing.T) {
	rec := &recorder{}
	ctx := context.Background()

	a, err := NewEntities(rec).GetAssistantAsync(ctx, &core.Assistant{ID: "asst_1"}).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "asst_1", a.ID)

	require.Len(t, rec.calls, 1)
	assert.Equal(t, "GetAssistantAsync", rec.calls[0].name)
}

func TestEntities_DoesNotMutateEntity(t *testing.T) {
	rec := &recorder{}
	run := &core.Run{ID: "r_1", ThreadID: "t_1", Status: core.RunStatusRequiresAction}
	before := *run

	updated, err := NewEntities(rec).CancelRun(context.Background(), run)
	require.NoError(t, err)

	assert.Equal(t, before, *run)
	assert.NotSame(t, run, updated)
	assert.Equal(t, core.RunStatusCancelling, updated.Status)
}

func TestEntities_GetRunStepsNilRunNamesParam(t *testing.T) {
	entities := NewEntities(&recorder{})

	_, err := entities.GetRunStepsAsync(context.Background(), nil, core.ListOrderDefault)
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "run", apiErr.Param)
}
