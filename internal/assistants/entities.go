package assistants

import (
	"context"

	"aisdk/internal/core"
	"aisdk/internal/forward"
	"aisdk/internal/future"
	"aisdk/internal/pagination"
	"aisdk/internal/streaming"
)

// Entities accepts entities in place of identifiers and forwards each call
// to the identifier form on ops.
//
// Single-result and action forms pass a nil entity through as an empty
// identifier, which ops rejects. List forms reject a nil parent themselves
// before ops is called.
type Entities struct {
	ops Operations
}

// NewEntities returns the entity forms of ops.
func NewEntities(ops Operations) *Entities {
	return &Entities{ops: ops}
}

func assistantID(a *core.Assistant) string { return a.ID }
func threadID(t *core.Thread) string       { return t.ID }
func messageID(m *core.Message) string     { return m.ID }
func messageThread(m *core.Message) string { return m.ThreadID }
func runID(r *core.Run) string             { return r.ID }
func runThread(r *core.Run) string         { return r.ThreadID }
func stepID(s *core.RunStep) string        { return s.ID }
func stepRun(s *core.RunStep) string       { return s.RunID }
func stepThread(s *core.RunStep) string    { return s.ThreadID }

// Assistants

// GetAssistant fetches assistant by its ID.
func (e *Entities) GetAssistant(ctx context.Context, assistant *core.Assistant) (*core.Assistant, error) {
	return e.ops.GetAssistant(ctx, forward.PassThrough(assistant, assistantID))
}

// GetAssistantAsync is the asynchronous form of GetAssistant.
func (e *Entities) GetAssistantAsync(ctx context.Context, assistant *core.Assistant) *future.Future[*core.Assistant] {
	return e.ops.GetAssistantAsync(ctx, forward.PassThrough(assistant, assistantID))
}

// ModifyAssistant applies opts to assistant and returns the updated assistant.
func (e *Entities) ModifyAssistant(ctx context.Context, assistant *core.Assistant, opts *core.AssistantModificationOptions) (*core.Assistant, error) {
	return e.ops.ModifyAssistant(ctx, forward.PassThrough(assistant, assistantID), opts)
}

// ModifyAssistantAsync is the asynchronous form of ModifyAssistant.
func (e *Entities) ModifyAssistantAsync(ctx context.Context, assistant *core.Assistant, opts *core.AssistantModificationOptions) *future.Future[*core.Assistant] {
	return e.ops.ModifyAssistantAsync(ctx, forward.PassThrough(assistant, assistantID), opts)
}

// DeleteAssistant deletes assistant.
func (e *Entities) DeleteAssistant(ctx context.Context, assistant *core.Assistant) (*core.DeletionStatus, error) {
	return e.ops.DeleteAssistant(ctx, forward.PassThrough(assistant, assistantID))
}

// DeleteAssistantAsync is the asynchronous form of DeleteAssistant.
func (e *Entities) DeleteAssistantAsync(ctx context.Context, assistant *core.Assistant) *future.Future[*core.DeletionStatus] {
	return e.ops.DeleteAssistantAsync(ctx, forward.PassThrough(assistant, assistantID))
}

// Threads

// GetThread fetches thread by its ID.
func (e *Entities) GetThread(ctx context.Context, thread *core.Thread) (*core.Thread, error) {
	return e.ops.GetThread(ctx, forward.PassThrough(thread, threadID))
}

// GetThreadAsync is the asynchronous form of GetThread.
func (e *Entities) GetThreadAsync(ctx context.Context, thread *core.Thread) *future.Future[*core.Thread] {
	return e.ops.GetThreadAsync(ctx, forward.PassThrough(thread, threadID))
}

// ModifyThread applies opts to thread.
func (e *Entities) ModifyThread(ctx context.Context, thread *core.Thread, opts *core.ThreadModificationOptions) (*core.Thread, error) {
	return e.ops.ModifyThread(ctx, forward.PassThrough(thread, threadID), opts)
}

// ModifyThreadAsync is the asynchronous form of ModifyThread.
func (e *Entities) ModifyThreadAsync(ctx context.Context, thread *core.Thread, opts *core.ThreadModificationOptions) *future.Future[*core.Thread] {
	return e.ops.ModifyThreadAsync(ctx, forward.PassThrough(thread, threadID), opts)
}

// DeleteThread deletes thread and its messages.
func (e *Entities) DeleteThread(ctx context.Context, thread *core.Thread) (*core.DeletionStatus, error) {
	return e.ops.DeleteThread(ctx, forward.PassThrough(thread, threadID))
}

// DeleteThreadAsync is the asynchronous form of DeleteThread.
func (e *Entities) DeleteThreadAsync(ctx context.Context, thread *core.Thread) *future.Future[*core.DeletionStatus] {
	return e.ops.DeleteThreadAsync(ctx, forward.PassThrough(thread, threadID))
}

// Messages

// CreateMessage appends a message with content to thread.
func (e *Entities) CreateMessage(ctx context.Context, thread *core.Thread, content []core.MessageContent, opts *core.MessageCreationOptions) (*core.Message, error) {
	return e.ops.CreateMessage(ctx, forward.PassThrough(thread, threadID), content, opts)
}

// CreateMessageAsync is the asynchronous form of CreateMessage.
func (e *Entities) CreateMessageAsync(ctx context.Context, thread *core.Thread, content []core.MessageContent, opts *core.MessageCreationOptions) *future.Future[*core.Message] {
	return e.ops.CreateMessageAsync(ctx, forward.PassThrough(thread, threadID), content, opts)
}

// GetMessages lists the messages of thread. A nil thread is rejected
// before any request is made.
func (e *Entities) GetMessages(ctx context.Context, thread *core.Thread, order core.ListOrder) (*pagination.Pager[core.Message], error) {
	id, err := forward.EagerValidate("thread", thread, threadID)
	if err != nil {
		return nil, err
	}
	return e.ops.GetMessages(ctx, id, order)
}

// GetMessagesAsync is the asynchronous form of GetMessages.
func (e *Entities) GetMessagesAsync(ctx context.Context, thread *core.Thread, order core.ListOrder) (*pagination.AsyncPager[core.Message], error) {
	id, err := forward.EagerValidate("thread", thread, threadID)
	if err != nil {
		return nil, err
	}
	return e.ops.GetMessagesAsync(ctx, id, order)
}

// GetMessage fetches message, keyed by its thread and ID.
func (e *Entities) GetMessage(ctx context.Context, message *core.Message) (*core.Message, error) {
	return e.ops.GetMessage(ctx, forward.PassThrough(message, messageThread), forward.PassThrough(message, messageID))
}

// GetMessageAsync is the asynchronous form of GetMessage.
func (e *Entities) GetMessageAsync(ctx context.Context, message *core.Message) *future.Future[*core.Message] {
	return e.ops.GetMessageAsync(ctx, forward.PassThrough(message, messageThread), forward.PassThrough(message, messageID))
}

// ModifyMessage applies opts to message.
func (e *Entities) ModifyMessage(ctx context.Context, message *core.Message, opts *core.MessageModificationOptions) (*core.Message, error) {
	return e.ops.ModifyMessage(ctx, forward.PassThrough(message, messageThread), forward.PassThrough(message, messageID), opts)
}

// ModifyMessageAsync is the asynchronous form of ModifyMessage.
func (e *Entities) ModifyMessageAsync(ctx context.Context, message *core.Message, opts *core.MessageModificationOptions) *future.Future[*core.Message] {
	return e.ops.ModifyMessageAsync(ctx, forward.PassThrough(message, messageThread), forward.PassThrough(message, messageID), opts)
}

// DeleteMessage deletes message from its thread.
func (e *Entities) DeleteMessage(ctx context.Context, message *core.Message) (*core.DeletionStatus, error) {
	return e.ops.DeleteMessage(ctx, forward.PassThrough(message, messageThread), forward.PassThrough(message, messageID))
}

// DeleteMessageAsync is the asynchronous form of DeleteMessage.
func (e *Entities) DeleteMessageAsync(ctx context.Context, message *core.Message) *future.Future[*core.DeletionStatus] {
	return e.ops.DeleteMessageAsync(ctx, forward.PassThrough(message, messageThread), forward.PassThrough(message, messageID))
}

// Runs

// CreateRun starts assistant on thread.
func (e *Entities) CreateRun(ctx context.Context, thread *core.Thread, assistant *core.Assistant, opts *core.RunCreationOptions) (*core.Run, error) {
	return e.ops.CreateRun(ctx, forward.PassThrough(thread, threadID), forward.PassThrough(assistant, assistantID), opts)
}

// CreateRunAsync is the asynchronous form of CreateRun.
func (e *Entities) CreateRunAsync(ctx context.Context, thread *core.Thread, assistant *core.Assistant, opts *core.RunCreationOptions) *future.Future[*core.Run] {
	return e.ops.CreateRunAsync(ctx, forward.PassThrough(thread, threadID), forward.PassThrough(assistant, assistantID), opts)
}

// CreateRunStreaming starts assistant on thread and streams the run events.
func (e *Entities) CreateRunStreaming(ctx context.Context, thread *core.Thread, assistant *core.Assistant, opts *core.RunCreationOptions) (*streaming.Updates, error) {
	return e.ops.CreateRunStreaming(ctx, forward.PassThrough(thread, threadID), forward.PassThrough(assistant, assistantID), opts)
}

// CreateRunStreamingAsync is the asynchronous form of CreateRunStreaming.
func (e *Entities) CreateRunStreamingAsync(ctx context.Context, thread *core.Thread, assistant *core.Assistant, opts *core.RunCreationOptions) *streaming.AsyncUpdates {
	return e.ops.CreateRunStreamingAsync(ctx, forward.PassThrough(thread, threadID), forward.PassThrough(assistant, assistantID), opts)
}

// CreateThreadAndRun creates a thread from threadOpts and starts assistant on it.
func (e *Entities) CreateThreadAndRun(ctx context.Context, assistant *core.Assistant, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions) (*core.Run, error) {
	return e.ops.CreateThreadAndRun(ctx, forward.PassThrough(assistant, assistantID), threadOpts, runOpts)
}

// CreateThreadAndRunAsync is the asynchronous form of CreateThreadAndRun.
func (e *Entities) CreateThreadAndRunAsync(ctx context.Context, assistant *core.Assistant, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions) *future.Future[*core.Run] {
	return e.ops.CreateThreadAndRunAsync(ctx, forward.PassThrough(assistant, assistantID), threadOpts, runOpts)
}

// CreateThreadAndRunStreaming is CreateThreadAndRun with streamed run events.
func (e *Entities) CreateThreadAndRunStreaming(ctx context.Context, assistant *core.Assistant, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions) (*streaming.Updates, error) {
	return e.ops.CreateThreadAndRunStreaming(ctx, forward.PassThrough(assistant, assistantID), threadOpts, runOpts)
}

// CreateThreadAndRunStreamingAsync is the asynchronous form of CreateThreadAndRunStreaming.
func (e *Entities) CreateThreadAndRunStreamingAsync(ctx context.Context, assistant *core.Assistant, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions) *streaming.AsyncUpdates {
	return e.ops.CreateThreadAndRunStreamingAsync(ctx, forward.PassThrough(assistant, assistantID), threadOpts, runOpts)
}

// GetRuns lists the runs of thread. A nil thread is rejected before any
// request is made.
func (e *Entities) GetRuns(ctx context.Context, thread *core.Thread, order core.ListOrder) (*pagination.Pager[core.Run], error) {
	id, err := forward.EagerValidate("thread", thread, threadID)
	if err != nil {
		return nil, err
	}
	return e.ops.GetRuns(ctx, id, order)
}

// GetRunsAsync is the asynchronous form of GetRuns.
func (e *Entities) GetRunsAsync(ctx context.Context, thread *core.Thread, order core.ListOrder) (*pagination.AsyncPager[core.Run], error) {
	id, err := forward.EagerValidate("thread", thread, threadID)
	if err != nil {
		return nil, err
	}
	return e.ops.GetRunsAsync(ctx, id, order)
}

// GetRun fetches the current state of run.
func (e *Entities) GetRun(ctx context.Context, run *core.Run) (*core.Run, error) {
	return e.ops.GetRun(ctx, forward.PassThrough(run, runThread), forward.PassThrough(run, runID))
}

// GetRunAsync is the asynchronous form of GetRun.
func (e *Entities) GetRunAsync(ctx context.Context, run *core.Run) *future.Future[*core.Run] {
	return e.ops.GetRunAsync(ctx, forward.PassThrough(run, runThread), forward.PassThrough(run, runID))
}

// SubmitToolOutputsToRun answers the tool calls run is waiting on.
func (e *Entities) SubmitToolOutputsToRun(ctx context.Context, run *core.Run, outputs []core.ToolOutput) (*core.Run, error) {
	return e.ops.SubmitToolOutputsToRun(ctx, forward.PassThrough(run, runThread), forward.PassThrough(run, runID), outputs)
}

// SubmitToolOutputsToRunAsync is the asynchronous form of SubmitToolOutputsToRun.
func (e *Entities) SubmitToolOutputsToRunAsync(ctx context.Context, run *core.Run, outputs []core.ToolOutput) *future.Future[*core.Run] {
	return e.ops.SubmitToolOutputsToRunAsync(ctx, forward.PassThrough(run, runThread), forward.PassThrough(run, runID), outputs)
}

// SubmitToolOutputsToRunStreaming answers the tool calls of run and streams
// the events that follow.
func (e *Entities) SubmitToolOutputsToRunStreaming(ctx context.Context, run *core.Run, outputs []core.ToolOutput) (*streaming.Updates, error) {
	return e.ops.SubmitToolOutputsToRunStreaming(ctx, forward.PassThrough(run, runThread), forward.PassThrough(run, runID), outputs)
}

// SubmitToolOutputsToRunStreamingAsync is the asynchronous form of SubmitToolOutputsToRunStreaming.
func (e *Entities) SubmitToolOutputsToRunStreamingAsync(ctx context.Context, run *core.Run, outputs []core.ToolOutput) *streaming.AsyncUpdates {
	return e.ops.SubmitToolOutputsToRunStreamingAsync(ctx, forward.PassThrough(run, runThread), forward.PassThrough(run, runID), outputs)
}

// CancelRun asks the service to stop run.
func (e *Entities) CancelRun(ctx context.Context, run *core.Run) (*core.Run, error) {
	return e.ops.CancelRun(ctx, forward.PassThrough(run, runThread), forward.PassThrough(run, runID))
}

// CancelRunAsync is the asynchronous form of CancelRun.
func (e *Entities) CancelRunAsync(ctx context.Context, run *core.Run) *future.Future[*core.Run] {
	return e.ops.CancelRunAsync(ctx, forward.PassThrough(run, runThread), forward.PassThrough(run, runID))
}

// Run steps

// GetRunSteps lists the steps of run. A nil run is rejected before any
// request is made.
func (e *Entities) GetRunSteps(ctx context.Context, run *core.Run, order core.ListOrder) (*pagination.Pager[core.RunStep], error) {
	thread, id, err := forward.EagerValidatePair("run", run, runThread, runID)
	if err != nil {
		return nil, err
	}
	return e.ops.GetRunSteps(ctx, thread, id, order)
}

// GetRunStepsAsync is the asynchronous form of GetRunSteps.
func (e *Entities) GetRunStepsAsync(ctx context.Context, run *core.Run, order core.ListOrder) (*pagination.AsyncPager[core.RunStep], error) {
	thread, id, err := forward.EagerValidatePair("run", run, runThread, runID)
	if err != nil {
		return nil, err
	}
	return e.ops.GetRunStepsAsync(ctx, thread, id, order)
}

// GetRunStep fetches step, keyed by its thread, run and ID.
func (e *Entities) GetRunStep(ctx context.Context, step *core.RunStep) (*core.RunStep, error) {
	return e.ops.GetRunStep(ctx, forward.PassThrough(step, stepThread), forward.PassThrough(step, stepRun), forward.PassThrough(step, stepID))
}

// GetRunStepAsync is the asynchronous form of GetRunStep.
func (e *Entities) GetRunStepAsync(ctx context.Context, step *core.RunStep) *future.Future[*core.RunStep] {
	return e.ops.GetRunStepAsync(ctx, forward.PassThrough(step, stepThread), forward.PassThrough(step, stepRun), forward.PassThrough(step, stepID))
}
