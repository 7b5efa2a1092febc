// Package assistants is the client for assistants, threads, messages, runs
// and run steps.
//
// Operations is keyed by identifiers and implemented over HTTP by Client.
// Entities offers the same operations taking the entities returned by the
// service and forwards them to an Operations.
package assistants

import (
	"context"

	"aisdk/internal/core"
	"aisdk/internal/future"
	"aisdk/internal/pagination"
	"aisdk/internal/streaming"
)

// Operations is the identifier-based operation set. Every operation has a
// blocking form and an Async twin.
type Operations interface {
	CreateAssistant(ctx context.Context, model string, opts *core.AssistantCreationOptions) (*core.Assistant, error)
	CreateAssistantAsync(ctx context.Context, model string, opts *core.AssistantCreationOptions) *future.Future[*core.Assistant]
	GetAssistant(ctx context.Context, assistantID string) (*core.Assistant, error)
	GetAssistantAsync(ctx context.Context, assistantID string) *future.Future[*core.Assistant]
	GetAssistants(ctx context.Context, order core.ListOrder) (*pagination.Pager[core.Assistant], error)
	GetAssistantsAsync(ctx context.Context, order core.ListOrder) (*pagination.AsyncPager[core.Assistant], error)
	ModifyAssistant(ctx context.Context, assistantID string, opts *core.AssistantModificationOptions) (*core.Assistant, error)
	ModifyAssistantAsync(ctx context.Context, assistantID string, opts *core.AssistantModificationOptions) *future.Future[*core.Assistant]
	DeleteAssistant(ctx context.Context, assistantID string) (*core.DeletionStatus, error)
	DeleteAssistantAsync(ctx context.Context, assistantID string) *future.Future[*core.DeletionStatus]

	CreateThread(ctx context.Context, opts *core.ThreadCreationOptions) (*core.Thread, error)
	CreateThreadAsync(ctx context.Context, opts *core.ThreadCreationOptions) *future.Future[*core.Thread]
	GetThread(ctx context.Context, threadID string) (*core.Thread, error)
	GetThreadAsync(ctx context.Context, threadID string) *future.Future[*core.Thread]
	ModifyThread(ctx context.Context, threadID string, opts *core.ThreadModificationOptions) (*core.Thread, error)
	ModifyThreadAsync(ctx context.Context, threadID string, opts *core.ThreadModificationOptions) *future.Future[*core.Thread]
	DeleteThread(ctx context.Context, threadID string) (*core.DeletionStatus, error)
	DeleteThreadAsync(ctx context.Context, threadID string) *future.Future[*core.DeletionStatus]

	CreateMessage(ctx context.Context, threadID string, content []core.MessageContent, opts *core.MessageCreationOptions) (*core.Message, error)
	CreateMessageAsync(ctx context.Context, threadID string, content []core.MessageContent, opts *core.MessageCreationOptions) *future.Future[*core.Message]
	GetMessages(ctx context.Context, threadID string, order core.ListOrder) (*pagination.Pager[core.Message], error)
	GetMessagesAsync(ctx context.Context, threadID string, order core.ListOrder) (*pagination.AsyncPager[core.Message], error)
	GetMessage(ctx context.Context, threadID, messageID string) (*core.Message, error)
	GetMessageAsync(ctx context.Context, threadID, messageID string) *future.Future[*core.Message]
	ModifyMessage(ctx context.Context, threadID, messageID string, opts *core.MessageModificationOptions) (*core.Message, error)
	ModifyMessageAsync(ctx context.Context, threadID, messageID string, opts *core.MessageModificationOptions) *future.Future[*core.Message]
	DeleteMessage(ctx context.Context, threadID, messageID string) (*core.DeletionStatus, error)
	DeleteMessageAsync(ctx context.Context, threadID, messageID string) *future.Future[*core.DeletionStatus]

	CreateRun(ctx context.Context, threadID, assistantID string, opts *core.RunCreationOptions) (*core.Run, error)
	CreateRunAsync(ctx context.Context, threadID, assistantID string, opts *core.RunCreationOptions) *future.Future[*core.Run]
	CreateRunStreaming(ctx context.Context, threadID, assistantID string, opts *core.RunCreationOptions) (*streaming.Updates, error)
	CreateRunStreamingAsync(ctx context.Context, threadID, assistantID string, opts *core.RunCreationOptions) *streaming.AsyncUpdates
	CreateThreadAndRun(ctx context.Context, assistantID string, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions) (*core.Run, error)
	CreateThreadAndRunAsync(ctx context.Context, assistantID string, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions) *future.Future[*core.Run]
	CreateThreadAndRunStreaming(ctx context.Context, assistantID string, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions) (*streaming.Updates, error)
	CreateThreadAndRunStreamingAsync(ctx context.Context, assistantID string, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions) *streaming.AsyncUpdates
	GetRuns(ctx context.Context, threadID string, order core.ListOrder) (*pagination.Pager[core.Run], error)
	GetRunsAsync(ctx context.Context, threadID string, order core.ListOrder) (*pagination.AsyncPager[core.Run], error)
	GetRun(ctx context.Context, threadID, runID string) (*core.Run, error)
	GetRunAsync(ctx context.Context, threadID, runID string) *future.Future[*core.Run]
	SubmitToolOutputsToRun(ctx context.Context, threadID, runID string, outputs []core.ToolOutput) (*core.Run, error)
	SubmitToolOutputsToRunAsync(ctx context.Context, threadID, runID string, outputs []core.ToolOutput) *future.Future[*core.Run]
	SubmitToolOutputsToRunStreaming(ctx context.Context, threadID, runID string, outputs []core.ToolOutput) (*streaming.Updates, error)
	SubmitToolOutputsToRunStreamingAsync(ctx context.Context, threadID, runID string, outputs []core.ToolOutput) *streaming.AsyncUpdates
	CancelRun(ctx context.Context, threadID, runID string) (*core.Run, error)
	CancelRunAsync(ctx context.Context, threadID, runID string) *future.Future[*core.Run]

	GetRunSteps(ctx context.Context, threadID, runID string, order core.ListOrder) (*pagination.Pager[core.RunStep], error)
	GetRunStepsAsync(ctx context.Context, threadID, runID string, order core.ListOrder) (*pagination.AsyncPager[core.RunStep], error)
	GetRunStep(ctx context.Context, threadID, runID, stepID string) (*core.RunStep, error)
	GetRunStepAsync(ctx context.Context, threadID, runID, stepID string) *future.Future[*core.RunStep]
}
