// Package finetuning is the client for fine-tuning jobs, plus a watcher that
// follows a job to completion.
package finetuning

import (
	"context"

	"aisdk/internal/core"
	"aisdk/internal/future"
	"aisdk/internal/pagination"
)

// Operations is the identifier-based operation set.
type Operations interface {
	CreateJob(ctx context.Context, trainingFileID, model string, opts *core.FineTuningJobOptions) (*core.FineTuningJob, error)
	CreateJobAsync(ctx context.Context, trainingFileID, model string, opts *core.FineTuningJobOptions) *future.Future[*core.FineTuningJob]
	GetJob(ctx context.Context, jobID string) (*core.FineTuningJob, error)
	GetJobAsync(ctx context.Context, jobID string) *future.Future[*core.FineTuningJob]
	CancelJob(ctx context.Context, jobID string) (*core.FineTuningJob, error)
	CancelJobAsync(ctx context.Context, jobID string) *future.Future[*core.FineTuningJob]
	GetJobs(ctx context.Context) (*pagination.Pager[core.FineTuningJob], error)
	GetJobsAsync(ctx context.Context) (*pagination.AsyncPager[core.FineTuningJob], error)
	GetJobEvents(ctx context.Context, jobID string) (*pagination.Pager[core.FineTuningJobEvent], error)
	GetJobEventsAsync(ctx context.Context, jobID string) (*pagination.AsyncPager[core.FineTuningJobEvent], error)
}
