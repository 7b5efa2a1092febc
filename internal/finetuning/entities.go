package finetuning

import (
	"context"

	"aisdk/internal/core"
	"aisdk/internal/forward"
	"aisdk/internal/future"
	"aisdk/internal/pagination"
)

// Entities accepts job entities in place of identifiers. Single-job forms
// forward a nil job as an empty identifier; the event list rejects a nil
// job before any request.
type Entities struct {
	ops Operations
}

// NewEntities returns the entity forms of ops.
func NewEntities(ops Operations) *Entities {
	return &Entities{ops: ops}
}

func jobID(j *core.FineTuningJob) string { return j.ID }

// GetJob fetches the current state of job.
func (e *Entities) GetJob(ctx context.Context, job *core.FineTuningJob) (*core.FineTuningJob, error) {
	return e.ops.GetJob(ctx, forward.PassThrough(job, jobID))
}

// GetJobAsync is the asynchronous form of GetJob.
func (e *Entities) GetJobAsync(ctx context.Context, job *core.FineTuningJob) *future.Future[*core.FineTuningJob] {
	return e.ops.GetJobAsync(ctx, forward.PassThrough(job, jobID))
}

// CancelJob stops job.
func (e *Entities) CancelJob(ctx context.Context, job *core.FineTuningJob) (*core.FineTuningJob, error) {
	return e.ops.CancelJob(ctx, forward.PassThrough(job, jobID))
}

// CancelJobAsync is the asynchronous form of CancelJob.
func (e *Entities) CancelJobAsync(ctx context.Context, job *core.FineTuningJob) *future.Future[*core.FineTuningJob] {
	return e.ops.CancelJobAsync(ctx, forward.PassThrough(job, jobID))
}

// GetJobEvents lists the events of job. A nil job is rejected before any
// request is made.
func (e *Entities) GetJobEvents(ctx context.Context, job *core.FineTuningJob) (*pagination.Pager[core.FineTuningJobEvent], error) {
	id, err := forward.EagerValidate("job", job, jobID)
	if err != nil {
		return nil, err
	}
	return e.ops.GetJobEvents(ctx, id)
}

// GetJobEventsAsync is the asynchronous form of GetJobEvents.
func (e *Entities) GetJobEventsAsync(ctx context.Context, job *core.FineTuningJob) (*pagination.AsyncPager[core.FineTuningJobEvent], error) {
	id, err := forward.EagerValidate("job", job, jobID)
	if err != nil {
		return nil, err
	}
	return e.ops.GetJobEventsAsync(ctx, id)
}
