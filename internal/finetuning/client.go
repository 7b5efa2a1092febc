package finetuning

import (
	"context"
	"net/http"

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

func (c *Client) job(ctx context.Context, operation, method, endpoint string, body any) (*core.FineTuningJob, error) {
	var out core.FineTuningJob
	err := c.http.Do(ctx, llmclient.Request{
		Method:    method,
		Endpoint:  endpoint,
		Operation: operation,
		Body:      body,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateJob starts fine-tuning model on an uploaded training file. An
// unknown file id is reported by the service as an invalid request.
func (c *Client) CreateJob(ctx context.Context, trainingFileID, model string, opts *core.FineTuningJobOptions) (*core.FineTuningJob, error) {
	if err := core.RequireID("training_file", trainingFileID); err != nil {
		return nil, err
	}
	if err := core.RequireID("model", model); err != nil {
		return nil, err
	}
	body, err := core.WithFields(opts, map[string]any{
		"training_file": trainingFileID,
		"model":         model,
	})
	if err != nil {
		return nil, err
	}
	return c.job(ctx, "fine_tuning.create", http.MethodPost, "/fine_tuning/jobs", body)
}

func (c *Client) CreateJobAsync(ctx context.Context, trainingFileID, model string, opts *core.FineTuningJobOptions) *future.Future[*core.FineTuningJob] {
	return future.Go(ctx, func(ctx context.Context) (*core.FineTuningJob, error) {
		return c.CreateJob(ctx, trainingFileID, model, opts)
	})
}

func (c *Client) GetJob(ctx context.Context, jobID string) (*core.FineTuningJob, error) {
	if err := core.RequireID("fine_tuning_job_id", jobID); err != nil {
		return nil, err
	}
	return c.job(ctx, "fine_tuning.get", http.MethodGet, llmclient.Path("fine_tuning", "jobs", jobID), nil)
}

func (c *Client) GetJobAsync(ctx context.Context, jobID string) *future.Future[*core.FineTuningJob] {
	return future.Go(ctx, func(ctx context.Context) (*core.FineTuningJob, error) {
		return c.GetJob(ctx, jobID)
	})
}

func (c *Client) CancelJob(ctx context.Context, jobID string) (*core.FineTuningJob, error) {
	if err := core.RequireID("fine_tuning_job_id", jobID); err != nil {
		return nil, err
	}
	return c.job(ctx, "fine_tuning.cancel", http.MethodPost, llmclient.Path("fine_tuning", "jobs", jobID, "cancel"), struct{}{})
}

func (c *Client) CancelJobAsync(ctx context.Context, jobID string) *future.Future[*core.FineTuningJob] {
	return future.Go(ctx, func(ctx context.Context) (*core.FineTuningJob, error) {
		return c.CancelJob(ctx, jobID)
	})
}

func (c *Client) jobsFetcher() pagination.Fetcher[core.FineTuningJob] {
	return pagination.List[core.FineTuningJob](c.http, "fine_tuning.list", "/fine_tuning/jobs", core.ListOrderDefault, nil)
}

// GetJobs lists the organization's jobs, newest first.
func (c *Client) GetJobs(ctx context.Context) (*pagination.Pager[core.FineTuningJob], error) {
	return pagination.New(ctx, c.jobsFetcher()), nil
}

func (c *Client) GetJobsAsync(ctx context.Context) (*pagination.AsyncPager[core.FineTuningJob], error) {
	return pagination.NewAsync(ctx, c.jobsFetcher()), nil
}

func (c *Client) eventsFetcher(jobID string) (pagination.Fetcher[core.FineTuningJobEvent], error) {
	if err := core.RequireID("fine_tuning_job_id", jobID); err != nil {
		return nil, err
	}
	endpoint := llmclient.Path("fine_tuning", "jobs", jobID, "events")
	return pagination.List[core.FineTuningJobEvent](c.http, "fine_tuning.events", endpoint, core.ListOrderDefault, nil), nil
}

// GetJobEvents lists a job's status events, newest first.
func (c *Client) GetJobEvents(ctx context.Context, jobID string) (*pagination.Pager[core.FineTuningJobEvent], error) {
	fetch, err := c.eventsFetcher(jobID)
	if err != nil {
		return nil, err
	}
	return pagination.New(ctx, fetch), nil
}

func (c *Client) GetJobEventsAsync(ctx context.Context, jobID string) (*pagination.AsyncPager[core.FineTuningJobEvent], error) {
	fetch, err := c.eventsFetcher(jobID)
	if err != nil {
		return nil, err
	}
	return pagination.NewAsync(ctx, fetch), nil
}
