package assistants

import (
	"context"
	"net/http"

	"aisdk/internal/core"
	"aisdk/internal/future"
	"aisdk/internal/llmclient"
	"aisdk/internal/pagination"
	"aisdk/internal/streaming"
)

func runBody(assistantID string, opts *core.RunCreationOptions, stream bool) (any, error) {
	if err := core.RequireID("assistant_id", assistantID); err != nil {
		return nil, err
	}
	fields := map[string]any{"assistant_id": assistantID}
	if stream {
		fields["stream"] = true
	}
	var body any
	if opts != nil {
		body = opts
	}
	payload, err := core.WithFields(body, fields)
	if err != nil {
		return nil, core.NewInvalidArgumentError("opts", err.Error())
	}
	return payload, nil
}

func threadAndRunBody(assistantID string, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions, stream bool) (any, error) {
	if err := core.RequireID("assistant_id", assistantID); err != nil {
		return nil, err
	}
	fields := map[string]any{"assistant_id": assistantID, "thread": orEmpty(threadOpts)}
	if stream {
		fields["stream"] = true
	}
	var body any
	if runOpts != nil {
		body = runOpts
	}
	payload, err := core.WithFields(body, fields)
	if err != nil {
		return nil, core.NewInvalidArgumentError("opts", err.Error())
	}
	return payload, nil
}

func runPath(threadID, runID string, rest ...string) (string, error) {
	if err := core.RequireID("thread_id", threadID); err != nil {
		return "", err
	}
	if err := core.RequireID("run_id", runID); err != nil {
		return "", err
	}
	return llmclient.Path(append([]string{"threads", threadID, "runs", runID}, rest...)...), nil
}

func (c *Client) CreateRun(ctx context.Context, threadID, assistantID string, opts *core.RunCreationOptions) (*core.Run, error) {
	if err := core.RequireID("thread_id", threadID); err != nil {
		return nil, err
	}
	body, err := runBody(assistantID, opts, false)
	if err != nil {
		return nil, err
	}
	var out core.Run
	if err := c.send(ctx, "runs.create", http.MethodPost, llmclient.Path("threads", threadID, "runs"), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRunAsync(ctx context.Context, threadID, assistantID string, opts *core.RunCreationOptions) *future.Future[*core.Run] {
	return future.Go(ctx, func(ctx context.Context) (*core.Run, error) {
		return c.CreateRun(ctx, threadID, assistantID, opts)
	})
}

func (c *Client) createRunStream(threadID, assistantID string, opts *core.RunCreationOptions) streaming.Opener {
	return c.stream("runs.create", llmclient.Path("threads", threadID, "runs"), func() (any, error) {
		if err := core.RequireID("thread_id", threadID); err != nil {
			return nil, err
		}
		return runBody(assistantID, opts, true)
	})
}

func (c *Client) CreateRunStreaming(ctx context.Context, threadID, assistantID string, opts *core.RunCreationOptions) (*streaming.Updates, error) {
	return streaming.Open(ctx, c.createRunStream(threadID, assistantID, opts))
}

func (c *Client) CreateRunStreamingAsync(ctx context.Context, threadID, assistantID string, opts *core.RunCreationOptions) *streaming.AsyncUpdates {
	return streaming.NewAsync(ctx, c.createRunStream(threadID, assistantID, opts))
}

func (c *Client) CreateThreadAndRun(ctx context.Context, assistantID string, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions) (*core.Run, error) {
	body, err := threadAndRunBody(assistantID, threadOpts, runOpts, false)
	if err != nil {
		return nil, err
	}
	var out core.Run
	if err := c.send(ctx, "runs.create_thread_and_run", http.MethodPost, "/threads/runs", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateThreadAndRunAsync(ctx context.Context, assistantID string, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions) *future.Future[*core.Run] {
	return future.Go(ctx, func(ctx context.Context) (*core.Run, error) {
		return c.CreateThreadAndRun(ctx, assistantID, threadOpts, runOpts)
	})
}

func (c *Client) threadAndRunStream(assistantID string, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions) streaming.Opener {
	return c.stream("runs.create_thread_and_run", "/threads/runs", func() (any, error) {
		return threadAndRunBody(assistantID, threadOpts, runOpts, true)
	})
}

func (c *Client) CreateThreadAndRunStreaming(ctx context.Context, assistantID string, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions) (*streaming.Updates, error) {
	return streaming.Open(ctx, c.threadAndRunStream(assistantID, threadOpts, runOpts))
}

func (c *Client) CreateThreadAndRunStreamingAsync(ctx context.Context, assistantID string, threadOpts *core.ThreadCreationOptions, runOpts *core.RunCreationOptions) *streaming.AsyncUpdates {
	return streaming.NewAsync(ctx, c.threadAndRunStream(assistantID, threadOpts, runOpts))
}

func (c *Client) runsFetcher(threadID string, order core.ListOrder) (pagination.Fetcher[core.Run], error) {
	if err := core.RequireID("thread_id", threadID); err != nil {
		return nil, err
	}
	if err := pagination.ValidateOrder(order); err != nil {
		return nil, err
	}
	return pagination.List[core.Run](c.http, "runs.list", llmclient.Path("threads", threadID, "runs"), order, nil), nil
}

func (c *Client) GetRuns(ctx context.Context, threadID string, order core.ListOrder) (*pagination.Pager[core.Run], error) {
	fetch, err := c.runsFetcher(threadID, order)
	if err != nil {
		return nil, err
	}
	return pagination.New(ctx, fetch), nil
}

func (c *Client) GetRunsAsync(ctx context.Context, threadID string, order core.ListOrder) (*pagination.AsyncPager[core.Run], error) {
	fetch, err := c.runsFetcher(threadID, order)
	if err != nil {
		return nil, err
	}
	return pagination.NewAsync(ctx, fetch), nil
}

func (c *Client) GetRun(ctx context.Context, threadID, runID string) (*core.Run, error) {
	endpoint, err := runPath(threadID, runID)
	if err != nil {
		return nil, err
	}
	var out core.Run
	if err := c.send(ctx, "runs.get", http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRunAsync(ctx context.Context, threadID, runID string) *future.Future[*core.Run] {
	return future.Go(ctx, func(ctx context.Context) (*core.Run, error) {
		return c.GetRun(ctx, threadID, runID)
	})
}

func toolOutputsBody(outputs []core.ToolOutput, stream bool) (any, error) {
	if len(outputs) == 0 {
		return nil, core.NewInvalidArgumentError("tool_outputs", "at least one tool output is required")
	}
	body := map[string]any{"tool_outputs": outputs}
	if stream {
		body["stream"] = true
	}
	return body, nil
}

func (c *Client) SubmitToolOutputsToRun(ctx context.Context, threadID, runID string, outputs []core.ToolOutput) (*core.Run, error) {
	endpoint, err := runPath(threadID, runID, "submit_tool_outputs")
	if err != nil {
		return nil, err
	}
	body, err := toolOutputsBody(outputs, false)
	if err != nil {
		return nil, err
	}
	var out core.Run
	if err := c.send(ctx, "runs.submit_tool_outputs", http.MethodPost, endpoint, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitToolOutputsToRunAsync(ctx context.Context, threadID, runID string, outputs []core.ToolOutput) *future.Future[*core.Run] {
	return future.Go(ctx, func(ctx context.Context) (*core.Run, error) {
		return c.SubmitToolOutputsToRun(ctx, threadID, runID, outputs)
	})
}

func (c *Client) toolOutputsStream(threadID, runID string, outputs []core.ToolOutput) streaming.Opener {
	endpoint, pathErr := runPath(threadID, runID, "submit_tool_outputs")
	return c.stream("runs.submit_tool_outputs", endpoint, func() (any, error) {
		if pathErr != nil {
			return nil, pathErr
		}
		return toolOutputsBody(outputs, true)
	})
}

func (c *Client) SubmitToolOutputsToRunStreaming(ctx context.Context, threadID, runID string, outputs []core.ToolOutput) (*streaming.Updates, error) {
	return streaming.Open(ctx, c.toolOutputsStream(threadID, runID, outputs))
}

func (c *Client) SubmitToolOutputsToRunStreamingAsync(ctx context.Context, threadID, runID string, outputs []core.ToolOutput) *streaming.AsyncUpdates {
	return streaming.NewAsync(ctx, c.toolOutputsStream(threadID, runID, outputs))
}

func (c *Client) CancelRun(ctx context.Context, threadID, runID string) (*core.Run, error) {
	endpoint, err := runPath(threadID, runID, "cancel")
	if err != nil {
		return nil, err
	}
	var out core.Run
	if err := c.send(ctx, "runs.cancel", http.MethodPost, endpoint, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelRunAsync(ctx context.Context, threadID, runID string) *future.Future[*core.Run] {
	return future.Go(ctx, func(ctx context.Context) (*core.Run, error) {
		return c.CancelRun(ctx, threadID, runID)
	})
}

// Run steps

func (c *Client) runStepsFetcher(threadID, runID string, order core.ListOrder) (pagination.Fetcher[core.RunStep], error) {
	endpoint, err := runPath(threadID, runID, "steps")
	if err != nil {
		return nil, err
	}
	if err := pagination.ValidateOrder(order); err != nil {
		return nil, err
	}
	return pagination.List[core.RunStep](c.http, "run_steps.list", endpoint, order, nil), nil
}

func (c *Client) GetRunSteps(ctx context.Context, threadID, runID string, order core.ListOrder) (*pagination.Pager[core.RunStep], error) {
	fetch, err := c.runStepsFetcher(threadID, runID, order)
	if err != nil {
		return nil, err
	}
	return pagination.New(ctx, fetch), nil
}

func (c *Client) GetRunStepsAsync(ctx context.Context, threadID, runID string, order core.ListOrder) (*pagination.AsyncPager[core.RunStep], error) {
	fetch, err := c.runStepsFetcher(threadID, runID, order)
	if err != nil {
		return nil, err
	}
	return pagination.NewAsync(ctx, fetch), nil
}

func (c *Client) GetRunStep(ctx context.Context, threadID, runID, stepID string) (*core.RunStep, error) {
	if err := core.RequireID("step_id", stepID); err != nil {
		return nil, err
	}
	endpoint, err := runPath(threadID, runID, "steps", stepID)
	if err != nil {
		return nil, err
	}
	var out core.RunStep
	if err := c.send(ctx, "run_steps.get", http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRunStepAsync(ctx context.Context, threadID, runID, stepID string) *future.Future[*core.RunStep] {
	return future.Go(ctx, func(ctx context.Context) (*core.RunStep, error) {
		return c.GetRunStep(ctx, threadID, runID, stepID)
	})
}
