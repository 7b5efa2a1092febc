package finetuning

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aisdk/internal/core"
	"aisdk/internal/llmclient"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := llmclient.DefaultConfig(server.URL, "sk-test")
	cfg.MaxRetries = 0
	return New(llmclient.New(cfg, llmclient.WithHTTPClient(server.Client()))), &hits
}

const jobJSON = `{"object":"fine_tuning.job","id":"ftjob-1","model":"gpt-4o-mini","created_at":1700000000,
"finished_at":null,"fine_tuned_model":null,"organization_id":"org-1","result_files":[],"status":"queued",
"validation_file":null,"training_file":"file-train","hyperparameters":{"n_epochs":"auto","batch_size":"auto","learning_rate_multiplier":1.8},
"trained_tokens":null,"error":null,"seed":42,"integrations":[]}`

func TestClient_CreateJob(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/fine_tuning/jobs", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"training_file":"file-train","model":"gpt-4o-mini","suffix":"demo","hyperparameters":{"n_epochs":3}}`, string(raw))
		_, _ = w.Write([]byte(jobJSON))
	})

	job, err := client.CreateJob(context.Background(), "file-train", "gpt-4o-mini", &core.FineTuningJobOptions{
		Suffix:          "demo",
		Hyperparameters: &core.Hyperparameters{NEpochs: "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ftjob-1", job.ID)
	assert.Equal(t, core.JobStatusQueued, job.Status)
	assert.True(t, job.Hyperparameters.NEpochs.IsAuto())
	lr, ok := job.Hyperparameters.LearningRateMultiplier.Float()
	require.True(t, ok)
	assert.InDelta(t, 1.8, lr, 1e-9)
}

func TestClient_CreateJobWithoutOptions(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"training_file":"file-train","model":"gpt-4o-mini"}`, string(raw))
		_, _ = w.Write([]byte(jobJSON))
	})

	_, err := client.CreateJob(context.Background(), "file-train", "gpt-4o-mini", nil)
	require.NoError(t, err)
}

func TestClient_CreateJobInvalidTrainingFile(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid training_file: file-nope","type":"invalid_request_error","param":"training_file","code":null}}`))
	})

	_, err := client.CreateJob(context.Background(), "file-nope", "gpt-4o-mini", nil)
	var apiErr *core.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, core.ErrorTypeInvalidRequest, apiErr.Type)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "training_file", apiErr.Param)
}

func TestClient_ValidatesIDsLocally(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	_, err := client.CreateJob(ctx, "", "gpt-4o-mini", nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = client.CreateJob(ctx, "file-train", "", nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = client.GetJob(ctx, "")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = client.CancelJob(ctx, "")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = client.GetJobEvents(ctx, "")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = client.GetJobAsync(ctx, "").Await(ctx)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	assert.Zero(t, hits.Load())
}

func TestClient_CancelJob(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/fine_tuning/jobs/ftjob-1/cancel", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"ftjob-1","object":"fine_tuning.job","status":"cancelled"}`))
	})

	ctx := context.Background()
	job, err := client.CancelJobAsync(ctx, "ftjob-1").Await(ctx)
	require.NoError(t, err)
	assert.True(t, job.Status.IsTerminal())
}

func TestClient_GetJobEventsPaginates(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fine_tuning/jobs/ftjob-1/events", r.URL.Path)
		switch r.URL.Query().Get("after") {
		case "":
			_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"ev_2","object":"fine_tuning.job.event","level":"info","message":"Step 2"}],"has_more":true,"last_id":"ev_2"}`))
		case "ev_2":
			_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"ev_1","object":"fine_tuning.job.event","level":"info","message":"Job started"}],"has_more":false}`))
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("after"))
		}
	})

	pager, err := client.GetJobEvents(context.Background(), "ftjob-1")
	require.NoError(t, err)
	assert.Zero(t, hits.Load(), "listing is lazy")

	events, err := pager.Collect()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Step 2", events[0].Message)
	assert.Equal(t, "Job started", events[1].Message)
	assert.EqualValues(t, 2, hits.Load())
}

func TestClient_GetJobsAsync(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fine_tuning/jobs", r.URL.Path)
		_, _ = w.Write([]byte(`{"object":"list","data":[` + jobJSON + `],"has_more":false}`))
	})

	pager, err := client.GetJobsAsync(context.Background())
	require.NoError(t, err)
	jobs, err := pager.Collect()
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "file-train", jobs[0].TrainingFile)
}

func TestClient_GetJobsPagesWithoutLastID(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("after") {
		case "":
			_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"ftjob-3","status":"running"},{"id":"ftjob-2","status":"succeeded"}],"has_more":true}`))
		case "ftjob-2":
			_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"ftjob-1","status":"failed"}],"has_more":false}`))
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("after"))
		}
	})

	pager, err := client.GetJobs(context.Background())
	require.NoError(t, err)
	jobs, err := pager.Collect()
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "ftjob-1", jobs[2].ID)
	assert.EqualValues(t, 2, hits.Load())
}
