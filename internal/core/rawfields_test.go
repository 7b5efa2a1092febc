package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobJSON = `{
	"object": "fine_tuning.job",
	"id": "ftjob-abc123",
	"model": "gpt-3.5-turbo",
	"created_at": 1721764800,
	"finished_at": null,
	"fine_tuned_model": null,
	"organization_id": "org-123",
	"result_files": [],
	"status": "queued",
	"validation_file": null,
	"training_file": "file-abc123",
	"hyperparameters": {"n_epochs": "auto", "batch_size": 4, "learning_rate_multiplier": 1.8, "beta": 0.1},
	"trained_tokens": null,
	"error": {"code": "invalid_training_file", "message": "bad line 3", "param": "training_file"},
	"user_provided_suffix": null,
	"seed": 42,
	"estimated_finish": null,
	"integrations": [{"type": "wandb", "wandb": {"project": "p"}}],
	"method": {"type": "supervised"},
	"x_unknown": [1, 2, 3]
}`

func TestFineTuningJob_UnknownFieldsRoundTrip(t *testing.T) {
	var job FineTuningJob
	require.NoError(t, json.Unmarshal([]byte(jobJSON), &job))

	assert.Equal(t, "ftjob-abc123", job.ID)
	assert.Equal(t, JobStatusQueued, job.Status)
	assert.Equal(t, "file-abc123", job.TrainingFile)
	assert.Equal(t, 42, job.Seed)
	require.Len(t, job.AdditionalFields, 2)
	assert.JSONEq(t, `{"type":"supervised"}`, string(job.AdditionalFields["method"]))
	assert.JSONEq(t, `[1,2,3]`, string(job.AdditionalFields["x_unknown"]))

	first, err := json.Marshal(job)
	require.NoError(t, err)

	var again FineTuningJob
	require.NoError(t, json.Unmarshal(first, &again))
	second, err := json.Marshal(again)
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
	assert.JSONEq(t, `{"type":"supervised"}`, string(again.AdditionalFields["method"]))
	assert.JSONEq(t, `[1,2,3]`, string(again.AdditionalFields["x_unknown"]))
}

func TestFineTuningJob_Hyperparameters(t *testing.T) {
	var job FineTuningJob
	require.NoError(t, json.Unmarshal([]byte(jobJSON), &job))
	require.NotNil(t, job.Hyperparameters)

	hp := job.Hyperparameters
	assert.True(t, hp.NEpochs.IsAuto())
	assert.Equal(t, HyperparameterValue("4"), hp.BatchSize)
	lr, ok := hp.LearningRateMultiplier.Float()
	assert.True(t, ok)
	assert.InDelta(t, 1.8, lr, 1e-9)
	assert.JSONEq(t, `0.1`, string(hp.AdditionalFields["beta"]))

	out, err := json.Marshal(hp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n_epochs":"auto","batch_size":4,"learning_rate_multiplier":1.8,"beta":0.1}`, string(out))
}

func TestFineTuningJob_OpaqueError(t *testing.T) {
	var job FineTuningJob
	require.NoError(t, json.Unmarshal([]byte(jobJSON), &job))
	require.NotNil(t, job.Error)

	assert.Equal(t, "invalid_training_file", job.Error.Code())
	assert.Equal(t, "bad line 3", job.Error.Message())
	assert.Len(t, job.Error.AdditionalFields, 3)

	out, err := json.Marshal(job.Error)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":"invalid_training_file","message":"bad line 3","param":"training_file"}`, string(out))

	var nilErr *FineTuningJobError
	assert.Empty(t, nilErr.Code())
}

func TestMarshalWithRawFields_DeclaredFieldsWin(t *testing.T) {
	a := Assistant{ID: "asst_1", Object: "assistant", Model: "gpt-4o"}
	require.NoError(t, a.AdditionalFields.Set("id", "asst_shadow"))
	require.NoError(t, a.AdditionalFields.Set("reasoning_effort", "low"))

	out, err := json.Marshal(a)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "asst_1", decoded["id"])
	assert.Equal(t, "low", decoded["reasoning_effort"])
}

func TestUnknownFieldsSurviveForEveryDTO(t *testing.T) {
	tests := []struct {
		name string
		body string
		dto  any
	}{
		{"assistant", `{"id":"asst_1","model":"gpt-4o","extra":true}`, &Assistant{}},
		{"thread", `{"id":"thread_1","extra":true}`, &Thread{}},
		{"message", `{"id":"msg_1","thread_id":"thread_1","role":"user","content":[],"extra":true}`, &Message{}},
		{"run", `{"id":"run_1","thread_id":"thread_1","status":"queued","extra":true}`, &Run{}},
		{"run step", `{"id":"step_1","run_id":"run_1","thread_id":"thread_1","extra":true}`, &RunStep{}},
		{"vector store", `{"id":"vs_1","file_counts":{"total":1},"extra":true}`, &VectorStore{}},
		{"file association", `{"id":"file_1","vector_store_id":"vs_1","extra":true}`, &VectorStoreFileAssociation{}},
		{"batch job", `{"id":"vsfb_1","vector_store_id":"vs_1","extra":true}`, &VectorStoreBatchFileJob{}},
		{"file", `{"id":"file_1","bytes":12,"filename":"a.jsonl","purpose":"fine-tune","extra":true}`, &FileInfo{}},
		{"job event", `{"id":"ftevent_1","level":"info","message":"hi","extra":true}`, &FineTuningJobEvent{}},
		{"chat completion", `{"id":"chatcmpl_1","choices":[],"extra":true}`, &ChatCompletion{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, json.Unmarshal([]byte(tt.body), tt.dto))
			out, err := json.Marshal(tt.dto)
			require.NoError(t, err)

			var decoded map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(out, &decoded))
			assert.JSONEq(t, `true`, string(decoded["extra"]))
		})
	}
}

func TestTextContent_BothForms(t *testing.T) {
	var bare MessageContent
	require.NoError(t, json.Unmarshal([]byte(`{"type":"text","text":"hello"}`), &bare))
	require.NotNil(t, bare.Text)
	assert.Equal(t, "hello", bare.Text.Value)

	var full MessageContent
	require.NoError(t, json.Unmarshal([]byte(`{"type":"text","text":{"value":"hi","annotations":[]}}`), &full))
	assert.Equal(t, "hi", full.Text.Value)

	out, err := json.Marshal(TextPart("plain"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"text","text":"plain"}`, string(out))
}

func TestWithFields(t *testing.T) {
	opts := RunCreationOptions{Instructions: "be brief"}
	require.NoError(t, opts.AdditionalFields.Set("truncation_strategy", map[string]any{"type": "auto"}))

	body, err := WithFields(opts, map[string]any{"assistant_id": "asst_1", "stream": true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"instructions":"be brief","truncation_strategy":{"type":"auto"},"assistant_id":"asst_1","stream":true}`, string(body))

	body, err = WithFields(nil, map[string]any{"file_id": "file_1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"file_id":"file_1"}`, string(body))

	_, err = WithFields([]string{"not", "an", "object"}, nil)
	assert.Error(t, err)
}
