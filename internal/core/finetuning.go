package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// FineTuningJobStatus is the server-side state of a fine-tuning job.
type FineTuningJobStatus string

const (
	JobStatusValidatingFiles FineTuningJobStatus = "validating_files"
	JobStatusQueued          FineTuningJobStatus = "queued"
	JobStatusRunning         FineTuningJobStatus = "running"
	JobStatusSucceeded       FineTuningJobStatus = "succeeded"
	JobStatusFailed          FineTuningJobStatus = "failed"
	JobStatusCancelled       FineTuningJobStatus = "cancelled"
)

// IsTerminal reports whether the job will not change status anymore.
func (s FineTuningJobStatus) IsTerminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed || s == JobStatusCancelled
}

// HyperparameterValue is a hyperparameter as sent by the service: either the
// string "auto" or a number. The textual form is kept verbatim.
type HyperparameterValue string

// HyperparameterAuto lets the service pick the value.
const HyperparameterAuto HyperparameterValue = "auto"

// IsAuto reports whether the value is left to the service.
func (v HyperparameterValue) IsAuto() bool { return v == HyperparameterAuto }

// Float returns the numeric value, if any.
func (v HyperparameterValue) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(v), 64)
	return f, err == nil
}

// MarshalJSON emits a JSON number for numeric values and a string otherwise.
func (v HyperparameterValue) MarshalJSON() ([]byte, error) {
	if v == "" {
		return []byte("null"), nil
	}
	if _, ok := v.Float(); ok && json.Valid([]byte(v)) {
		return []byte(v), nil
	}
	return json.Marshal(string(v))
}

func (v *HyperparameterValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = HyperparameterValue(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("hyperparameter must be a string or number: %w", err)
		}
		*v = HyperparameterValue(n)
	}
	return nil
}

// Hyperparameters configures a fine-tuning job.
type Hyperparameters struct {
	NEpochs                HyperparameterValue `json:"n_epochs,omitempty"`
	BatchSize              HyperparameterValue `json:"batch_size,omitempty"`
	LearningRateMultiplier HyperparameterValue `json:"learning_rate_multiplier,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (h Hyperparameters) MarshalJSON() ([]byte, error) {
	type alias Hyperparameters
	return MarshalWithRawFields(alias(h), h.AdditionalFields)
}

func (h *Hyperparameters) UnmarshalJSON(data []byte) error {
	type alias Hyperparameters
	return UnmarshalWithRawFields(data, (*alias)(h), &h.AdditionalFields)
}

// FineTuningJobError is the job-level failure payload. It declares no fields;
// the whole object is kept in AdditionalFields and read through accessors.
type FineTuningJobError struct {
	AdditionalFields RawFields `json:"-"`
}

func (e FineTuningJobError) MarshalJSON() ([]byte, error) {
	type alias FineTuningJobError
	return MarshalWithRawFields(alias(e), e.AdditionalFields)
}

func (e *FineTuningJobError) UnmarshalJSON(data []byte) error {
	type alias FineTuningJobError
	return UnmarshalWithRawFields(data, (*alias)(e), &e.AdditionalFields)
}

// Code returns the "code" member, if present.
func (e *FineTuningJobError) Code() string { return e.str("code") }

// Message returns the "message" member, if present.
func (e *FineTuningJobError) Message() string { return e.str("message") }

func (e *FineTuningJobError) str(key string) string {
	if e == nil {
		return ""
	}
	raw, ok := e.AdditionalFields.Get(key)
	if !ok {
		return ""
	}
	return gjson.ParseBytes(raw).String()
}

// FineTuningJob is a fine-tuning job.
type FineTuningJob struct {
	Object             string              `json:"object"`
	ID                 string              `json:"id"`
	Model              string              `json:"model"`
	CreatedAt          int64               `json:"created_at"`
	FinishedAt         *int64              `json:"finished_at"`
	FineTunedModel     *string             `json:"fine_tuned_model"`
	OrganizationID     string              `json:"organization_id"`
	ResultFiles        []string            `json:"result_files"`
	Status             FineTuningJobStatus `json:"status"`
	ValidationFile     *string             `json:"validation_file"`
	TrainingFile       string              `json:"training_file"`
	Hyperparameters    *Hyperparameters    `json:"hyperparameters,omitempty"`
	TrainedTokens      *int                `json:"trained_tokens"`
	Error              *FineTuningJobError `json:"error"`
	UserProvidedSuffix *string             `json:"user_provided_suffix"`
	Seed               int                 `json:"seed"`
	EstimatedFinish    *int64              `json:"estimated_finish"`
	Integrations       []json.RawMessage   `json:"integrations"`

	AdditionalFields RawFields `json:"-"`
}

func (j FineTuningJob) MarshalJSON() ([]byte, error) {
	type alias FineTuningJob
	return MarshalWithRawFields(alias(j), j.AdditionalFields)
}

func (j *FineTuningJob) UnmarshalJSON(data []byte) error {
	type alias FineTuningJob
	return UnmarshalWithRawFields(data, (*alias)(j), &j.AdditionalFields)
}

// FineTuningJobOptions carries optional fields of POST /fine_tuning/jobs.
// The training file and base model are set by the client.
type FineTuningJobOptions struct {
	ValidationFile  string            `json:"validation_file,omitempty"`
	Hyperparameters *Hyperparameters  `json:"hyperparameters,omitempty"`
	Suffix          string            `json:"suffix,omitempty"`
	Seed            *int              `json:"seed,omitempty"`
	Integrations    []json.RawMessage `json:"integrations,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (o FineTuningJobOptions) MarshalJSON() ([]byte, error) {
	type alias FineTuningJobOptions
	return MarshalWithRawFields(alias(o), o.AdditionalFields)
}

func (o *FineTuningJobOptions) UnmarshalJSON(data []byte) error {
	type alias FineTuningJobOptions
	return UnmarshalWithRawFields(data, (*alias)(o), &o.AdditionalFields)
}

// FineTuningJobEvent is one entry of a job's event log.
type FineTuningJobEvent struct {
	ID        string          `json:"id"`
	Object    string          `json:"object"`
	CreatedAt int64           `json:"created_at"`
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Type      string          `json:"type,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (e FineTuningJobEvent) MarshalJSON() ([]byte, error) {
	type alias FineTuningJobEvent
	return MarshalWithRawFields(alias(e), e.AdditionalFields)
}

func (e *FineTuningJobEvent) UnmarshalJSON(data []byte) error {
	type alias FineTuningJobEvent
	return UnmarshalWithRawFields(data, (*alias)(e), &e.AdditionalFields)
}
