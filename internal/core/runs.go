package core

import "encoding/json"

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCancelling     RunStatus = "cancelling"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusIncomplete     RunStatus = "incomplete"
	RunStatusExpired        RunStatus = "expired"
)

// IsTerminal reports whether the run can no longer change state.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusCancelled, RunStatusFailed, RunStatusCompleted, RunStatusIncomplete, RunStatusExpired:
		return true
	}
	return false
}

// RunError describes why a run or run step failed.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RunUsage reports token usage of a run or run step.
type RunUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// RequiredAction is set when a run waits for tool outputs.
type RequiredAction struct {
	Type              string             `json:"type"`
	SubmitToolOutputs *SubmitToolOutputs `json:"submit_tool_outputs,omitempty"`
}

// SubmitToolOutputs lists the tool calls awaiting output.
type SubmitToolOutputs struct {
	ToolCalls []ToolCall `json:"tool_calls"`
}

// ToolCall is a function call requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the function name and JSON-encoded arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolOutput answers one ToolCall.
type ToolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

// Run is an execution of an assistant on a thread.
type Run struct {
	ID                  string            `json:"id"`
	Object              string            `json:"object"`
	CreatedAt           int64             `json:"created_at"`
	ThreadID            string            `json:"thread_id"`
	AssistantID         string            `json:"assistant_id"`
	Status              RunStatus         `json:"status"`
	RequiredAction      *RequiredAction   `json:"required_action,omitempty"`
	LastError           *RunError         `json:"last_error,omitempty"`
	ExpiresAt           *int64            `json:"expires_at,omitempty"`
	StartedAt           *int64            `json:"started_at,omitempty"`
	CancelledAt         *int64            `json:"cancelled_at,omitempty"`
	FailedAt            *int64            `json:"failed_at,omitempty"`
	CompletedAt         *int64            `json:"completed_at,omitempty"`
	IncompleteDetails   json.RawMessage   `json:"incomplete_details,omitempty"`
	Model               string            `json:"model"`
	Instructions        string            `json:"instructions,omitempty"`
	Tools               []Tool            `json:"tools,omitempty"`
	Metadata            map[string]string `json:"metadata,omitempty"`
	Usage               *RunUsage         `json:"usage,omitempty"`
	Temperature         *float64          `json:"temperature,omitempty"`
	TopP                *float64          `json:"top_p,omitempty"`
	MaxPromptTokens     *int              `json:"max_prompt_tokens,omitempty"`
	MaxCompletionTokens *int              `json:"max_completion_tokens,omitempty"`
	ParallelToolCalls   *bool             `json:"parallel_tool_calls,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (r Run) MarshalJSON() ([]byte, error) {
	type alias Run
	return MarshalWithRawFields(alias(r), r.AdditionalFields)
}

func (r *Run) UnmarshalJSON(data []byte) error {
	type alias Run
	return UnmarshalWithRawFields(data, (*alias)(r), &r.AdditionalFields)
}

// RunCreationOptions carries optional fields of POST /threads/{id}/runs.
// The assistant id and the stream flag are set by the client.
type RunCreationOptions struct {
	Model                  string            `json:"model,omitempty"`
	Instructions           string            `json:"instructions,omitempty"`
	AdditionalInstructions string            `json:"additional_instructions,omitempty"`
	AdditionalMessages     []InitialMessage  `json:"additional_messages,omitempty"`
	Tools                  []Tool            `json:"tools,omitempty"`
	Metadata               map[string]string `json:"metadata,omitempty"`
	Temperature            *float64          `json:"temperature,omitempty"`
	TopP                   *float64          `json:"top_p,omitempty"`
	MaxPromptTokens        *int              `json:"max_prompt_tokens,omitempty"`
	MaxCompletionTokens    *int              `json:"max_completion_tokens,omitempty"`
	ParallelToolCalls      *bool             `json:"parallel_tool_calls,omitempty"`
	ToolChoice             json.RawMessage   `json:"tool_choice,omitempty"`
	ResponseFormat         json.RawMessage   `json:"response_format,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (o RunCreationOptions) MarshalJSON() ([]byte, error) {
	type alias RunCreationOptions
	return MarshalWithRawFields(alias(o), o.AdditionalFields)
}

func (o *RunCreationOptions) UnmarshalJSON(data []byte) error {
	type alias RunCreationOptions
	return UnmarshalWithRawFields(data, (*alias)(o), &o.AdditionalFields)
}

// RunStep is one step (message creation or tool calls) of a run.
type RunStep struct {
	ID          string            `json:"id"`
	Object      string            `json:"object"`
	CreatedAt   int64             `json:"created_at"`
	RunID       string            `json:"run_id"`
	AssistantID string            `json:"assistant_id"`
	ThreadID    string            `json:"thread_id"`
	Type        string            `json:"type"`
	Status      string            `json:"status"`
	StepDetails json.RawMessage   `json:"step_details,omitempty"`
	LastError   *RunError         `json:"last_error,omitempty"`
	ExpiredAt   *int64            `json:"expired_at,omitempty"`
	CancelledAt *int64            `json:"cancelled_at,omitempty"`
	FailedAt    *int64            `json:"failed_at,omitempty"`
	CompletedAt *int64            `json:"completed_at,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Usage       *RunUsage         `json:"usage,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (s RunStep) MarshalJSON() ([]byte, error) {
	type alias RunStep
	return MarshalWithRawFields(alias(s), s.AdditionalFields)
}

func (s *RunStep) UnmarshalJSON(data []byte) error {
	type alias RunStep
	return UnmarshalWithRawFields(data, (*alias)(s), &s.AdditionalFields)
}
