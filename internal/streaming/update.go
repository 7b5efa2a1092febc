// Package streaming exposes streamed run events (server-sent events) as
// typed updates.
package streaming

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"aisdk/internal/core"
)

// UpdateKind classifies a streamed event.
type UpdateKind string

const (
	KindThread       UpdateKind = "thread"
	KindRun          UpdateKind = "run"
	KindStep         UpdateKind = "step"
	KindStepDelta    UpdateKind = "run_step_delta"
	KindMessage      UpdateKind = "message"
	KindMessageDelta UpdateKind = "message_delta"
	KindError        UpdateKind = "error"
	KindDone         UpdateKind = "done"
	KindUnknown      UpdateKind = "unknown"
)

// Update is one event of a run stream. Data holds the raw JSON payload
// ("[DONE]" for the final event).
type Update struct {
	Event string
	Data  json.RawMessage
}

// Kind classifies u by its event name, falling back to the payload's
// "object" member for unnamed events.
func (u Update) Kind() UpdateKind {
	name := u.Event
	if name == "" || name == "message" {
		if string(u.Data) == "[DONE]" {
			return KindDone
		}
		name = gjson.GetBytes(u.Data, "object").String()
	}

	switch {
	case name == "done":
		return KindDone
	case name == "error":
		return KindError
	case name == "thread.run.step.delta":
		return KindStepDelta
	case strings.HasPrefix(name, "thread.run.step"):
		return KindStep
	case strings.HasPrefix(name, "thread.run"):
		return KindRun
	case name == "thread.message.delta":
		return KindMessageDelta
	case strings.HasPrefix(name, "thread.message"):
		return KindMessage
	case strings.HasPrefix(name, "thread"):
		return KindThread
	}
	return KindUnknown
}

func decode[T any](u Update, want UpdateKind) (*T, error) {
	if got := u.Kind(); got != want {
		return nil, fmt.Errorf("update %q is a %s event, not %s", u.Event, got, want)
	}
	v := new(T)
	if err := json.Unmarshal(u.Data, v); err != nil {
		return nil, fmt.Errorf("decode %s event: %w", u.Event, err)
	}
	return v, nil
}

// Run decodes a run event.
func (u Update) Run() (*core.Run, error) { return decode[core.Run](u, KindRun) }

// RunStep decodes a run step event.
func (u Update) RunStep() (*core.RunStep, error) { return decode[core.RunStep](u, KindStep) }

// Message decodes a message event.
func (u Update) Message() (*core.Message, error) { return decode[core.Message](u, KindMessage) }

// Thread decodes a thread event.
func (u Update) Thread() (*core.Thread, error) { return decode[core.Thread](u, KindThread) }

// MessageDelta is an incremental change to a message.
type MessageDelta struct {
	ID     string `json:"id"`
	Object string `json:"object"`
	Delta  struct {
		Role    core.MessageRole `json:"role,omitempty"`
		Content []struct {
			Index int                `json:"index"`
			Type  string             `json:"type"`
			Text  *core.TextContent  `json:"text,omitempty"`
			Image *core.ImageFileRef `json:"image_file,omitempty"`
		} `json:"content"`
	} `json:"delta"`
}

// MessageDelta decodes a message delta event.
func (u Update) MessageDelta() (*MessageDelta, error) {
	return decode[MessageDelta](u, KindMessageDelta)
}

// Text returns the text carried by a message delta event, or "".
func (u Update) Text() string {
	if u.Kind() != KindMessageDelta {
		return ""
	}
	var b strings.Builder
	for _, part := range gjson.GetBytes(u.Data, "delta.content").Array() {
		if v := part.Get("text.value"); v.Exists() {
			b.WriteString(v.String())
		}
	}
	return b.String()
}

// Err returns the service error carried by an error event, or nil.
func (u Update) Err() error {
	if u.Kind() != KindError {
		return nil
	}
	msg := gjson.GetBytes(u.Data, "message").String()
	if msg == "" {
		msg = gjson.GetBytes(u.Data, "error.message").String()
	}
	if msg == "" {
		msg = string(u.Data)
	}
	apiErr := core.NewServerError(0, msg, nil)
	apiErr.Code = gjson.GetBytes(u.Data, "code").String()
	return apiErr
}
