package core

import "encoding/json"

// Tool describes a tool enabled on an assistant or run.
type Tool struct {
	Type     string              `json:"type"`
	Function *FunctionDefinition `json:"function,omitempty"`
}

// FunctionDefinition describes a callable function tool.
type FunctionDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	Strict      *bool           `json:"strict,omitempty"`
}

// ToolResources carries per-tool resources for assistants and threads.
type ToolResources struct {
	CodeInterpreter *CodeInterpreterResources `json:"code_interpreter,omitempty"`
	FileSearch      *FileSearchResources      `json:"file_search,omitempty"`
}

// CodeInterpreterResources lists files available to the code interpreter.
type CodeInterpreterResources struct {
	FileIDs []string `json:"file_ids,omitempty"`
}

// FileSearchResources lists vector stores available to file search.
type FileSearchResources struct {
	VectorStoreIDs []string `json:"vector_store_ids,omitempty"`
}

// Assistant is a configured assistant.
type Assistant struct {
	ID             string            `json:"id"`
	Object         string            `json:"object"`
	CreatedAt      int64             `json:"created_at"`
	Name           string            `json:"name,omitempty"`
	Description    string            `json:"description,omitempty"`
	Model          string            `json:"model"`
	Instructions   string            `json:"instructions,omitempty"`
	Tools          []Tool            `json:"tools,omitempty"`
	ToolResources  *ToolResources    `json:"tool_resources,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Temperature    *float64          `json:"temperature,omitempty"`
	TopP           *float64          `json:"top_p,omitempty"`
	ResponseFormat json.RawMessage   `json:"response_format,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (a Assistant) MarshalJSON() ([]byte, error) {
	type alias Assistant
	return MarshalWithRawFields(alias(a), a.AdditionalFields)
}

func (a *Assistant) UnmarshalJSON(data []byte) error {
	type alias Assistant
	return UnmarshalWithRawFields(data, (*alias)(a), &a.AdditionalFields)
}

// AssistantCreationOptions is the body of POST /assistants.
type AssistantCreationOptions struct {
	Model          string            `json:"model"`
	Name           string            `json:"name,omitempty"`
	Description    string            `json:"description,omitempty"`
	Instructions   string            `json:"instructions,omitempty"`
	Tools          []Tool            `json:"tools,omitempty"`
	ToolResources  *ToolResources    `json:"tool_resources,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Temperature    *float64          `json:"temperature,omitempty"`
	TopP           *float64          `json:"top_p,omitempty"`
	ResponseFormat json.RawMessage   `json:"response_format,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (o AssistantCreationOptions) MarshalJSON() ([]byte, error) {
	type alias AssistantCreationOptions
	return MarshalWithRawFields(alias(o), o.AdditionalFields)
}

func (o *AssistantCreationOptions) UnmarshalJSON(data []byte) error {
	type alias AssistantCreationOptions
	return UnmarshalWithRawFields(data, (*alias)(o), &o.AdditionalFields)
}

// AssistantModificationOptions is the body of POST /assistants/{id}.
// Nil fields are left unchanged by the service.
type AssistantModificationOptions struct {
	Model         *string           `json:"model,omitempty"`
	Name          *string           `json:"name,omitempty"`
	Description   *string           `json:"description,omitempty"`
	Instructions  *string           `json:"instructions,omitempty"`
	Tools         []Tool            `json:"tools,omitempty"`
	ToolResources *ToolResources    `json:"tool_resources,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Temperature   *float64          `json:"temperature,omitempty"`
	TopP          *float64          `json:"top_p,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (o AssistantModificationOptions) MarshalJSON() ([]byte, error) {
	type alias AssistantModificationOptions
	return MarshalWithRawFields(alias(o), o.AdditionalFields)
}

func (o *AssistantModificationOptions) UnmarshalJSON(data []byte) error {
	type alias AssistantModificationOptions
	return UnmarshalWithRawFields(data, (*alias)(o), &o.AdditionalFields)
}

// Thread is a conversation thread.
type Thread struct {
	ID            string            `json:"id"`
	Object        string            `json:"object"`
	CreatedAt     int64             `json:"created_at"`
	ToolResources *ToolResources    `json:"tool_resources,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (t Thread) MarshalJSON() ([]byte, error) {
	type alias Thread
	return MarshalWithRawFields(alias(t), t.AdditionalFields)
}

func (t *Thread) UnmarshalJSON(data []byte) error {
	type alias Thread
	return UnmarshalWithRawFields(data, (*alias)(t), &t.AdditionalFields)
}

// ThreadCreationOptions is the body of POST /threads.
type ThreadCreationOptions struct {
	InitialMessages []InitialMessage  `json:"messages,omitempty"`
	ToolResources   *ToolResources    `json:"tool_resources,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (o ThreadCreationOptions) MarshalJSON() ([]byte, error) {
	type alias ThreadCreationOptions
	return MarshalWithRawFields(alias(o), o.AdditionalFields)
}

func (o *ThreadCreationOptions) UnmarshalJSON(data []byte) error {
	type alias ThreadCreationOptions
	return UnmarshalWithRawFields(data, (*alias)(o), &o.AdditionalFields)
}

// InitialMessage seeds a new thread.
type InitialMessage struct {
	Role        MessageRole         `json:"role"`
	Content     []MessageContent    `json:"content"`
	Attachments []MessageAttachment `json:"attachments,omitempty"`
	Metadata    map[string]string   `json:"metadata,omitempty"`
}

// ThreadModificationOptions is the body of POST /threads/{id}.
type ThreadModificationOptions struct {
	ToolResources *ToolResources    `json:"tool_resources,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (o ThreadModificationOptions) MarshalJSON() ([]byte, error) {
	type alias ThreadModificationOptions
	return MarshalWithRawFields(alias(o), o.AdditionalFields)
}

func (o *ThreadModificationOptions) UnmarshalJSON(data []byte) error {
	type alias ThreadModificationOptions
	return UnmarshalWithRawFields(data, (*alias)(o), &o.AdditionalFields)
}

// MessageRole is the author of a thread message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// MessageContent is one content part of a message.
type MessageContent struct {
	Type      string        `json:"type"`
	Text      *TextContent  `json:"text,omitempty"`
	ImageFile *ImageFileRef `json:"image_file,omitempty"`
	ImageURL  *ImageURLRef  `json:"image_url,omitempty"`
	Refusal   string        `json:"refusal,omitempty"`
}

// TextContent is the text payload of a content part. On creation the
// service accepts the bare string; responses carry value and annotations.
type TextContent struct {
	Value       string          `json:"value"`
	Annotations json.RawMessage `json:"annotations,omitempty"`
}

// MarshalJSON writes the bare string form unless annotations are present.
func (t TextContent) MarshalJSON() ([]byte, error) {
	if len(t.Annotations) == 0 {
		return json.Marshal(t.Value)
	}
	type alias TextContent
	return json.Marshal(alias(t))
}

// UnmarshalJSON accepts both the bare string and the object form.
func (t *TextContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = TextContent{Value: s}
		return nil
	}
	type alias TextContent
	return json.Unmarshal(data, (*alias)(t))
}

// ImageFileRef references an uploaded image file.
type ImageFileRef struct {
	FileID string `json:"file_id"`
	Detail string `json:"detail,omitempty"`
}

// ImageURLRef references an external image.
type ImageURLRef struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

// TextPart is a shorthand for a text content part.
func TextPart(text string) MessageContent {
	return MessageContent{Type: "text", Text: &TextContent{Value: text}}
}

// MessageAttachment attaches a file to a message for the given tools.
type MessageAttachment struct {
	FileID string `json:"file_id"`
	Tools  []Tool `json:"tools,omitempty"`
}

// Message is a message within a thread.
type Message struct {
	ID                string              `json:"id"`
	Object            string              `json:"object"`
	CreatedAt         int64               `json:"created_at"`
	ThreadID          string              `json:"thread_id"`
	Status            string              `json:"status,omitempty"`
	IncompleteDetails json.RawMessage     `json:"incomplete_details,omitempty"`
	CompletedAt       *int64              `json:"completed_at,omitempty"`
	IncompleteAt      *int64              `json:"incomplete_at,omitempty"`
	Role              MessageRole         `json:"role"`
	Content           []MessageContent    `json:"content"`
	AssistantID       string              `json:"assistant_id,omitempty"`
	RunID             string              `json:"run_id,omitempty"`
	Attachments       []MessageAttachment `json:"attachments,omitempty"`
	Metadata          map[string]string   `json:"metadata,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (m Message) MarshalJSON() ([]byte, error) {
	type alias Message
	return MarshalWithRawFields(alias(m), m.AdditionalFields)
}

func (m *Message) UnmarshalJSON(data []byte) error {
	type alias Message
	return UnmarshalWithRawFields(data, (*alias)(m), &m.AdditionalFields)
}

// MessageCreationOptions carries optional fields of POST /threads/{id}/messages.
// Role defaults to user.
type MessageCreationOptions struct {
	Role        MessageRole         `json:"role,omitempty"`
	Attachments []MessageAttachment `json:"attachments,omitempty"`
	Metadata    map[string]string   `json:"metadata,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (o MessageCreationOptions) MarshalJSON() ([]byte, error) {
	type alias MessageCreationOptions
	return MarshalWithRawFields(alias(o), o.AdditionalFields)
}

func (o *MessageCreationOptions) UnmarshalJSON(data []byte) error {
	type alias MessageCreationOptions
	return UnmarshalWithRawFields(data, (*alias)(o), &o.AdditionalFields)
}

// MessageModificationOptions is the body of POST /threads/{tid}/messages/{mid}.
type MessageModificationOptions struct {
	Metadata map[string]string `json:"metadata,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (o MessageModificationOptions) MarshalJSON() ([]byte, error) {
	type alias MessageModificationOptions
	return MarshalWithRawFields(alias(o), o.AdditionalFields)
}

func (o *MessageModificationOptions) UnmarshalJSON(data []byte) error {
	type alias MessageModificationOptions
	return UnmarshalWithRawFields(data, (*alias)(o), &o.AdditionalFields)
}
