package core

import (
	"encoding/json"
	"maps"
	"slices"
)

// ChatRole is the author of a chat message.
type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
	ChatRoleTool      ChatRole = "tool"
)

// ChatMessage is one message of a chat conversation.
type ChatMessage struct {
	Role       ChatRole   `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// SystemMessage, UserMessage and AssistantMessage build plain text messages.
func SystemMessage(text string) ChatMessage { return ChatMessage{Role: ChatRoleSystem, Content: text} }
func UserMessage(text string) ChatMessage   { return ChatMessage{Role: ChatRoleUser, Content: text} }
func AssistantMessage(text string) ChatMessage {
	return ChatMessage{Role: ChatRoleAssistant, Content: text}
}

// ChatResponseFormat constrains the model output format.
type ChatResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
}

// ChatStreamOptions configures streamed completions.
type ChatStreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// ChatCompletionOptions holds the tunable fields of a chat completion request.
// Messages, model and the remaining request members are set through the
// With* methods and Bind, and are only visible in the serialized body.
type ChatCompletionOptions struct {
	FrequencyPenalty *float64             `json:"frequency_penalty,omitempty"`
	MaxTokens        *int                 `json:"max_tokens,omitempty"`
	PresencePenalty  *float64             `json:"presence_penalty,omitempty"`
	ResponseFormat   *ChatResponseFormat  `json:"response_format,omitempty"`
	Seed             *int64               `json:"seed,omitempty"`
	Temperature      *float64             `json:"temperature,omitempty"`
	TopP             *float64             `json:"top_p,omitempty"`
	User             string               `json:"user,omitempty"`
	Functions        []FunctionDefinition `json:"functions,omitempty"`

	AdditionalFields RawFields `json:"-"`

	messages      []ChatMessage
	model         string
	logitBias     map[int]int
	n             *int
	stop          []string
	stream        bool
	streamOptions *ChatStreamOptions
	tools         []Tool
	toolChoice    json.RawMessage
}

// WithLogitBias returns a copy of o with the given token biases.
func (o ChatCompletionOptions) WithLogitBias(bias map[int]int) ChatCompletionOptions {
	o.logitBias = maps.Clone(bias)
	return o
}

// WithN returns a copy of o requesting n choices.
func (o ChatCompletionOptions) WithN(n int) ChatCompletionOptions {
	o.n = &n
	return o
}

// WithStop returns a copy of o with the given stop sequences.
func (o ChatCompletionOptions) WithStop(stop ...string) ChatCompletionOptions {
	o.stop = slices.Clone(stop)
	return o
}

// WithTools returns a copy of o offering the given tools.
func (o ChatCompletionOptions) WithTools(tools ...Tool) ChatCompletionOptions {
	o.tools = slices.Clone(tools)
	return o
}

// WithToolChoice returns a copy of o with a raw tool_choice value
// ("auto", "none", "required" or a function selector object).
func (o ChatCompletionOptions) WithToolChoice(choice any) (ChatCompletionOptions, error) {
	b, err := json.Marshal(choice)
	if err != nil {
		return o, err
	}
	o.toolChoice = b
	return o, nil
}

// Bind returns a copy of o carrying the conversation and model of a request.
func (o ChatCompletionOptions) Bind(messages []ChatMessage, model string, stream bool) ChatCompletionOptions {
	o.messages = slices.Clone(messages)
	o.model = model
	o.stream = stream
	if stream && o.streamOptions == nil {
		o.streamOptions = &ChatStreamOptions{IncludeUsage: true}
	}
	return o
}

// Messages returns the bound conversation.
func (o ChatCompletionOptions) Messages() []ChatMessage { return o.messages }

// Model returns the bound model.
func (o ChatCompletionOptions) Model() string { return o.model }

type chatCompletionWire struct {
	Messages         []ChatMessage        `json:"messages"`
	Model            string               `json:"model"`
	FrequencyPenalty *float64             `json:"frequency_penalty,omitempty"`
	LogitBias        map[int]int          `json:"logit_bias,omitempty"`
	MaxTokens        *int                 `json:"max_tokens,omitempty"`
	N                *int                 `json:"n,omitempty"`
	PresencePenalty  *float64             `json:"presence_penalty,omitempty"`
	ResponseFormat   *ChatResponseFormat  `json:"response_format,omitempty"`
	Seed             *int64               `json:"seed,omitempty"`
	Stop             []string             `json:"stop,omitempty"`
	Stream           bool                 `json:"stream,omitempty"`
	StreamOptions    *ChatStreamOptions   `json:"stream_options,omitempty"`
	Temperature      *float64             `json:"temperature,omitempty"`
	TopP             *float64             `json:"top_p,omitempty"`
	Tools            []Tool               `json:"tools,omitempty"`
	ToolChoice       json.RawMessage      `json:"tool_choice,omitempty"`
	User             string               `json:"user,omitempty"`
	Functions        []FunctionDefinition `json:"functions,omitempty"`
}

func (o ChatCompletionOptions) MarshalJSON() ([]byte, error) {
	w := chatCompletionWire{
		Messages:         o.messages,
		Model:            o.model,
		FrequencyPenalty: o.FrequencyPenalty,
		LogitBias:        o.logitBias,
		MaxTokens:        o.MaxTokens,
		N:                o.n,
		PresencePenalty:  o.PresencePenalty,
		ResponseFormat:   o.ResponseFormat,
		Seed:             o.Seed,
		Stop:             o.stop,
		Stream:           o.stream,
		Temperature:      o.Temperature,
		TopP:             o.TopP,
		Tools:            o.tools,
		ToolChoice:       o.toolChoice,
		User:             o.User,
		Functions:        o.Functions,
	}
	if o.stream {
		w.StreamOptions = o.streamOptions
	}
	if w.Messages == nil {
		w.Messages = []ChatMessage{}
	}
	return MarshalWithRawFields(w, o.AdditionalFields)
}

func (o *ChatCompletionOptions) UnmarshalJSON(data []byte) error {
	var w chatCompletionWire
	var raw RawFields
	if err := UnmarshalWithRawFields(data, &w, &raw); err != nil {
		return err
	}
	*o = ChatCompletionOptions{
		FrequencyPenalty: w.FrequencyPenalty,
		MaxTokens:        w.MaxTokens,
		PresencePenalty:  w.PresencePenalty,
		ResponseFormat:   w.ResponseFormat,
		Seed:             w.Seed,
		Temperature:      w.Temperature,
		TopP:             w.TopP,
		User:             w.User,
		Functions:        w.Functions,
		AdditionalFields: raw,
		messages:         w.Messages,
		model:            w.Model,
		logitBias:        w.LogitBias,
		n:                w.N,
		stop:             w.Stop,
		stream:           w.Stream,
		streamOptions:    w.StreamOptions,
		tools:            w.Tools,
		toolChoice:       w.ToolChoice,
	}
	return nil
}

// ChatChoice is one generated alternative.
type ChatChoice struct {
	Index        int             `json:"index"`
	Message      ChatMessage     `json:"message"`
	FinishReason string          `json:"finish_reason"`
	Logprobs     json.RawMessage `json:"logprobs,omitempty"`
}

// ChatUsage reports token usage of a completion.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletion is the response of POST /chat/completions.
type ChatCompletion struct {
	ID                string       `json:"id"`
	Object            string       `json:"object"`
	Created           int64        `json:"created"`
	Model             string       `json:"model"`
	Choices           []ChatChoice `json:"choices"`
	Usage             *ChatUsage   `json:"usage,omitempty"`
	SystemFingerprint string       `json:"system_fingerprint,omitempty"`

	AdditionalFields RawFields `json:"-"`
}

func (c ChatCompletion) MarshalJSON() ([]byte, error) {
	type alias ChatCompletion
	return MarshalWithRawFields(alias(c), c.AdditionalFields)
}

func (c *ChatCompletion) UnmarshalJSON(data []byte) error {
	type alias ChatCompletion
	return UnmarshalWithRawFields(data, (*alias)(c), &c.AdditionalFields)
}

// Text returns the content of the first choice.
func (c *ChatCompletion) Text() string {
	if c == nil || len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Message.Content
}
