package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletionOptions_InternalMembersSerialized(t *testing.T) {
	temp := 0.2
	opts := ChatCompletionOptions{Temperature: &temp, User: "u-1"}
	opts = opts.WithStop("END").WithN(2).WithLogitBias(map[int]int{50256: -100})
	opts, err := opts.WithToolChoice("none")
	require.NoError(t, err)

	bound := opts.Bind([]ChatMessage{UserMessage("hi")}, "gpt-4o-mini", false)
	out, err := json.Marshal(bound)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"messages":[{"role":"user","content":"hi"}],
		"model":"gpt-4o-mini",
		"logit_bias":{"50256":-100},
		"n":2,
		"stop":["END"],
		"temperature":0.2,
		"tool_choice":"none",
		"user":"u-1"
	}`, string(out))

	assert.Empty(t, opts.Messages(), "Bind must not mutate the receiver")
	assert.Equal(t, "gpt-4o-mini", bound.Model())
}

func TestChatCompletionOptions_StreamOptionsOnlyWhenStreaming(t *testing.T) {
	out, err := json.Marshal(ChatCompletionOptions{}.Bind(nil, "m", true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"messages":[],"model":"m","stream":true,"stream_options":{"include_usage":true}}`, string(out))
}

func TestChatCompletionOptions_RoundTrip(t *testing.T) {
	body := `{"messages":[{"role":"system","content":"s"}],"model":"m","n":3,"seed":7,"service_tier":"flex"}`
	var opts ChatCompletionOptions
	require.NoError(t, json.Unmarshal([]byte(body), &opts))

	assert.Equal(t, "m", opts.Model())
	require.NotNil(t, opts.Seed)
	assert.EqualValues(t, 7, *opts.Seed)
	assert.JSONEq(t, `"flex"`, string(opts.AdditionalFields["service_tier"]))

	out, err := json.Marshal(opts)
	require.NoError(t, err)
	assert.JSONEq(t, body, string(out))
}
