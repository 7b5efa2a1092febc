package chat

import (
	"context"
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

func TestCompleteChat_RequestBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{
			"messages":[{"role":"system","content":"be brief"},{"role":"user","content":"hi"}],
			"model":"gpt-4o-mini",
			"temperature":0.2,
			"n":2,
			"stop":["END"],
			"logit_bias":{"50256":-100}
		}`, string(raw))
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":5,"completion_tokens":1,"total_tokens":6},"service_tier":"default"}`))
	})

	temp := 0.2
	opts := core.ChatCompletionOptions{Temperature: &temp}.WithN(2).WithStop("END").WithLogitBias(map[int]int{50256: -100})

	resp, err := client.CompleteChat(context.Background(),
		[]core.ChatMessage{core.SystemMessage("be brief"), core.UserMessage("hi")},
		"gpt-4o-mini", &opts)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Text())
	assert.Equal(t, 6, resp.Usage.TotalTokens)
	_, ok := resp.AdditionalFields.Get("service_tier")
	assert.True(t, ok)

	assert.Empty(t, opts.Messages(), "options passed in are not bound")
}

func TestCompleteChat_Validation(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	_, err := client.CompleteChat(ctx, nil, "gpt-4o-mini", nil)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	_, err = client.CompleteChatAsync(ctx, []core.ChatMessage{core.UserMessage("hi")}, "", nil).Await(ctx)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Zero(t, hits.Load())
}

func TestCompleteChat_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_error"}}`))
	})

	_, err := client.CompleteChat(context.Background(), []core.ChatMessage{core.UserMessage("hi")}, "gpt-4o-mini", nil)
	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, core.ErrorTypeRateLimit, apiErr.Type)
}
