// Package chat is the client for chat completions.
package chat

import (
	"context"
	"net/http"

	"aisdk/internal/core"
	"aisdk/internal/future"
	"aisdk/internal/llmclient"
)

// Client sends chat completion requests.
type Client struct {
	http *llmclient.Client
}

// New returns a Client sending requests through http.
func New(http *llmclient.Client) *Client {
	return &Client{http: http}
}

// CompleteChat generates a completion of messages with model. opts may be
// nil; it is copied, never modified.
func (c *Client) CompleteChat(ctx context.Context, messages []core.ChatMessage, model string, opts *core.ChatCompletionOptions) (*core.ChatCompletion, error) {
	if len(messages) == 0 {
		return nil, core.NewInvalidArgumentError("messages", "at least one message is required")
	}
	if err := core.RequireID("model", model); err != nil {
		return nil, err
	}
	var base core.ChatCompletionOptions
	if opts != nil {
		base = *opts
	}

	var out core.ChatCompletion
	err := c.http.Do(ctx, llmclient.Request{
		Method:    http.MethodPost,
		Endpoint:  "/chat/completions",
		Operation: "chat.completions",
		Body:      base.Bind(messages, model, false),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CompleteChatAsync(ctx context.Context, messages []core.ChatMessage, model string, opts *core.ChatCompletionOptions) *future.Future[*core.ChatCompletion] {
	return future.Go(ctx, func(ctx context.Context) (*core.ChatCompletion, error) {
		return c.CompleteChat(ctx, messages, model, opts)
	})
}
