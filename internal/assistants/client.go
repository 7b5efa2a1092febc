package assistants

import (
	"context"
	"io"
	"net/http"

	"aisdk/internal/core"
	"aisdk/internal/future"
	"aisdk/internal/llmclient"
	"aisdk/internal/pagination"
	"aisdk/internal/streaming"
)

// Client implements Operations over the platform REST API.
type Client struct {
	http *llmclient.Client
}

var _ Operations = (*Client)(nil)

// New returns a Client sending requests through http.
func New(http *llmclient.Client) *Client {
	return &Client{http: http}
}

func (c *Client) send(ctx context.Context, operation, method, endpoint string, body, result any) error {
	return c.http.Do(ctx, llmclient.Request{
		Method:    method,
		Endpoint:  endpoint,
		Operation: operation,
		Body:      body,
	}, result)
}

func (c *Client) stream(operation, endpoint string, body func() (any, error)) streaming.Opener {
	return func(ctx context.Context) (io.ReadCloser, error) {
		payload, err := body()
		if err != nil {
			return nil, err
		}
		return c.http.DoStream(ctx, llmclient.Request{
			Method:    http.MethodPost,
			Endpoint:  endpoint,
			Operation: operation,
			Body:      payload,
		})
	}
}

// Assistants

func (c *Client) CreateAssistant(ctx context.Context, model string, opts *core.AssistantCreationOptions) (*core.Assistant, error) {
	if err := core.RequireID("model", model); err != nil {
		return nil, err
	}
	body := core.AssistantCreationOptions{}
	if opts != nil {
		body = *opts
	}
	body.Model = model

	var out core.Assistant
	if err := c.send(ctx, "assistants.create", http.MethodPost, "/assistants", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateAssistantAsync(ctx context.Context, model string, opts *core.AssistantCreationOptions) *future.Future[*core.Assistant] {
	return future.Go(ctx, func(ctx context.Context) (*core.Assistant, error) {
		return c.CreateAssistant(ctx, model, opts)
	})
}

func (c *Client) GetAssistant(ctx context.Context, assistantID string) (*core.Assistant, error) {
	if err := core.RequireID("assistant_id", assistantID); err != nil {
		return nil, err
	}
	var out core.Assistant
	if err := c.send(ctx, "assistants.get", http.MethodGet, llmclient.Path("assistants", assistantID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAssistantAsync(ctx context.Context, assistantID string) *future.Future[*core.Assistant] {
	return future.Go(ctx, func(ctx context.Context) (*core.Assistant, error) {
		return c.GetAssistant(ctx, assistantID)
	})
}

func (c *Client) assistantsFetcher(order core.ListOrder) (pagination.Fetcher[core.Assistant], error) {
	if err := pagination.ValidateOrder(order); err != nil {
		return nil, err
	}
	return pagination.List[core.Assistant](c.http, "assistants.list", "/assistants", order, nil), nil
}

func (c *Client) GetAssistants(ctx context.Context, order core.ListOrder) (*pagination.Pager[core.Assistant], error) {
	fetch, err := c.assistantsFetcher(order)
	if err != nil {
		return nil, err
	}
	return pagination.New(ctx, fetch), nil
}

func (c *Client) GetAssistantsAsync(ctx context.Context, order core.ListOrder) (*pagination.AsyncPager[core.Assistant], error) {
	fetch, err := c.assistantsFetcher(order)
	if err != nil {
		return nil, err
	}
	return pagination.NewAsync(ctx, fetch), nil
}

func (c *Client) ModifyAssistant(ctx context.Context, assistantID string, opts *core.AssistantModificationOptions) (*core.Assistant, error) {
	if err := core.RequireID("assistant_id", assistantID); err != nil {
		return nil, err
	}
	var out core.Assistant
	if err := c.send(ctx, "assistants.modify", http.MethodPost, llmclient.Path("assistants", assistantID), orEmpty(opts), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ModifyAssistantAsync(ctx context.Context, assistantID string, opts *core.AssistantModificationOptions) *future.Future[*core.Assistant] {
	return future.Go(ctx, func(ctx context.Context) (*core.Assistant, error) {
		return c.ModifyAssistant(ctx, assistantID, opts)
	})
}

func (c *Client) DeleteAssistant(ctx context.Context, assistantID string) (*core.DeletionStatus, error) {
	if err := core.RequireID("assistant_id", assistantID); err != nil {
		return nil, err
	}
	return c.delete(ctx, "assistants.delete", llmclient.Path("assistants", assistantID))
}

func (c *Client) DeleteAssistantAsync(ctx context.Context, assistantID string) *future.Future[*core.DeletionStatus] {
	return future.Go(ctx, func(ctx context.Context) (*core.DeletionStatus, error) {
		return c.DeleteAssistant(ctx, assistantID)
	})
}

func (c *Client) delete(ctx context.Context, operation, endpoint string) (*core.DeletionStatus, error) {
	var out core.DeletionStatus
	if err := c.send(ctx, operation, http.MethodDelete, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// orEmpty sends {} rather than null for absent options.
func orEmpty[T any](opts *T) any {
	if opts == nil {
		return struct{}{}
	}
	return opts
}

// Threads

func (c *Client) CreateThread(ctx context.Context, opts *core.ThreadCreationOptions) (*core.Thread, error) {
	var out core.Thread
	if err := c.send(ctx, "threads.create", http.MethodPost, "/threads", orEmpty(opts), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateThreadAsync(ctx context.Context, opts *core.ThreadCreationOptions) *future.Future[*core.Thread] {
	return future.Go(ctx, func(ctx context.Context) (*core.Thread, error) {
		return c.CreateThread(ctx, opts)
	})
}

func (c *Client) GetThread(ctx context.Context, threadID string) (*core.Thread, error) {
	if err := core.RequireID("thread_id", threadID); err != nil {
		return nil, err
	}
	var out core.Thread
	if err := c.send(ctx, "threads.get", http.MethodGet, llmclient.Path("threads", threadID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetThreadAsync(ctx context.Context, threadID string) *future.Future[*core.Thread] {
	return future.Go(ctx, func(ctx context.Context) (*core.Thread, error) {
		return c.GetThread(ctx, threadID)
	})
}

func (c *Client) ModifyThread(ctx context.Context, threadID string, opts *core.ThreadModificationOptions) (*core.Thread, error) {
	if err := core.RequireID("thread_id", threadID); err != nil {
		return nil, err
	}
	var out core.Thread
	if err := c.send(ctx, "threads.modify", http.MethodPost, llmclient.Path("threads", threadID), orEmpty(opts), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ModifyThreadAsync(ctx context.Context, threadID string, opts *core.ThreadModificationOptions) *future.Future[*core.Thread] {
	return future.Go(ctx, func(ctx context.Context) (*core.Thread, error) {
		return c.ModifyThread(ctx, threadID, opts)
	})
}

func (c *Client) DeleteThread(ctx context.Context, threadID string) (*core.DeletionStatus, error) {
	if err := core.RequireID("thread_id", threadID); err != nil {
		return nil, err
	}
	return c.delete(ctx, "threads.delete", llmclient.Path("threads", threadID))
}

func (c *Client) DeleteThreadAsync(ctx context.Context, threadID string) *future.Future[*core.DeletionStatus] {
	return future.Go(ctx, func(ctx context.Context) (*core.DeletionStatus, error) {
		return c.DeleteThread(ctx, threadID)
	})
}

// Messages

func (c *Client) CreateMessage(ctx context.Context, threadID string, content []core.MessageContent, opts *core.MessageCreationOptions) (*core.Message, error) {
	if err := core.RequireID("thread_id", threadID); err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return nil, core.NewInvalidArgumentError("content", "content must not be empty")
	}
	body := core.MessageCreationOptions{}
	if opts != nil {
		body = *opts
	}
	if body.Role == "" {
		body.Role = core.MessageRoleUser
	}
	payload, err := core.WithFields(body, map[string]any{"content": content})
	if err != nil {
		return nil, core.NewInvalidArgumentError("opts", err.Error())
	}

	var out core.Message
	if err := c.send(ctx, "messages.create", http.MethodPost, llmclient.Path("threads", threadID, "messages"), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateMessageAsync(ctx context.Context, threadID string, content []core.MessageContent, opts *core.MessageCreationOptions) *future.Future[*core.Message] {
	return future.Go(ctx, func(ctx context.Context) (*core.Message, error) {
		return c.CreateMessage(ctx, threadID, content, opts)
	})
}

func (c *Client) messagesFetcher(threadID string, order core.ListOrder) (pagination.Fetcher[core.Message], error) {
	if err := core.RequireID("thread_id", threadID); err != nil {
		return nil, err
	}
	if err := pagination.ValidateOrder(order); err != nil {
		return nil, err
	}
	return pagination.List[core.Message](c.http, "messages.list", llmclient.Path("threads", threadID, "messages"), order, nil), nil
}

func (c *Client) GetMessages(ctx context.Context, threadID string, order core.ListOrder) (*pagination.Pager[core.Message], error) {
	fetch, err := c.messagesFetcher(threadID, order)
	if err != nil {
		return nil, err
	}
	return pagination.New(ctx, fetch), nil
}

func (c *Client) GetMessagesAsync(ctx context.Context, threadID string, order core.ListOrder) (*pagination.AsyncPager[core.Message], error) {
	fetch, err := c.messagesFetcher(threadID, order)
	if err != nil {
		return nil, err
	}
	return pagination.NewAsync(ctx, fetch), nil
}

func messagePath(threadID, messageID string) (string, error) {
	if err := core.RequireID("thread_id", threadID); err != nil {
		return "", err
	}
	if err := core.RequireID("message_id", messageID); err != nil {
		return "", err
	}
	return llmclient.Path("threads", threadID, "messages", messageID), nil
}

func (c *Client) GetMessage(ctx context.Context, threadID, messageID string) (*core.Message, error) {
	endpoint, err := messagePath(threadID, messageID)
	if err != nil {
		return nil, err
	}
	var out core.Message
	if err := c.send(ctx, "messages.get", http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMessageAsync(ctx context.Context, threadID, messageID string) *future.Future[*core.Message] {
	return future.Go(ctx, func(ctx context.Context) (*core.Message, error) {
		return c.GetMessage(ctx, threadID, messageID)
	})
}

func (c *Client) ModifyMessage(ctx context.Context, threadID, messageID string, opts *core.MessageModificationOptions) (*core.Message, error) {
	endpoint, err := messagePath(threadID, messageID)
	if err != nil {
		return nil, err
	}
	var out core.Message
	if err := c.send(ctx, "messages.modify", http.MethodPost, endpoint, orEmpty(opts), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ModifyMessageAsync(ctx context.Context, threadID, messageID string, opts *core.MessageModificationOptions) *future.Future[*core.Message] {
	return future.Go(ctx, func(ctx context.Context) (*core.Message, error) {
		return c.ModifyMessage(ctx, threadID, messageID, opts)
	})
}

func (c *Client) DeleteMessage(ctx context.Context, threadID, messageID string) (*core.DeletionStatus, error) {
	endpoint, err := messagePath(threadID, messageID)
	if err != nil {
		return nil, err
	}
	return c.delete(ctx, "messages.delete", endpoint)
}

func (c *Client) DeleteMessageAsync(ctx context.Context, threadID, messageID string) *future.Future[*core.DeletionStatus] {
	return future.Go(ctx, func(ctx context.Context) (*core.DeletionStatus, error) {
		return c.DeleteMessage(ctx, threadID, messageID)
	})
}
