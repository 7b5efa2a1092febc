package pagination

import (
	"context"
	"maps"
	"net/http"
	"net/url"

	"aisdk/internal/core"
	"aisdk/internal/llmclient"
)

// Doer sends a request and decodes its JSON response.
type Doer interface {
	Do(ctx context.Context, req llmclient.Request, result any) error
}

// List returns a Fetcher that GETs endpoint page by page, adding the cursor,
// order and page size to any extra query parameters.
func List[T any](doer Doer, operation, endpoint string, order core.ListOrder, extra url.Values) Fetcher[T] {
	return func(ctx context.Context, after string) (Page[T], error) {
		query := Query(after, order, DefaultLimit)
		maps.Copy(query, extra)

		var page Page[T]
		err := doer.Do(ctx, llmclient.Request{
			Method:    http.MethodGet,
			Endpoint:  endpoint,
			Operation: operation,
			Query:     query,
		}, &page)
		return page, err
	}
}

// ValidateOrder rejects ordering selectors the service does not know.
func ValidateOrder(order core.ListOrder) error {
	if !order.Valid() {
		return core.NewInvalidArgumentError("order", "unknown list order "+string(order))
	}
	return nil
}
