// Package pagination exposes cursor-paged list endpoints as lazy sequences.
//
// A Pager fetches nothing until it is iterated. Each call to All starts over
// from the first page, so a Pager can be enumerated more than once.
package pagination

import (
	"context"
	"encoding/json"
	"iter"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"

	"aisdk/internal/core"
)

const (
	// DefaultLimit is the page size requested when none is given.
	DefaultLimit = 20
	// MaxLimit is the largest page size the service accepts.
	MaxLimit = 100
)

// Page is one page of a cursor-paged list.
type Page[T any] = core.ListPage[T]

// Fetcher loads the page that starts after the given cursor ("" for the
// first page).
type Fetcher[T any] func(ctx context.Context, after string) (Page[T], error)

// Pager is a lazy, restartable sequence over every item of a list.
type Pager[T any] struct {
	ctx   context.Context
	fetch Fetcher[T]
}

// New returns a Pager fetching pages with ctx.
func New[T any](ctx context.Context, fetch Fetcher[T]) *Pager[T] {
	return &Pager[T]{ctx: ctx, fetch: fetch}
}

// Pages yields each page in order. Iteration stops after the first error.
func (p *Pager[T]) Pages() iter.Seq2[Page[T], error] {
	return func(yield func(Page[T], error) bool) {
		after := ""
		for {
			if err := p.ctx.Err(); err != nil {
				yield(Page[T]{}, err)
				return
			}
			page, err := p.fetch(p.ctx, after)
			if err != nil {
				yield(Page[T]{}, err)
				return
			}
			if !yield(page, nil) {
				return
			}
			next := nextCursor(page)
			if !page.HasMore || next == "" || next == after {
				return
			}
			after = next
		}
	}
}

// nextCursor returns the cursor for the page after page. Some lists (fine-tuning
// jobs and events) omit last_id, so the id of the last item is used instead.
func nextCursor[T any](page Page[T]) string {
	if page.LastID != "" {
		return page.LastID
	}
	if len(page.Data) == 0 {
		return ""
	}
	raw, err := json.Marshal(page.Data[len(page.Data)-1])
	if err != nil {
		return ""
	}
	return gjson.GetBytes(raw, "id").String()
}

// All yields every item across pages. Iteration stops after the first error.
func (p *Pager[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for page, err := range p.Pages() {
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range page.Data {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

// Collect reads every item into a slice.
func (p *Pager[T]) Collect() ([]T, error) {
	var out []T
	for item, err := range p.All() {
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Item is one element delivered by AsyncPager.Stream. The last item of a
// failed enumeration carries the error.
type Item[T any] struct {
	Value T
	Err   error
}

// AsyncPager delivers list items over a channel filled by a goroutine.
type AsyncPager[T any] struct {
	pager *Pager[T]
}

// NewAsync returns an AsyncPager fetching pages with ctx.
func NewAsync[T any](ctx context.Context, fetch Fetcher[T]) *AsyncPager[T] {
	return &AsyncPager[T]{pager: New(ctx, fetch)}
}

// Stream starts a fresh enumeration and returns its channel. The channel is
// closed after the last item, after an error item, or once the context is
// done. Stop receiving only after cancelling the context, otherwise the
// producing goroutine stays blocked.
func (p *AsyncPager[T]) Stream() <-chan Item[T] {
	ch := make(chan Item[T])
	ctx := p.pager.ctx
	go func() {
		defer close(ch)
		for v, err := range p.pager.All() {
			select {
			case ch <- Item[T]{Value: v, Err: err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// Collect drains Stream into a slice.
func (p *AsyncPager[T]) Collect() ([]T, error) {
	var out []T
	for item := range p.Stream() {
		if item.Err != nil {
			return out, item.Err
		}
		out = append(out, item.Value)
	}
	if err := p.pager.ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// Sync returns the blocking form of the same enumeration.
func (p *AsyncPager[T]) Sync() *Pager[T] {
	return p.pager
}

// Query builds the standard list query parameters.
func Query(after string, order core.ListOrder, limit int) url.Values {
	q := url.Values{}
	if limit <= 0 {
		limit = DefaultLimit
	}
	q.Set("limit", strconv.Itoa(min(limit, MaxLimit)))
	if order != core.ListOrderDefault {
		q.Set("order", string(order))
	}
	if after != "" {
		q.Set("after", after)
	}
	return q
}
