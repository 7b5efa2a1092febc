package pagination

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aisdk/internal/core"
)

// pagedFetcher serves ids msg_0..msg_{n-1} in pages of size, recording cursors.
func pagedFetcher(n, size int, calls *[]string) Fetcher[string] {
	return func(ctx context.Context, after string) (Page[string], error) {
		*calls = append(*calls, after)
		start := 0
		if after != "" {
			_, _ = fmt.Sscanf(after, "msg_%d", &start)
			start++
		}
		var page Page[string]
		for i := start; i < n && len(page.Data) < size; i++ {
			page.Data = append(page.Data, fmt.Sprintf("msg_%d", i))
		}
		if len(page.Data) > 0 {
			page.FirstID = page.Data[0]
			page.LastID = page.Data[len(page.Data)-1]
		}
		page.HasMore = start+len(page.Data) < n
		return page, nil
	}
}

func TestPager_CursorPropagation(t *testing.T) {
	var calls []string
	p := New(context.Background(), pagedFetcher(5, 2, &calls))

	items, err := p.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"msg_0", "msg_1", "msg_2", "msg_3", "msg_4"}, items)
	assert.Equal(t, []string{"", "msg_1", "msg_3"}, calls)
}

func TestPager_IsLazy(t *testing.T) {
	var calls []string
	p := New(context.Background(), pagedFetcher(5, 2, &calls))
	assert.Empty(t, calls, "no page may be fetched before iteration")

	for item, err := range p.All() {
		require.NoError(t, err)
		assert.Equal(t, "msg_0", item)
		break
	}
	assert.Equal(t, []string{""}, calls, "breaking early must not fetch further pages")
}

func TestPager_RestartsPerCall(t *testing.T) {
	var calls []string
	p := New(context.Background(), pagedFetcher(3, 2, &calls))

	first, err := p.Collect()
	require.NoError(t, err)
	second, err := p.Collect()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"", "msg_1", "", "msg_1"}, calls)
}

func TestPager_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	var n int32
	p := New(context.Background(), func(ctx context.Context, after string) (Page[int], error) {
		if atomic.AddInt32(&n, 1) == 2 {
			return Page[int]{}, boom
		}
		return Page[int]{Data: []int{1, 2}, HasMore: true, LastID: "x"}, nil
	})

	items, err := p.Collect()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2}, items)
}

type event struct {
	ID string `json:"id"`
}

func TestPager_CursorFromLastItem(t *testing.T) {
	var calls []string
	p := New(context.Background(), func(ctx context.Context, after string) (Page[event], error) {
		calls = append(calls, after)
		if after == "" {
			return Page[event]{Data: []event{{"ev_a"}, {"ev_b"}}, HasMore: true}, nil
		}
		return Page[event]{Data: []event{{"ev_c"}}}, nil
	})

	items, err := p.Collect()
	require.NoError(t, err)
	assert.Equal(t, []event{{"ev_a"}, {"ev_b"}, {"ev_c"}}, items)
	assert.Equal(t, []string{"", "ev_b"}, calls)
}

func TestPager_StopsWithoutCursor(t *testing.T) {
	var n int32
	p := New(context.Background(), func(ctx context.Context, after string) (Page[int], error) {
		atomic.AddInt32(&n, 1)
		return Page[int]{Data: []int{1}, HasMore: true}, nil
	})
	items, err := p.Collect()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, items)
	assert.EqualValues(t, 1, n)
}

func TestPager_StopsOnRepeatedCursor(t *testing.T) {
	var n int32
	p := New(context.Background(), func(ctx context.Context, after string) (Page[event], error) {
		atomic.AddInt32(&n, 1)
		return Page[event]{Data: []event{{"ev_same"}}, HasMore: true}, nil
	})
	items, err := p.Collect()
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.EqualValues(t, 2, n)
}

func TestPager_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls []string
	_, err := New(ctx, pagedFetcher(3, 1, &calls)).Collect()
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
}

func TestAsyncPager_Stream(t *testing.T) {
	var calls []string
	p := NewAsync(context.Background(), pagedFetcher(5, 2, &calls))

	items, err := p.Collect()
	require.NoError(t, err)
	assert.Len(t, items, 5)

	var streamed []string
	for item := range p.Stream() {
		require.NoError(t, item.Err)
		streamed = append(streamed, item.Value)
	}
	assert.Equal(t, items, streamed)
}

func TestAsyncPager_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewAsync(ctx, func(ctx context.Context, after string) (Page[int], error) {
		return Page[int]{Data: []int{1, 2, 3}, HasMore: true, LastID: after + "x"}, nil
	})

	ch := p.Stream()
	first := <-ch
	require.NoError(t, first.Err)
	cancel()
	for range ch {
	}
}

func TestQuery(t *testing.T) {
	q := Query("", core.ListOrderDefault, 0)
	assert.Equal(t, "limit=20", q.Encode())

	q = Query("msg_9", core.ListOrderDescending, 500)
	assert.Equal(t, "after=msg_9&limit=100&order=desc", q.Encode())
}
