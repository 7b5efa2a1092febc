package streaming

import (
	"context"
	"errors"
	"io"
	"iter"
	"sync"

	"aisdk/internal/sse"
)

// Opener sends the streaming request and returns the event-stream body.
type Opener func(ctx context.Context) (io.ReadCloser, error)

// ErrConsumed is returned when a stream is iterated a second time.
var ErrConsumed = errors.New("update stream already consumed")

// Updates is a single-use, blocking sequence of run updates over an open
// response body. Breaking out of All, calling Close, or cancelling the
// context closes the body.
type Updates struct {
	ctx  context.Context
	body io.ReadCloser
	stop func() bool

	mu       sync.Mutex
	started  bool
	closed   bool
	closeErr error
}

// NewUpdates wraps an already opened event-stream body.
func NewUpdates(ctx context.Context, body io.ReadCloser) *Updates {
	u := &Updates{ctx: ctx, body: body}
	u.stop = context.AfterFunc(ctx, func() { _ = u.Close() })
	return u
}

// Open sends the request with open and wraps the resulting body.
func Open(ctx context.Context, open Opener) (*Updates, error) {
	body, err := open(ctx)
	if err != nil {
		return nil, err
	}
	return NewUpdates(ctx, body), nil
}

// All yields updates until the done event, the end of the body, or an error.
func (u *Updates) All() iter.Seq2[Update, error] {
	return func(yield func(Update, error) bool) {
		u.mu.Lock()
		if u.started {
			u.mu.Unlock()
			yield(Update{}, ErrConsumed)
			return
		}
		u.started = true
		u.mu.Unlock()
		defer u.Close()

		dec := sse.NewDecoder(u.body)
		for {
			ev, err := dec.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					return
				}
				if ctxErr := u.ctx.Err(); ctxErr != nil {
					err = ctxErr
				}
				yield(Update{}, err)
				return
			}
			up := Update{Event: ev.Event, Data: ev.Data}
			if !yield(up, nil) || up.Kind() == KindDone {
				return
			}
		}
	}
}

// Collect reads every update into a slice.
func (u *Updates) Collect() ([]Update, error) {
	var out []Update
	for up, err := range u.All() {
		if err != nil {
			return out, err
		}
		out = append(out, up)
	}
	return out, nil
}

// Close releases the response body. It is safe to call more than once.
func (u *Updates) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return u.closeErr
	}
	u.closed = true
	if u.stop != nil {
		u.stop()
	}
	u.closeErr = u.body.Close()
	return u.closeErr
}

// Item is one element delivered by AsyncUpdates.Stream.
type Item struct {
	Update Update
	Err    error
}

// AsyncUpdates sends the streaming request on its own goroutine when Stream
// is first called and delivers updates over a channel.
type AsyncUpdates struct {
	ctx  context.Context
	open Opener

	once sync.Once
	ch   chan Item
}

// NewAsync returns an AsyncUpdates that opens the stream with open.
func NewAsync(ctx context.Context, open Opener) *AsyncUpdates {
	return &AsyncUpdates{ctx: ctx, open: open}
}

// Stream returns the update channel. The request is sent once; later calls
// return the same channel. The channel is closed after the done event, an
// error item, or context cancellation.
func (a *AsyncUpdates) Stream() <-chan Item {
	a.once.Do(func() {
		a.ch = make(chan Item)
		go a.run()
	})
	return a.ch
}

func (a *AsyncUpdates) run() {
	defer close(a.ch)

	updates, err := Open(a.ctx, a.open)
	if err != nil {
		a.send(Item{Err: err})
		return
	}
	defer updates.Close()

	for up, err := range updates.All() {
		if !a.send(Item{Update: up, Err: err}) {
			return
		}
	}
}

func (a *AsyncUpdates) send(item Item) bool {
	select {
	case a.ch <- item:
		return true
	case <-a.ctx.Done():
		return false
	}
}

// Collect drains Stream into a slice.
func (a *AsyncUpdates) Collect() ([]Update, error) {
	var out []Update
	for item := range a.Stream() {
		if item.Err != nil {
			return out, item.Err
		}
		out = append(out, item.Update)
	}
	if err := a.ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}
