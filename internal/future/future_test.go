package future

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGo_Await(t *testing.T) {
	f := Go(context.Background(), func(ctx context.Context) (string, error) {
		return "run_1", nil
	})

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run_1", v)

	// Awaiting twice returns the same result.
	v, err = f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run_1", v)
}

func TestGo_PropagatesContextAndError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := Go(ctx, func(ctx context.Context) (int, error) {
		return 0, ctx.Err()
	})
	_, err := f.Await(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGo_RecoversPanic(t *testing.T) {
	f := Go(context.Background(), func(context.Context) (int, error) {
		panic("boom")
	})
	_, err := f.Await(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestAwait_StopsWaitingOnContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	f := Go(context.Background(), func(context.Context) (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResolvedAndFailed(t *testing.T) {
	v, err := Resolved(3, nil).Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	boom := errors.New("boom")
	_, err = Failed[string](boom).Await(context.Background())
	assert.ErrorIs(t, err, boom)

	select {
	case <-Failed[int](boom).Done():
	default:
		t.Fatal("Failed future must be done")
	}
}
