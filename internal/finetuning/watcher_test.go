package finetuning

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aisdk/internal/core"
	"aisdk/internal/jobstore"
)

// scriptedOps returns one status per GetJob call, repeating the last.
type scriptedOps struct {
	Operations
	mu       sync.Mutex
	statuses []core.FineTuningJobStatus
	polls    int
	err      error
}

func (s *scriptedOps) GetJob(_ context.Context, jobID string) (*core.FineTuningJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	status := s.statuses[min(s.polls, len(s.statuses)-1)]
	s.polls++
	return &core.FineTuningJob{ID: jobID, CreatedAt: 1, Status: status}, nil
}

func TestWatcher_StopsOnTerminalStatus(t *testing.T) {
	ops := &scriptedOps{statuses: []core.FineTuningJobStatus{
		core.JobStatusValidatingFiles,
		core.JobStatusRunning,
		core.JobStatusRunning,
		core.JobStatusSucceeded,
	}}
	store := jobstore.NewMemoryStore()

	var seen []core.FineTuningJobStatus
	w := NewWatcher(ops, time.Millisecond, WithStore(store), OnChange(func(j *core.FineTuningJob) {
		seen = append(seen, j.Status)
	}))

	job, err := w.Watch(context.Background(), "ftjob-1")
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusSucceeded, job.Status)
	assert.Equal(t, 4, ops.polls)
	assert.Equal(t, []core.FineTuningJobStatus{
		core.JobStatusValidatingFiles,
		core.JobStatusRunning,
		core.JobStatusSucceeded,
	}, seen, "unchanged snapshots are not recorded")

	stored, err := store.Get(context.Background(), "ftjob-1")
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusSucceeded, stored.Status)
}

func TestWatcher_AlreadyTerminal(t *testing.T) {
	ops := &scriptedOps{statuses: []core.FineTuningJobStatus{core.JobStatusFailed}}
	job, err := NewWatcher(ops, time.Hour).Watch(context.Background(), "ftjob-1")
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusFailed, job.Status)
	assert.Equal(t, 1, ops.polls)
}

func TestWatcher_PollError(t *testing.T) {
	boom := errors.New("boom")
	ops := &scriptedOps{err: boom}
	_, err := NewWatcher(ops, time.Millisecond).Watch(context.Background(), "ftjob-1")
	assert.ErrorIs(t, err, boom)
}

func TestWatcher_ContextCancelled(t *testing.T) {
	ops := &scriptedOps{statuses: []core.FineTuningJobStatus{core.JobStatusRunning}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewWatcher(ops, time.Millisecond).WatchAsync(ctx, "ftjob-1").Await(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWatcher_RejectsEmptyID(t *testing.T) {
	ops := &scriptedOps{statuses: []core.FineTuningJobStatus{core.JobStatusRunning}}
	_, err := NewWatcher(ops, time.Millisecond).Watch(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
	assert.Zero(t, ops.polls)
}

func TestWatcher_WithIntervalOverrides(t *testing.T) {
	ops := &scriptedOps{statuses: []core.FineTuningJobStatus{core.JobStatusQueued, core.JobStatusSucceeded}}
	w := NewWatcher(ops, time.Hour, WithInterval(time.Millisecond))
	assert.Equal(t, time.Millisecond, w.interval)

	job, err := w.Watch(context.Background(), "ftjob-1")
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusSucceeded, job.Status)

	assert.Equal(t, time.Hour, NewWatcher(ops, time.Hour, WithInterval(0)).interval)
}
