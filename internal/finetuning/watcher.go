package finetuning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"aisdk/internal/core"
	"aisdk/internal/future"
	"aisdk/internal/jobstore"
)

// DefaultPollInterval is used when a Watcher is given no interval.
const DefaultPollInterval = 10 * time.Second

// Watcher follows a job until it reaches a terminal status.
type Watcher struct {
	ops      Operations
	store    jobstore.Store
	interval time.Duration
	logger   *slog.Logger
	onChange func(*core.FineTuningJob)
}

// WatcherOption customises a Watcher.
type WatcherOption func(*Watcher)

// WithStore records every changed snapshot in store.
func WithStore(store jobstore.Store) WatcherOption {
	return func(w *Watcher) { w.store = store }
}

// WithLogger sets the logger used for status transitions.
func WithLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// WithInterval overrides the poll interval given to NewWatcher.
func WithInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// OnChange registers fn to be called with every changed snapshot, after it
// has been stored.
func OnChange(fn func(*core.FineTuningJob)) WatcherOption {
	return func(w *Watcher) { w.onChange = fn }
}

// NewWatcher returns a Watcher polling ops every interval.
func NewWatcher(ops Operations, interval time.Duration, opts ...WatcherOption) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	w := &Watcher{ops: ops, interval: interval, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch polls the job until its status is terminal and returns the final
// snapshot. The first poll happens immediately. A failed poll or store write
// ends the watch with that error.
func (w *Watcher) Watch(ctx context.Context, jobID string) (*core.FineTuningJob, error) {
	if err := core.RequireID("fine_tuning_job_id", jobID); err != nil {
		return nil, err
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var last []byte
	for {
		job, err := w.ops.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}

		snapshot, err := json.Marshal(job)
		if err != nil {
			return nil, fmt.Errorf("encode job snapshot: %w", err)
		}
		if !bytes.Equal(snapshot, last) {
			if err := w.record(ctx, job); err != nil {
				return nil, err
			}
			last = snapshot
		}

		if job.Status.IsTerminal() {
			w.logger.Info("fine-tuning job finished", "job_id", job.ID, "status", job.Status)
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// WatchAsync runs Watch on a new goroutine.
func (w *Watcher) WatchAsync(ctx context.Context, jobID string) *future.Future[*core.FineTuningJob] {
	return future.Go(ctx, func(ctx context.Context) (*core.FineTuningJob, error) {
		return w.Watch(ctx, jobID)
	})
}

func (w *Watcher) record(ctx context.Context, job *core.FineTuningJob) error {
	w.logger.Debug("fine-tuning job changed", "job_id", job.ID, "status", job.Status)
	if w.store != nil {
		if err := w.store.Save(ctx, job); err != nil {
			return fmt.Errorf("record job snapshot: %w", err)
		}
	}
	if w.onChange != nil {
		w.onChange(job)
	}
	return nil
}
