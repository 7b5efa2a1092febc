// Package jobstore persists fine-tuning job snapshots observed by the job
// watcher and the CLI.
package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"aisdk/internal/core"
)

// ErrNotFound indicates a requested job was never saved.
var ErrNotFound = errors.New("fine-tuning job not found")

const tableName = "fine_tuning_jobs"

// Store keeps the latest known state of each fine-tuning job.
type Store interface {
	// Save inserts the job or replaces the stored snapshot with the same id.
	Save(ctx context.Context, job *core.FineTuningJob) error
	Get(ctx context.Context, id string) (*core.FineTuningJob, error)
	// List returns jobs ordered by created_at desc, id desc, starting after
	// the job with id after ("" for the newest).
	List(ctx context.Context, limit int, after string) ([]*core.FineTuningJob, error)
	Close() error
}

func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > 100:
		return 100
	default:
		return limit
	}
}

func serializeJob(job *core.FineTuningJob) ([]byte, error) {
	if job == nil {
		return nil, fmt.Errorf("job is nil")
	}
	if job.ID == "" {
		return nil, fmt.Errorf("job ID is empty")
	}
	b, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal job: %w", err)
	}
	return b, nil
}

func deserializeJob(raw []byte) (*core.FineTuningJob, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty job payload")
	}
	var job core.FineTuningJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

func cloneJob(src *core.FineTuningJob) (*core.FineTuningJob, error) {
	raw, err := serializeJob(src)
	if err != nil {
		return nil, err
	}
	return deserializeJob(raw)
}
