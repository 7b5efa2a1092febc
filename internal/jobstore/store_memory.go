package jobstore

import (
	"context"
	"slices"
	"sync"

	"aisdk/internal/core"
)

// MemoryStore keeps jobs in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*core.FineTuningJob
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]*core.FineTuningJob)}
}

func (s *MemoryStore) Save(_ context.Context, job *core.FineTuningJob) error {
	c, err := cloneJob(job)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items[c.ID] = c
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*core.FineTuningJob, error) {
	s.mu.RLock()
	j, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return cloneJob(j)
}

func (s *MemoryStore) List(_ context.Context, limit int, after string) ([]*core.FineTuningJob, error) {
	limit = normalizeLimit(limit)

	s.mu.RLock()
	all := make([]*core.FineTuningJob, 0, len(s.items))
	for _, j := range s.items {
		c, err := cloneJob(j)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		all = append(all, c)
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b *core.FineTuningJob) int {
		if a.CreatedAt != b.CreatedAt {
			if a.CreatedAt > b.CreatedAt {
				return -1
			}
			return 1
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})

	start := 0
	if after != "" {
		idx := slices.IndexFunc(all, func(j *core.FineTuningJob) bool { return j.ID == after })
		if idx == -1 {
			return nil, ErrNotFound
		}
		start = idx + 1
	}
	if start >= len(all) {
		return []*core.FineTuningJob{}, nil
	}
	return all[start:min(start+limit, len(all))], nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
