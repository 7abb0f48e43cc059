package repository

import (
	"context"
	"iter"
	"sync"

	"github.com/okian/apexstats/internal/domain/model"
)

// MemoryStore is a Store that keeps observations in process memory. It
// honours the same ordering contract as the file backends and is meant for
// tests and throwaway sessions.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.Observation
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore(seed ...model.Observation) *MemoryStore {
	return &MemoryStore{records: append([]model.Observation(nil), seed...)}
}

// Append stores o.
func (m *MemoryStore) Append(ctx context.Context, o model.Observation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.records = append(m.records, o)
	m.mu.Unlock()
	return nil
}

// Records yields the observations stored at the time of the call.
func (m *MemoryStore) Records(ctx context.Context) iter.Seq2[model.Observation, error] {
	return func(yield func(model.Observation, error) bool) {
		m.mu.RLock()
		snapshot := m.records[:len(m.records):len(m.records)]
		m.mu.RUnlock()

		for _, o := range snapshot {
			if err := ctx.Err(); err != nil {
				yield(model.Observation{}, err)
				return
			}
			if !yield(o, nil) {
				return
			}
		}
	}
}

// Len returns the number of stored observations.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
