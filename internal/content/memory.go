package content

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu   sync.RWMutex
	recs map[string]Record
}

// NewInMemoryStore backs the service with a map; used in tests and for
// running without a database.
func NewInMemoryStore() Store {
	return &memoryStore{recs: map[string]Record{}}
}

func (m *memoryStore) Get(_ context.Context, version string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.recs[version]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *memoryStore) Put(_ context.Context, rec Record) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.Version] = rec
	return nil
}
