package leaderboard

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu   sync.RWMutex
	subs []Submission
}

// NewInMemoryStore mirrors the SQL store's behavior, retention included,
// for tests and database-free runs.
func NewInMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) Append(_ context.Context, sub Submission) (string, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, sub)
	if over := len(m.subs) - MaxKept; over > 0 {
		m.subs = append([]Submission(nil), m.subs[over:]...)
	}
	return sub.ID, nil
}

func (m *memoryStore) List(_ context.Context) ([]Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Submission, len(m.subs))
	copy(out, m.subs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

func (m *memoryStore) Get(_ context.Context, id string) (Submission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.subs {
		if s.ID == id {
			return s, nil
		}
	}
	return Submission{}, ErrNotFound
}

func stringKeyed(in map[int]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[strconv.Itoa(k)] = v
	}
	return out
}

func intKeyed(in map[string]string) map[int]string {
	out := make(map[int]string, len(in))
	for k, v := range in {
		if n, err := strconv.Atoi(k); err == nil {
			out[n] = v
		}
	}
	return out
}
