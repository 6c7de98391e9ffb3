package content

import (
	"context"
	"errors"
	"time"
)

// Record is one quiz version's stored content. Overwritten in place on
// refresh or admin write; never versioned.
type Record struct {
	Version     string    `json:"version"`
	QuestionsMD string    `json:"questions_md"`
	AnswersJSON string    `json:"answers_json,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	// ErrNotFound: no record stored for the version.
	ErrNotFound = errors.New("content not found")
	// ErrUnauthorized: admin write without a matching token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable: neither the cache nor the remote origin could serve.
	ErrUnavailable = errors.New("content unavailable")
)

// Store is the persistent cache behind the read-through service.
type Store interface {
	Get(ctx context.Context, version string) (Record, error)
	// Put overwrites unconditionally (last-writer-wins).
	Put(ctx context.Context, rec Record) error
}
