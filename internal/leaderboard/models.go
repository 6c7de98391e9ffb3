package leaderboard

import (
	"context"
	"errors"
	"time"

	"github.com/quizforge/quizgrade/internal/scoring"
)

// MaxKept is the retention cap: the store holds at most this many
// submissions and evicts the oldest past it.
const MaxKept = 100

// Submission is one graded attempt. Append-only: never edited in place,
// never deleted except by retention.
type Submission struct {
	ID          string                        `json:"id"`
	Name        string                        `json:"name"`
	Version     string                        `json:"version"`
	Percentage  float64                       `json:"percentage"`
	Points      int                           `json:"points"`
	TotalPoints int                           `json:"totalPoints"`
	Grade       scoring.Grade                 `json:"grade"`
	ByTopic     map[string]scoring.TopicStats `json:"byTopic"`
	UserAnswers map[int]string                `json:"userAnswers"`
	SubmittedAt time.Time                     `json:"timestamp"`
}

// ErrNotFound: no submission with the requested id.
var ErrNotFound = errors.New("submission not found")

// Store is the append-only leaderboard persistence. Append is the only
// mutator.
type Store interface {
	Append(ctx context.Context, sub Submission) (string, error)
	// List returns submissions most-recent-first.
	List(ctx context.Context) ([]Submission, error)
	Get(ctx context.Context, id string) (Submission, error)
}
