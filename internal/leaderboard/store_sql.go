package leaderboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/quizforge/quizgrade/internal/scoring"
)

// SQLStore keeps submissions in the submissions table, enforcing the
// retention cap on every insert.
type SQLStore struct {
	db     *sql.DB
	driver string
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) Append(ctx context.Context, sub Submission) (string, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	topics, err := json.Marshal(sub.ByTopic)
	if err != nil {
		return "", err
	}
	answers, err := json.Marshal(stringKeyed(sub.UserAnswers))
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, name, version, percentage, points, total_points, grade, by_topic_json, answers_json, submitted_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		sub.ID, sub.Name, sub.Version, sub.Percentage, sub.Points, sub.TotalPoints,
		string(sub.Grade), string(topics), string(answers), sub.SubmittedAt.UnixNano())
	if err != nil {
		return "", err
	}
	// Evict the oldest rows beyond the cap. Losing the race between two
	// concurrent appends just delays eviction to the next insert.
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM submissions WHERE id NOT IN (
		   SELECT id FROM submissions ORDER BY submitted_at DESC, id DESC LIMIT `+strconv.Itoa(MaxKept)+`)`)
	if err != nil {
		return "", err
	}
	return sub.ID, nil
}

func (s *SQLStore) List(ctx context.Context) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, version, percentage, points, total_points, grade, by_topic_json, answers_json, submitted_at
		 FROM submissions ORDER BY submitted_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Submission
	for rows.Next() {
		sub, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLStore) Get(ctx context.Context, id string) (Submission, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, version, percentage, points, total_points, grade, by_topic_json, answers_json, submitted_at
		 FROM submissions WHERE id=$1`, id)
	sub, err := scanSubmission(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Submission{}, ErrNotFound
	}
	return sub, err
}

func scanSubmission(scan func(...any) error) (Submission, error) {
	var sub Submission
	var grade, topics, answers string
	var ts int64
	if err := scan(&sub.ID, &sub.Name, &sub.Version, &sub.Percentage, &sub.Points,
		&sub.TotalPoints, &grade, &topics, &answers, &ts); err != nil {
		return Submission{}, err
	}
	sub.Grade = scoring.Grade(grade)
	sub.SubmittedAt = time.Unix(0, ts).UTC()
	if err := json.Unmarshal([]byte(topics), &sub.ByTopic); err != nil {
		sub.ByTopic = map[string]scoring.TopicStats{}
	}
	var raw map[string]string
	if err := json.Unmarshal([]byte(answers), &raw); err == nil {
		sub.UserAnswers = intKeyed(raw)
	}
	return sub, nil
}
