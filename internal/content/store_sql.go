package content

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLStore persists content records in the content table. Works against
// sqlite and postgres; placeholders follow the $n form both accept here.
type SQLStore struct {
	db     *sql.DB
	driver string
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) Get(ctx context.Context, version string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT version, questions_md, answers_json, updated_at FROM content WHERE version=$1`, version)
	var rec Record
	var answers sql.NullString
	var updated int64
	if err := row.Scan(&rec.Version, &rec.QuestionsMD, &answers, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	rec.AnswersJSON = answers.String
	rec.UpdatedAt = time.Unix(updated, 0).UTC()
	return rec, nil
}

func (s *SQLStore) Put(ctx context.Context, rec Record) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO content (version, questions_md, answers_json, updated_at)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (version) DO UPDATE SET questions_md=EXCLUDED.questions_md,
		   answers_json=EXCLUDED.answers_json, updated_at=EXCLUDED.updated_at`,
		rec.Version, rec.QuestionsMD, nullIfEmpty(rec.AnswersJSON), rec.UpdatedAt.Unix())
	return err
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
