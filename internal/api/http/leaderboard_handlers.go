package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/quizforge/quizgrade/internal/answerkey"
	"github.com/quizforge/quizgrade/internal/leaderboard"
	"github.com/quizforge/quizgrade/internal/scoring"
)

type submitReq struct {
	Name    string         `json:"name"`
	Version string         `json:"version"`
	Answers map[string]any `json:"answers"`
}

// PostSubmissionHandler re-scores the submitted answers server-side
// (client-reported percentages are never trusted) and appends the
// graded submission.
func PostSubmissionHandler(engine *scoring.Engine, store leaderboard.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fmt.Errorf("%w: bad json: %v", ErrValidation, err))
			return
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Version) == "" {
			writeError(w, fmt.Errorf("%w: name and version required", ErrValidation))
			return
		}
		answers, err := coerceAnswers(req.Answers)
		if err != nil {
			writeError(w, err)
			return
		}
		res := engine.Score(r.Context(), req.Version, answers)
		sub := leaderboard.Submission{
			Name:        req.Name,
			Version:     req.Version,
			Percentage:  res.Percentage,
			Points:      res.EarnedPoints,
			TotalPoints: res.TotalPoints,
			Grade:       res.Grade,
			ByTopic:     res.ByTopic,
			UserAnswers: answers,
		}
		id, err := store.Append(r.Context(), sub)
		if err != nil {
			writeError(w, err)
			return
		}
		writeResults(w, map[string]any{"id": id, "score": res})
	}
}

type questionReview struct {
	Number   int    `json:"number"`
	Topic    string `json:"topic"`
	Expected string `json:"expected"`
	Given    string `json:"given,omitempty"`
	Status   string `json:"status"` // correct | incorrect | missing
	Points   int    `json:"points"`
	Earned   int    `json:"earned"`
}

// ListSubmissionsHandler lists submissions, or with ?id= returns one
// submission with its answer-by-answer comparison against the key.
func ListSubmissionsHandler(store leaderboard.Store, keys scoring.KeySource) http.HandlerFunc {
	eval := scoring.NewEvaluator()
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			subs, err := store.List(r.Context())
			if err != nil {
				writeError(w, err)
				return
			}
			if subs == nil {
				subs = []leaderboard.Submission{}
			}
			writeResults(w, subs)
			return
		}
		sub, err := store.Get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		var review []questionReview
		if table, ok := keys.Table(r.Context(), sub.Version); ok {
			review = buildReview(eval, table, sub.UserAnswers)
		}
		writeResults(w, map[string]any{"submission": sub, "review": review})
	}
}

func buildReview(eval *scoring.Evaluator, table answerkey.Table, answers map[int]string) []questionReview {
	out := make([]questionReview, 0, len(table))
	for _, num := range table.Numbers() {
		e := table[num]
		qr := questionReview{
			Number:   num,
			Topic:    e.Topic,
			Expected: e.Expected,
			Points:   e.Points,
		}
		given, has := answers[num]
		switch {
		case !has || given == "":
			qr.Status = "missing"
		case eval.IsCorrect(e, given):
			qr.Status = "correct"
			qr.Given = given
			qr.Earned = e.Points
		default:
			qr.Status = "incorrect"
			qr.Given = given
		}
		out = append(out, qr)
	}
	return out
}
