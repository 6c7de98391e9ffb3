package scoring

import (
	"context"
	"math"

	"github.com/quizforge/quizgrade/internal/answerkey"
)

// Grade tiers in ascending order.
type Grade string

const (
	GradeFail   Grade = "Fail"
	GradePass   Grade = "Pass"
	GradeExpert Grade = "Expert"
	GradeMaster Grade = "Master"
)

// GradeFor maps a percentage to its tier. Thresholds are inclusive at
// the lower bound of each band.
func GradeFor(pct float64) Grade {
	switch {
	case pct >= 95:
		return GradeMaster
	case pct >= 85:
		return GradeExpert
	case pct >= 70:
		return GradePass
	default:
		return GradeFail
	}
}

// TopicStats is the per-topic slice of a result.
type TopicStats struct {
	Correct   int `json:"correct"`
	Total     int `json:"total"`
	Points    int `json:"points"`
	MaxPoints int `json:"maxPoints"`
}

// Result is the full outcome of grading one submission. Always holds
// correct + incorrect + missing == totalQuestions.
type Result struct {
	Version        string                `json:"version"`
	TotalQuestions int                   `json:"totalQuestions"`
	Correct        int                   `json:"correct"`
	Incorrect      int                   `json:"incorrect"`
	Missing        int                   `json:"missing"`
	EarnedPoints   int                   `json:"earnedPoints"`
	TotalPoints    int                   `json:"totalPoints"`
	Percentage     float64               `json:"percentage"`
	Grade          Grade                 `json:"grade"`
	ByTopic        map[string]TopicStats `json:"byTopic"`
}

// KeySource resolves the key table for a version. The registry and the
// content-backed resolver both satisfy it.
type KeySource interface {
	Table(ctx context.Context, version string) (answerkey.Table, bool)
}

// Engine grades submissions against a key source. Stateless apart from
// its collaborators, so one engine serves concurrent requests.
type Engine struct {
	keys KeySource
	eval *Evaluator
}

func NewEngine(keys KeySource) *Engine {
	return &Engine{keys: keys, eval: NewEvaluator()}
}

// Score grades every question the key table defines for the version.
// Questions absent from the table are not scored at all; an unknown
// version yields a zero-valued result rather than an error, so callers
// must check TotalQuestions before trusting the percentage.
func (en *Engine) Score(ctx context.Context, version string, answers map[int]string) Result {
	res := Result{
		Version: version,
		Grade:   GradeFail,
		ByTopic: map[string]TopicStats{},
	}
	table, ok := en.keys.Table(ctx, version)
	if !ok {
		return res
	}
	res.TotalPoints = table.TotalPoints()

	for _, num := range table.Numbers() {
		e := table[num]
		res.TotalQuestions++
		ts := res.ByTopic[e.Topic]
		ts.Total++
		ts.MaxPoints += e.Points

		given, has := answers[num]
		switch {
		case !has || given == "":
			res.Missing++
		case en.eval.IsCorrect(e, given):
			res.Correct++
			res.EarnedPoints += e.Points
			ts.Correct++
			ts.Points += e.Points
		default:
			res.Incorrect++
		}
		res.ByTopic[e.Topic] = ts
	}

	if res.TotalPoints > 0 {
		res.Percentage = round2(float64(res.EarnedPoints) / float64(res.TotalPoints) * 100)
	}
	res.Grade = GradeFor(res.Percentage)
	return res
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
