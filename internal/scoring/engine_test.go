package scoring_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/quizforge/quizgrade/internal/answerkey"
	"github.com/quizforge/quizgrade/internal/scoring"
)

func fixtureRegistry(t *testing.T) *answerkey.Registry {
	t.Helper()
	reg, err := answerkey.New(map[string]answerkey.Table{
		"full": {
			1: {Number: 1, Expected: "B", Points: 1, Topic: "Runtime", Mode: answerkey.MatchExact},
			2: {Number: 2, Expected: "export, default, fetch", Points: 2, Topic: "Runtime",
				Mode: answerkey.MatchFuzzyKeywords, Keywords: []string{"export", "default", "fetch"}},
			3: {Number: 3, Expected: "A,C", Points: 5, Topic: "Config", Mode: answerkey.MatchExact},
		},
	})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

func TestScoreScenario(t *testing.T) {
	en := scoring.NewEngine(fixtureRegistry(t))
	res := en.Score(context.Background(), "full", map[int]string{
		1: "b",
		2: "export default async function fetch(req){}",
		3: "C,A",
	})

	if res.Correct != 2 || res.Incorrect != 1 || res.Missing != 0 {
		t.Fatalf("got correct=%d incorrect=%d missing=%d", res.Correct, res.Incorrect, res.Missing)
	}
	if res.EarnedPoints != 3 || res.TotalPoints != 8 {
		t.Fatalf("got points %d/%d, want 3/8", res.EarnedPoints, res.TotalPoints)
	}
	if res.Percentage != 37.5 {
		t.Fatalf("percentage = %v, want 37.5", res.Percentage)
	}
	if res.Grade != scoring.GradeFail {
		t.Fatalf("grade = %s, want Fail", res.Grade)
	}
}

func TestScoreEmptySubmission(t *testing.T) {
	en := scoring.NewEngine(fixtureRegistry(t))
	res := en.Score(context.Background(), "full", map[int]string{})
	if res.Missing != 3 || res.Correct != 0 || res.Incorrect != 0 {
		t.Fatalf("got correct=%d incorrect=%d missing=%d", res.Correct, res.Incorrect, res.Missing)
	}
	if res.Percentage != 0 || res.Grade != scoring.GradeFail {
		t.Fatalf("got pct=%v grade=%s", res.Percentage, res.Grade)
	}
}

func TestScoreConservationAndBounds(t *testing.T) {
	en := scoring.NewEngine(fixtureRegistry(t))
	submissions := []map[int]string{
		{},
		{1: "B"},
		{1: "x", 2: "nope", 3: ""},
		{1: "b", 2: "export default fetch", 3: "a,c"},
		{7: "answer to a question that does not exist"},
	}
	for _, sub := range submissions {
		res := en.Score(context.Background(), "full", sub)
		if res.Correct+res.Incorrect+res.Missing != res.TotalQuestions {
			t.Errorf("conservation violated for %v: %+v", sub, res)
		}
		maxSum := 0
		for topic, ts := range res.ByTopic {
			if ts.Points > ts.MaxPoints {
				t.Errorf("topic %s: points %d > maxPoints %d", topic, ts.Points, ts.MaxPoints)
			}
			if ts.Correct > ts.Total {
				t.Errorf("topic %s: correct %d > total %d", topic, ts.Correct, ts.Total)
			}
			maxSum += ts.MaxPoints
		}
		if maxSum != res.TotalPoints {
			t.Errorf("sum of topic maxPoints %d != totalPoints %d", maxSum, res.TotalPoints)
		}
	}
}

func TestScoreUnknownQuestionExcluded(t *testing.T) {
	en := scoring.NewEngine(fixtureRegistry(t))
	// Question 7 is not in the key: it must not count as missing or anything else.
	res := en.Score(context.Background(), "full", map[int]string{7: "D"})
	if res.TotalQuestions != 3 || res.Missing != 3 {
		t.Fatalf("unknown question leaked into totals: %+v", res)
	}
}

func TestScoreUnknownVersion(t *testing.T) {
	en := scoring.NewEngine(fixtureRegistry(t))
	res := en.Score(context.Background(), "nope", map[int]string{1: "B"})
	if res.TotalQuestions != 0 || res.Percentage != 0 || res.Grade != scoring.GradeFail {
		t.Fatalf("unknown version should yield zero result, got %+v", res)
	}
}

func TestScoreDeterministic(t *testing.T) {
	en := scoring.NewEngine(fixtureRegistry(t))
	sub := map[int]string{1: "b", 2: "export default fetch", 3: "A,C"}
	a := en.Score(context.Background(), "full", sub)
	b := en.Score(context.Background(), "full", sub)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same submission scored differently:\n%+v\n%+v", a, b)
	}
}

func TestGradeThresholds(t *testing.T) {
	cases := []struct {
		pct  float64
		want scoring.Grade
	}{
		{0, scoring.GradeFail},
		{69.99, scoring.GradeFail},
		{70, scoring.GradePass},
		{84.99, scoring.GradePass},
		{85, scoring.GradeExpert},
		{94.99, scoring.GradeExpert},
		{95, scoring.GradeMaster},
		{100, scoring.GradeMaster},
	}
	for _, c := range cases {
		if got := scoring.GradeFor(c.pct); got != c.want {
			t.Errorf("GradeFor(%v) = %s, want %s", c.pct, got, c.want)
		}
	}
}

func TestGradeMonotonic(t *testing.T) {
	rank := map[scoring.Grade]int{
		scoring.GradeFail:   0,
		scoring.GradePass:   1,
		scoring.GradeExpert: 2,
		scoring.GradeMaster: 3,
	}
	prev := scoring.GradeFor(0)
	for pct := 1; pct <= 100; pct++ {
		g := scoring.GradeFor(float64(pct))
		if rank[g] < rank[prev] {
			t.Fatalf("grade decreased from %s to %s at %d%%", prev, g, pct)
		}
		prev = g
	}
}
