package scoring

import (
	"strings"

	"github.com/quizforge/quizgrade/internal/answerkey"
)

// matchStrategy decides correctness for a single question under one
// match mode. Strategies are pure; the evaluator routes by entry mode.
type matchStrategy interface {
	match(e answerkey.Entry, answer string) bool
}

// Evaluator routes an entry to the strategy for its match mode.
type Evaluator struct {
	strategies map[answerkey.MatchMode]matchStrategy
}

func NewEvaluator() *Evaluator {
	return &Evaluator{
		strategies: map[answerkey.MatchMode]matchStrategy{
			answerkey.MatchExact:         exactStrategy{},
			answerkey.MatchFuzzyKeywords: fuzzyKeywordStrategy{},
		},
	}
}

// IsCorrect reports whether the user's answer matches the key entry.
// An absent or blank answer is never correct; the engine classifies
// those as missing before calling here.
func (ev *Evaluator) IsCorrect(e answerkey.Entry, answer string) bool {
	if strings.TrimSpace(answer) == "" {
		return false
	}
	s, ok := ev.strategies[e.Mode]
	if !ok {
		return false
	}
	return s.match(e, answer)
}

type exactStrategy struct{}

// Multi-select answers are compared as order-preserved comma-joined
// strings: the key's canonical order defines the required order, so a
// submission must list selections in the same order as the key.
// "a, c" and "A,C" agree; "C,A" does not.
func (exactStrategy) match(e answerkey.Entry, answer string) bool {
	return canonicalSelection(answer) == canonicalSelection(e.Expected)
}

func canonicalSelection(s string) string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = Normalize(p)
	}
	return strings.Join(parts, ",")
}

type fuzzyKeywordStrategy struct{}

// AND semantics: every keyword must occur as a substring of the
// normalized answer. There is no partial-overlap threshold.
func (fuzzyKeywordStrategy) match(e answerkey.Entry, answer string) bool {
	norm := Normalize(answer)
	for _, kw := range e.Keywords {
		if !strings.Contains(norm, Normalize(kw)) {
			return false
		}
	}
	return len(e.Keywords) > 0
}
