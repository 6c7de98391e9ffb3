package answerkey

import "fmt"

// MatchMode selects how a submitted answer is compared against Expected.
type MatchMode string

const (
	// MatchExact compares normalized strings; multi-select answers are
	// compared as order-preserved comma-joined strings.
	MatchExact MatchMode = "exact"
	// MatchFuzzyKeywords marks an answer correct only when every keyword
	// occurs as a substring of the normalized answer.
	MatchFuzzyKeywords MatchMode = "fuzzy_keywords"
)

// Difficulty is the authoring-time label a question's weight derives from.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
	Expert Difficulty = "expert"
)

// Points is the authoritative difficulty-to-weight mapping. Two entries
// with the same difficulty always carry the same weight.
func (d Difficulty) Points() int {
	switch d {
	case Medium:
		return 2
	case Hard:
		return 3
	case Expert:
		return 5
	default:
		return 1
	}
}

// Entry is the key for one question within a quiz version. Entries are
// built once per version and never mutated afterwards.
type Entry struct {
	Number   int        `json:"number"`
	Expected string     `json:"expected"`
	Points   int        `json:"points"`
	Topic    string     `json:"topic"`
	Mode     MatchMode  `json:"match"`
	Keywords []string   `json:"keywords,omitempty"`
	Tier     Difficulty `json:"difficulty,omitempty"`
}

func (e Entry) Validate() error {
	if e.Number <= 0 {
		return fmt.Errorf("entry %d: question number must be positive", e.Number)
	}
	if e.Points <= 0 {
		return fmt.Errorf("entry %d: points must be positive", e.Number)
	}
	switch e.Mode {
	case MatchExact:
	case MatchFuzzyKeywords:
		if len(e.Keywords) == 0 {
			return fmt.Errorf("entry %d: fuzzy entry needs keywords", e.Number)
		}
	default:
		return fmt.Errorf("entry %d: unknown match mode %q", e.Number, e.Mode)
	}
	return nil
}
