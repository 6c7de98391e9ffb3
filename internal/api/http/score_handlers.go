package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/quizforge/quizgrade/internal/scoring"
)

type scoreReq struct {
	Version string         `json:"version"`
	Answers map[string]any `json:"answers"`
}

// ScoreHandler grades a submission: POST {version, answers{"1":"B",...}}.
// Missing answers and unknown versions are data, not errors; only
// malformed input produces a 400.
func ScoreHandler(engine *scoring.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fmt.Errorf("%w: bad json: %v", ErrValidation, err))
			return
		}
		if strings.TrimSpace(req.Version) == "" {
			writeError(w, fmt.Errorf("%w: version required", ErrValidation))
			return
		}
		answers, err := coerceAnswers(req.Answers)
		if err != nil {
			writeError(w, err)
			return
		}
		writeResults(w, engine.Score(r.Context(), req.Version, answers))
	}
}

// coerceAnswers turns JSON answer values into strings: scalars are
// formatted, string arrays become comma-joined multi-select answers,
// anything else is a validation error.
func coerceAnswers(raw map[string]any) (map[int]string, error) {
	out := make(map[int]string, len(raw))
	for key, val := range raw {
		num, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("%w: question key %q is not a number", ErrValidation, key)
		}
		s, err := coerceValue(val)
		if err != nil {
			return nil, fmt.Errorf("%w: answer %d: %v", ErrValidation, num, err)
		}
		out[num] = s
	}
	return out, nil
}

func coerceValue(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return "", fmt.Errorf("array elements must be strings")
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	default:
		return "", fmt.Errorf("unsupported value type")
	}
}
