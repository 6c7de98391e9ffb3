package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizforge/quizgrade/internal/content"
	"github.com/quizforge/quizgrade/internal/leaderboard"
)

// ErrValidation marks malformed submission input; mapped to 400.
var ErrValidation = errors.New("validation error")

type envelope struct {
	Success bool   `json:"success"`
	Results any    `json:"results,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeResults(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Results: v})
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(err))
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, content.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, content.ErrNotFound), errors.Is(err, leaderboard.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, content.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
