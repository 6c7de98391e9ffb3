package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/quizforge/quizgrade/internal/answerkey"
	"github.com/quizforge/quizgrade/internal/content"
)

// KeyInvalidator drops a cached key table after content changes.
type KeyInvalidator interface {
	Invalidate(version string)
}

// GetContentHandler serves question markdown as text/plain.
// ?refresh=1 forces a re-fetch from the origin.
func GetContentHandler(svc *content.Service, keys KeyInvalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := strings.TrimSpace(r.URL.Query().Get("version"))
		if version == "" {
			writeError(w, fmt.Errorf("%w: version required", ErrValidation))
			return
		}
		var (
			md  string
			err error
		)
		if r.URL.Query().Get("refresh") == "1" {
			md, err = svc.Refresh(r.Context(), version)
			if err == nil && keys != nil {
				keys.Invalidate(version)
			}
		} else {
			md, err = svc.Get(r.Context(), version)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(md))
	}
}

type putContentReq struct {
	Version     string `json:"version"`
	QuestionsMD string `json:"questions_md"`
	AnswersJSON string `json:"answers_json,omitempty"`
}

// PutContentHandler upserts a version's content. Token comes from the
// X-Admin-Token header; mismatch is a 401.
func PutContentHandler(svc *content.Service, keys KeyInvalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req putContentReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, fmt.Errorf("%w: bad json: %v", ErrValidation, err))
			return
		}
		if req.Version == "" || req.QuestionsMD == "" {
			writeError(w, fmt.Errorf("%w: version and questions_md required", ErrValidation))
			return
		}
		// A key document that cannot be parsed would otherwise only
		// surface later as an unknown version at scoring time.
		if req.AnswersJSON != "" {
			if _, err := answerkey.ParseKeyJSON([]byte(req.AnswersJSON)); err != nil {
				writeError(w, fmt.Errorf("%w: answers_json: %v", ErrValidation, err))
				return
			}
		}
		rec := content.Record{
			Version:     req.Version,
			QuestionsMD: req.QuestionsMD,
			AnswersJSON: req.AnswersJSON,
		}
		if err := svc.PutAuthenticated(r.Context(), rec, r.Header.Get("X-Admin-Token")); err != nil {
			writeError(w, err)
			return
		}
		if keys != nil {
			keys.Invalidate(req.Version)
		}
		writeResults(w, map[string]string{"version": req.Version})
	}
}
