package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quizforge/quizgrade/internal/answerkey"
	api "github.com/quizforge/quizgrade/internal/api/http"
	"github.com/quizforge/quizgrade/internal/content"
	"github.com/quizforge/quizgrade/internal/leaderboard"
	"github.com/quizforge/quizgrade/internal/scoring"
)

func testRegistry(t *testing.T) *answerkey.Registry {
	t.Helper()
	reg, err := answerkey.New(map[string]answerkey.Table{
		"full": {
			1: {Number: 1, Expected: "B", Points: 1, Topic: "Runtime", Mode: answerkey.MatchExact},
			2: {Number: 2, Expected: "export, default, fetch", Points: 2, Topic: "Runtime",
				Mode: answerkey.MatchFuzzyKeywords, Keywords: []string{"export", "default", "fetch"}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func decodeEnvelope(t *testing.T, body string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("bad response body %q: %v", body, err)
	}
	return out
}

func TestScoreHandler(t *testing.T) {
	h := api.ScoreHandler(scoring.NewEngine(testRegistry(t)))

	req := httptest.NewRequest(http.MethodPost, "/api/score",
		strings.NewReader(`{"version":"full","answers":{"1":"b","2":"export default fetch"}}`))
	rr := httptest.NewRecorder()
	h(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	env := decodeEnvelope(t, rr.Body.String())
	if env["success"] != true {
		t.Fatalf("success = %v", env["success"])
	}
	results := env["results"].(map[string]any)
	if results["correct"].(float64) != 2 || results["earnedPoints"].(float64) != 3 {
		t.Fatalf("results = %v", results)
	}
}

func TestScoreHandlerCoercion(t *testing.T) {
	h := api.ScoreHandler(scoring.NewEngine(testRegistry(t)))

	// Numeric and array answers coerce; objects do not.
	req := httptest.NewRequest(http.MethodPost, "/api/score",
		strings.NewReader(`{"version":"full","answers":{"1":42,"2":["export","default"]}}`))
	rr := httptest.NewRecorder()
	h(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("coercible values rejected: %d %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/score",
		strings.NewReader(`{"version":"full","answers":{"1":{"nested":"object"}}}`))
	rr = httptest.NewRecorder()
	h(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("object answer accepted: %d", rr.Code)
	}
	env := decodeEnvelope(t, rr.Body.String())
	if env["success"] != false {
		t.Fatal("error envelope missing success:false")
	}
}

func TestScoreHandlerValidation(t *testing.T) {
	h := api.ScoreHandler(scoring.NewEngine(testRegistry(t)))
	for name, body := range map[string]string{
		"bad json":        "{",
		"missing version": `{"answers":{"1":"B"}}`,
		"bad key":         `{"version":"full","answers":{"one":"B"}}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader(body))
		rr := httptest.NewRecorder()
		h(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", name, rr.Code)
		}
	}
}

type staleSource struct{ err error }

func (s staleSource) Fetch(context.Context, string) (string, error) { return "", s.err }

func TestContentHandlerStatusMapping(t *testing.T) {
	svc := content.NewService(content.NewInMemoryStore(), staleSource{errors.New("down")}, "tok", "", nil)

	h := api.GetContentHandler(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/content?version=full", nil)
	rr := httptest.NewRecorder()
	h(rr, req)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/content", nil)
	rr = httptest.NewRecorder()
	h(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing version: status %d, want 400", rr.Code)
	}

	put := api.PutContentHandler(svc, nil)
	req = httptest.NewRequest(http.MethodPost, "/api/content",
		strings.NewReader(`{"version":"full","questions_md":"Q1..."}`))
	req.Header.Set("X-Admin-Token", "wrong")
	rr = httptest.NewRecorder()
	put(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status %d, want 401", rr.Code)
	}
}

func TestPutContentValidatesKeyDocument(t *testing.T) {
	store := content.NewInMemoryStore()
	svc := content.NewService(store, nil, "tok", "", nil)
	put := api.PutContentHandler(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/content",
		strings.NewReader(`{"version":"full","questions_md":"Q1...","answers_json":"not a key"}`))
	req.Header.Set("X-Admin-Token", "tok")
	rr := httptest.NewRecorder()
	put(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unparseable answers_json: status %d, want 400", rr.Code)
	}
	if _, err := store.Get(context.Background(), "full"); !errors.Is(err, content.ErrNotFound) {
		t.Fatal("store changed by rejected write")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/content",
		strings.NewReader(`{"version":"full","questions_md":"Q1...","answers_json":"[{\"number\":1,\"expected\":\"B\",\"points\":1}]"}`))
	req.Header.Set("X-Admin-Token", "tok")
	rr = httptest.NewRecorder()
	put(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("valid answers_json rejected: %d %s", rr.Code, rr.Body.String())
	}
}

func TestContentHandlerServesPlainText(t *testing.T) {
	store := content.NewInMemoryStore()
	if err := store.Put(context.Background(), content.Record{Version: "full", QuestionsMD: "Q1..."}); err != nil {
		t.Fatal(err)
	}
	svc := content.NewService(store, nil, "", "", nil)

	h := api.GetContentHandler(svc, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/content?version=full", nil)
	rr := httptest.NewRecorder()
	h(rr, req)

	if rr.Code != http.StatusOK || rr.Body.String() != "Q1..." {
		t.Fatalf("got %d %q", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type %q", ct)
	}
}

func TestLeaderboardFlow(t *testing.T) {
	reg := testRegistry(t)
	engine := scoring.NewEngine(reg)
	store := leaderboard.NewInMemoryStore()

	post := api.PostSubmissionHandler(engine, store)
	req := httptest.NewRequest(http.MethodPost, "/api/leaderboard",
		strings.NewReader(`{"name":"ada","version":"full","answers":{"1":"b"}}`))
	rr := httptest.NewRecorder()
	post(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("post: %d %s", rr.Code, rr.Body.String())
	}
	env := decodeEnvelope(t, rr.Body.String())
	id := env["results"].(map[string]any)["id"].(string)
	if id == "" {
		t.Fatal("no id returned")
	}

	list := api.ListSubmissionsHandler(store, reg)
	req = httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	rr = httptest.NewRecorder()
	list(rr, req)
	env = decodeEnvelope(t, rr.Body.String())
	if n := len(env["results"].([]any)); n != 1 {
		t.Fatalf("listed %d submissions", n)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/leaderboard?id="+id, nil)
	rr = httptest.NewRecorder()
	list(rr, req)
	env = decodeEnvelope(t, rr.Body.String())
	results := env["results"].(map[string]any)
	review := results["review"].([]any)
	if len(review) != 2 {
		t.Fatalf("review has %d rows, want 2", len(review))
	}
	first := review[0].(map[string]any)
	if first["status"] != "correct" {
		t.Fatalf("question 1 review = %v", first)
	}
	second := review[1].(map[string]any)
	if second["status"] != "missing" {
		t.Fatalf("question 2 review = %v", second)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/leaderboard?id=nope", nil)
	rr = httptest.NewRecorder()
	list(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown id: status %d, want 404", rr.Code)
	}
}
