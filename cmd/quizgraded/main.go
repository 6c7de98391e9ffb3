package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/quizforge/quizgrade/internal/answerkey"
	api "github.com/quizforge/quizgrade/internal/api/http"
	"github.com/quizforge/quizgrade/internal/config"
	"github.com/quizforge/quizgrade/internal/content"
	"github.com/quizforge/quizgrade/internal/db"
	"github.com/quizforge/quizgrade/internal/leaderboard"
	"github.com/quizforge/quizgrade/internal/scoring"
	"github.com/quizforge/quizgrade/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New(cfg.Debug, cfg.LogFile)
	defer func() { _ = log.Sync() }()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}

	// --- Content: cache -> local dir -> remote origin ---
	contentStore := content.NewSQLStore(dbh, cfg.DBDriver)
	var sources content.Chain
	if cfg.ContentDir != "" {
		sources = append(sources, content.NewFSSource(cfg.ContentDir))
	}
	if cfg.OriginURL != "" {
		sources = append(sources, content.NewHTTPOrigin(cfg.OriginURL, cfg.FetchTimeout))
	}
	contentSvc := content.NewService(contentStore, sources, cfg.AdminToken, cfg.AdminTokenHash, log)

	// --- Scoring ---
	static := loadKeyDocs(cfg.KeyDocs, log)
	resolver := answerkey.NewResolver(static, contentSvc)
	engine := scoring.NewEngine(resolver)

	subs := leaderboard.NewSQLStore(dbh, cfg.DBDriver)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Admin-Token"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(ar chi.Router) {
		ar.Post("/score", api.ScoreHandler(engine))
		ar.Get("/content", api.GetContentHandler(contentSvc, resolver))
		ar.Post("/content", api.PutContentHandler(contentSvc, resolver))
		ar.Get("/leaderboard", api.ListSubmissionsHandler(subs, resolver))
		ar.Post("/leaderboard", api.PostSubmissionHandler(engine, subs))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Info("listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("db", cfg.DBDriver),
		zap.Strings("key_versions", static.Versions()))
	log.Fatal("server exited", zap.Error(http.ListenAndServe(cfg.HTTPAddr, r)))
}

// loadKeyDocs parses preloaded key documents (version=path pairs) into
// the static registry. JSON files use the stored-key codec, anything
// else is treated as an authoring document.
func loadKeyDocs(docs map[string]string, log *zap.Logger) *answerkey.Registry {
	tables := map[string]answerkey.Table{}
	for version, path := range docs {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal("read key doc", zap.String("version", version), zap.Error(err))
		}
		var t answerkey.Table
		if strings.EqualFold(filepath.Ext(path), ".json") {
			t, err = answerkey.ParseKeyJSON(data)
		} else {
			t, err = answerkey.ParseAuthoringDoc(data)
		}
		if err != nil {
			log.Fatal("parse key doc", zap.String("version", version), zap.Error(err))
		}
		tables[version] = t
	}
	reg, err := answerkey.New(tables)
	if err != nil {
		log.Fatal("build registry", zap.Error(err))
	}
	return reg
}
