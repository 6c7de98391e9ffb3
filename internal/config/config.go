package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// Origin for question markdown on a cache miss. Either a base URL
	// (version appended as <version>.md) or a template containing %s.
	OriginURL    string
	FetchTimeout time.Duration

	// Optional local content directory tried before the remote origin.
	ContentDir string

	// Shared secret for the content write endpoint. Hash wins when both
	// are set. Empty both => open write path (logged loudly).
	AdminToken     string
	AdminTokenHash string // bcrypt

	// Authoring documents to preload into the key registry, as
	// version=path pairs ("full=./keys/full.md,human=./keys/human.md").
	KeyDocs map[string]string

	CORSOrigins []string

	Debug   bool
	LogFile string
}

func FromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	return Config{
		HTTPAddr:       addr,
		DBDriver:       envOr("DB_DRIVER", "sqlite"),
		DBDSN:          envOr("DB_DSN", ""),
		OriginURL:      envOr("ORIGIN_URL", ""),
		FetchTimeout:   envDur("FETCH_TIMEOUT", 8*time.Second),
		ContentDir:     envOr("CONTENT_DIR", ""),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
		KeyDocs:        pairsOr("KEY_DOCS", nil),
		CORSOrigins:    csvOr("CORS_ORIGINS", "http://localhost:3000"),
		Debug:          envBool("DEBUG", false),
		LogFile:        envOr("LOG_FILE", "logs/quizgrade.log"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func envDur(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func pairsOr(k string, def map[string]string) map[string]string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	out := map[string]string{}
	for _, part := range strings.Split(v, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) == 2 && kv[0] != "" && kv[1] != "" {
			out[kv[0]] = kv[1]
		}
	}
	return out
}
