package content

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service is the read-through content cache: reads hit the store first
// and fall back to the origin, persisting what they fetched. Writes are
// gated by the admin token unless none is configured.
type Service struct {
	store      Store
	origin     Source
	adminToken string
	adminHash  string // bcrypt hash; takes precedence over adminToken
	log        *zap.Logger
}

func NewService(store Store, origin Source, adminToken, adminHash string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	svc := &Service{store: store, origin: origin, adminToken: adminToken, adminHash: adminHash, log: log}
	if adminToken == "" && adminHash == "" {
		// Deployment risk, not a design goal. Make it impossible to miss.
		log.Warn("no admin token configured: content write endpoint is OPEN, anyone can overwrite quiz content")
	}
	return svc
}

// Get returns the stored markdown for a version, seeding the cache from
// the origin on a miss. A persist failure after a successful fetch is
// logged and swallowed: availability wins over cache durability. Two
// concurrent misses may both fetch and both persist; the upsert is
// last-writer-wins, so that is fine.
func (s *Service) Get(ctx context.Context, version string) (string, error) {
	rec, err := s.store.Get(ctx, version)
	if err == nil {
		return rec.QuestionsMD, nil
	}
	return s.fetchAndPersist(ctx, version)
}

// Refresh bypasses the cache, always fetching from the origin and
// overwriting the stored record. Deliberately token-free: it can only
// replace content with what the origin already serves.
func (s *Service) Refresh(ctx context.Context, version string) (string, error) {
	return s.fetchAndPersist(ctx, version)
}

func (s *Service) fetchAndPersist(ctx context.Context, version string) (string, error) {
	if s.origin == nil {
		return "", fmt.Errorf("%w: no origin configured", ErrUnavailable)
	}
	md, err := s.origin.Fetch(ctx, version)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	prev, _ := s.store.Get(ctx, version)
	rec := Record{
		Version:     version,
		QuestionsMD: md,
		AnswersJSON: prev.AnswersJSON, // keep any admin-supplied key
		UpdatedAt:   time.Now().UTC(),
	}
	if perr := s.store.Put(ctx, rec); perr != nil {
		s.log.Warn("content fetched but not persisted", zap.String("version", version), zap.Error(perr))
	}
	return md, nil
}

// PutAuthenticated overwrites a version's record after checking the
// admin token. With no token configured the write path is open (flagged
// loudly at startup).
func (s *Service) PutAuthenticated(ctx context.Context, rec Record, token string) error {
	if !s.tokenOK(token) {
		return ErrUnauthorized
	}
	rec.UpdatedAt = time.Now().UTC()
	return s.store.Put(ctx, rec)
}

func (s *Service) tokenOK(token string) bool {
	if s.adminHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.adminHash), []byte(token)) == nil
	}
	if s.adminToken == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(s.adminToken), []byte(token)) == 1
}

// AnswersJSON exposes the stored key document for a version. Only the
// cache is consulted: the origin serves question markdown, never keys.
func (s *Service) AnswersJSON(ctx context.Context, version string) (string, error) {
	rec, err := s.store.Get(ctx, version)
	if err != nil {
		return "", err
	}
	return rec.AnswersJSON, nil
}
