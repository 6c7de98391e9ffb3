package answerkey

import (
	"context"
	"sync"
)

// DocSource supplies the stored answers document for a version. The
// content store satisfies this; tests plug in fakes.
type DocSource interface {
	AnswersJSON(ctx context.Context, version string) (string, error)
}

// Resolver serves key tables from a static registry first and falls back
// to parsing answer documents from a DocSource, caching parsed tables.
// Cached tables are dropped via Invalidate when content is overwritten.
type Resolver struct {
	static *Registry
	src    DocSource

	mu     sync.RWMutex
	cached map[string]Table
}

func NewResolver(static *Registry, src DocSource) *Resolver {
	return &Resolver{
		static: static,
		src:    src,
		cached: map[string]Table{},
	}
}

func (r *Resolver) Table(ctx context.Context, version string) (Table, bool) {
	if r.static != nil {
		if t, ok := r.static.Table(ctx, version); ok {
			return t, true
		}
	}
	r.mu.RLock()
	t, ok := r.cached[version]
	r.mu.RUnlock()
	if ok {
		return t, true
	}
	if r.src == nil {
		return nil, false
	}
	doc, err := r.src.AnswersJSON(ctx, version)
	if err != nil || doc == "" {
		return nil, false
	}
	t, err = ParseKeyJSON([]byte(doc))
	if err != nil {
		return nil, false
	}
	r.mu.Lock()
	r.cached[version] = t
	r.mu.Unlock()
	return t, true
}

// Invalidate drops a cached table so the next lookup re-reads the store.
func (r *Resolver) Invalidate(version string) {
	r.mu.Lock()
	delete(r.cached, version)
	r.mu.Unlock()
}
