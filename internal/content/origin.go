package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Source fetches canonical question markdown for a version from an
// upstream. Sources are tried in order on a cache miss.
type Source interface {
	Fetch(ctx context.Context, version string) (string, error)
}

// HTTPOrigin pulls raw markdown over HTTP, e.g. from a GitHub raw URL.
// The URL is urlBase/<version>.md unless urlBase contains %s, in which
// case the version is substituted there.
type HTTPOrigin struct {
	urlBase string
	client  *http.Client
}

// NewHTTPOrigin builds an origin with a bounded request timeout so a
// cache-miss read fails instead of hanging on a dead upstream.
func NewHTTPOrigin(urlBase string, timeout time.Duration) *HTTPOrigin {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &HTTPOrigin{
		urlBase: strings.TrimSuffix(urlBase, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (o *HTTPOrigin) url(version string) string {
	if strings.Contains(o.urlBase, "%s") {
		return fmt.Sprintf(o.urlBase, version)
	}
	return o.urlBase + "/" + version + ".md"
}

func (o *HTTPOrigin) Fetch(ctx context.Context, version string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.url(version), nil)
	if err != nil {
		return "", err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("origin fetch %q: %w", version, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("origin fetch %q: status %d", version, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if len(body) == 0 {
		// An empty quiz is indistinguishable from a broken upstream.
		return "", fmt.Errorf("origin fetch %q: empty body", version)
	}
	return string(body), nil
}

// FSSource serves <base>/<version>.md from disk, for offline deployments
// that ship content alongside the binary.
type FSSource struct{ base string }

func NewFSSource(base string) *FSSource {
	if base == "" {
		base = "./content"
	}
	return &FSSource{base: base}
}

func (s *FSSource) Fetch(_ context.Context, version string) (string, error) {
	b, err := os.ReadFile(filepath.Join(s.base, filepath.Clean(version)+".md"))
	if err != nil {
		return "", err
	}
	if len(b) == 0 {
		return "", fmt.Errorf("content file for %q is empty", version)
	}
	return string(b), nil
}

// Chain tries each source in order and returns the first success.
type Chain []Source

func (c Chain) Fetch(ctx context.Context, version string) (string, error) {
	var firstErr error
	for _, src := range c {
		md, err := src.Fetch(ctx, version)
		if err == nil {
			return md, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = errors.New("no sources configured")
	}
	return "", firstErr
}
