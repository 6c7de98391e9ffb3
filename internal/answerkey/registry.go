package answerkey

import (
	"context"
	"fmt"
	"sort"
)

// Table is the full key for one quiz version, indexed by question number.
// Treated as read-only once built; it is shared across concurrent scoring
// calls without locking.
type Table map[int]Entry

// Numbers returns the question numbers in ascending order.
func (t Table) Numbers() []int {
	out := make([]int, 0, len(t))
	for n := range t {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// TotalPoints sums the weights of every entry in the table.
func (t Table) TotalPoints() int {
	sum := 0
	for _, e := range t {
		sum += e.Points
	}
	return sum
}

// Registry is an immutable version -> key table mapping, built once at
// startup and passed by reference into the scoring engine so tests can
// substitute fixture keys without shared state.
type Registry struct {
	versions map[string]Table
}

// New validates every entry and returns a registry over the given tables.
func New(versions map[string]Table) (*Registry, error) {
	for v, t := range versions {
		for _, e := range t {
			if err := e.Validate(); err != nil {
				return nil, fmt.Errorf("version %q: %w", v, err)
			}
		}
	}
	cp := make(map[string]Table, len(versions))
	for v, t := range versions {
		cp[v] = t
	}
	return &Registry{versions: cp}, nil
}

// Table returns the key table for a version. The second return is false
// when the version is unknown; callers score that as an empty result,
// not an error.
func (r *Registry) Table(_ context.Context, version string) (Table, bool) {
	t, ok := r.versions[version]
	return t, ok
}

// Versions lists the loaded version labels in lexical order.
func (r *Registry) Versions() []string {
	out := make([]string, 0, len(r.versions))
	for v := range r.versions {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
