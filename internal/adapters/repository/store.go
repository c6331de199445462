// Package repository defines the result store interface and its in-memory
// implementation.
package repository

import (
	"context"
	"slices"

	"github.com/okian/contestcorr/internal/domain/model"
)

// Set is a set of competitor indices into the store.
type Set map[int]struct{}

// Len returns the number of competitors in the set.
func (s Set) Len() int { return len(s) }

// Contains reports whether idx is in the set.
func (s Set) Contains(idx int) bool {
	_, ok := s[idx]
	return ok
}

// Sorted returns the indices in ascending order. This is the iteration order
// used when extracting aligned score pairs.
func (s Set) Sorted() []int {
	out := make([]int, 0, len(s))
	for idx := range s {
		out = append(out, idx)
	}
	slices.Sort(out)
	return out
}

// Intersect returns the competitors present in both a and b.
func Intersect(a, b Set) Set {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(Set, len(a))
	for idx := range a {
		if b.Contains(idx) {
			out[idx] = struct{}{}
		}
	}
	return out
}

// Filter restricts a query to participations whose provenance is one of a
// set of names. A nil Filter admits everything.
type Filter map[string]struct{}

// NewFilter builds a filter from provenance names. It returns nil when no
// names are given.
func NewFilter(names ...string) Filter {
	if len(names) == 0 {
		return nil
	}
	f := make(Filter, len(names))
	for _, n := range names {
		f[model.CanonicalName(n)] = struct{}{}
	}
	return f
}

// Allows reports whether a participation with the given provenance passes.
func (f Filter) Allows(provenance string) bool {
	if f == nil {
		return true
	}
	_, ok := f[model.CanonicalName(provenance)]
	return ok
}

// Store provides read access to decoded competitor records.
type Store interface {
	// ByCompetition returns the competitors with a participation in the
	// named competition whose provenance passes filter.
	// Returns ErrUnknownCompetition if the name is not in the catalog.
	ByCompetition(ctx context.Context, name string, filter Filter) (Set, error)

	// Record returns the competitor stored at idx.
	// Returns ErrNotFound if idx is out of range.
	Record(ctx context.Context, idx int) (model.CompetitorRecord, error)

	// Count returns the number of competitors in the store.
	Count(ctx context.Context) int

	// Catalog returns the competition catalog the records were decoded with.
	Catalog() *model.Catalog
}
