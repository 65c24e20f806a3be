package graph

import (
	"cmp"
	"slices"

	"github.com/hupe1980/pointgraph/internal/mt"
)

// EdgeKey is the canonical identity of an undirected edge between two point
// indices. Lo is always <= Hi.
type EdgeKey struct {
	Lo, Hi int
}

// NewEdgeKey returns the canonical key for the pair (a, b).
// NewEdgeKey(a, b) == NewEdgeKey(b, a).
func NewEdgeKey(a, b int) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{Lo: a, Hi: b}
}

// IsSelfLoop reports whether both endpoints are the same point.
func (k EdgeKey) IsSelfLoop() bool { return k.Lo == k.Hi }

// Compare orders keys by Lo then Hi.
func (k EdgeKey) Compare(o EdgeKey) int {
	if c := cmp.Compare(k.Lo, o.Lo); c != 0 {
		return c
	}
	return cmp.Compare(k.Hi, o.Hi)
}

// EdgeSet is a set of canonical edge keys. It is not safe for concurrent use.
type EdgeSet map[EdgeKey]struct{}

// NewEdgeSet returns an empty set sized for n edges.
func NewEdgeSet(n int) EdgeSet { return make(EdgeSet, n) }

// Add inserts the edge (a, b) and reports whether it was new.
// Self-loops are ignored.
func (s EdgeSet) Add(a, b int) bool {
	if a == b {
		return false
	}
	k := NewEdgeKey(a, b)
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = struct{}{}
	return true
}

// Has reports whether the edge (a, b) is in the set.
func (s EdgeSet) Has(a, b int) bool {
	_, ok := s[NewEdgeKey(a, b)]
	return ok
}

// Len returns the number of edges.
func (s EdgeSet) Len() int { return len(s) }

// Sorted returns the keys in ascending order.
func (s EdgeSet) Sorted() []EdgeKey {
	keys := make([]EdgeKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, EdgeKey.Compare)
	return keys
}

// ScopedEdges holds one EdgeSet per scheduler scope. A scope writes only to
// its own set, so probing needs no locking.
type ScopedEdges struct {
	sets *mt.Scoped[EdgeSet]
}

// NewScopedEdges allocates one set per scope.
func NewScopedEdges(scopes []mt.Scope) *ScopedEdges {
	return &ScopedEdges{
		sets: mt.NewScoped(scopes, func(sc mt.Scope) EdgeSet { return NewEdgeSet(sc.Len()) }),
	}
}

// Get returns the set owned by sc.
func (s *ScopedEdges) Get(sc mt.Scope) EdgeSet { return s.sets.Get(sc) }

// MergeInto inserts every scope's edges into g and returns the number of new
// edges. Call only after every scope has finished.
func (s *ScopedEdges) MergeInto(g *Graph) int {
	added := 0
	s.sets.ForEach(func(set EdgeSet) {
		added += g.InsertEdges(set)
	})
	return added
}
