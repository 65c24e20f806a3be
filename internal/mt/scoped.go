package mt

import "cmp"

// Scoped holds one value per scope. Each scope only touches its own slot, so
// no synchronization is needed until the values are read after the barrier.
type Scoped[T any] struct {
	values []T
}

// NewScoped allocates one value per scope using init.
func NewScoped[T any](scopes []Scope, init func(Scope) T) *Scoped[T] {
	s := &Scoped[T]{values: make([]T, len(scopes))}
	for i, sc := range scopes {
		s.values[i] = init(sc)
	}
	return s
}

// Get returns the value owned by sc.
func (s *Scoped[T]) Get(sc Scope) T { return s.values[sc.LoopIndex] }

// ForEach visits every scope value in scope order.
func (s *Scoped[T]) ForEach(fn func(T)) {
	for _, v := range s.values {
		fn(v)
	}
}

// ScopedValue is a per-scope ordered value with reductions.
type ScopedValue[T cmp.Ordered] struct {
	values []T
}

// NewScopedValue allocates one slot per scope set to def.
func NewScopedValue[T cmp.Ordered](scopes []Scope, def T) *ScopedValue[T] {
	s := &ScopedValue[T]{values: make([]T, len(scopes))}
	for i := range s.values {
		s.values[i] = def
	}
	return s
}

// Get returns the value of sc.
func (s *ScopedValue[T]) Get(sc Scope) T { return s.values[sc.LoopIndex] }

// Set replaces the value of sc. Only the goroutine running sc may call it.
func (s *ScopedValue[T]) Set(sc Scope, v T) { s.values[sc.LoopIndex] = v }

// Max returns the maximum across scopes. The zero value is returned when
// there are no scopes.
func (s *ScopedValue[T]) Max() T {
	var out T
	for i, v := range s.values {
		if i == 0 || v > out {
			out = v
		}
	}
	return out
}

// Min returns the minimum across scopes.
func (s *ScopedValue[T]) Min() T {
	var out T
	for i, v := range s.values {
		if i == 0 || v < out {
			out = v
		}
	}
	return out
}
