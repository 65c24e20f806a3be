// Package visited provides a reusable visited-node set for graph traversals.
package visited

// Set tracks visited node indices using a bitset and a dirty list for fast reset.
type Set struct {
	bits  []uint64
	dirty []int
}

// New creates a set sized for capacity nodes. It grows on demand.
func New(capacity int) *Set {
	return &Set{
		bits:  make([]uint64, (capacity+63)/64),
		dirty: make([]int, 0, 64),
	}
}

// Visit marks node i and reports whether this was the first visit.
func (s *Set) Visit(i int) bool {
	w := i >> 6
	mask := uint64(1) << (i & 63)
	if w >= len(s.bits) {
		s.grow(w + 1)
	}
	if s.bits[w]&mask != 0 {
		return false
	}
	s.bits[w] |= mask
	s.dirty = append(s.dirty, i)
	return true
}

// Visited reports whether node i has been visited.
func (s *Set) Visited(i int) bool {
	w := i >> 6
	if w >= len(s.bits) {
		return false
	}
	return s.bits[w]&(uint64(1)<<(i&63)) != 0
}

// Len returns the number of nodes visited since the last Reset.
func (s *Set) Len() int { return len(s.dirty) }

// Order returns the visited nodes in visit order. The slice is reused by Reset.
func (s *Set) Order() []int { return s.dirty }

// Reset clears every node visited since the last Reset.
func (s *Set) Reset() {
	for _, i := range s.dirty {
		s.bits[i>>6] &^= uint64(1) << (i & 63)
	}
	s.dirty = s.dirty[:0]
}

func (s *Set) grow(n int) {
	c := len(s.bits) * 2
	if c < n {
		c = n
	}
	bits := make([]uint64, c)
	copy(bits, s.bits)
	s.bits = bits
}
