package bitset

import (
	"math/bits"
	"sync/atomic"
)

// BitSet is a thread-safe fixed-size bitset.
type BitSet struct {
	words []atomic.Uint64
	size  int
}

// New creates a BitSet holding size flags, all clear.
func New(size int) *BitSet {
	if size < 0 {
		size = 0
	}
	return &BitSet{
		words: make([]atomic.Uint64, (size+63)/64),
		size:  size,
	}
}

// Len returns the number of flags.
func (b *BitSet) Len() int { return b.size }

// Set sets flag i. Out-of-range indices are ignored.
func (b *BitSet) Set(i int) {
	if i < 0 || i >= b.size {
		return
	}
	b.words[i>>6].Or(uint64(1) << (i & 63))
}

// Test reports whether flag i is set.
func (b *BitSet) Test(i int) bool {
	if i < 0 || i >= b.size {
		return false
	}
	return b.words[i>>6].Load()&(uint64(1)<<(i&63)) != 0
}

// TestAndSet sets flag i and returns true if it was ALREADY set.
// Among concurrent callers on the same clear flag exactly one gets false.
func (b *BitSet) TestAndSet(i int) bool {
	if i < 0 || i >= b.size {
		return true
	}
	w := &b.words[i>>6]
	mask := uint64(1) << (i & 63)

	// Optimistic check
	if w.Load()&mask != 0 {
		return true
	}

	for {
		old := w.Load()
		if old&mask != 0 {
			return true
		}
		if w.CompareAndSwap(old, old|mask) {
			return false
		}
	}
}

// Claim is TestAndSet with the result inverted: it returns true when the
// caller won flag i.
func (b *BitSet) Claim(i int) bool { return !b.TestAndSet(i) }

// Count returns the number of set flags.
func (b *BitSet) Count() int {
	n := 0
	for i := range b.words {
		n += bits.OnesCount64(b.words[i].Load())
	}
	return n
}

// NextClear returns the first clear flag at or after i, or -1.
func (b *BitSet) NextClear(i int) int {
	if i < 0 {
		i = 0
	}
	for ; i < b.size; i++ {
		w := b.words[i>>6].Load()
		if w == ^uint64(0) {
			i |= 63 // skip the rest of a full word
			continue
		}
		if w&(uint64(1)<<(i&63)) == 0 {
			return i
		}
	}
	return -1
}
