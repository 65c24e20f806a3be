package bitset

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitSet(t *testing.T) {
	b := New(100)
	assert.Equal(t, 100, b.Len())

	b.Set(10)
	assert.True(t, b.Test(10))
	assert.False(t, b.Test(11))
	assert.Equal(t, 1, b.Count())

	b.Set(64)
	b.Set(99)
	assert.Equal(t, 3, b.Count())

	// out of range is ignored
	b.Set(100)
	b.Set(-1)
	assert.False(t, b.Test(100))
	assert.Equal(t, 3, b.Count())
}

func TestBitSet_TestAndSet(t *testing.T) {
	b := New(10)
	assert.False(t, b.TestAndSet(3))
	assert.True(t, b.TestAndSet(3))
	assert.True(t, b.Claim(4))
	assert.False(t, b.Claim(4))
}

func TestBitSet_NextClear(t *testing.T) {
	b := New(130)
	for i := range 70 {
		b.Set(i)
	}
	assert.Equal(t, 70, b.NextClear(0))
	b.Set(70)
	assert.Equal(t, 71, b.NextClear(0))
	assert.Equal(t, 129, b.NextClear(129))

	full := New(64)
	for i := range 64 {
		full.Set(i)
	}
	assert.Equal(t, -1, full.NextClear(0))
}

func TestBitSet_ConcurrentClaims(t *testing.T) {
	const flags = 1000
	const workers = 8

	b := New(flags)
	var wins atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for i := range flags {
				if b.Claim(i) {
					wins.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(flags), wins.Load(), "every flag must be won exactly once")
	assert.Equal(t, flags, b.Count())
}
