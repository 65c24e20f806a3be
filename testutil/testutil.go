package testutil

import (
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/pointgraph/geom"
)

// RNG wraps a seeded random source. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 { return r.seed }

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Cloud returns n positions uniformly distributed inside b.
// Locks only once per call.
func (r *RNG) Cloud(n int, b geom.Box) []geom.Vec3 {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := b.Max.Sub(b.Min)
	out := make([]geom.Vec3, n)
	for i := range out {
		out[i] = geom.Vec3{
			X: b.Min.X + r.rand.Float64()*size.X,
			Y: b.Min.Y + r.rand.Float64()*size.Y,
			Z: b.Min.Z + r.rand.Float64()*size.Z,
		}
	}
	return out
}

// Grid returns nx*ny positions on the Z=0 plane, row by row.
func Grid(nx, ny int, spacing float64) []geom.Vec3 {
	out := make([]geom.Vec3, 0, nx*ny)
	for y := range ny {
		for x := range nx {
			out = append(out, geom.Vec3{X: float64(x) * spacing, Y: float64(y) * spacing})
		}
	}
	return out
}

// Line returns n positions along +X.
func Line(n int, spacing float64) []geom.Vec3 {
	return Grid(n, 1, spacing)
}

// Ring returns n positions on a counter-clockwise circle in the Z=0 plane.
func Ring(n int, radius float64) []geom.Vec3 {
	out := make([]geom.Vec3, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = geom.Vec3{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return out
}

// ExactInBox returns, in index order, every position inside the cube centered
// on origin with half-size radius for which include is nil or true.
func ExactInBox(positions []geom.Vec3, origin geom.Vec3, radius float64, include func(int) bool) []int {
	box := geom.BoxAround(origin, radius)
	var out []int
	for i, p := range positions {
		if include != nil && !include(i) {
			continue
		}
		if box.Contains(p) {
			out = append(out, i)
		}
	}
	return out
}

// ExactNearest returns the index and squared distance of the closest position
// to origin, ignoring indices for which skip returns true. Ties go to the
// lowest index. It returns -1 when nothing qualifies.
func ExactNearest(positions []geom.Vec3, origin geom.Vec3, skip func(int) bool) (int, float64) {
	best, bestD2 := -1, math.Inf(1)
	for i, p := range positions {
		if skip != nil && skip(i) {
			continue
		}
		if d2 := p.DistSquared(origin); d2 < bestD2 {
			best, bestD2 = i, d2
		}
	}
	return best, bestD2
}
