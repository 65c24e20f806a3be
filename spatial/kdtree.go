package spatial

import (
	"iter"
	"math"
	"slices"

	"github.com/hupe1980/pointgraph/geom"
)

// DefaultLeafSize is the maximum number of points stored in a leaf.
const DefaultLeafSize = 16

type kdNode struct {
	bounds geom.Box
	left   int32 // -1 for leaves
	right  int32
	start  int32 // leaf item range
	end    int32
}

// KDTree indexes point positions for box and nearest queries.
type KDTree struct {
	nodes     []kdNode
	items     []int
	positions []geom.Vec3
	leafSize  int
}

// Options configures Build.
type Options struct {
	// LeafSize is the maximum number of points per leaf (default: 16).
	LeafSize int
}

// Build indexes every position for which include returns true. A nil include
// indexes all positions. The tree keeps a reference to positions, which must
// not be modified afterwards.
func Build(positions []geom.Vec3, include func(int) bool, optFns ...func(*Options)) *KDTree {
	opts := Options{LeafSize: DefaultLeafSize}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.LeafSize <= 0 {
		opts.LeafSize = DefaultLeafSize
	}

	t := &KDTree{positions: positions, leafSize: opts.LeafSize}
	t.items = make([]int, 0, len(positions))
	for i := range positions {
		if include == nil || include(i) {
			t.items = append(t.items, i)
		}
	}
	if len(t.items) == 0 {
		return t
	}

	t.nodes = make([]kdNode, 0, 2*len(t.items)/opts.LeafSize+1)
	t.build(0, len(t.items))
	return t
}

func (t *KDTree) build(start, end int) int32 {
	idx := int32(len(t.nodes))
	t.nodes = append(t.nodes, kdNode{left: -1, right: -1})

	b := geom.EmptyBox()
	for _, it := range t.items[start:end] {
		b = b.Extend(t.positions[it])
	}
	t.nodes[idx].bounds = b

	if end-start <= t.leafSize {
		t.nodes[idx].start = int32(start)
		t.nodes[idx].end = int32(end)
		return idx
	}

	axis := b.WidestAxis()
	slices.SortFunc(t.items[start:end], func(a, c int) int {
		pa, pc := t.positions[a].Component(axis), t.positions[c].Component(axis)
		switch {
		case pa < pc:
			return -1
		case pa > pc:
			return 1
		}
		return a - c
	})

	mid := (start + end) / 2
	left := t.build(start, mid)
	right := t.build(mid, end)
	t.nodes[idx].left = left
	t.nodes[idx].right = right
	return idx
}

// Len returns the number of indexed points.
func (t *KDTree) Len() int { return len(t.items) }

// Bounds returns the bounds of the indexed points. The box is invalid when
// the tree is empty.
func (t *KDTree) Bounds() geom.Box {
	if len(t.nodes) == 0 {
		return geom.EmptyBox()
	}
	return t.nodes[0].bounds
}

// QueryBox yields every indexed point inside the cube centered on origin with
// half-size radius. It is a box test: callers that need a sphere must filter
// by distance themselves.
func (t *KDTree) QueryBox(origin geom.Vec3, radius float64) iter.Seq[int] {
	return func(yield func(int) bool) {
		if len(t.nodes) == 0 || radius < 0 {
			return
		}
		box := geom.BoxAround(origin, radius)

		stack := make([]int32, 1, 32)
		for len(stack) > 0 {
			n := &t.nodes[stack[len(stack)-1]]
			stack = stack[:len(stack)-1]

			if !n.bounds.Intersects(box) {
				continue
			}
			if n.left < 0 {
				for _, it := range t.items[n.start:n.end] {
					if box.Contains(t.positions[it]) && !yield(it) {
						return
					}
				}
				continue
			}
			// right first so the left subtree is visited first
			stack = append(stack, n.right, n.left)
		}
	}
}

// QuerySphere yields indexed points within radius of origin, in QueryBox order.
func (t *KDTree) QuerySphere(origin geom.Vec3, radius float64) iter.Seq[int] {
	r2 := radius * radius
	return func(yield func(int) bool) {
		for it := range t.QueryBox(origin, radius) {
			if t.positions[it].DistSquared(origin) <= r2 && !yield(it) {
				return
			}
		}
	}
}

// Nearest returns the indexed point closest to origin within maxDist, skipping
// points for which skip returns true. A maxDist <= 0 means unbounded. Ties are
// resolved toward the lowest point index.
func (t *KDTree) Nearest(origin geom.Vec3, maxDist float64, skip func(int) bool) (int, float64, bool) {
	if len(t.nodes) == 0 {
		return -1, 0, false
	}
	best, bestD2 := -1, math.Inf(1)
	if maxDist > 0 {
		bestD2 = maxDist * maxDist
	}

	stack := make([]int32, 1, 32)
	for len(stack) > 0 {
		n := &t.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]

		if n.bounds.DistSquaredTo(origin) > bestD2 {
			continue
		}
		if n.left < 0 {
			for _, it := range t.items[n.start:n.end] {
				if skip != nil && skip(it) {
					continue
				}
				d2 := t.positions[it].DistSquared(origin)
				if d2 < bestD2 || (d2 == bestD2 && (best < 0 || it < best)) {
					best, bestD2 = it, d2
				}
			}
			continue
		}

		l, r := t.nodes[n.left].bounds.DistSquaredTo(origin), t.nodes[n.right].bounds.DistSquaredTo(origin)
		if l <= r {
			stack = append(stack, n.right, n.left)
		} else {
			stack = append(stack, n.left, n.right)
		}
	}

	if best < 0 {
		return -1, 0, false
	}
	return best, bestD2, true
}
