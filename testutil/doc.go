// Package testutil provides point fixtures and brute-force references for
// pointgraph tests.
//
// This package is intended for use in tests and benchmarks only.
//
// # Fixtures
//
//	rng := testutil.NewRNG(seed)
//	cloud := rng.Cloud(1000, geom.BoxAround(geom.Zero, 10))
//	grid := testutil.Grid(4, 4, 1)      // 16 points, spacing 1
//	ring := testutil.Ring(8, 2)         // 8 points on a circle of radius 2
//
// # Ground truth
//
//	want := testutil.ExactInBox(positions, origin, radius, nil)
//	idx, d2 := testutil.ExactNearest(positions, origin, skip)
package testutil
