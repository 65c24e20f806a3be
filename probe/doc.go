// Package probe implements the strategies that decide which neighbor points
// become edges.
//
// A probe is one of three kinds:
//
//   - DirectProbe: connects by a deterministic rule without spatial lookup.
//   - ChainedProbe: keeps a best candidate per point, updated in discovery order.
//   - SharedProbe: reads the full candidate list sorted by distance.
//
// A Set classifies probes once and runs all of them for one source point.
package probe
