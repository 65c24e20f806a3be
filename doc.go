// Package pointgraph turns unordered point sets into deduplicated undirected
// graphs and derives paths, edge properties and samples from them.
//
// # Quick Start
//
//	engine := pointgraph.New(pointgraph.WithWorkers(8))
//
//	cfg, err := pointgraph.Probes().
//	    Closest(2, 1).
//	    PreventCoincidence(0.01, geom.Truncate).
//	    Build()
//
//	conn, err := engine.Connect(ctx, points, cfg)
//	paths, err := engine.BreakToPaths(ctx, conn.Cluster, pointgraph.PathsConfig{})
//
// # Pipeline
//
// Each unit of work (one point set) runs in barrier-separated stages:
//
//  1. prepare: generator and connectable filters, optional projection
//  2. probe: every generator point queries the spatial index and runs the
//     probes, writing edges into scope-local sets
//  3. merge and compile: scope sets are merged single-threaded and the graph
//     is compiled into a read-only graph.Cluster
//  4. derive: chains, paths, edge properties
//
// # Errors
//
// A unit either succeeds or fails as a whole:
//
//   - ErrSetup (and *SetupError, *MissingAttributeError): bad configuration,
//     nothing is written.
//   - ErrEmptyInput: fewer than two points or no eligible point; batch
//     siblings proceed.
//   - ErrDegenerateGraph: no edge survived; the cluster is returned for
//     inspection but should be discarded.
//
// Per-point sampling failures are never errors; they are written as data.
package pointgraph
