// Package graph accumulates undirected edges between points and compiles them
// into a read-only Cluster.
//
// Edges are collected per scheduler scope in ScopedEdges, merged into a Graph
// by a single goroutine after the parallel pass, then compiled once:
//
//	b := graph.NewBuilder(points, graph.BuilderOptions{})
//	b.Graph().InsertEdges(set)
//	cluster, err := b.Compile(ctx)
//
// A Cluster is safe for concurrent reads.
package graph
