// Package chain decomposes a compiled cluster into chains: maximal walks
// through degree-2 nodes between cut nodes (endpoints, branches and
// breakpoints), closed loops, and single-node leaves.
//
// Every edge of the cluster belongs to exactly one chain. Seeds are walked
// in parallel; each walk claims its first directed traversal with a
// compare-and-set and a finished walk claims ownership of its chain, so two
// walkers racing over the same chain from opposite ends never both emit it.
package chain
