// Package spatial implements the bounding-volume index used for neighbor
// queries during probing and sampling.
//
// The index is a KD-tree stored in flat slices: interior nodes split their
// items at the median of the widest axis and leaves hold up to LeafSize point
// indices. Every node keeps the bounds of the points below it, so box queries
// prune whole subtrees with a single overlap test.
//
// A KDTree is built once and is read-only afterwards; any number of goroutines
// may query it concurrently.
package spatial
