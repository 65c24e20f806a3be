// Package bitset provides a fixed-size bitset with lock-free atomic claims.
//
// Architecture:
//   - One atomic.Uint64 per 64 flags, allocated up front
//   - TestAndSet is a compare-and-swap loop, so exactly one caller wins a flag
//
// Used internally for:
//   - Chain discovery: one flag per (edge, direction) traversal attempt
//   - Chain ownership: one flag per edge, claimed when a walk completes
package bitset
