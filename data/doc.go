// Package data holds the point collections consumed by the graph pipeline and
// the typed attribute registry attached to them.
//
// A Table maps attribute names to typed Buffers. Accessors are resolved once
// (Lookup, Ensure) and then used by index from any number of goroutines, as
// long as two goroutines never write the same index. Adding or removing
// attributes is not safe for concurrent use.
package data
