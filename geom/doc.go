// Package geom provides the small set of 3D value types used by the graph
// pipeline: vectors, quaternions, transforms, boxes and quantized buckets.
//
// All types are plain values and safe to copy and share between goroutines.
package geom
