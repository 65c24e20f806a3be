// Package blend combines weighted attribute values from source elements into
// target elements.
//
// A Blender is resolved once per (target, source) table pair and then driven
// per target element:
//
//	b.PrepareForBlending(t)
//	b.Blend(t, s1, w1)
//	b.Blend(t, s2, w2)
//	b.CompleteBlending(t, 2, w1+w2)
//
// Distinct target elements may be blended concurrently.
package blend
