package blend

import "github.com/hupe1980/pointgraph/geom"

// Weights returns one weight per source position, falling off with the
// squared distance to target: w = 1 - d²/max(d²). A single source weighs 1;
// when every weight is zero (all sources equidistant) each gets 1/n.
func Weights(target geom.Vec3, sources []geom.Vec3) []float64 {
	out := make([]float64, len(sources))
	if len(sources) == 0 {
		return out
	}
	if len(sources) == 1 {
		out[0] = 1
		return out
	}

	maxD2 := 0.0
	for i, p := range sources {
		out[i] = p.DistSquared(target)
		maxD2 = max(maxD2, out[i])
	}

	total := 0.0
	for i := range out {
		if maxD2 > 0 {
			out[i] = 1 - out[i]/maxD2
		} else {
			out[i] = 0
		}
		total += out[i]
	}

	if total == 0 {
		for i := range out {
			out[i] = 1 / float64(len(out))
		}
	}
	return out
}

// Total returns the sum of weights.
func Total(weights []float64) float64 {
	t := 0.0
	for _, w := range weights {
		t += w
	}
	return t
}
