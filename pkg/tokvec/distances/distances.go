// Package distances provides the histogram distances used alongside the
// vectorizers.
package distances

import "math"

// Kantorovich1D computes the 1-D Wasserstein (earth mover's) distance
// between two histograms over the same bin grid. Each histogram is
// normalized to unit mass, so only shape matters, and the distance is the
// L1 difference of the two cumulative distributions. Panics if the
// histograms differ in length; a histogram with no mass yields NaN.
func Kantorovich1D(x, y []float64) float64 {
	if len(x) != len(y) {
		panic("distances: histogram lengths differ")
	}
	var xmass, ymass float64
	for i := range x {
		xmass += x[i]
		ymass += y[i]
	}
	var cx, cy, d float64
	for i := range x {
		cx += x[i] / xmass
		cy += y[i] / ymass
		d += math.Abs(cx - cy)
	}
	return d
}
