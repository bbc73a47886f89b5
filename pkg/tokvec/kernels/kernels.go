// Package kernels provides the window weighting functions used by the
// co-occurrence accumulator. A kernel maps the positions of a context
// window to per-position weights; position 0 is the window slot nearest
// the focal token, regardless of which side of it the window lies on.
package kernels

import "math"

// Func is a window kernel. offsets holds the window's relative offsets
// ordered near edge first; scale is the configured window radius. The
// result has one non-negative weight per offset, in the same order.
// Kernels are pure: no side effects, deterministic for equal inputs.
type Func func(offsets []int, scale float64) []float64

// Flat weights every window position 1.0, giving plain co-occurrence counts.
func Flat(offsets []int, scale float64) []float64 {
	w := make([]float64, len(offsets))
	for i := range w {
		w[i] = 1.0
	}
	return w
}

// Harmonic weights position i as 1/(i+1). Decay depends only on the
// position from the near edge, not on scale.
func Harmonic(offsets []int, scale float64) []float64 {
	w := make([]float64, len(offsets))
	for i := range w {
		w[i] = 1.0 / float64(i+1)
	}
	return w
}

// Triangle weights position i as scale-i, a linear decay from scale at the
// near edge. Callers must keep scale >= len(offsets); smaller scales
// produce non-positive weights and are not defended here.
func Triangle(offsets []int, scale float64) []float64 {
	w := make([]float64, len(offsets))
	for i := range w {
		w[i] = scale - float64(i)
	}
	return w
}

// InformationWeights converts relative token frequencies into surprisal
// weights, -ln(freq). Entries with zero frequency carry no calibrated
// estimate and get weight 0. Used by the information window function,
// where a context's weight depends on how distinctive its token is in
// the fitted corpus rather than on window position.
func InformationWeights(freqs []float64) []float64 {
	w := make([]float64, len(freqs))
	for i, f := range freqs {
		if f > 0 {
			w[i] = -math.Log(f)
		}
	}
	return w
}
