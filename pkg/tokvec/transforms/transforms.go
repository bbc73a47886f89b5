// Package transforms holds stateless reshaping transforms applied to
// value sequences and histogram matrices before modelling.
package transforms

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SequentialDifferences replaces each sequence by its successive
// differences, v[i+1]-v[i], turning level series into step series.
// Sequences shorter than two values yield empty difference sequences.
func SequentialDifferences(seqs [][]float64) [][]float64 {
	out := make([][]float64, len(seqs))
	for i, seq := range seqs {
		if len(seq) < 2 {
			out[i] = []float64{}
			continue
		}
		diffs := make([]float64, len(seq)-1)
		for j := range diffs {
			diffs[j] = seq[j+1] - seq[j]
		}
		out[i] = diffs
	}
	return out
}

// Wasserstein1D re-embeds histogram rows as normalized cumulative
// distributions. In the result, the L1 distance between two rows equals
// the 1-D Wasserstein distance between the original histograms, so
// downstream models can use plain Minkowski metrics. Rows with no mass
// stay all zero.
func Wasserstein1D(hists *mat.Dense) *mat.Dense {
	rows, cols := hists.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		row := hists.RawRowView(i)
		mass := floats.Sum(row)
		if mass == 0 {
			continue
		}
		cum := out.RawRowView(i)
		floats.CumSum(cum, row)
		floats.Scale(1/mass, cum)
	}
	return out
}
