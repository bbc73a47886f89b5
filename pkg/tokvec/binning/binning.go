// Package binning computes histogram bin boundaries from 1-D samples.
// Boundaries are equal-mass rather than equal-width: each bin absorbs
// roughly the same share of the sample's cumulative value, which keeps
// heavily skewed count data from collapsing into one dominant bin.
package binning

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
)

// Boundaries computes bins+1 edge values over sample. The sample is not
// modified. The first edge is the sample minimum and the last the maximum;
// interior edges fall where the cumulative mass crosses each bin's share.
//
// Samples without enough distinct values to support bins+1 edges return
// the shorter edge list they can support together with ErrLowVariance.
// Callers must treat that as "the data has almost no variance" and keep
// going with the degenerate edges, not abort.
func Boundaries(sample []float64, bins int) ([]float64, error) {
	if bins < 1 {
		return nil, fmt.Errorf("bin count %d: %w", bins, internalerr.ErrInvalidConfig)
	}
	if len(sample) == 0 {
		return nil, fmt.Errorf("empty sample: %w", internalerr.ErrInvalidInput)
	}

	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	csum := make([]float64, len(sorted))
	floats.CumSum(csum, sorted)
	massPerBin := csum[len(csum)-1] / float64(bins)

	edges := []float64{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if csum[i] >= massPerBin*float64(len(edges)) && sorted[i] > edges[len(edges)-1] {
			edges = append(edges, sorted[i])
		}
	}

	if len(edges) < bins+1 {
		return edges, fmt.Errorf("sample supports %d of %d bin edges: %w",
			len(edges), bins+1, internalerr.ErrLowVariance)
	}
	return edges, nil
}

// Assign maps a value to its bin index for the given edge list. Bin j
// covers [edges[j], edges[j+1]); the final bin also includes its upper
// edge. Out-of-range values clamp to the nearest bin, so callers that
// want explicit outlier handling must range-check before assigning.
// Degenerate edge lists (fewer than 2 edges) map everything to bin 0.
func Assign(edges []float64, v float64) int {
	if len(edges) < 2 {
		return 0
	}
	i := sort.SearchFloat64s(edges, v)
	if i == len(edges) || edges[i] != v {
		i--
	}
	if i < 0 {
		return 0
	}
	if i > len(edges)-2 {
		return len(edges) - 2
	}
	return i
}
