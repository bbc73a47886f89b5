// Package histvec vectorizes sequences of scalar values: each input row
// becomes a fixed-width feature vector, either a histogram over bin edges
// learned from the fit data or a Gaussian kernel density estimate sampled
// on a fixed grid. Outputs are dense; these features feed models directly.
package histvec

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cognicore/tokvec/pkg/tokvec/binning"
	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
)

// DefaultBins is the histogram and KDE feature width when none is given.
const DefaultBins = 20

// HistogramConfig controls a histogram fit.
type HistogramConfig struct {
	// Bins is the number of interior bins; zero means DefaultBins.
	Bins int

	// AppendOutlierBins adds a below-range column before the interior
	// bins and an above-range column after them. Without them,
	// out-of-range values clamp into the nearest end bin.
	AppendOutlierBins bool
}

// HistogramModel holds bin edges learned from the fit values.
type HistogramModel struct {
	edges    []float64
	interior int
	outliers bool
	matrix   *mat.Dense
}

// FitHistogram learns equal-mass bin edges from all values across the
// samples and counts each fit sample into them. When the values have too
// little variance to support the requested bins, the model is still
// returned, over the degenerate shorter edge list, together with an error
// wrapping ErrLowVariance; callers should treat that as a warning.
func FitHistogram(samples [][]float64, cfg HistogramConfig) (*HistogramModel, error) {
	if cfg.Bins == 0 {
		cfg.Bins = DefaultBins
	}
	if cfg.Bins < 0 {
		return nil, fmt.Errorf("bin count %d: %w", cfg.Bins, internalerr.ErrInvalidConfig)
	}

	edges, err := binning.Boundaries(flatten(samples), cfg.Bins)
	if err != nil && !errors.Is(err, internalerr.ErrLowVariance) {
		return nil, err
	}

	// The feature width is fixed by the config, not by how many edges the
	// data supported: degenerate edge lists leave the trailing bins
	// permanently empty rather than shrinking the output.
	m := &HistogramModel{edges: edges, interior: cfg.Bins, outliers: cfg.AppendOutlierBins}
	m.matrix = m.count(samples)
	return m, err
}

// NumFeatures returns the transform output width.
func (m *HistogramModel) NumFeatures() int {
	if m.outliers {
		return m.interior + 2
	}
	return m.interior
}

// Edges returns the fitted bin edges.
func (m *HistogramModel) Edges() []float64 {
	out := make([]float64, len(m.edges))
	copy(out, m.edges)
	return out
}

// Matrix returns the histogram counts of the fit samples.
func (m *HistogramModel) Matrix() *mat.Dense { return m.matrix }

// Transform counts each sample's values into the fitted bins, one row per
// sample. Every value lands in exactly one column, so a row sums to the
// number of values in its sample.
func (m *HistogramModel) Transform(samples [][]float64) (*mat.Dense, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples: %w", internalerr.ErrInvalidInput)
	}
	return m.count(samples), nil
}

func (m *HistogramModel) count(samples [][]float64) *mat.Dense {
	if len(samples) == 0 {
		return nil
	}
	out := mat.NewDense(len(samples), m.NumFeatures(), nil)
	offset := 0
	if m.outliers {
		offset = 1
	}
	for i, sample := range samples {
		for _, v := range sample {
			var col int
			switch {
			case m.outliers && v < m.edges[0]:
				col = 0
			case m.outliers && v > m.edges[len(m.edges)-1]:
				col = m.NumFeatures() - 1
			default:
				col = binning.Assign(m.edges, v) + offset
			}
			out.Set(i, col, out.At(i, col)+1)
		}
	}
	return out
}

// KDEConfig controls a kernel density fit.
type KDEConfig struct {
	// GridSize is the number of evaluation points; zero means DefaultBins.
	GridSize int

	// Bandwidth is the Gaussian kernel width. Zero selects Silverman's
	// rule, 1.06 * stddev * n^(-1/5), from the fit values.
	Bandwidth float64
}

// KDEModel holds the evaluation grid and bandwidth learned from the fit
// values.
type KDEModel struct {
	grid   []float64
	bw     float64
	matrix *mat.Dense
}

// FitKDE fixes an evenly spaced evaluation grid over the range of all fit
// values and, if no bandwidth is given, derives one by Silverman's rule.
// Values without variance leave the kernel width and the grid degenerate,
// which fails with ErrLowVariance.
func FitKDE(samples [][]float64, cfg KDEConfig) (*KDEModel, error) {
	if cfg.GridSize == 0 {
		cfg.GridSize = DefaultBins
	}
	if cfg.GridSize < 0 {
		return nil, fmt.Errorf("grid size %d: %w", cfg.GridSize, internalerr.ErrInvalidConfig)
	}
	if cfg.Bandwidth < 0 {
		return nil, fmt.Errorf("bandwidth %g: %w", cfg.Bandwidth, internalerr.ErrInvalidConfig)
	}

	flat := flatten(samples)
	if len(flat) == 0 {
		return nil, fmt.Errorf("empty sample: %w", internalerr.ErrInvalidInput)
	}

	bw := cfg.Bandwidth
	if bw == 0 {
		if len(flat) < 2 {
			return nil, fmt.Errorf("bandwidth selection needs at least two values: %w", internalerr.ErrLowVariance)
		}
		bw = 1.06 * stat.StdDev(flat, nil) * math.Pow(float64(len(flat)), -0.2)
		if bw == 0 {
			return nil, fmt.Errorf("not enough spread for a kernel bandwidth: %w", internalerr.ErrLowVariance)
		}
	}

	lo, hi := floats.Min(flat), floats.Max(flat)
	grid := make([]float64, cfg.GridSize)
	if cfg.GridSize == 1 {
		grid[0] = (lo + hi) / 2
	} else {
		step := (hi - lo) / float64(cfg.GridSize-1)
		for i := range grid {
			grid[i] = lo + step*float64(i)
		}
	}

	m := &KDEModel{grid: grid, bw: bw}
	m.matrix = m.estimate(samples)
	return m, nil
}

// Grid returns the fitted evaluation points.
func (m *KDEModel) Grid() []float64 {
	out := make([]float64, len(m.grid))
	copy(out, m.grid)
	return out
}

// Bandwidth returns the kernel width in use.
func (m *KDEModel) Bandwidth() float64 { return m.bw }

// Matrix returns the density estimates of the fit samples.
func (m *KDEModel) Matrix() *mat.Dense { return m.matrix }

// Transform evaluates each sample's kernel density estimate on the fitted
// grid, one row per sample. Empty samples produce all-zero rows.
func (m *KDEModel) Transform(samples [][]float64) (*mat.Dense, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples: %w", internalerr.ErrInvalidInput)
	}
	return m.estimate(samples), nil
}

func (m *KDEModel) estimate(samples [][]float64) *mat.Dense {
	if len(samples) == 0 {
		return nil
	}
	out := mat.NewDense(len(samples), len(m.grid), nil)
	for i, sample := range samples {
		if len(sample) == 0 {
			continue
		}
		for gi, g := range m.grid {
			var sum float64
			for _, v := range sample {
				sum += distuv.Normal{Mu: v, Sigma: m.bw}.Prob(g)
			}
			out.Set(i, gi, sum/float64(len(sample)))
		}
	}
	return out
}

func flatten(samples [][]float64) []float64 {
	var n int
	for _, s := range samples {
		n += len(s)
	}
	flat := make([]float64, 0, n)
	for _, s := range samples {
		flat = append(flat, s...)
	}
	return flat
}
