package histvec

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
)

func ramp(n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	return vals
}

func TestHistogramOutlierBins(t *testing.T) {
	model, err := FitHistogram([][]float64{ramp(100)}, HistogramConfig{Bins: 20, AppendOutlierBins: true})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if got := model.NumFeatures(); got != 22 {
		t.Fatalf("NumFeatures = %d, want 20 interior bins plus 2 outlier bins", got)
	}
	result, err := model.Transform([][]float64{{-1.0, -1.0, -1.0, 150.0}})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if r, c := result.Dims(); r != 1 || c != 22 {
		t.Fatalf("result is %dx%d, want 1x22", r, c)
	}
	if got := result.At(0, 0); got != 3.0 {
		t.Errorf("below-range count = %v, want 3", got)
	}
	if got := result.At(0, 21); got != 1.0 {
		t.Errorf("above-range count = %v, want 1", got)
	}
}

func TestHistogramRowMassConservation(t *testing.T) {
	model, err := FitHistogram([][]float64{ramp(100)}, HistogramConfig{Bins: 10})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if got := len(model.Edges()); got != 11 {
		t.Fatalf("%d edges, want 11", got)
	}
	result, err := model.Transform([][]float64{{5, 15, 95}})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got := floats.Sum(result.RawRowView(0)); got != 3 {
		t.Errorf("row mass = %v, want 3", got)
	}

	// Without outlier bins out-of-range values clamp into the end bins,
	// so mass is still conserved.
	clamped, err := model.Transform([][]float64{{-5, 200}})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got := clamped.At(0, 0); got != 1 {
		t.Errorf("below-range value landed at %v in bin 0, want 1", got)
	}
	if got := clamped.At(0, 9); got != 1 {
		t.Errorf("above-range value landed at %v in the last bin, want 1", got)
	}
}

func TestHistogramTransformMatchesFit(t *testing.T) {
	samples := [][]float64{ramp(50), ramp(80), {3, 3, 7, 20}}
	model, err := FitHistogram(samples, HistogramConfig{Bins: 10})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	again, err := model.Transform(samples)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if !mat.Equal(model.Matrix(), again) {
		t.Error("transforming the fit samples does not reproduce the fit counts")
	}
}

func TestHistogramDegenerateSample(t *testing.T) {
	ones := make([]float64, 100)
	for i := range ones {
		ones[i] = 1.0
	}
	model, err := FitHistogram([][]float64{ones}, HistogramConfig{Bins: 10})
	if !errors.Is(err, internalerr.ErrLowVariance) {
		t.Fatalf("err = %v, want ErrLowVariance", err)
	}
	if model == nil {
		t.Fatal("degenerate fit returned no model")
	}
	if got := model.NumFeatures(); got != 10 {
		t.Errorf("NumFeatures = %d, want the configured 10", got)
	}
	result, err := model.Transform([][]float64{{1, 1}})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got := result.At(0, 0); got != 2 {
		t.Errorf("count in the single live bin = %v, want 2", got)
	}
}

func TestHistogramValidation(t *testing.T) {
	if _, err := FitHistogram([][]float64{ramp(10)}, HistogramConfig{Bins: -1}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("negative bins: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := FitHistogram(nil, HistogramConfig{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("no samples: err = %v, want ErrInvalidInput", err)
	}
	if _, err := FitHistogram([][]float64{{}}, HistogramConfig{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("empty samples: err = %v, want ErrInvalidInput", err)
	}
	model, err := FitHistogram([][]float64{ramp(100)}, HistogramConfig{Bins: 5})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if _, err := model.Transform(nil); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("transform without samples: err = %v, want ErrInvalidInput", err)
	}
}

func TestKDEShape(t *testing.T) {
	samples := [][]float64{ramp(30), ramp(50), {2, 4, 4, 8, 16}}
	model, err := FitKDE(samples, KDEConfig{GridSize: 20})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	r, c := model.Matrix().Dims()
	if r != len(samples) || c != 20 {
		t.Fatalf("result is %dx%d, want %dx20", r, c, len(samples))
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := model.Matrix().At(i, j); v < 0 {
				t.Errorf("negative density %v at (%d,%d)", v, i, j)
			}
		}
	}

	again, err := model.Transform(samples)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if !mat.Equal(model.Matrix(), again) {
		t.Error("transforming the fit samples does not reproduce the fit densities")
	}
}

func TestKDEKnownDensity(t *testing.T) {
	// Two unit-bandwidth kernels at 0 and 1, evaluated at the grid ends 0
	// and 1. By symmetry both estimates equal (phi(0) + phi(1)) / 2.
	model, err := FitKDE([][]float64{{0, 1}}, KDEConfig{GridSize: 2, Bandwidth: 1})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	want := (1 + math.Exp(-0.5)) / (2 * math.Sqrt(2*math.Pi))
	if got := model.Matrix().At(0, 0); math.Abs(got-want) > 1e-12 {
		t.Errorf("density at 0 = %v, want %v", got, want)
	}
	if got := model.Matrix().At(0, 1); math.Abs(got-want) > 1e-12 {
		t.Errorf("density at 1 = %v, want %v", got, want)
	}
}

func TestKDESilvermanBandwidth(t *testing.T) {
	model, err := FitKDE([][]float64{ramp(100)}, KDEConfig{})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if model.Bandwidth() <= 0 {
		t.Errorf("bandwidth = %v, want positive", model.Bandwidth())
	}
	if got := len(model.Grid()); got != DefaultBins {
		t.Errorf("grid size = %d, want %d", got, DefaultBins)
	}
}

func TestKDEDegenerateValues(t *testing.T) {
	if _, err := FitKDE([][]float64{{2, 2, 2}}, KDEConfig{}); !errors.Is(err, internalerr.ErrLowVariance) {
		t.Errorf("constant values: err = %v, want ErrLowVariance", err)
	}
	if _, err := FitKDE([][]float64{{5}}, KDEConfig{}); !errors.Is(err, internalerr.ErrLowVariance) {
		t.Errorf("single value: err = %v, want ErrLowVariance", err)
	}
}

func TestKDEValidation(t *testing.T) {
	if _, err := FitKDE([][]float64{ramp(10)}, KDEConfig{GridSize: -1}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("negative grid: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := FitKDE([][]float64{ramp(10)}, KDEConfig{Bandwidth: -0.5}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("negative bandwidth: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := FitKDE([][]float64{{}}, KDEConfig{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("empty samples: err = %v, want ErrInvalidInput", err)
	}
}
