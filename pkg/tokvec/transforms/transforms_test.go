package transforms

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/tokvec/pkg/tokvec/distances"
	"github.com/cognicore/tokvec/pkg/tokvec/histvec"
)

func TestSequentialDifferences(t *testing.T) {
	seqs := [][]float64{
		{3, 1, 4, 1, 5},
		{2, 2},
		{7},
		{},
	}
	got := SequentialDifferences(seqs)
	want := [][]float64{
		{-2, 3, -3, 4},
		{0},
		{},
		{},
	}
	if len(got) != len(want) {
		t.Fatalf("%d sequences, want %d", len(got), len(want))
	}
	for i := range want {
		if len(got[i]) != len(want[i]) {
			t.Fatalf("sequence %d: %v, want %v", i, got[i], want[i])
		}
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("sequence %d: %v, want %v", i, got[i], want[i])
				break
			}
		}
	}
}

func TestSequentialDifferencesReconstruction(t *testing.T) {
	seq := []float64{10, 7, 7, 12, 4}
	diffs := SequentialDifferences([][]float64{seq})[0]
	level := seq[0]
	for i, d := range diffs {
		level += d
		if level != seq[i+1] {
			t.Fatalf("cumulating differences diverges at %d: %v != %v", i+1, level, seq[i+1])
		}
	}
}

func TestWassersteinEmbeddingMatchesKantorovich(t *testing.T) {
	samples := [][]float64{
		{1, 2, 2, 3, 3, 3, 90, 95},
		{50, 50, 50, 51, 52},
		{1, 1, 1, 1, 100},
		{10, 20, 30, 40, 50, 60, 70, 80},
	}
	model, err := histvec.FitHistogram(samples, histvec.HistogramConfig{Bins: 8})
	if err != nil {
		t.Fatalf("fit histograms: %v", err)
	}
	hists := model.Matrix()
	embedded := Wasserstein1D(hists)

	rows, _ := hists.Dims()
	for i := 0; i < rows; i++ {
		for j := i + 1; j < rows; j++ {
			want := distances.Kantorovich1D(hists.RawRowView(i), hists.RawRowView(j))
			var got float64
			for k, v := range embedded.RawRowView(i) {
				got += math.Abs(v - embedded.RawRowView(j)[k])
			}
			if math.Abs(got-want) > 1e-9 {
				t.Errorf("rows %d,%d: L1 of embeddings %v != Kantorovich %v", i, j, got, want)
			}
		}
	}
}

func TestWassersteinZeroMassRow(t *testing.T) {
	hists := mat.NewDense(2, 3, []float64{
		4, 0, 0,
		0, 0, 0,
	})
	out := Wasserstein1D(hists)
	for j := 0; j < 3; j++ {
		if got := out.At(1, j); got != 0 {
			t.Errorf("zero-mass row produced %v at column %d", got, j)
		}
	}
	if got := out.At(0, 2); got != 1 {
		t.Errorf("cumulative mass ends at %v, want 1", got)
	}
}
