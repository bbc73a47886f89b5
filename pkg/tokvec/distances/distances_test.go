package distances

import (
	"math"
	"testing"
)

func TestKantorovichSelfDistanceZero(t *testing.T) {
	h := []float64{3, 1, 4, 1, 5}
	if got := Kantorovich1D(h, h); got != 0 {
		t.Errorf("d(h,h) = %v, want 0", got)
	}
}

func TestKantorovichUnitShift(t *testing.T) {
	// Moving all mass one bin over costs exactly one bin of work.
	if got := Kantorovich1D([]float64{1, 0}, []float64{0, 1}); got != 1 {
		t.Errorf("d = %v, want 1", got)
	}
	if got := Kantorovich1D([]float64{1, 0, 0}, []float64{0, 0, 1}); got != 2 {
		t.Errorf("two-bin shift: d = %v, want 2", got)
	}
}

func TestKantorovichMassInvariance(t *testing.T) {
	// Histograms are normalized, so scaling changes nothing.
	a := Kantorovich1D([]float64{3, 1}, []float64{1, 3})
	b := Kantorovich1D([]float64{30, 10}, []float64{2, 6})
	if math.Abs(a-b) > 1e-15 {
		t.Errorf("scaled distance %v differs from %v", b, a)
	}
	if math.Abs(a-0.5) > 1e-15 {
		t.Errorf("d([3,1],[1,3]) = %v, want 0.5", a)
	}
}

func TestKantorovichSymmetry(t *testing.T) {
	x := []float64{5, 0, 2, 1}
	y := []float64{1, 1, 1, 1}
	if ab, ba := Kantorovich1D(x, y), Kantorovich1D(y, x); math.Abs(ab-ba) > 1e-15 {
		t.Errorf("d(x,y) = %v but d(y,x) = %v", ab, ba)
	}
}
