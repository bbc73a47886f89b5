// Package sparse implements the sparse matrix formats the vectorizers
// accumulate into and exchange: COO for accumulation, CSR for results,
// LIL for in-place adjacency mutation. All formats satisfy gonum's
// mat.Matrix, so dense consumers interoperate without conversion.
package sparse

import "gonum.org/v1/gonum/mat"

// Matrix is the read-only view shared by the sparse formats.
type Matrix interface {
	mat.Matrix

	// NNZ returns the number of stored entries.
	NNZ() int

	// NonZero calls fn for every stored entry. Entries stored with an
	// explicit zero value are skipped.
	NonZero(fn func(i, j int, v float64))
}

// MutableAdjacency is satisfied by formats supporting efficient in-place
// row and column mutation. Compressed formats deliberately do not
// satisfy it; convert to LIL first.
type MutableAdjacency interface {
	Matrix

	Set(i, j int, v float64)
	ClearRow(i int)
	ClearColumn(j int)
}

// Equal reports whether two matrices agree in shape and in every entry.
// Explicit zeros are indistinguishable from absent entries.
func Equal(a, b Matrix) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return false
	}
	agree := true
	a.NonZero(func(i, j int, v float64) {
		if b.At(i, j) != v {
			agree = false
		}
	})
	if !agree {
		return false
	}
	b.NonZero(func(i, j int, v float64) {
		if a.At(i, j) != v {
			agree = false
		}
	})
	return agree
}

// EqualApprox reports whether two matrices agree in shape and entrywise
// within tol. Used to compare accumulations whose summation order may
// differ.
func EqualApprox(a, b Matrix, tol float64) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return false
	}
	agree := true
	a.NonZero(func(i, j int, v float64) {
		d := b.At(i, j) - v
		if d < -tol || d > tol {
			agree = false
		}
	})
	if !agree {
		return false
	}
	b.NonZero(func(i, j int, v float64) {
		d := a.At(i, j) - v
		if d < -tol || d > tol {
			agree = false
		}
	})
	return agree
}
