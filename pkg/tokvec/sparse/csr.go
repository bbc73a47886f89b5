package sparse

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// CSR is a compressed sparse row matrix, the exchange and result format.
// Row i's entries live at positions indptr[i]..indptr[i+1] of indices and
// data, with indices sorted within each row. CSR supports fast row
// iteration and lookups but no in-place structural mutation.
type CSR struct {
	rows, cols int
	indptr     []int
	indices    []int
	data       []float64
}

// Dims returns the matrix dimensions.
func (m *CSR) Dims() (int, int) { return m.rows, m.cols }

// At returns the value at (i, j), zero when nothing is stored there.
func (m *CSR) At(i, j int) float64 {
	start, end := m.indptr[i], m.indptr[i+1]
	cols := m.indices[start:end]
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return m.data[start+k]
	}
	return 0
}

// T returns the transpose view.
func (m *CSR) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.data) }

// NonZero visits stored entries in row-major order.
func (m *CSR) NonZero(fn func(i, j int, v float64)) {
	for i := 0; i < m.rows; i++ {
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			if m.data[k] != 0 {
				fn(i, m.indices[k], m.data[k])
			}
		}
	}
}

// Row returns views of row i's column indices and values. Callers must
// not mutate them.
func (m *CSR) Row(i int) ([]int, []float64) {
	start, end := m.indptr[i], m.indptr[i+1]
	return m.indices[start:end], m.data[start:end]
}

// ToLIL converts to list-of-lists form for in-place mutation.
func (m *CSR) ToLIL() *LIL {
	l := NewLIL(m.rows, m.cols)
	m.NonZero(func(i, j int, v float64) {
		l.Set(i, j, v)
	})
	return l
}
