package sparse

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// LIL is a list-of-lists matrix: each row holds parallel slices of sorted
// column indices and values. Insertion, row clearing, and column clearing
// are cheap, which makes LIL the mutable adjacency format; convert to CSR
// for exchange.
type LIL struct {
	rows, cols int
	idx        [][]int
	val        [][]float64
}

// NewLIL creates an empty rows x cols matrix.
func NewLIL(rows, cols int) *LIL {
	return &LIL{
		rows: rows,
		cols: cols,
		idx:  make([][]int, rows),
		val:  make([][]float64, rows),
	}
}

// Dims returns the matrix dimensions.
func (m *LIL) Dims() (int, int) { return m.rows, m.cols }

// At returns the value at (i, j).
func (m *LIL) At(i, j int) float64 {
	cols := m.idx[i]
	k := sort.SearchInts(cols, j)
	if k < len(cols) && cols[k] == j {
		return m.val[i][k]
	}
	return 0
}

// T returns the transpose view.
func (m *LIL) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// NNZ returns the number of stored entries.
func (m *LIL) NNZ() int {
	n := 0
	for i := range m.idx {
		n += len(m.idx[i])
	}
	return n
}

// NonZero visits stored entries in row-major order.
func (m *LIL) NonZero(fn func(i, j int, v float64)) {
	for i := range m.idx {
		for k, j := range m.idx[i] {
			if m.val[i][k] != 0 {
				fn(i, j, m.val[i][k])
			}
		}
	}
}

// Set stores v at (i, j), replacing any existing entry. Setting zero
// removes the entry.
func (m *LIL) Set(i, j int, v float64) {
	cols := m.idx[i]
	k := sort.SearchInts(cols, j)
	present := k < len(cols) && cols[k] == j

	switch {
	case present && v == 0:
		m.idx[i] = append(cols[:k], cols[k+1:]...)
		m.val[i] = append(m.val[i][:k], m.val[i][k+1:]...)
	case present:
		m.val[i][k] = v
	case v != 0:
		m.idx[i] = append(cols, 0)
		copy(m.idx[i][k+1:], m.idx[i][k:])
		m.idx[i][k] = j
		m.val[i] = append(m.val[i], 0)
		copy(m.val[i][k+1:], m.val[i][k:])
		m.val[i][k] = v
	}
}

// ClearRow removes every entry in row i.
func (m *LIL) ClearRow(i int) {
	m.idx[i] = nil
	m.val[i] = nil
}

// ClearColumn removes every entry in column j.
func (m *LIL) ClearColumn(j int) {
	for i := range m.idx {
		cols := m.idx[i]
		k := sort.SearchInts(cols, j)
		if k < len(cols) && cols[k] == j {
			m.idx[i] = append(cols[:k], cols[k+1:]...)
			m.val[i] = append(m.val[i][:k], m.val[i][k+1:]...)
		}
	}
}

// ToCSR converts to compressed form.
func (m *LIL) ToCSR() *CSR {
	nnz := m.NNZ()
	indptr := make([]int, m.rows+1)
	indices := make([]int, 0, nnz)
	data := make([]float64, 0, nnz)
	for i := range m.idx {
		indices = append(indices, m.idx[i]...)
		data = append(data, m.val[i]...)
		indptr[i+1] = len(indices)
	}
	return &CSR{rows: m.rows, cols: m.cols, indptr: indptr, indices: indices, data: data}
}
