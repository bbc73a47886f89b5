package sparse

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
)

// COO is a coordinate-format accumulator: triplets are appended in walk
// order and duplicates are summed when converting to CSR. Dimensions
// grow automatically as entries arrive; Reshape sets the final shape
// when it exceeds what was observed.
type COO struct {
	rows, cols int
	r, c       []int
	v          []float64
}

// NewCOO creates an empty accumulator with the given initial dimensions.
func NewCOO(rows, cols int) *COO {
	return &COO{rows: rows, cols: cols}
}

// Append records one triplet. No deduplication happens here; repeated
// coordinates are summed by ToCSR.
func (m *COO) Append(i, j int, v float64) {
	if i >= m.rows {
		m.rows = i + 1
	}
	if j >= m.cols {
		m.cols = j + 1
	}
	m.r = append(m.r, i)
	m.c = append(m.c, j)
	m.v = append(m.v, v)
}

// Reshape grows the matrix to rows x cols. Shrinking below an observed
// coordinate is invalid.
func (m *COO) Reshape(rows, cols int) error {
	if rows < m.rows || cols < m.cols {
		return fmt.Errorf("reshape to %dx%d below observed %dx%d: %w",
			rows, cols, m.rows, m.cols, internalerr.ErrInvalidInput)
	}
	m.rows, m.cols = rows, cols
	return nil
}

// Dims returns the matrix dimensions.
func (m *COO) Dims() (int, int) { return m.rows, m.cols }

// At sums every triplet stored at (i, j). O(nnz); COO exists to be
// accumulated into and converted, not queried.
func (m *COO) At(i, j int) float64 {
	var sum float64
	for k := range m.r {
		if m.r[k] == i && m.c[k] == j {
			sum += m.v[k]
		}
	}
	return sum
}

// T returns the transpose view.
func (m *COO) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// NNZ returns the number of stored triplets, duplicates included.
func (m *COO) NNZ() int { return len(m.v) }

// NonZero visits stored triplets in append order. Duplicate coordinates
// are visited as often as they were appended.
func (m *COO) NonZero(fn func(i, j int, v float64)) {
	for k := range m.r {
		if m.v[k] != 0 {
			fn(m.r[k], m.c[k], m.v[k])
		}
	}
}

// ToCSR sorts the triplets by row then column and sums duplicates.
// The sort is stable, so duplicate coordinates are summed in append
// order and conversion is deterministic for a deterministic walk.
func (m *COO) ToCSR() *CSR {
	perm := make([]int, len(m.r))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		pa, pb := perm[a], perm[b]
		if m.r[pa] != m.r[pb] {
			return m.r[pa] < m.r[pb]
		}
		return m.c[pa] < m.c[pb]
	})

	indptr := make([]int, m.rows+1)
	indices := make([]int, 0, len(m.r))
	data := make([]float64, 0, len(m.r))

	lastRow, lastCol := -1, -1
	for _, k := range perm {
		row, col, val := m.r[k], m.c[k], m.v[k]
		if row == lastRow && col == lastCol {
			data[len(data)-1] += val
			continue
		}
		indices = append(indices, col)
		data = append(data, val)
		indptr[row+1]++
		lastRow, lastCol = row, col
	}
	for i := 1; i <= m.rows; i++ {
		indptr[i] += indptr[i-1]
	}

	return &CSR{rows: m.rows, cols: m.cols, indptr: indptr, indices: indices, data: data}
}
