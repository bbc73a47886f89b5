package sparse

import (
	"fmt"

	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
)

// RemoveNodeCopy returns a CSR copy of g with every edge incident to
// node cleared, in both directions. Dimensions are preserved and the
// original is untouched.
func RemoveNodeCopy(g Matrix, node int) (*CSR, error) {
	rows, cols := g.Dims()
	if node < 0 || node >= rows || node >= cols {
		return nil, fmt.Errorf("node %d outside %dx%d graph: %w",
			node, rows, cols, internalerr.ErrInvalidInput)
	}

	coo := NewCOO(rows, cols)
	g.NonZero(func(i, j int, v float64) {
		if i == node || j == node {
			return
		}
		coo.Append(i, j, v)
	})
	return coo.ToCSR(), nil
}

// RemoveNodeInPlace clears every edge incident to node directly in g.
// Only mutation-friendly formats satisfy MutableAdjacency; compressed
// formats must be converted first.
func RemoveNodeInPlace(g MutableAdjacency, node int) error {
	rows, cols := g.Dims()
	if node < 0 || node >= rows || node >= cols {
		return fmt.Errorf("node %d outside %dx%d graph: %w",
			node, rows, cols, internalerr.ErrInvalidInput)
	}
	g.ClearRow(node)
	g.ClearColumn(node)
	return nil
}

// RemoveNode removes a node either by copy or in place. Requesting
// in-place removal on a format without mutation support fails rather
// than silently falling back to a copy.
func RemoveNode(g Matrix, node int, inplace bool) (Matrix, error) {
	if inplace {
		ma, ok := g.(MutableAdjacency)
		if !ok {
			return nil, fmt.Errorf("in-place removal on %T: %w",
				g, internalerr.ErrFormatIncompatible)
		}
		if err := RemoveNodeInPlace(ma, node); err != nil {
			return nil, err
		}
		return ma, nil
	}
	return RemoveNodeCopy(g, node)
}
