package cooccur

import (
	"fmt"

	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
	"github.com/cognicore/tokvec/pkg/tokvec/sparse"
	"github.com/cognicore/tokvec/pkg/tokvec/token"
	"github.com/cognicore/tokvec/pkg/tokvec/vocab"
)

// Model is a fitted co-occurrence vectorizer. It is immutable: Transform
// never alters it, and concurrent transforms are safe.
type Model struct {
	cfg      Config
	dict     *vocab.Dictionary
	columns  []ColumnKey
	colIndex map[string]int
	info     []float64
	weights  []float64
	matrix   *sparse.CSR
}

// Transform counts the model's learned contexts in a new corpus. Tokens
// outside the vocabulary and contexts that were never observed during the
// fit are skipped, so the result matches the transform of the same corpus
// with those tokens removed. The matrix shape is fixed by the model:
// vocabulary size by column count, regardless of the corpus.
func (m *Model) Transform(corpus token.Corpus) (*sparse.CSR, error) {
	makeWalker := func() *walker {
		w := newWalker(m.cfg, m.dict, m.weights, m.info)
		r := &lookupResolver{index: m.colIndex}
		w.resolve = r.resolve
		return w
	}
	ws := runWalkers(corpus, m.cfg, makeWalker)

	final := sparse.NewCOO(m.dict.Len(), len(m.columns))
	for _, w := range ws {
		w.coo.NonZero(func(i, j int, v float64) {
			final.Append(i, j, v)
		})
	}
	return final.ToCSR(), nil
}

// Matrix returns the co-occurrence matrix accumulated during the fit.
// Callers must treat it as read-only.
func (m *Model) Matrix() *sparse.CSR { return m.matrix }

// Config reports the normalized configuration the model was fitted with.
func (m *Model) Config() Config { return m.cfg }

// TokenDictionary returns the vocabulary mapping tokens to matrix rows.
func (m *Model) TokenDictionary() *vocab.Dictionary { return m.dict }

// Columns returns the column dictionary in column order. The keys share
// storage with the model and must not be modified.
func (m *Model) Columns() []ColumnKey {
	out := make([]ColumnKey, len(m.columns))
	copy(out, m.columns)
	return out
}

// InformationWeights returns the per-row surprisal weights learned during
// the fit, indexed like matrix rows, or nil unless the model was fitted
// with the information window function.
func (m *Model) InformationWeights() []float64 {
	if m.info == nil {
		return nil
	}
	out := make([]float64, len(m.info))
	copy(out, m.info)
	return out
}

// TokenGraph folds the fitted matrix into a square token-by-token
// adjacency over the vocabulary: every column weight is credited to each
// member of the column's context unit, with direction buckets collapsed.
// Combine with sparse.RemoveNode to drop a token from the graph.
func (m *Model) TokenGraph() *sparse.CSR {
	members := make([][]int, len(m.columns))
	for ci, key := range m.columns {
		rows := make([]int, 0, len(key.Ngram))
		for _, t := range key.Ngram {
			if r, ok := m.dict.Index(t); ok {
				rows = append(rows, r)
			}
		}
		members[ci] = rows
	}

	coo := sparse.NewCOO(m.dict.Len(), m.dict.Len())
	m.matrix.NonZero(func(i, j int, v float64) {
		for _, member := range members[j] {
			coo.Append(i, member, v)
		}
	})
	return coo.ToCSR()
}

// Restore reassembles a model from persisted parts. The matrix must have
// one row per dictionary token and one column per column key, every
// column ngram must consist of dictionary tokens of the configured size,
// and information-function models must carry one weight per row.
func Restore(cfg Config, dict *vocab.Dictionary, columns []ColumnKey, info []float64, matrix *sparse.CSR) (*Model, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return nil, err
	}
	if dict == nil || matrix == nil {
		return nil, fmt.Errorf("restore model: missing dictionary or matrix: %w", internalerr.ErrInvalidInput)
	}
	rows, cols := matrix.Dims()
	if rows != dict.Len() || cols != len(columns) {
		return nil, fmt.Errorf("restore model: matrix is %dx%d, want %dx%d: %w",
			rows, cols, dict.Len(), len(columns), internalerr.ErrInvalidInput)
	}

	var weights []float64
	if cfg.WindowFunction == FuncInformation {
		if len(info) != dict.Len() {
			return nil, fmt.Errorf("restore model: %d information weights for %d tokens: %w",
				len(info), dict.Len(), internalerr.ErrInvalidInput)
		}
	} else {
		info = nil
		weights = kernelTable(cfg.WindowFunction, cfg.WindowRadius)
	}

	colIndex := make(map[string]int, len(columns))
	unit := make([]int, 0, cfg.NgramSize)
	var keyBuf []byte
	for ci, key := range columns {
		if len(key.Ngram) != cfg.NgramSize {
			return nil, fmt.Errorf("restore model: column %d has %d tokens, want %d: %w",
				ci, len(key.Ngram), cfg.NgramSize, internalerr.ErrInvalidInput)
		}
		unit = unit[:0]
		for _, t := range key.Ngram {
			r, ok := dict.Index(t)
			if !ok {
				return nil, fmt.Errorf("restore model: column %d references token %s outside the dictionary: %w",
					ci, t, internalerr.ErrInvalidInput)
			}
			unit = append(unit, r)
		}
		keyBuf = appendKey(keyBuf[:0], unit, key.Bucket)
		if prev, dup := colIndex[string(keyBuf)]; dup {
			return nil, fmt.Errorf("restore model: columns %d and %d are duplicates: %w",
				prev, ci, internalerr.ErrInvalidInput)
		}
		colIndex[string(keyBuf)] = ci
	}

	return &Model{
		cfg:      cfg,
		dict:     dict,
		columns:  columns,
		colIndex: colIndex,
		info:     info,
		weights:  weights,
		matrix:   matrix,
	}, nil
}
