// Package docterm implements the simple document-term counters: bags of
// contiguous n-grams and of skip-gram pairs, one matrix row per document.
// They share the vocabulary handling of the co-occurrence engine, so
// sequences are filtered to the dictionary before units are extracted and
// out-of-vocabulary tokens behave as if they never appeared.
package docterm

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
	"github.com/cognicore/tokvec/pkg/tokvec/sparse"
	"github.com/cognicore/tokvec/pkg/tokvec/token"
	"github.com/cognicore/tokvec/pkg/tokvec/vocab"
)

// DefaultSkipgramRadius bounds how far apart skip-gram pairs may sit.
const DefaultSkipgramRadius = 5

// Thresholds carries the token pruning bounds shared by both counters.
// Semantics match the co-occurrence engine: frequencies are fractions of
// total occurrences, ignored tokens leave the denominator, and nothing
// applies when a fixed dictionary is set.
type Thresholds struct {
	TokenDictionary *vocab.Dictionary
	MinOccurrences  int64
	MaxOccurrences  int64
	MinFrequency    float64
	MaxFrequency    float64
	IgnoredTokens   []token.Token
}

func (t Thresholds) validate() error {
	if t.MinOccurrences < 0 || t.MaxOccurrences < 0 {
		return fmt.Errorf("negative occurrence threshold: %w", internalerr.ErrInvalidConfig)
	}
	if t.MinFrequency < 0 || t.MinFrequency > 1 || t.MaxFrequency < 0 || t.MaxFrequency > 1 {
		return fmt.Errorf("frequency thresholds must lie in [0,1]: %w", internalerr.ErrInvalidConfig)
	}
	if t.MaxFrequency > 0 && t.MinFrequency > t.MaxFrequency {
		return fmt.Errorf("min frequency %g above max frequency %g: %w",
			t.MinFrequency, t.MaxFrequency, internalerr.ErrInvalidConfig)
	}
	return nil
}

func (t Thresholds) vocabThresholds() vocab.Thresholds {
	return vocab.Thresholds{
		MinOccurrences: t.MinOccurrences,
		MaxOccurrences: t.MaxOccurrences,
		MinFrequency:   t.MinFrequency,
		MaxFrequency:   t.MaxFrequency,
		Ignored:        t.IgnoredTokens,
	}
}

// NgramConfig controls a bag-of-ngrams fit.
type NgramConfig struct {
	// NgramSize is the unit width; zero means unigrams.
	NgramSize int
	Thresholds
}

// SkipgramConfig controls a skip-gram fit. Units are ordered (head, tail)
// pairs whose positions in the filtered sequence are at most WindowRadius
// apart.
type SkipgramConfig struct {
	// WindowRadius is the maximum pair distance; zero means the default.
	WindowRadius int
	Thresholds
}

// NgramModel is a fitted bag-of-ngrams counter.
type NgramModel struct {
	core core
	k    int
}

// SkipgramModel is a fitted skip-gram counter.
type SkipgramModel struct {
	core   core
	radius int
}

// FitNgrams learns the unit dictionary from the distinct n-grams observed
// in the corpus, in sorted unit order.
func FitNgrams(corpus token.Corpus, cfg NgramConfig) (*NgramModel, error) {
	if cfg.NgramSize == 0 {
		cfg.NgramSize = 1
	}
	if cfg.NgramSize < 0 {
		return nil, fmt.Errorf("ngram size %d: %w", cfg.NgramSize, internalerr.ErrInvalidConfig)
	}
	if err := cfg.Thresholds.validate(); err != nil {
		return nil, err
	}
	c, err := fitCore(corpus, cfg.Thresholds, ngramUnits(cfg.NgramSize))
	if err != nil {
		return nil, err
	}
	return &NgramModel{core: c, k: cfg.NgramSize}, nil
}

// Transform counts the fitted units in a new corpus, one row per document
// in corpus order. Documents without any fitted unit, including empty
// ones, produce all-zero rows.
func (m *NgramModel) Transform(corpus token.Corpus) (*sparse.CSR, error) {
	return m.core.transform(corpus, ngramUnits(m.k))
}

// Matrix returns the document-term counts of the fit corpus.
func (m *NgramModel) Matrix() *sparse.CSR { return m.core.matrix }

// Units returns the fitted unit dictionary in column order.
func (m *NgramModel) Units() []token.Sequence { return m.core.unitTokens() }

// TokenDictionary returns the token vocabulary behind the units.
func (m *NgramModel) TokenDictionary() *vocab.Dictionary { return m.core.dict }

// FitSkipgrams learns the unit dictionary from the distinct in-window
// (head, tail) pairs observed in the corpus.
func FitSkipgrams(corpus token.Corpus, cfg SkipgramConfig) (*SkipgramModel, error) {
	if cfg.WindowRadius == 0 {
		cfg.WindowRadius = DefaultSkipgramRadius
	}
	if cfg.WindowRadius < 0 {
		return nil, fmt.Errorf("window radius %d: %w", cfg.WindowRadius, internalerr.ErrInvalidConfig)
	}
	if err := cfg.Thresholds.validate(); err != nil {
		return nil, err
	}
	c, err := fitCore(corpus, cfg.Thresholds, skipgramUnits(cfg.WindowRadius))
	if err != nil {
		return nil, err
	}
	return &SkipgramModel{core: c, radius: cfg.WindowRadius}, nil
}

// Transform counts the fitted pairs in a new corpus, one row per document.
func (m *SkipgramModel) Transform(corpus token.Corpus) (*sparse.CSR, error) {
	return m.core.transform(corpus, skipgramUnits(m.radius))
}

// Matrix returns the document-term counts of the fit corpus.
func (m *SkipgramModel) Matrix() *sparse.CSR { return m.core.matrix }

// Units returns the fitted pair dictionary in column order.
func (m *SkipgramModel) Units() []token.Sequence { return m.core.unitTokens() }

// TokenDictionary returns the token vocabulary behind the pairs.
func (m *SkipgramModel) TokenDictionary() *vocab.Dictionary { return m.core.dict }

// unitsFunc emits every unit of one dictionary-filtered sequence. Units
// are row-index slices only valid during the call.
type unitsFunc func(rows []int, emit func(unit []int))

func ngramUnits(k int) unitsFunc {
	return func(rows []int, emit func(unit []int)) {
		for i := 0; i+k <= len(rows); i++ {
			emit(rows[i : i+k])
		}
	}
}

func skipgramUnits(radius int) unitsFunc {
	return func(rows []int, emit func(unit []int)) {
		var pair [2]int
		for i := range rows {
			for d := 1; d <= radius && i+d < len(rows); d++ {
				pair[0], pair[1] = rows[i], rows[i+d]
				emit(pair[:])
			}
		}
	}
}

// core is the fitted state both counters share: the token vocabulary, the
// sorted unit dictionary, and the fit-corpus counts.
type core struct {
	dict   *vocab.Dictionary
	units  [][]int
	index  map[string]int
	matrix *sparse.CSR
}

func unitKey(dst []byte, unit []int) []byte {
	for _, u := range unit {
		dst = binary.AppendUvarint(dst, uint64(u))
	}
	return dst
}

func fitCore(corpus token.Corpus, th Thresholds, units unitsFunc) (core, error) {
	dict, _, err := vocab.Learn(corpus, th.TokenDictionary, th.vocabThresholds())
	if err != nil {
		return core{}, err
	}

	ids := make(map[string]int)
	var interned [][]int
	var keyBuf []byte
	coo := sparse.NewCOO(len(corpus), 0)
	rows := make([]int, 0, 64)

	for di, seq := range corpus {
		rows = rows[:0]
		for _, t := range seq {
			if r, ok := dict.Index(t); ok {
				rows = append(rows, r)
			}
		}
		units(rows, func(unit []int) {
			keyBuf = unitKey(keyBuf[:0], unit)
			id, ok := ids[string(keyBuf)]
			if !ok {
				id = len(interned)
				ids[string(keyBuf)] = id
				interned = append(interned, append([]int(nil), unit...))
			}
			coo.Append(di, id, 1)
		})
	}

	// Units sort by token identity, elementwise, so column order depends
	// only on which units were observed.
	order := make([]int, len(interned))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return lessUnits(dict, interned[order[a]], interned[order[b]])
	})
	sorted := make([][]int, len(interned))
	toColumn := make([]int, len(interned))
	for col, id := range order {
		sorted[col] = interned[id]
		toColumn[id] = col
	}

	index := make(map[string]int, len(sorted))
	for col, unit := range sorted {
		keyBuf = unitKey(keyBuf[:0], unit)
		index[string(keyBuf)] = col
	}

	final := sparse.NewCOO(len(corpus), len(sorted))
	coo.NonZero(func(i, j int, v float64) {
		final.Append(i, toColumn[j], v)
	})

	return core{dict: dict, units: sorted, index: index, matrix: final.ToCSR()}, nil
}

func lessUnits(dict *vocab.Dictionary, a, b []int) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return dict.TokenAt(a[i]).Less(dict.TokenAt(b[i]))
		}
	}
	return len(a) < len(b)
}

func (c *core) transform(corpus token.Corpus, units unitsFunc) (*sparse.CSR, error) {
	coo := sparse.NewCOO(len(corpus), len(c.units))
	rows := make([]int, 0, 64)
	var keyBuf []byte

	for di, seq := range corpus {
		rows = rows[:0]
		for _, t := range seq {
			if r, ok := c.dict.Index(t); ok {
				rows = append(rows, r)
			}
		}
		units(rows, func(unit []int) {
			keyBuf = unitKey(keyBuf[:0], unit)
			if col, ok := c.index[string(keyBuf)]; ok {
				coo.Append(di, col, 1)
			}
		})
	}
	return coo.ToCSR(), nil
}

func (c *core) unitTokens() []token.Sequence {
	out := make([]token.Sequence, len(c.units))
	for i, unit := range c.units {
		gram := make(token.Sequence, len(unit))
		for j, row := range unit {
			gram[j] = c.dict.TokenAt(row)
		}
		out[i] = gram
	}
	return out
}
