// Package vocab builds and validates token dictionaries: the bijective
// token to row-index mappings a fitted vectorizer carries. Dictionaries
// are either learned from corpus statistics with frequency pruning, or
// supplied by the caller and treated as authoritative.
package vocab

import (
	"fmt"
	"sort"

	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
	"github.com/cognicore/tokvec/pkg/tokvec/token"
)

// Dictionary maps tokens to dense row indices, contiguous from 0.
// No two tokens share an index. Dictionaries are immutable once built.
type Dictionary struct {
	index map[token.Token]int
	toks  []token.Token
}

// FromTokens builds a dictionary assigning each token its position in the
// slice. Duplicate tokens are a configuration error; mixed kinds a type
// error. An empty dictionary is rejected because every fit against it
// would be vacuous.
func FromTokens(toks []token.Token) (*Dictionary, error) {
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty dictionary: %w", internalerr.ErrInvalidConfig)
	}
	index := make(map[token.Token]int, len(toks))
	kind := toks[0].Kind()
	for i, tok := range toks {
		if tok.Kind() == token.KindInvalid {
			return nil, fmt.Errorf("dictionary entry %d is uninitialized: %w", i, internalerr.ErrInvalidInput)
		}
		if tok.Kind() != kind {
			return nil, fmt.Errorf("dictionary mixes %s and %s tokens: %w",
				kind, tok.Kind(), internalerr.ErrTypeMismatch)
		}
		if prev, dup := index[tok]; dup {
			return nil, fmt.Errorf("token %v assigned to both index %d and %d: %w",
				tok, prev, i, internalerr.ErrInvalidConfig)
		}
		index[tok] = i
	}
	cp := make([]token.Token, len(toks))
	copy(cp, toks)
	return &Dictionary{index: index, toks: cp}, nil
}

// FromMap builds a dictionary from an explicit token to index mapping.
// Indices must form the contiguous range 0..len-1 with no index assigned
// twice; anything else is a malformed fixed dictionary.
func FromMap(m map[token.Token]int) (*Dictionary, error) {
	if len(m) == 0 {
		return nil, fmt.Errorf("empty dictionary: %w", internalerr.ErrInvalidConfig)
	}
	toks := make([]token.Token, len(m))
	seen := make([]bool, len(m))
	for tok, i := range m {
		if i < 0 || i >= len(m) {
			return nil, fmt.Errorf("token %v index %d outside 0..%d: %w",
				tok, i, len(m)-1, internalerr.ErrInvalidConfig)
		}
		if seen[i] {
			return nil, fmt.Errorf("index %d assigned to more than one token: %w",
				i, internalerr.ErrInvalidConfig)
		}
		seen[i] = true
		toks[i] = tok
	}
	return FromTokens(toks)
}

// Index returns the row index for a token and whether it is present.
func (d *Dictionary) Index(t token.Token) (int, bool) {
	i, ok := d.index[t]
	return i, ok
}

// TokenAt returns the token assigned to index i.
func (d *Dictionary) TokenAt(i int) token.Token { return d.toks[i] }

// Len returns the vocabulary size.
func (d *Dictionary) Len() int { return len(d.toks) }

// Kind reports the token kind the dictionary holds.
func (d *Dictionary) Kind() token.Kind { return d.toks[0].Kind() }

// Tokens returns the tokens in index order.
func (d *Dictionary) Tokens() []token.Token {
	cp := make([]token.Token, len(d.toks))
	copy(cp, d.toks)
	return cp
}

// Counts holds per-token occurrence counts over a corpus.
type Counts struct {
	ByToken map[token.Token]int64
	Total   int64
}

// ScanKinds verifies that every token in the corpus belongs to one kind
// and returns it. Mixed kinds fail with a type-mismatch error before any
// accumulation work; an empty corpus reports KindInvalid with no error.
func ScanKinds(corpus token.Corpus) (token.Kind, error) {
	kind := token.KindInvalid
	for _, seq := range corpus {
		for _, tok := range seq {
			k := tok.Kind()
			if k == token.KindInvalid {
				return kind, fmt.Errorf("uninitialized token in corpus: %w", internalerr.ErrInvalidInput)
			}
			if kind == token.KindInvalid {
				kind = k
				continue
			}
			if k != kind {
				return kind, fmt.Errorf("corpus mixes %s and %s tokens: %w",
					kind, k, internalerr.ErrTypeMismatch)
			}
		}
	}
	return kind, nil
}

// CountTokens tallies every token occurrence in the corpus.
func CountTokens(corpus token.Corpus) Counts {
	c := Counts{ByToken: make(map[token.Token]int64)}
	for _, seq := range corpus {
		for _, tok := range seq {
			c.ByToken[tok]++
			c.Total++
		}
	}
	return c
}

// Thresholds controls frequency-based pruning of a learned vocabulary.
// Frequencies are fractions of total token occurrences, with occurrences
// of Ignored tokens excluded from both the candidate set and the
// denominator, as if those tokens never appeared. Zero values mean no
// bound (MaxFrequency 0 is treated as 1). Thresholds never apply to a
// caller-fixed dictionary.
type Thresholds struct {
	MinOccurrences int64
	MaxOccurrences int64
	MinFrequency   float64
	MaxFrequency   float64
	Ignored        []token.Token
}

// Prune returns the tokens surviving the thresholds. Emptying the
// vocabulary is treated as caller misconfiguration, for example
// MinFrequency 1.0 demanding a single token own the whole corpus.
func Prune(c Counts, t Thresholds) (map[token.Token]struct{}, error) {
	ignored := make(map[token.Token]struct{}, len(t.Ignored))
	total := c.Total
	for _, tok := range t.Ignored {
		if _, dup := ignored[tok]; dup {
			continue
		}
		ignored[tok] = struct{}{}
		total -= c.ByToken[tok]
	}

	maxFreq := t.MaxFrequency
	if maxFreq == 0 {
		maxFreq = 1.0
	}

	retained := make(map[token.Token]struct{})
	for tok, n := range c.ByToken {
		if _, skip := ignored[tok]; skip {
			continue
		}
		if n < t.MinOccurrences {
			continue
		}
		if t.MaxOccurrences > 0 && n > t.MaxOccurrences {
			continue
		}
		f := float64(n) / float64(total)
		if f < t.MinFrequency || f > maxFreq {
			continue
		}
		retained[tok] = struct{}{}
	}

	if len(retained) == 0 {
		return nil, fmt.Errorf("pruning removed every token: %w", internalerr.ErrInvalidConfig)
	}
	return retained, nil
}

// Learn resolves the token dictionary for a corpus. A fixed dictionary is
// used as-is with no pruning. Otherwise the corpus is scanned once,
// pruned per t, and surviving tokens are assigned indices in sorted token
// order, so the dictionary is independent of corpus row order. The
// returned counts cover the full corpus and feed information-weight
// computation downstream.
func Learn(corpus token.Corpus, fixed *Dictionary, t Thresholds) (*Dictionary, Counts, error) {
	if _, err := ScanKinds(corpus); err != nil {
		return nil, Counts{}, err
	}
	counts := CountTokens(corpus)

	if fixed != nil {
		return fixed, counts, nil
	}
	if counts.Total == 0 {
		return nil, Counts{}, fmt.Errorf("empty corpus: %w", internalerr.ErrInvalidInput)
	}

	retained, err := Prune(counts, t)
	if err != nil {
		return nil, Counts{}, err
	}

	toks := make([]token.Token, 0, len(retained))
	for tok := range retained {
		toks = append(toks, tok)
	}
	sort.Slice(toks, func(i, j int) bool { return toks[i].Less(toks[j]) })

	index := make(map[token.Token]int, len(toks))
	for i, tok := range toks {
		index[tok] = i
	}
	return &Dictionary{index: index, toks: toks}, counts, nil
}
