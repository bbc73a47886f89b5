package cooccur

import (
	"encoding/binary"
	"sort"

	"github.com/cognicore/tokvec/pkg/tokvec/token"
	"github.com/cognicore/tokvec/pkg/tokvec/vocab"
)

// Direction identifies which side of the focal token a context was
// observed on. Symmetric orientation merges both sides into DirAny.
type Direction uint8

const (
	DirBefore Direction = iota
	DirAfter
	DirAny
)

// String returns the direction name used in serialized models and logs.
func (d Direction) String() string {
	switch d {
	case DirBefore:
		return "before"
	case DirAfter:
		return "after"
	default:
		return "any"
	}
}

// ColumnKey labels one matrix column: the context unit that was observed
// and the direction bucket it was observed in.
type ColumnKey struct {
	Ngram  token.Sequence
	Bucket Direction
}

// Less orders column keys by context unit, elementwise in token order
// with shorter units first, then by direction bucket. The ordering
// depends only on the key, never on corpus row order, which is what
// makes column assignment permutation-invariant.
func (k ColumnKey) Less(o ColumnKey) bool {
	n := len(k.Ngram)
	if len(o.Ngram) < n {
		n = len(o.Ngram)
	}
	for i := 0; i < n; i++ {
		if k.Ngram[i] != o.Ngram[i] {
			return k.Ngram[i].Less(o.Ngram[i])
		}
	}
	if len(k.Ngram) != len(o.Ngram) {
		return len(k.Ngram) < len(o.Ngram)
	}
	return k.Bucket < o.Bucket
}

// columnSet interns observed (unit, bucket) keys during accumulation.
// Units are row-index slices into the resolved dictionary; the canonical
// byte key makes them usable as map keys.
type columnSet struct {
	ids     map[string]int
	units   [][]int
	buckets []Direction
	keyBuf  []byte
}

func newColumnSet() *columnSet {
	return &columnSet{ids: make(map[string]int)}
}

// appendKey encodes a (unit, bucket) pair into dst.
func appendKey(dst []byte, unit []int, bucket Direction) []byte {
	dst = append(dst, byte(bucket))
	for _, u := range unit {
		dst = binary.AppendUvarint(dst, uint64(u))
	}
	return dst
}

// intern returns the candidate id for the key, creating one on first
// sight.
func (s *columnSet) intern(unit []int, bucket Direction) int {
	s.keyBuf = appendKey(s.keyBuf[:0], unit, bucket)
	if id, ok := s.ids[string(s.keyBuf)]; ok {
		return id
	}
	id := len(s.units)
	s.ids[string(s.keyBuf)] = id
	s.units = append(s.units, append([]int(nil), unit...))
	s.buckets = append(s.buckets, bucket)
	return id
}

// sortedColumns resolves the interned candidates into sorted column keys
// and returns the candidate-id to final-column translation.
func (s *columnSet) sortedColumns(dict *vocab.Dictionary) ([]ColumnKey, []int) {
	keys := make([]ColumnKey, len(s.units))
	for id, unit := range s.units {
		gram := make(token.Sequence, len(unit))
		for i, row := range unit {
			gram[i] = dict.TokenAt(row)
		}
		keys[id] = ColumnKey{Ngram: gram, Bucket: s.buckets[id]}
	}

	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return keys[order[a]].Less(keys[order[b]])
	})

	sorted := make([]ColumnKey, len(keys))
	toColumn := make([]int, len(keys))
	for col, id := range order {
		sorted[col] = keys[id]
		toColumn[id] = col
	}
	return sorted, toColumn
}
