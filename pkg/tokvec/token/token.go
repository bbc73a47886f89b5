package token

import (
	"encoding/binary"
	"math"
	"strconv"
)

// Kind identifies the primitive domain a Token value belongs to.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindString
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Token is a closed tagged union over the supported primitive kinds.
// Tokens are comparable and usable as map keys. The zero value is invalid;
// construct tokens with Int, Float, or Str. A corpus must hold tokens of a
// single kind; mixing kinds is rejected during fitting, never coerced.
type Token struct {
	kind Kind
	num  int64
	f    float64
	str  string
}

// Int returns an integer token.
func Int(v int64) Token { return Token{kind: KindInt, num: v} }

// Float returns a floating-point token.
func Float(v float64) Token { return Token{kind: KindFloat, f: v} }

// Str returns a text token.
func Str(v string) Token { return Token{kind: KindString, str: v} }

// Kind reports which domain the token belongs to.
func (t Token) Kind() Kind { return t.kind }

// Int returns the integer value. Valid only when Kind is KindInt.
func (t Token) Int() int64 { return t.num }

// Float returns the floating-point value. Valid only when Kind is KindFloat.
func (t Token) Float() float64 { return t.f }

// Str returns the text value. Valid only when Kind is KindString.
func (t Token) Str() string { return t.str }

// Less defines the total order used for dictionary index assignment:
// ascending within one kind, by kind tag across kinds. Cross-kind
// comparisons only happen before homogeneity checks reject the corpus.
func (t Token) Less(u Token) bool {
	if t.kind != u.kind {
		return t.kind < u.kind
	}
	switch t.kind {
	case KindInt:
		return t.num < u.num
	case KindFloat:
		return t.f < u.f
	case KindString:
		return t.str < u.str
	default:
		return false
	}
}

// String renders the token value for logs and error messages.
func (t Token) String() string {
	switch t.kind {
	case KindInt:
		return strconv.FormatInt(t.num, 10)
	case KindFloat:
		return strconv.FormatFloat(t.f, 'g', -1, 64)
	case KindString:
		return t.str
	default:
		return "<invalid token>"
	}
}

// AppendKey appends an injective binary encoding of the token to dst.
// Used to build composite map keys for n-gram units; the encoding is
// stable across processes but is not a wire format.
func AppendKey(dst []byte, t Token) []byte {
	dst = append(dst, byte(t.kind))
	switch t.kind {
	case KindInt:
		dst = binary.BigEndian.AppendUint64(dst, uint64(t.num))
	case KindFloat:
		dst = binary.BigEndian.AppendUint64(dst, math.Float64bits(t.f))
	case KindString:
		dst = binary.BigEndian.AppendUint32(dst, uint32(len(t.str)))
		dst = append(dst, t.str...)
	}
	return dst
}

// Sequence is one ordered document of tokens. May be empty.
type Sequence []Token

// Corpus is an ordered collection of sequences. Row order carries no
// semantic meaning for fitted outputs.
type Corpus []Sequence

// Ints builds a sequence of integer tokens.
func Ints(vs ...int64) Sequence {
	seq := make(Sequence, len(vs))
	for i, v := range vs {
		seq[i] = Int(v)
	}
	return seq
}

// Floats builds a sequence of floating-point tokens.
func Floats(vs ...float64) Sequence {
	seq := make(Sequence, len(vs))
	for i, v := range vs {
		seq[i] = Float(v)
	}
	return seq
}

// Strs builds a sequence of text tokens.
func Strs(vs ...string) Sequence {
	seq := make(Sequence, len(vs))
	for i, v := range vs {
		seq[i] = Str(v)
	}
	return seq
}
