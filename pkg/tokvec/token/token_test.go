package token

import (
	"bytes"
	"sort"
	"testing"
)

func TestTokenKinds(t *testing.T) {
	if Int(3).Kind() != KindInt {
		t.Error("Int should produce KindInt")
	}
	if Float(3.5).Kind() != KindFloat {
		t.Error("Float should produce KindFloat")
	}
	if Str("foo").Kind() != KindString {
		t.Error("Str should produce KindString")
	}

	var zero Token
	if zero.Kind() != KindInvalid {
		t.Error("zero token should be invalid")
	}
}

func TestTokenAsMapKey(t *testing.T) {
	counts := map[Token]int{}
	counts[Str("foo")]++
	counts[Str("foo")]++
	counts[Int(1)]++

	if counts[Str("foo")] != 2 {
		t.Errorf("expected equal string tokens to collide, got count %d", counts[Str("foo")])
	}
	if counts[Int(1)] != 1 {
		t.Errorf("expected int token count 1, got %d", counts[Int(1)])
	}

	// Same numeric value across kinds must stay distinct
	if Int(1) == Float(1) {
		t.Error("int and float tokens with equal value should not compare equal")
	}
}

func TestTokenOrdering(t *testing.T) {
	toks := []Token{Str("wer"), Str("bar"), Str("pok"), Str("foo")}
	sort.Slice(toks, func(i, j int) bool { return toks[i].Less(toks[j]) })

	want := []string{"bar", "foo", "pok", "wer"}
	for i, w := range want {
		if toks[i].Str() != w {
			t.Errorf("position %d: expected %q, got %q", i, w, toks[i].Str())
		}
	}

	ints := []Token{Int(4), Int(1), Int(3), Int(2)}
	sort.Slice(ints, func(i, j int) bool { return ints[i].Less(ints[j]) })
	for i := range ints {
		if ints[i].Int() != int64(i+1) {
			t.Errorf("position %d: expected %d, got %d", i, i+1, ints[i].Int())
		}
	}
}

func TestTokenString(t *testing.T) {
	cases := []struct {
		tok  Token
		want string
	}{
		{Int(-7), "-7"},
		{Float(3.5), "3.5"},
		{Str("pok"), "pok"},
	}
	for _, c := range cases {
		if got := c.tok.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestAppendKeyInjective(t *testing.T) {
	// Tokens that render identically must still encode distinctly
	pairs := [][2]Token{
		{Int(1), Float(1)},
		{Int(1), Str("1")},
		{Str("ab"), Str("a")},
		{Float(0), Float(1)},
	}
	for _, p := range pairs {
		a := AppendKey(nil, p[0])
		b := AppendKey(nil, p[1])
		if bytes.Equal(a, b) {
			t.Errorf("tokens %v and %v encode to the same key", p[0], p[1])
		}
	}

	// Equal tokens encode equally
	if !bytes.Equal(AppendKey(nil, Str("foo")), AppendKey(nil, Str("foo"))) {
		t.Error("equal tokens should encode to equal keys")
	}
}

func TestSequenceHelpers(t *testing.T) {
	seq := Ints(1, 3, 1, 4, 2)
	if len(seq) != 5 {
		t.Fatalf("expected 5 tokens, got %d", len(seq))
	}
	if seq[1].Int() != 3 {
		t.Errorf("expected token value 3, got %d", seq[1].Int())
	}

	strs := Strs("foo", "pok")
	if strs[1].Str() != "pok" {
		t.Errorf("expected pok, got %q", strs[1].Str())
	}

	floats := Floats(0.5, 1.5)
	if floats[0].Float() != 0.5 {
		t.Errorf("expected 0.5, got %f", floats[0].Float())
	}
}
