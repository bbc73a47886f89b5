package ngram

import (
	"testing"

	"github.com/cognicore/tokvec/pkg/tokvec/token"
)

func TestNgramCountLaw(t *testing.T) {
	cases := []struct {
		length, k, want int
	}{
		{5, 1, 5},
		{5, 2, 4},
		{5, 5, 1},
		{5, 6, 0},
		{0, 1, 0},
		{3, 3, 1},
	}
	for _, c := range cases {
		seq := make(token.Sequence, c.length)
		for i := range seq {
			seq[i] = token.Int(int64(i))
		}
		got := len(Of(seq, c.k))
		if got != c.want {
			t.Errorf("len %d, k %d: expected %d ngrams, got %d", c.length, c.k, c.want, got)
		}
	}
}

func TestNgramAlignment(t *testing.T) {
	seq := token.Strs("a", "b", "c", "d", "e")
	grams := Of(seq, 3)

	if len(grams) != 3 {
		t.Fatalf("expected 3 trigrams, got %d", len(grams))
	}
	for i, g := range grams {
		if g[0] != seq[i] {
			t.Errorf("ngram %d: first element %v, want %v", i, g[0], seq[i])
		}
		if g[len(g)-1] != seq[i+2] {
			t.Errorf("ngram %d: last element %v, want %v", i, g[len(g)-1], seq[i+2])
		}
	}
}

func TestNgramTooShort(t *testing.T) {
	if got := Of(token.Strs("a", "b"), 3); got != nil {
		t.Errorf("sequence shorter than k should yield no ngrams, got %v", got)
	}
}

func TestNgramInvalidSize(t *testing.T) {
	if got := Of(token.Strs("a", "b"), 0); got != nil {
		t.Errorf("k=0 should yield nil, got %v", got)
	}
	if got := Of(token.Strs("a", "b"), -1); got != nil {
		t.Errorf("negative k should yield nil, got %v", got)
	}
}

func TestNgramUnigrams(t *testing.T) {
	seq := token.Ints(1, 2, 3)
	grams := Of(seq, 1)

	for i, g := range grams {
		if len(g) != 1 || g[0] != seq[i] {
			t.Errorf("unigram %d should be [%v], got %v", i, seq[i], g)
		}
	}
}
