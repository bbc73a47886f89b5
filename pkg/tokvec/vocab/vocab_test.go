package vocab

import (
	"errors"
	"testing"

	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
	"github.com/cognicore/tokvec/pkg/tokvec/token"
)

func textCorpus() token.Corpus {
	return token.Corpus{
		token.Strs("foo", "pok", "foo", "wer", "bar"),
		token.Strs(),
		token.Strs("bar", "foo", "bar", "pok", "wer", "foo", "bar", "pok", "foo", "bar", "wer"),
	}
}

func TestLearnSortedIndices(t *testing.T) {
	dict, _, err := Learn(textCorpus(), nil, Thresholds{})
	if err != nil {
		t.Fatalf("learn failed: %v", err)
	}

	// Indices follow sorted token order, not discovery order
	want := []string{"bar", "foo", "pok", "wer"}
	if dict.Len() != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), dict.Len())
	}
	for i, w := range want {
		if dict.TokenAt(i).Str() != w {
			t.Errorf("index %d: expected %q, got %q", i, w, dict.TokenAt(i).Str())
		}
		if idx, ok := dict.Index(token.Str(w)); !ok || idx != i {
			t.Errorf("token %q: expected index %d, got %d (present %v)", w, i, idx, ok)
		}
	}
}

func TestLearnRowOrderIndependent(t *testing.T) {
	corpus := textCorpus()
	reversed := make(token.Corpus, len(corpus))
	for i, seq := range corpus {
		reversed[len(corpus)-1-i] = seq
	}

	a, _, err := Learn(corpus, nil, Thresholds{})
	if err != nil {
		t.Fatalf("learn failed: %v", err)
	}
	b, _, err := Learn(reversed, nil, Thresholds{})
	if err != nil {
		t.Fatalf("learn failed: %v", err)
	}

	if a.Len() != b.Len() {
		t.Fatalf("dictionary sizes differ: %d vs %d", a.Len(), b.Len())
	}
	for i := 0; i < a.Len(); i++ {
		if a.TokenAt(i) != b.TokenAt(i) {
			t.Errorf("index %d: %v vs %v", i, a.TokenAt(i), b.TokenAt(i))
		}
	}
}

func TestLearnEmptyCorpus(t *testing.T) {
	_, _, err := Learn(token.Corpus{}, nil, Thresholds{})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("empty corpus should be invalid input, got %v", err)
	}

	_, _, err = Learn(token.Corpus{token.Strs(), token.Strs()}, nil, Thresholds{})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("all-empty corpus should be invalid input, got %v", err)
	}
}

func TestLearnFixedDictionaryBypassesPruning(t *testing.T) {
	fixed, err := FromTokens(token.Strs("foo", "pok"))
	if err != nil {
		t.Fatalf("FromTokens failed: %v", err)
	}

	// Thresholds that would empty a learned vocabulary are not applied
	dict, counts, err := Learn(textCorpus(), fixed, Thresholds{MinFrequency: 1.0})
	if err != nil {
		t.Fatalf("fixed dictionary learn failed: %v", err)
	}
	if dict != fixed {
		t.Error("fixed dictionary should be used as-is")
	}
	if counts.Total != 16 {
		t.Errorf("expected 16 total occurrences, got %d", counts.Total)
	}
}

func TestScanKindsMixedCorpus(t *testing.T) {
	corpus := token.Corpus{
		{token.Int(1), token.Str("pok"), token.Float(3.1415)},
	}
	_, err := ScanKinds(corpus)
	if !errors.Is(err, internalerr.ErrTypeMismatch) {
		t.Errorf("mixed kinds should be a type mismatch, got %v", err)
	}
}

func TestScanKindsHomogeneous(t *testing.T) {
	kind, err := ScanKinds(token.Corpus{token.Ints(1, 2), token.Ints(3)})
	if err != nil {
		t.Fatalf("homogeneous corpus should scan cleanly: %v", err)
	}
	if kind != token.KindInt {
		t.Errorf("expected KindInt, got %v", kind)
	}

	kind, err = ScanKinds(token.Corpus{})
	if err != nil {
		t.Fatalf("empty corpus should scan cleanly: %v", err)
	}
	if kind != token.KindInvalid {
		t.Errorf("empty corpus should report KindInvalid, got %v", kind)
	}
}

func TestCountTokens(t *testing.T) {
	c := CountTokens(textCorpus())
	if c.Total != 16 {
		t.Errorf("expected 16 occurrences, got %d", c.Total)
	}
	if c.ByToken[token.Str("bar")] != 5 {
		t.Errorf("expected bar count 5, got %d", c.ByToken[token.Str("bar")])
	}
	if c.ByToken[token.Str("foo")] != 5 {
		t.Errorf("expected foo count 5, got %d", c.ByToken[token.Str("foo")])
	}
	if c.ByToken[token.Str("pok")] != 3 {
		t.Errorf("expected pok count 3, got %d", c.ByToken[token.Str("pok")])
	}
	if c.ByToken[token.Str("wer")] != 3 {
		t.Errorf("expected wer count 3, got %d", c.ByToken[token.Str("wer")])
	}
}

func TestPruneMinOccurrences(t *testing.T) {
	counts := CountTokens(textCorpus())
	retained, err := Prune(counts, Thresholds{MinOccurrences: 4})
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if len(retained) != 2 {
		t.Fatalf("expected 2 retained tokens, got %d", len(retained))
	}
	for _, keep := range []string{"bar", "foo"} {
		if _, ok := retained[token.Str(keep)]; !ok {
			t.Errorf("token %q should survive MinOccurrences=4", keep)
		}
	}
}

func TestPruneMaxOccurrences(t *testing.T) {
	counts := CountTokens(textCorpus())
	retained, err := Prune(counts, Thresholds{MaxOccurrences: 3})
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	for _, keep := range []string{"pok", "wer"} {
		if _, ok := retained[token.Str(keep)]; !ok {
			t.Errorf("token %q should survive MaxOccurrences=3", keep)
		}
	}
	if _, ok := retained[token.Str("bar")]; ok {
		t.Error("token bar should be pruned by MaxOccurrences=3")
	}
}

func TestPruneEmptyingIsConfigError(t *testing.T) {
	counts := CountTokens(textCorpus())
	_, err := Prune(counts, Thresholds{MinFrequency: 1.0})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("pruning to empty should be a configuration error, got %v", err)
	}
}

func TestPruneIgnoredTokens(t *testing.T) {
	counts := CountTokens(textCorpus())
	retained, err := Prune(counts, Thresholds{Ignored: token.Strs("bar")})
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if _, ok := retained[token.Str("bar")]; ok {
		t.Error("ignored token should never be retained")
	}

	// The denominator shrinks with the ignored token's occurrences:
	// foo holds 5 of the remaining 11, so MinFrequency 0.4 keeps it.
	retained, err = Prune(counts, Thresholds{Ignored: token.Strs("bar"), MinFrequency: 0.4})
	if err != nil {
		t.Fatalf("prune failed: %v", err)
	}
	if len(retained) != 1 {
		t.Fatalf("expected only foo retained, got %d tokens", len(retained))
	}
	if _, ok := retained[token.Str("foo")]; !ok {
		t.Error("foo should be retained at MinFrequency 0.4 with bar ignored")
	}
}

func TestFromTokensRejectsDuplicates(t *testing.T) {
	_, err := FromTokens(token.Strs("foo", "pok", "foo"))
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("duplicate tokens should be a configuration error, got %v", err)
	}
}

func TestFromTokensRejectsMixedKinds(t *testing.T) {
	_, err := FromTokens(token.Sequence{token.Str("foo"), token.Int(1)})
	if !errors.Is(err, internalerr.ErrTypeMismatch) {
		t.Errorf("mixed dictionary should be a type mismatch, got %v", err)
	}
}

func TestFromMapValidation(t *testing.T) {
	dict, err := FromMap(map[token.Token]int{
		token.Str("pok"): 1,
		token.Str("foo"): 0,
	})
	if err != nil {
		t.Fatalf("valid map rejected: %v", err)
	}
	if dict.TokenAt(0).Str() != "foo" || dict.TokenAt(1).Str() != "pok" {
		t.Error("FromMap should honor the supplied index assignment")
	}

	_, err = FromMap(map[token.Token]int{
		token.Str("foo"): 0,
		token.Str("pok"): 2,
	})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("index gap should be a configuration error, got %v", err)
	}

	_, err = FromMap(map[token.Token]int{
		token.Str("foo"): 0,
		token.Str("pok"): -1,
	})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("negative index should be a configuration error, got %v", err)
	}

	_, err = FromMap(nil)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("empty map should be a configuration error, got %v", err)
	}
}
