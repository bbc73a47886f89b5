// Package ngram slices token sequences into contiguous fixed-size windows.
package ngram

import "github.com/cognicore/tokvec/pkg/tokvec/token"

// Of returns all contiguous length-k subsequences of seq, in order.
// The result holds max(0, len(seq)-k+1) windows; a sequence shorter than
// k yields none, which is not an error. Windows are subslice views of
// seq, not copies, so callers that retain them must not mutate seq.
func Of(seq token.Sequence, k int) []token.Sequence {
	if k <= 0 || len(seq) < k {
		return nil
	}
	out := make([]token.Sequence, 0, len(seq)-k+1)
	for i := 0; i+k <= len(seq); i++ {
		out = append(out, seq[i:i+k])
	}
	return out
}
