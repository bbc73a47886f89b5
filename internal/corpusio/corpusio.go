// Package corpusio reads and writes token corpora as JSONL: one JSON
// array per line, one line per sequence. JSON numbers without a decimal
// point or exponent become integer tokens, all other numbers float
// tokens, and JSON strings string tokens.
package corpusio

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
	"github.com/cognicore/tokvec/pkg/tokvec/token"
)

// ReadCorpus loads a corpus from a JSONL file. Blank lines are skipped;
// a malformed line is an error because silently dropping a sequence
// would change fitted counts.
func ReadCorpus(path string) (token.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var corpus token.Corpus
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		seq, err := parseSequence(line)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		corpus = append(corpus, seq)
	}
	return corpus, nil
}

func parseSequence(line string) (token.Sequence, error) {
	dec := json.NewDecoder(strings.NewReader(line))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	seq := make(token.Sequence, len(raw))
	for i, v := range raw {
		tok, err := tokenFromJSON(v)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		seq[i] = tok
	}
	return seq, nil
}

func tokenFromJSON(v any) (token.Token, error) {
	switch x := v.(type) {
	case json.Number:
		s := x.String()
		if !strings.ContainsAny(s, ".eE") {
			n, err := x.Int64()
			if err == nil {
				return token.Int(n), nil
			}
		}
		f, err := x.Float64()
		if err != nil {
			return token.Token{}, fmt.Errorf("number %q: %w", s, internalerr.ErrInvalidInput)
		}
		return token.Float(f), nil
	case string:
		return token.Str(x), nil
	default:
		return token.Token{}, fmt.Errorf("unsupported value %v (%T): %w", v, v, internalerr.ErrInvalidInput)
	}
}

// WriteCorpus writes a corpus as JSONL.
func WriteCorpus(path string, corpus token.Corpus) error {
	var sb strings.Builder
	for _, seq := range corpus {
		vals := make([]any, len(seq))
		for i, tok := range seq {
			switch tok.Kind() {
			case token.KindInt:
				vals[i] = tok.Int()
			case token.KindFloat:
				vals[i] = tok.Float()
			case token.KindString:
				vals[i] = tok.Str()
			default:
				return fmt.Errorf("uninitialized token in sequence: %w", internalerr.ErrInvalidInput)
			}
		}
		line, err := json.Marshal(vals)
		if err != nil {
			return err
		}
		sb.Write(line)
		sb.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
