// Package config loads vectorizer settings and token dictionaries from
// YAML files and resolves them into live fit configurations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/tokvec/pkg/tokvec/cooccur"
	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
	"github.com/cognicore/tokvec/pkg/tokvec/token"
	"github.com/cognicore/tokvec/pkg/tokvec/vocab"
)

// Vectorizer represents the co-occurrence fit configuration file. Zero
// fields keep their engine defaults.
type Vectorizer struct {
	WindowRadius   int     `yaml:"window_radius"`
	Orientation    string  `yaml:"window_orientation"`
	WindowFunction string  `yaml:"window_function"`
	NgramSize      int     `yaml:"ngram_size"`
	MinOccurrences int64   `yaml:"min_occurrences"`
	MaxOccurrences int64   `yaml:"max_occurrences"`
	MinFrequency   float64 `yaml:"min_frequency"`
	MaxFrequency   float64 `yaml:"max_frequency"`
	IgnoredTokens  []any   `yaml:"ignored_tokens"`
	DictionaryFile string  `yaml:"dictionary_file"`
	Workers        int     `yaml:"workers"`
}

// LoadVectorizer loads a vectorizer configuration from a YAML file.
func LoadVectorizer(path string) (*Vectorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var v Vectorizer
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	return &v, nil
}

// Cooccurrence converts the file form into an engine configuration.
// DictionaryFile is not resolved here; the Loader does file resolution.
func (v *Vectorizer) Cooccurrence() (cooccur.Config, error) {
	cfg := cooccur.Config{
		WindowRadius:   v.WindowRadius,
		Orientation:    cooccur.Orientation(v.Orientation),
		WindowFunction: cooccur.WindowFunc(v.WindowFunction),
		NgramSize:      v.NgramSize,
		MinOccurrences: v.MinOccurrences,
		MaxOccurrences: v.MaxOccurrences,
		MinFrequency:   v.MinFrequency,
		MaxFrequency:   v.MaxFrequency,
		Workers:        v.Workers,
	}
	for i, raw := range v.IgnoredTokens {
		tok, err := tokenFromAny(raw)
		if err != nil {
			return cooccur.Config{}, fmt.Errorf("ignored_tokens[%d]: %w", i, err)
		}
		cfg.IgnoredTokens = append(cfg.IgnoredTokens, tok)
	}
	return cfg, nil
}

// Dictionary represents a token dictionary file: tokens listed in index
// order.
type Dictionary struct {
	Tokens []any `yaml:"tokens"`
}

// LoadDictionary loads a fixed token dictionary from a YAML file.
func LoadDictionary(path string) (*vocab.Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var d Dictionary
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, err
	}

	toks := make([]token.Token, len(d.Tokens))
	for i, raw := range d.Tokens {
		tok, err := tokenFromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("tokens[%d]: %w", i, err)
		}
		toks[i] = tok
	}
	return vocab.FromTokens(toks)
}

// tokenFromAny converts a decoded YAML scalar to a token.
func tokenFromAny(v any) (token.Token, error) {
	switch x := v.(type) {
	case int:
		return token.Int(int64(x)), nil
	case int64:
		return token.Int(x), nil
	case float64:
		return token.Float(x), nil
	case string:
		return token.Str(x), nil
	default:
		return token.Token{}, fmt.Errorf("unsupported token value %v (%T): %w",
			v, v, internalerr.ErrInvalidInput)
	}
}
