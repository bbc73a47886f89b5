package config

import (
	"fmt"
	"path/filepath"

	"github.com/cognicore/tokvec/pkg/tokvec/cooccur"
)

// Loader resolves configuration files into a ready fit configuration.
// An explicit DictionaryPath overrides the dictionary_file named inside
// the vectorizer config.
type Loader struct {
	ConfigPath     string
	DictionaryPath string
}

// Load reads the configuration files and returns the fit configuration.
// With no ConfigPath the engine defaults apply.
func (l *Loader) Load() (cooccur.Config, error) {
	cfg := cooccur.DefaultConfig()
	dictPath := l.DictionaryPath

	if l.ConfigPath != "" {
		v, err := LoadVectorizer(l.ConfigPath)
		if err != nil {
			return cooccur.Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg, err = v.Cooccurrence()
		if err != nil {
			return cooccur.Config{}, fmt.Errorf("load config: %w", err)
		}
		if dictPath == "" && v.DictionaryFile != "" {
			// Relative dictionary paths resolve against the config file.
			dictPath = v.DictionaryFile
			if !filepath.IsAbs(dictPath) {
				dictPath = filepath.Join(filepath.Dir(l.ConfigPath), dictPath)
			}
		}
	}

	if dictPath != "" {
		dict, err := LoadDictionary(dictPath)
		if err != nil {
			return cooccur.Config{}, fmt.Errorf("load dictionary: %w", err)
		}
		cfg.TokenDictionary = dict
	}

	return cfg, nil
}
