package cooccur

import (
	"fmt"

	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
	"github.com/cognicore/tokvec/pkg/tokvec/token"
	"github.com/cognicore/tokvec/pkg/tokvec/vocab"
)

// Orientation selects which side of the focal token a window covers and
// whether the two sides share columns.
type Orientation string

const (
	// OrientBefore counts only context preceding the focal token.
	OrientBefore Orientation = "before"
	// OrientAfter counts only context following the focal token.
	OrientAfter Orientation = "after"
	// OrientSymmetric counts both sides into one merged column per context.
	OrientSymmetric Orientation = "symmetric"
	// OrientDirectional counts both sides, keeping before- and
	// after-contexts as distinct columns.
	OrientDirectional Orientation = "directional"
)

// WindowFunc names the weighting applied inside a window.
type WindowFunc string

const (
	FuncFlat        WindowFunc = "fixed-flat"
	FuncHarmonic    WindowFunc = "fixed-harmonic"
	FuncTriangle    WindowFunc = "fixed-triangle"
	FuncInformation WindowFunc = "information"
)

// Default window parameters.
const (
	DefaultWindowRadius = 5
	DefaultNgramSize    = 1
)

// Config controls a co-occurrence fit. The zero value of any field means
// its default: radius 5, symmetric orientation, flat weighting, single
// token contexts, no pruning, sequential accumulation.
type Config struct {
	// WindowRadius is the maximum distance, in retained-token positions,
	// between a focal token and its context. Must be positive.
	WindowRadius int

	// Orientation selects the window sides and column merging.
	Orientation Orientation

	// WindowFunction selects the in-window weighting.
	WindowFunction WindowFunc

	// NgramSize sets the context unit width. 1 counts single tokens;
	// larger values count contiguous n-grams lying fully inside the
	// window.
	NgramSize int

	// TokenDictionary fixes the row vocabulary. When set it is
	// authoritative: no pruning applies and tokens outside it are
	// treated as absent from every sequence.
	TokenDictionary *vocab.Dictionary

	// Pruning thresholds for learned vocabularies, as fractions of total
	// occurrences for the frequency bounds. Ignored when
	// TokenDictionary is set.
	MinOccurrences int64
	MaxOccurrences int64
	MinFrequency   float64
	MaxFrequency   float64
	IgnoredTokens  []token.Token

	// Workers splits accumulation across goroutines when above 1. Flat
	// kernels accumulate bit-for-bit identically to sequential runs;
	// real-valued kernels agree within floating-point tolerance.
	Workers int
}

// DefaultConfig returns the default fit configuration.
func DefaultConfig() Config {
	return Config{
		WindowRadius:   DefaultWindowRadius,
		Orientation:    OrientSymmetric,
		WindowFunction: FuncFlat,
		NgramSize:      DefaultNgramSize,
	}
}

// normalized fills zero values with defaults and validates the rest.
func (c Config) normalized() (Config, error) {
	if c.WindowRadius == 0 {
		c.WindowRadius = DefaultWindowRadius
	}
	if c.Orientation == "" {
		c.Orientation = OrientSymmetric
	}
	if c.WindowFunction == "" {
		c.WindowFunction = FuncFlat
	}
	if c.NgramSize == 0 {
		c.NgramSize = DefaultNgramSize
	}
	if c.Workers < 1 {
		c.Workers = 1
	}

	if c.WindowRadius < 0 {
		return c, fmt.Errorf("window radius %d: %w", c.WindowRadius, internalerr.ErrInvalidConfig)
	}
	if c.NgramSize < 0 {
		return c, fmt.Errorf("ngram size %d: %w", c.NgramSize, internalerr.ErrInvalidConfig)
	}
	if c.NgramSize > c.WindowRadius {
		return c, fmt.Errorf("ngram size %d exceeds window radius %d: %w",
			c.NgramSize, c.WindowRadius, internalerr.ErrInvalidConfig)
	}
	switch c.Orientation {
	case OrientBefore, OrientAfter, OrientSymmetric, OrientDirectional:
	default:
		return c, fmt.Errorf("unknown window orientation %q: %w", c.Orientation, internalerr.ErrInvalidConfig)
	}
	switch c.WindowFunction {
	case FuncFlat, FuncHarmonic, FuncTriangle, FuncInformation:
	default:
		return c, fmt.Errorf("unknown window function %q: %w", c.WindowFunction, internalerr.ErrInvalidConfig)
	}
	if c.MinOccurrences < 0 || c.MaxOccurrences < 0 {
		return c, fmt.Errorf("negative occurrence threshold: %w", internalerr.ErrInvalidConfig)
	}
	if c.MinFrequency < 0 || c.MinFrequency > 1 || c.MaxFrequency < 0 || c.MaxFrequency > 1 {
		return c, fmt.Errorf("frequency thresholds must lie in [0,1]: %w", internalerr.ErrInvalidConfig)
	}
	if c.MaxFrequency > 0 && c.MinFrequency > c.MaxFrequency {
		return c, fmt.Errorf("min frequency %g above max frequency %g: %w",
			c.MinFrequency, c.MaxFrequency, internalerr.ErrInvalidConfig)
	}
	return c, nil
}

// thresholds folds the pruning fields into the vocab form.
func (c Config) thresholds() vocab.Thresholds {
	return vocab.Thresholds{
		MinOccurrences: c.MinOccurrences,
		MaxOccurrences: c.MaxOccurrences,
		MinFrequency:   c.MinFrequency,
		MaxFrequency:   c.MaxFrequency,
		Ignored:        c.IgnoredTokens,
	}
}
