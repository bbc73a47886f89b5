// Package cooccur implements the token co-occurrence engine: it learns a
// vocabulary and a window weighting from a training corpus and produces
// sparse token-by-context weighted co-occurrence matrices, reproducibly
// across later transforms of corpora that may contain unseen tokens.
//
// Fitting returns an immutable Model; re-fitting builds a new one.
// Sequences are first filtered to dictionary tokens, so a token outside
// the vocabulary behaves exactly as if it never appeared, and windows
// are measured in retained-token positions.
package cooccur

import (
	"sync"

	"github.com/cognicore/tokvec/pkg/tokvec/kernels"
	"github.com/cognicore/tokvec/pkg/tokvec/sparse"
	"github.com/cognicore/tokvec/pkg/tokvec/token"
	"github.com/cognicore/tokvec/pkg/tokvec/vocab"
)

// Fit learns a model from the corpus: vocabulary (learned and pruned, or
// fixed), column dictionary from the distinct contexts observed, and the
// accumulated co-occurrence matrix. A failed fit returns no model and
// leaves no partial state behind.
func Fit(corpus token.Corpus, cfg Config) (*Model, error) {
	return fit(corpus, cfg)
}

// FitTransform fits a model and returns the matrix accumulated during
// that same pass, not a second transform pass.
func FitTransform(corpus token.Corpus, cfg Config) (*Model, *sparse.CSR, error) {
	m, err := fit(corpus, cfg)
	if err != nil {
		return nil, nil, err
	}
	return m, m.matrix, nil
}

func fit(corpus token.Corpus, cfg Config) (*Model, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		return nil, err
	}

	dict, counts, err := vocab.Learn(corpus, cfg.TokenDictionary, cfg.thresholds())
	if err != nil {
		return nil, err
	}

	var weights, info []float64
	if cfg.WindowFunction == FuncInformation {
		info = informationWeights(dict, counts)
	} else {
		weights = kernelTable(cfg.WindowFunction, cfg.WindowRadius)
	}

	// Each worker interns columns and accumulates triplets independently;
	// partials merge in worker order, so accumulation is deterministic.
	makeWalker := func() *walker {
		w := newWalker(cfg, dict, weights, info)
		set := newColumnSet()
		w.resolve = set.resolve
		w.set = set
		return w
	}
	ws := runWalkers(corpus, cfg, makeWalker)

	global := newColumnSet()
	trans := make([][]int, len(ws))
	for wi, w := range ws {
		t := make([]int, len(w.set.units))
		for id, unit := range w.set.units {
			t[id] = global.intern(unit, w.set.buckets[id])
		}
		trans[wi] = t
	}

	columns, toColumn := global.sortedColumns(dict)

	colIndex := make(map[string]int, len(columns))
	var keyBuf []byte
	for id, unit := range global.units {
		keyBuf = appendKey(keyBuf[:0], unit, global.buckets[id])
		colIndex[string(keyBuf)] = toColumn[id]
	}

	final := sparse.NewCOO(dict.Len(), len(columns))
	for wi, w := range ws {
		t := trans[wi]
		w.coo.NonZero(func(i, j int, v float64) {
			final.Append(i, toColumn[t[j]], v)
		})
	}

	return &Model{
		cfg:      cfg,
		dict:     dict,
		columns:  columns,
		colIndex: colIndex,
		info:     info,
		weights:  weights,
		matrix:   final.ToCSR(),
	}, nil
}

// kernelTable precomputes the positional weights for distances 1..radius.
func kernelTable(fn WindowFunc, radius int) []float64 {
	offsets := make([]int, radius)
	for i := range offsets {
		offsets[i] = i + 1
	}
	switch fn {
	case FuncHarmonic:
		return kernels.Harmonic(offsets, float64(radius))
	case FuncTriangle:
		return kernels.Triangle(offsets, float64(radius))
	default:
		return kernels.Flat(offsets, float64(radius))
	}
}

// informationWeights derives per-row surprisal weights from the fit
// corpus counts. Frequencies are relative to retained-token occurrences,
// so fitting a corpus and fitting its dictionary-filtered form agree.
func informationWeights(dict *vocab.Dictionary, counts vocab.Counts) []float64 {
	var retained int64
	for i := 0; i < dict.Len(); i++ {
		retained += counts.ByToken[dict.TokenAt(i)]
	}
	freqs := make([]float64, dict.Len())
	if retained > 0 {
		for i := range freqs {
			freqs[i] = float64(counts.ByToken[dict.TokenAt(i)]) / float64(retained)
		}
	}
	return kernels.InformationWeights(freqs)
}

// side describes one scan direction of a window.
type side struct {
	step   int // +1 scans after the focal token, -1 before it
	bucket Direction
}

func sidesFor(o Orientation) []side {
	switch o {
	case OrientBefore:
		return []side{{-1, DirBefore}}
	case OrientAfter:
		return []side{{+1, DirAfter}}
	case OrientDirectional:
		return []side{{-1, DirBefore}, {+1, DirAfter}}
	default:
		return []side{{-1, DirAny}, {+1, DirAny}}
	}
}

// walker accumulates the contribution of one corpus block.
type walker struct {
	radius  int
	k       int
	sides   []side
	dict    *vocab.Dictionary
	weights []float64
	info    []float64
	resolve func(unit []int, bucket Direction) (int, bool)
	set     *columnSet // fit only; nil during transform
	coo     *sparse.COO
	rows    []int // scratch: current sequence filtered to dictionary rows
}

func newWalker(cfg Config, dict *vocab.Dictionary, weights, info []float64) *walker {
	return &walker{
		radius:  cfg.WindowRadius,
		k:       cfg.NgramSize,
		sides:   sidesFor(cfg.Orientation),
		dict:    dict,
		weights: weights,
		info:    info,
		coo:     sparse.NewCOO(dict.Len(), 0),
	}
}

func (w *walker) sequence(seq token.Sequence) {
	w.rows = w.rows[:0]
	for _, t := range seq {
		if i, ok := w.dict.Index(t); ok {
			w.rows = append(w.rows, i)
		}
	}

	for i := range w.rows {
		focal := w.rows[i]
		for _, s := range w.sides {
			// Context units lie fully inside the window: a unit whose
			// near end sits d positions away spans distances d..d+k-1.
			for d := 1; d+w.k-1 <= w.radius; d++ {
				var start int
				if s.step > 0 {
					start = i + d
				} else {
					start = i - d - w.k + 1
				}
				if start < 0 || start+w.k > len(w.rows) {
					break
				}
				w.emit(focal, w.rows[start:start+w.k], s.bucket, d)
			}
		}
	}
}

func (w *walker) emit(focal int, unit []int, bucket Direction, dist int) {
	col, ok := w.resolve(unit, bucket)
	if !ok {
		return
	}
	var wt float64
	if w.info != nil {
		for _, u := range unit {
			wt += w.info[u]
		}
	} else {
		wt = w.weights[dist-1]
	}
	w.coo.Append(focal, col, wt)
}

// resolve makes a columnSet usable as a fit-time column resolver.
func (s *columnSet) resolve(unit []int, bucket Direction) (int, bool) {
	return s.intern(unit, bucket), true
}

// lookupResolver resolves against a fitted column index. Unknown
// contexts report absent and contribute nothing. The shared index map is
// only read; each walker owns its key buffer.
type lookupResolver struct {
	index  map[string]int
	keyBuf []byte
}

func (r *lookupResolver) resolve(unit []int, bucket Direction) (int, bool) {
	r.keyBuf = appendKey(r.keyBuf[:0], unit, bucket)
	col, ok := r.index[string(r.keyBuf)]
	return col, ok
}

type block struct{ lo, hi int }

func splitBlocks(n, workers int) []block {
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	blocks := make([]block, 0, workers)
	size := n / workers
	rem := n % workers
	lo := 0
	for i := 0; i < workers; i++ {
		hi := lo + size
		if i < rem {
			hi++
		}
		blocks = append(blocks, block{lo: lo, hi: hi})
		lo = hi
	}
	return blocks
}

// runWalkers partitions the corpus into contiguous blocks, one walker
// each, and returns the walkers in block order after all complete.
func runWalkers(corpus token.Corpus, cfg Config, makeWalker func() *walker) []*walker {
	blocks := splitBlocks(len(corpus), cfg.Workers)
	ws := make([]*walker, len(blocks))

	if len(blocks) == 1 {
		w := makeWalker()
		for _, seq := range corpus {
			w.sequence(seq)
		}
		ws[0] = w
		return ws
	}

	var wg sync.WaitGroup
	for bi, b := range blocks {
		w := makeWalker()
		ws[bi] = w
		wg.Add(1)
		go func(w *walker, lo, hi int) {
			defer wg.Done()
			for _, seq := range corpus[lo:hi] {
				w.sequence(seq)
			}
		}(w, b.lo, b.hi)
	}
	wg.Wait()
	return ws
}
