// Package tokvec ties the vectorizer core to model persistence: fit a
// co-occurrence model over a corpus, save it, and transform later
// corpora against the stored model.
package tokvec

import (
	"context"
	"fmt"

	"github.com/cognicore/tokvec/pkg/tokvec/cooccur"
	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
	"github.com/cognicore/tokvec/pkg/tokvec/sparse"
	"github.com/cognicore/tokvec/pkg/tokvec/store"
	"github.com/cognicore/tokvec/pkg/tokvec/store/memstore"
	"github.com/cognicore/tokvec/pkg/tokvec/token"
)

// Engine is the main vectorizer facade.
type Engine struct {
	store store.Store
}

// Options configures an Engine instance.
type Options struct {
	Store store.Store
}

// New creates an Engine with the given dependencies. Without a store it
// keeps models in memory.
func New(opts Options) *Engine {
	s := opts.Store
	if s == nil {
		s = memstore.New()
	}
	return &Engine{store: s}
}

// Close cleanly shuts down the engine.
func (e *Engine) Close() error {
	return e.store.Close()
}

// FitAndSave fits a co-occurrence model over the corpus and persists it,
// returning the assigned model ID alongside the model.
func (e *Engine) FitAndSave(ctx context.Context, corpus token.Corpus, cfg cooccur.Config) (string, *cooccur.Model, error) {
	m, err := cooccur.Fit(corpus, cfg)
	if err != nil {
		return "", nil, fmt.Errorf("fit: %w", err)
	}
	id, err := e.store.SaveModel(ctx, m)
	if err != nil {
		return "", nil, fmt.Errorf("save model: %w", err)
	}
	return id, m, nil
}

// Model loads a stored model by ID.
func (e *Engine) Model(ctx context.Context, id string) (*cooccur.Model, error) {
	return e.store.GetModel(ctx, id)
}

// Transform counts a corpus against a stored model's dictionary and
// columns.
func (e *Engine) Transform(ctx context.Context, id string, corpus token.Corpus) (*sparse.CSR, error) {
	m, err := e.store.GetModel(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.Transform(corpus)
}

// ListModels returns summaries of every stored model, oldest first.
func (e *Engine) ListModels(ctx context.Context) ([]store.ModelInfo, error) {
	return e.store.ListModels(ctx)
}

// DeleteModel removes a stored model.
func (e *Engine) DeleteModel(ctx context.Context, id string) error {
	return e.store.DeleteModel(ctx, id)
}

// PruneTokenGraph folds a stored model into its token adjacency graph
// with every edge incident to tok removed. The stored model itself is
// unchanged.
func (e *Engine) PruneTokenGraph(ctx context.Context, id string, tok token.Token) (*sparse.CSR, error) {
	m, err := e.store.GetModel(ctx, id)
	if err != nil {
		return nil, err
	}
	node, ok := m.TokenDictionary().Index(tok)
	if !ok {
		return nil, fmt.Errorf("token %s is not in model %s: %w", tok, id, internalerr.ErrNotFound)
	}
	return sparse.RemoveNodeCopy(m.TokenGraph(), node)
}
