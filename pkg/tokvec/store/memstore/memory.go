// Package memstore provides an in-memory store.Store for tests and
// single-process use.
package memstore

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/tokvec/pkg/tokvec/cooccur"
	"github.com/cognicore/tokvec/pkg/tokvec/internalerr"
	"github.com/cognicore/tokvec/pkg/tokvec/store"
)

type record struct {
	model   *cooccur.Model
	created time.Time
}

// Store is an in-memory implementation of store.Store. Models are
// immutable once fitted, so records hold them directly.
type Store struct {
	mu      sync.RWMutex
	entropy *ulid.MonotonicEntropy
	models  map[string]record
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		entropy: ulid.Monotonic(rand.Reader, 0),
		models:  make(map[string]record),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveModel stores a fitted model under a fresh ULID.
func (s *Store) SaveModel(ctx context.Context, m *cooccur.Model) (string, error) {
	if m == nil {
		return "", fmt.Errorf("save model: %w", internalerr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := ulid.MustNew(ulid.Now(), s.entropy).String()
	s.models[id] = record{model: m, created: time.Now().UTC()}
	return id, nil
}

// GetModel returns a stored model by ID.
func (s *Store) GetModel(ctx context.Context, id string) (*cooccur.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.models[id]
	if !ok {
		return nil, fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
	}
	return rec.model, nil
}

// ListModels returns stored model summaries, oldest first.
func (s *Store) ListModels(ctx context.Context) ([]store.ModelInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]store.ModelInfo, 0, len(s.models))
	for id, rec := range s.models {
		rows, cols := rec.model.Matrix().Dims()
		cfg := rec.model.Config()
		infos = append(infos, store.ModelInfo{
			ID:             id,
			CreatedAt:      rec.created,
			Tokens:         rows,
			Columns:        cols,
			WindowRadius:   cfg.WindowRadius,
			Orientation:    string(cfg.Orientation),
			WindowFunction: string(cfg.WindowFunction),
		})
	}
	// ULIDs sort by mint time.
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// DeleteModel removes a stored model.
func (s *Store) DeleteModel(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.models[id]; !ok {
		return fmt.Errorf("model %s: %w", id, internalerr.ErrNotFound)
	}
	delete(s.models, id)
	return nil
}
