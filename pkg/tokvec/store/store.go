// Package store defines persistence for fitted co-occurrence models. A
// stored model carries everything transform needs: the token dictionary,
// the column dictionary, information weights when the window function
// uses them, and the fitted matrix.
package store

import (
	"context"
	"time"

	"github.com/cognicore/tokvec/pkg/tokvec/cooccur"
)

// Store is the interface for persisting and retrieving fitted models.
type Store interface {
	Close() error

	// SaveModel persists a fitted model and returns its assigned ID.
	SaveModel(ctx context.Context, m *cooccur.Model) (string, error)

	// GetModel loads a model by ID. Returns internalerr.ErrNotFound
	// when no model has that ID.
	GetModel(ctx context.Context, id string) (*cooccur.Model, error)

	// ListModels returns summaries of every stored model, oldest first.
	ListModels(ctx context.Context) ([]ModelInfo, error)

	// DeleteModel removes a stored model. Returns
	// internalerr.ErrNotFound when no model has that ID.
	DeleteModel(ctx context.Context, id string) error
}

// ModelInfo summarizes a stored model.
type ModelInfo struct {
	ID             string
	CreatedAt      time.Time
	Tokens         int
	Columns        int
	WindowRadius   int
	Orientation    string
	WindowFunction string
}
