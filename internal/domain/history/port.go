package history

import (
	"context"
	"errors"

	"github.com/rooklite/rook/internal/domain/analysis"
)

var (
	ErrNotFound     = errors.New("history entry not found")
	ErrBlobNotFound = errors.New("blob not found")
)

// Store keeps the most recent analyses, newest first.
type Store interface {
	List(ctx context.Context) ([]SavedAnalysis, error)
	Record(ctx context.Context, result analysis.Result, inputs analysis.Input) (SavedAnalysis, error)
	// Remove is a no-op for unknown ids.
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (SavedAnalysis, error)
}

// BlobStore persists one opaque value per key. Load returns ErrBlobNotFound
// when nothing was saved under key.
type BlobStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
