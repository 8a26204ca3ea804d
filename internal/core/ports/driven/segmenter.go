package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// Segmenter splits a document into overlapping fixed-size chunks.
type Segmenter interface {
	// Process returns the chunks of every page of doc, in sequence order,
	// stamped with createdAt.
	Process(ctx context.Context, doc *domain.Document, createdAt time.Time) ([]domain.Chunk, error)
}
