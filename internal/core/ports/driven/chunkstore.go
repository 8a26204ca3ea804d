package driven

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// ChunkStore is the append-only chunk sink.
// Backed by SQLite for production use.
type ChunkStore interface {
	// SaveChunks inserts a batch of chunks for one ingested file.
	// The batch is all-or-nothing. Chunks whose ID already exists are left as they are.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// ReplaceChunks atomically deletes every chunk of sourceID and inserts
	// chunks in its place. Used by forced reprocessing.
	ReplaceChunks(ctx context.Context, sourceID string, chunks []domain.Chunk) error

	// Scan returns chunks matching the filter. Ordering is unspecified;
	// callers rank the results themselves.
	Scan(ctx context.Context, filter domain.ChunkFilter) ([]domain.Chunk, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)
}
