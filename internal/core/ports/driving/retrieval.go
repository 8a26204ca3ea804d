package driving

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// Retriever ranks stored chunks against a query.
type Retriever interface {
	// Retrieve returns at most topK chunks with a positive score, best first.
	// A non-positive topK uses the configured default.
	Retrieve(ctx context.Context, query string, topK int) (*domain.QueryResult, error)
}
