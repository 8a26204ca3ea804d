package driven

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// TextExtractor turns raw file bytes into cleaned per-page text.
// Extraction itself is a black box; implementations wrap external tools.
type TextExtractor interface {
	// Extract returns the document for a file. The returned document has
	// SourceName set; SourceID is assigned by the caller.
	Extract(ctx context.Context, name string, content []byte) (*domain.Document, error)

	// Supports reports whether the extractor handles the file name.
	Supports(name string) bool
}
