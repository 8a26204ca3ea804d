package normalisers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.TextExtractor = (*Registry)(nil)

// Registry selects a text extractor by file name.
type Registry struct {
	extractors []driven.TextExtractor
}

// NewRegistry creates a registry. Extractors are consulted in order.
func NewRegistry(extractors ...driven.TextExtractor) *Registry {
	return &Registry{extractors: extractors}
}

// Supports reports whether any registered extractor handles name.
func (r *Registry) Supports(name string) bool {
	return r.find(name) != nil
}

// Extract runs the extractor that handles name.
func (r *Registry) Extract(ctx context.Context, name string, content []byte) (*domain.Document, error) {
	e := r.find(name)
	if e == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, filepath.Ext(name))
	}
	return e.Extract(ctx, name, content)
}

func (r *Registry) find(name string) driven.TextExtractor {
	for _, e := range r.extractors {
		if e.Supports(name) {
			return e
		}
	}
	return nil
}
