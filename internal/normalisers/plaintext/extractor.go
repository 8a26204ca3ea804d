// Package plaintext extracts text and markdown files as a single page.
package plaintext

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extensions handled by the plain text extractor.
var Extensions = []string{".txt", ".md", ".markdown", ".text"}

// Extractor reads UTF-8 text files.
type Extractor struct{}

// New creates a new plain text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports reports whether name has a plain text extension.
func (e *Extractor) Supports(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, s := range Extensions {
		if ext == s {
			return true
		}
	}
	return false
}

// Extract returns content as page 1.
func (e *Extractor) Extract(_ context.Context, name string, content []byte) (*domain.Document, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrExtraction, name)
	}
	return &domain.Document{
		SourceName: filepath.Base(name),
		Pages:      []domain.Page{{Number: 1, Text: Clean(string(content))}},
		Metadata: map[string]any{
			"format": strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."),
		},
	}, nil
}

// Clean replaces NUL bytes with spaces and trims surrounding whitespace.
func Clean(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\x00", " "))
}
