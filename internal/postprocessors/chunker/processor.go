// Package chunker provides the fixed-window text Segmenter.
package chunker

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// DefaultWindow is the default number of characters per chunk.
const DefaultWindow = domain.DefaultWindow

// DefaultOverlap is the default number of overlapping characters.
const DefaultOverlap = domain.DefaultOverlap

// Ensure Segmenter implements the interface.
var _ driven.Segmenter = (*Segmenter)(nil)

// Span is one window over a text, in character offsets.
type Span struct {
	// Index is the 0-based position of the span within the text.
	Index int

	// Start is the inclusive character offset.
	Start int

	// End is the exclusive character offset.
	End int

	// Text is the characters in [Start, End).
	Text string
}

// Segmenter splits text into overlapping fixed-size windows.
type Segmenter struct {
	window  int
	overlap int
}

// Option configures the Segmenter.
type Option func(*Segmenter)

// WithWindow sets the chunk length in characters.
func WithWindow(window int) Option {
	return func(s *Segmenter) {
		s.window = window
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Segmenter) {
		s.overlap = overlap
	}
}

// New creates a Segmenter. It returns an error wrapping domain.ErrConfiguration
// unless 0 <= overlap < window.
func New(opts ...Option) (*Segmenter, error) {
	s := &Segmenter{
		window:  DefaultWindow,
		overlap: DefaultOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	cfg := domain.ChunkingSettings{Window: s.window, Overlap: s.overlap}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("chunker: %w", err)
	}

	return s, nil
}

// Window returns the configured chunk length.
func (s *Segmenter) Window() int {
	return s.window
}

// Overlap returns the configured overlap.
func (s *Segmenter) Overlap() int {
	return s.overlap
}

// Spans returns the windows over text. The sequence is lazy and can be
// ranged over any number of times; each pass starts at offset 0.
func (s *Segmenter) Spans(text string) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		runes := []rune(text)
		n := len(runes)
		step := s.window - s.overlap

		for start, index := 0, 0; start < n; start, index = start+step, index+1 {
			end := min(start+s.window, n)

			if !yield(Span{Index: index, Start: start, End: end, Text: string(runes[start:end])}) {
				return
			}

			// A span that reaches the end covers the rest of the text.
			if end == n {
				return
			}
		}
	}
}

// Process splits every page of the document and numbers the chunks
// sequentially across pages.
func (s *Segmenter) Process(ctx context.Context, doc *domain.Document, createdAt time.Time) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	sequence := 0

	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for span := range s.Spans(page.Text) {
			chunk, err := domain.NewChunk(doc.SourceID, doc.SourceName, page.Number, sequence,
				span.Text, span.Start, span.End, createdAt)
			if err != nil {
				return nil, fmt.Errorf("page %d span %d: %w", page.Number, span.Index, err)
			}
			chunks = append(chunks, chunk)
			sequence++
		}
	}

	return chunks, nil
}
