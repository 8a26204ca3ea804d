package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// chunkIDHashPrefix is the number of identity hash characters used in chunk IDs.
const chunkIDHashPrefix = 16

// Chunk represents a bounded, overlapping segment of a source page.
// Chunks are immutable once created and owned by the chunk store.
type Chunk struct {
	// ID is derived from the source identity and sequence index,
	// so re-persisting the same file yields the same IDs.
	ID string

	// SourceID is the content identity hash of the source file.
	SourceID string

	// SourceName is the display name of the source file.
	SourceName string

	// PageNum is the 1-based page the chunk was cut from.
	PageNum int

	// SequenceIndex orders chunks within a source, strictly increasing.
	SequenceIndex int

	// Text is the chunk content.
	Text string

	// CharStart is the inclusive character offset within the page.
	CharStart int

	// CharEnd is the exclusive character offset within the page.
	CharEnd int

	// CreatedAt is when the chunk was produced.
	CreatedAt time.Time
}

// ChunkID returns the deterministic chunk ID for a source and sequence index.
func ChunkID(sourceID string, sequenceIndex int) string {
	prefix := sourceID
	if len(prefix) > chunkIDHashPrefix {
		prefix = prefix[:chunkIDHashPrefix]
	}
	return fmt.Sprintf("%s-%06d", prefix, sequenceIndex)
}

// NewChunk builds a chunk and validates its positional metadata.
func NewChunk(
	sourceID, sourceName string,
	pageNum, sequenceIndex int,
	text string,
	charStart, charEnd int,
	createdAt time.Time,
) (Chunk, error) {
	switch {
	case sourceID == "":
		return Chunk{}, fmt.Errorf("%w: chunk source id is empty", ErrInvalidInput)
	case pageNum < 1:
		return Chunk{}, fmt.Errorf("%w: page number %d", ErrInvalidInput, pageNum)
	case sequenceIndex < 0:
		return Chunk{}, fmt.Errorf("%w: sequence index %d", ErrInvalidInput, sequenceIndex)
	case charStart < 0 || charEnd <= charStart:
		return Chunk{}, fmt.Errorf("%w: span [%d,%d)", ErrInvalidInput, charStart, charEnd)
	case utf8.RuneCountInString(text) != charEnd-charStart:
		return Chunk{}, fmt.Errorf("%w: text length does not match span [%d,%d)",
			ErrInvalidInput, charStart, charEnd)
	}

	return Chunk{
		ID:            ChunkID(sourceID, sequenceIndex),
		SourceID:      sourceID,
		SourceName:    sourceName,
		PageNum:       pageNum,
		SequenceIndex: sequenceIndex,
		Text:          text,
		CharStart:     charStart,
		CharEnd:       charEnd,
		CreatedAt:     createdAt,
	}, nil
}

// Len returns the chunk length in characters.
func (c Chunk) Len() int {
	return c.CharEnd - c.CharStart
}

// ChunkFilter narrows a chunk store scan.
type ChunkFilter struct {
	// AnyTerms keeps chunks whose text contains at least one term,
	// compared case-insensitively. Empty means no text filter.
	AnyTerms []string

	// SourceIDs restricts the scan to specific sources.
	SourceIDs []string
}
