package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk
	keys   map[string]string // source_id/sequence -> chunk id
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[string]domain.Chunk),
		keys:   make(map[string]string),
	}
}

func sequenceKey(c *domain.Chunk) string {
	return fmt.Sprintf("%s/%d", c.SourceID, c.SequenceIndex)
}

// SaveChunks stores chunks. The batch is rejected as a whole when any chunk
// would take another chunk's (source, sequence) slot.
func (s *ChunkStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range chunks {
		c := &chunks[i]
		if _, exists := s.chunks[c.ID]; exists {
			continue
		}
		if owner, taken := s.keys[sequenceKey(c)]; taken && owner != c.ID {
			return fmt.Errorf("chunk %s: sequence %d of %s: %w", c.ID, c.SequenceIndex, c.SourceID, domain.ErrAlreadyExists)
		}
	}

	for _, c := range chunks {
		if _, exists := s.chunks[c.ID]; exists {
			continue
		}
		s.chunks[c.ID] = c
		s.keys[sequenceKey(&c)] = c.ID
	}
	return nil
}

// ReplaceChunks swaps the whole chunk set of sourceID for chunks.
func (s *ChunkStore) ReplaceChunks(_ context.Context, sourceID string, chunks []domain.Chunk) error {
	for i := range chunks {
		if chunks[i].SourceID != sourceID {
			return fmt.Errorf("%w: chunk %s belongs to %s, not %s",
				domain.ErrInvalidInput, chunks[i].ID, chunks[i].SourceID, sourceID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.chunks {
		if c.SourceID == sourceID {
			delete(s.chunks, id)
			delete(s.keys, sequenceKey(&c))
		}
	}
	for _, c := range chunks {
		s.chunks[c.ID] = c
		s.keys[sequenceKey(&c)] = c.ID
	}
	return nil
}

// Scan returns matching chunks ordered by source and sequence.
func (s *ChunkStore) Scan(_ context.Context, filter domain.ChunkFilter) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make(map[string]struct{}, len(filter.SourceIDs))
	for _, id := range filter.SourceIDs {
		sources[id] = struct{}{}
	}

	terms := make([]string, len(filter.AnyTerms))
	for i, t := range filter.AnyTerms {
		terms[i] = strings.ToLower(t)
	}

	var out []domain.Chunk
	for _, c := range s.chunks {
		if len(sources) > 0 {
			if _, ok := sources[c.SourceID]; !ok {
				continue
			}
		}
		if len(terms) > 0 && !containsAny(strings.ToLower(c.Text), terms) {
			continue
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SourceID != out[j].SourceID {
			return out[i].SourceID < out[j].SourceID
		}
		return out[i].SequenceIndex < out[j].SequenceIndex
	})
	return out, nil
}

// CountChunks returns the number of stored chunks.
func (s *ChunkStore) CountChunks(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
