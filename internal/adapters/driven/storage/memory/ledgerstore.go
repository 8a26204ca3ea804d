package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// Ensure LedgerStore implements the interface.
var _ driven.LedgerStore = (*LedgerStore)(nil)

// LedgerStore is an in-memory, append-only ingestion ledger.
type LedgerStore struct {
	mu      sync.RWMutex
	records []domain.IngestRecord
}

// NewLedgerStore creates a new in-memory ledger.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{}
}

// Find returns the most recent record for hash.
func (s *LedgerStore) Find(_ context.Context, hash string) (*domain.IngestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].FileIdentityHash == hash {
			rec := s.records[i]
			return &rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Record appends rec, refusing a second unforced record for the same hash.
func (s *LedgerStore) Record(_ context.Context, rec domain.IngestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.ID == rec.ID {
			return fmt.Errorf("ledger record %s: %w", rec.ID, domain.ErrAlreadyExists)
		}
		if !rec.Forced && !r.Forced && r.FileIdentityHash == rec.FileIdentityHash {
			return fmt.Errorf("ledger record for %s: %w", rec.FileIdentityHash, domain.ErrAlreadyExists)
		}
	}
	s.records = append(s.records, rec)
	return nil
}

// List returns up to limit records, most recent first.
func (s *LedgerStore) List(_ context.Context, limit int) ([]domain.IngestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.IngestRecord, 0, min(limit, len(s.records)))
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}
