package driven

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// LedgerStore persists the identities of ingested files.
type LedgerStore interface {
	// Find returns the most recent record for a content hash.
	// Returns domain.ErrNotFound if the hash is unknown.
	Find(ctx context.Context, hash string) (*domain.IngestRecord, error)

	// Record appends a ledger entry. An unforced record for a hash that
	// is already present returns domain.ErrAlreadyExists.
	Record(ctx context.Context, rec domain.IngestRecord) error

	// List returns the most recent records first, up to limit.
	List(ctx context.Context, limit int) ([]domain.IngestRecord, error)
}
