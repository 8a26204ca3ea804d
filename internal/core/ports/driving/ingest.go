package driving

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// IngestService ingests inbox files exactly once per distinct content.
type IngestService interface {
	// CheckAndRegister ingests a single inbox file, or reports it as a duplicate.
	CheckAndRegister(ctx context.Context, file domain.InboxFile) (*domain.IngestResult, error)

	// RunOnce processes every file currently in the inbox, sequentially.
	// Per-file failures are joined into the returned error; successful
	// results are returned regardless.
	RunOnce(ctx context.Context) ([]domain.IngestResult, error)

	// Ledger returns the most recent ledger entries first.
	Ledger(ctx context.Context, limit int) ([]domain.IngestRecord, error)

	// StoredChunks returns the number of chunks in the chunk store.
	StoredChunks(ctx context.Context) (int, error)
}
