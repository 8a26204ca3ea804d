package driving

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// Scheduler runs the inbox poll loop.
type Scheduler interface {
	// Start blocks until ctx is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully stops the loop after the current cycle.
	Stop() error

	// Cycles returns up to limit recent poll cycles, newest first.
	Cycles(ctx context.Context, limit int) ([]domain.PollCycle, error)
}
