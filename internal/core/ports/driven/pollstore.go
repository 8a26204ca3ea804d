package driven

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// PollStore keeps poll loop state and a bounded history of finished cycles.
type PollStore interface {
	// LoadState returns nil without error when the loop has never run.
	LoadState(ctx context.Context, loop string) (*domain.PollState, error)

	SaveState(ctx context.Context, state *domain.PollState) error

	// AppendCycle records a cycle and keeps only the newest keep cycles of its loop.
	AppendCycle(ctx context.Context, cycle *domain.PollCycle, keep int) error

	// Cycles returns up to limit cycles of a loop, newest first.
	Cycles(ctx context.Context, loop string, limit int) ([]domain.PollCycle, error)
}
