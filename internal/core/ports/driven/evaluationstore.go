package driven

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// EvaluationStore is the append-only retrieval metrics log.
type EvaluationStore interface {
	// Append adds an evaluation record.
	Append(ctx context.Context, rec domain.EvaluationRecord) error

	// History returns the most recent records first, up to limit.
	History(ctx context.Context, limit int) ([]domain.EvaluationRecord, error)

	// Summaries aggregates records per version label, ordered by label.
	Summaries(ctx context.Context) ([]domain.EvaluationSummary, error)
}
