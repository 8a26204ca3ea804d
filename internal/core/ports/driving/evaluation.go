package driving

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// EvaluationService records and compares retrieval quality.
type EvaluationService interface {
	// Record appends metrics derived from a retrieval result.
	Record(ctx context.Context, runID, versionLabel string, result *domain.QueryResult) (*domain.EvaluationRecord, error)

	// History returns recent evaluation records, newest first.
	History(ctx context.Context, limit int) ([]domain.EvaluationRecord, error)

	// Summaries returns per-version aggregates.
	Summaries(ctx context.Context) ([]domain.EvaluationSummary, error)

	// WhatIf retrieves every scenario query concurrently and reports on each,
	// in input order.
	WhatIf(ctx context.Context, scenarios []string, topK int) ([]domain.ScenarioReport, error)
}
