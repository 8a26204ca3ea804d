package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
)

// Ensure EvaluationService implements the interface.
var _ driving.EvaluationService = (*EvaluationService)(nil)

// maxScenarioWorkers bounds concurrent what-if retrievals.
const maxScenarioWorkers = 4

// EvaluationService records retrieval quality metrics and runs what-if comparisons.
type EvaluationService struct {
	store     driven.EvaluationStore
	retriever driving.Retriever
	version   string
	now       func() time.Time
}

// NewEvaluationService creates an evaluation service.
// The retriever is only needed for WhatIf.
func NewEvaluationService(store driven.EvaluationStore, retriever driving.Retriever) *EvaluationService {
	return &EvaluationService{
		store:     store,
		retriever: retriever,
		version:   domain.DefaultVersionLabel,
		now:       time.Now,
	}
}

// SetClock replaces the clock used for record timestamps.
func (s *EvaluationService) SetClock(now func() time.Time) {
	s.now = now
}

// SetDefaultVersion sets the label used when Record is given none.
func (s *EvaluationService) SetDefaultVersion(label string) {
	if label = strings.TrimSpace(label); label != "" {
		s.version = label
	}
}

// Record appends score and latency metrics for one retrieval result.
func (s *EvaluationService) Record(
	ctx context.Context,
	runID, versionLabel string,
	result *domain.QueryResult,
) (*domain.EvaluationRecord, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: nil query result", domain.ErrInvalidInput)
	}
	if versionLabel = strings.TrimSpace(versionLabel); versionLabel == "" {
		versionLabel = s.version
	}

	rec := domain.NewEvaluationRecord(uuid.NewString(), runID, versionLabel, result, s.now().UTC())
	if err := s.store.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: append evaluation record: %w", domain.ErrSinkWrite, err)
	}
	return &rec, nil
}

// History returns evaluation records newest first.
func (s *EvaluationService) History(ctx context.Context, limit int) ([]domain.EvaluationRecord, error) {
	return s.store.History(ctx, clampLimit(limit))
}

// Summaries returns per-version evaluation aggregates.
func (s *EvaluationService) Summaries(ctx context.Context) ([]domain.EvaluationSummary, error) {
	return s.store.Summaries(ctx)
}

// WhatIf retrieves each scenario query and reports in input order.
// Blank scenarios are skipped. The first retrieval error cancels the rest.
func (s *EvaluationService) WhatIf(ctx context.Context, scenarios []string, topK int) ([]domain.ScenarioReport, error) {
	if s.retriever == nil {
		return nil, fmt.Errorf("%w: no retriever configured", domain.ErrConfiguration)
	}

	queries := make([]string, 0, len(scenarios))
	for _, q := range scenarios {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}

	reports := make([]domain.ScenarioReport, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxScenarioWorkers)

	for i, q := range queries {
		g.Go(func() error {
			res, err := s.retriever.Retrieve(gctx, q, topK)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", q, err)
			}
			reports[i] = scenarioReport(q, res)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func scenarioReport(query string, res *domain.QueryResult) domain.ScenarioReport {
	rep := domain.ScenarioReport{
		Query:          query,
		Keywords:       res.Keywords,
		KeywordCount:   len(res.Keywords),
		ReturnedChunks: len(res.RankedChunks),
		LatencyMS:      res.LatencyMS,
	}
	if scores := res.Scores(); len(scores) > 0 {
		sum := 0.0
		for _, v := range scores {
			sum += v
		}
		rep.AverageScore = sum / float64(len(scores))
	}
	return rep
}
