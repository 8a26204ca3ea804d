package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// Ensure EvaluationStore implements the interface.
var _ driven.EvaluationStore = (*EvaluationStore)(nil)

// EvaluationStore is an in-memory evaluation metrics store.
type EvaluationStore struct {
	mu      sync.RWMutex
	records []domain.EvaluationRecord
}

// NewEvaluationStore creates a new in-memory evaluation store.
func NewEvaluationStore() *EvaluationStore {
	return &EvaluationStore{}
}

// Append stores rec.
func (s *EvaluationStore) Append(_ context.Context, rec domain.EvaluationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// History returns up to limit records, newest first.
func (s *EvaluationStore) History(_ context.Context, limit int) ([]domain.EvaluationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.EvaluationRecord, 0, min(limit, len(s.records)))
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Summaries aggregates records per version label, ordered by label.
func (s *EvaluationStore) Summaries(_ context.Context) ([]domain.EvaluationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byLabel := make(map[string]*domain.EvaluationSummary)
	for _, r := range s.records {
		sum, ok := byLabel[r.VersionLabel]
		if !ok {
			sum = &domain.EvaluationSummary{VersionLabel: r.VersionLabel, FirstRun: r.CreatedAt, LastRun: r.CreatedAt}
			byLabel[r.VersionLabel] = sum
		}
		n := float64(sum.TotalRuns)
		sum.MeanAvgScore = (sum.MeanAvgScore*n + r.AvgScore) / (n + 1)
		sum.MeanLatencyMS = (sum.MeanLatencyMS*n + float64(r.LatencyMS)) / (n + 1)
		sum.MeanRows = (sum.MeanRows*n + float64(r.RowsReturned)) / (n + 1)
		sum.MeanKeywords = (sum.MeanKeywords*n + float64(r.KeywordCount)) / (n + 1)
		sum.TotalRuns++
		if r.CreatedAt.Before(sum.FirstRun) {
			sum.FirstRun = r.CreatedAt
		}
		if r.CreatedAt.After(sum.LastRun) {
			sum.LastRun = r.CreatedAt
		}
	}

	out := make([]domain.EvaluationSummary, 0, len(byLabel))
	for _, sum := range byLabel {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionLabel < out[j].VersionLabel })
	return out, nil
}
