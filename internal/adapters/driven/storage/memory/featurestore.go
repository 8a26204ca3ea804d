package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// Ensure FeatureStore implements the interface.
var _ driven.FeatureStore = (*FeatureStore)(nil)

// FeatureStore is an in-memory, append-only feature store.
type FeatureStore struct {
	mu      sync.RWMutex
	records []domain.FeatureRecord
	ids     map[string]struct{}
}

// NewFeatureStore creates a new in-memory feature store.
func NewFeatureStore() *FeatureStore {
	return &FeatureStore{ids: make(map[string]struct{})}
}

// Append stores a copy of rec.
func (s *FeatureStore) Append(_ context.Context, rec domain.FeatureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.ids[rec.ID]; dup {
		return fmt.Errorf("feature record %s: %w", rec.ID, domain.ErrAlreadyExists)
	}
	rec.Keywords = append([]string{}, rec.Keywords...)
	s.ids[rec.ID] = struct{}{}
	s.records = append(s.records, rec)
	return nil
}

// History returns records newest first; an empty versionLabel matches all.
func (s *FeatureStore) History(_ context.Context, versionLabel string, limit int) ([]domain.FeatureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.FeatureRecord
	for _, r := range s.records {
		if versionLabel == "" || r.VersionLabel == versionLabel {
			out = append(out, r)
		}
	}
	// Newest first; later appends win ties.
	sort.SliceStable(out, func(i, j int) bool { return !out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// VersionSummaries aggregates records per version label, ordered by label.
func (s *FeatureStore) VersionSummaries(_ context.Context) ([]domain.FeatureVersionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type acc struct {
		sum                 domain.FeatureVersionSummary
		keywordSum, topKSum int
	}
	byLabel := make(map[string]*acc)
	for _, r := range s.records {
		a, ok := byLabel[r.VersionLabel]
		if !ok {
			a = &acc{sum: domain.FeatureVersionSummary{
				VersionLabel: r.VersionLabel,
				FirstSeen:    r.CreatedAt,
				LastSeen:     r.CreatedAt,
			}}
			byLabel[r.VersionLabel] = a
		}
		a.sum.TotalQueries++
		a.keywordSum += r.KeywordCount
		a.topKSum += r.TopK
		if r.CreatedAt.Before(a.sum.FirstSeen) {
			a.sum.FirstSeen = r.CreatedAt
		}
		if r.CreatedAt.After(a.sum.LastSeen) {
			a.sum.LastSeen = r.CreatedAt
		}
	}

	out := make([]domain.FeatureVersionSummary, 0, len(byLabel))
	for _, a := range byLabel {
		n := float64(a.sum.TotalQueries)
		a.sum.AvgKeywords = float64(a.keywordSum) / n
		a.sum.AvgTopK = float64(a.topKSum) / n
		out = append(out, a.sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionLabel < out[j].VersionLabel })
	return out, nil
}
