package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// Ensure FeatureService implements the interface.
var _ driving.FeatureService = (*FeatureService)(nil)

// FeatureService records the keyword features of each query under a version label.
type FeatureService struct {
	store          driven.FeatureStore
	keywords       *KeywordExtractor
	defaultVersion string
	defaultTopK    int
	runID          string
	now            func() time.Time
}

// NewFeatureService creates a feature service.
// An empty defaultVersion falls back to domain.DefaultVersionLabel.
func NewFeatureService(
	store driven.FeatureStore,
	keywords *KeywordExtractor,
	defaultVersion string,
	defaultTopK int,
) *FeatureService {
	if defaultVersion == "" {
		defaultVersion = domain.DefaultVersionLabel
	}
	if defaultTopK <= 0 {
		defaultTopK = domain.DefaultTopK
	}
	return &FeatureService{
		store:          store,
		keywords:       keywords,
		defaultVersion: defaultVersion,
		defaultTopK:    defaultTopK,
		runID:          uuid.NewString(),
		now:            time.Now,
	}
}

// SetRunID sets the run identifier stamped on every record.
func (s *FeatureService) SetRunID(runID string) {
	s.runID = runID
}

// SetClock replaces the clock used for record timestamps.
func (s *FeatureService) SetClock(now func() time.Time) {
	s.now = now
}

// ExtractFeatures derives keywords from query and appends a new feature record.
func (s *FeatureService) ExtractFeatures(
	ctx context.Context,
	query string,
	topK int,
	versionLabel string,
) (*domain.FeatureRecord, error) {
	if topK <= 0 {
		topK = s.defaultTopK
	}
	versionLabel = strings.TrimSpace(versionLabel)
	if versionLabel == "" {
		versionLabel = s.defaultVersion
	}

	rec, err := domain.NewFeatureRecord(
		uuid.NewString(),
		s.runID,
		query,
		s.keywords.Extract(query),
		topK,
		versionLabel,
		s.now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.store.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: append feature record: %w", domain.ErrSinkWrite, err)
	}

	logger.Debug("features: version=%s keywords=%v", rec.VersionLabel, rec.Keywords)
	return &rec, nil
}

// History returns feature records newest first, optionally for one version.
func (s *FeatureService) History(ctx context.Context, versionLabel string, limit int) ([]domain.FeatureRecord, error) {
	return s.store.History(ctx, strings.TrimSpace(versionLabel), clampLimit(limit))
}

// Versions returns per-version aggregates ordered by label.
func (s *FeatureService) Versions(ctx context.Context) ([]domain.FeatureVersionSummary, error) {
	return s.store.VersionSummaries(ctx)
}

// Compare places two version summaries side by side.
func (s *FeatureService) Compare(ctx context.Context, base, candidate string) (*domain.FeatureComparison, error) {
	summaries, err := s.store.VersionSummaries(ctx)
	if err != nil {
		return nil, err
	}

	byLabel := make(map[string]domain.FeatureVersionSummary, len(summaries))
	for _, sum := range summaries {
		byLabel[sum.VersionLabel] = sum
	}

	b, ok := byLabel[base]
	if !ok {
		return nil, fmt.Errorf("version %q: %w", base, domain.ErrNotFound)
	}
	c, ok := byLabel[candidate]
	if !ok {
		return nil, fmt.Errorf("version %q: %w", candidate, domain.ErrNotFound)
	}

	return &domain.FeatureComparison{
		Base:         b,
		Candidate:    c,
		KeywordDelta: c.AvgKeywords - b.AvgKeywords,
		TopKDelta:    c.AvgTopK - b.AvgTopK,
	}, nil
}

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
)

// clampLimit bounds history limits to [1, 1000]; zero selects the default.
func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return defaultHistoryLimit
	case limit < 1:
		return 1
	case limit > maxHistoryLimit:
		return maxHistoryLimit
	}
	return limit
}
