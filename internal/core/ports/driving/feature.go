package driving

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// FeatureService records versioned keyword features for queries.
type FeatureService interface {
	// ExtractFeatures extracts keywords from query and appends a new record
	// tagged with versionLabel. An empty versionLabel uses the configured one.
	ExtractFeatures(ctx context.Context, query string, topK int, versionLabel string) (*domain.FeatureRecord, error)

	// History returns recent records, newest first.
	History(ctx context.Context, versionLabel string, limit int) ([]domain.FeatureRecord, error)

	// Versions returns per-version aggregates.
	Versions(ctx context.Context) ([]domain.FeatureVersionSummary, error)

	// Compare returns the summaries of two versions side by side.
	Compare(ctx context.Context, base, candidate string) (*domain.FeatureComparison, error)
}
