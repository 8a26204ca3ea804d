package driven

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// FeatureStore is the append-only feature history.
type FeatureStore interface {
	// Append adds a record. Records are never updated.
	Append(ctx context.Context, rec domain.FeatureRecord) error

	// History returns the most recent records first, up to limit.
	// An empty versionLabel returns all versions.
	History(ctx context.Context, versionLabel string, limit int) ([]domain.FeatureRecord, error)

	// VersionSummaries aggregates records per version label, ordered by label.
	VersionSummaries(ctx context.Context) ([]domain.FeatureVersionSummary, error)
}
