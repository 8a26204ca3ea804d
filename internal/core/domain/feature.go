package domain

import (
	"fmt"
	"time"
)

// DefaultVersionLabel is the version label used when none is configured.
const DefaultVersionLabel = "v1"

// FeatureRecord is an append-only snapshot of the keyword features of a query.
type FeatureRecord struct {
	// ID is the unique identifier for the record.
	ID string

	// RunID groups records written by the same run.
	RunID string

	// QueryText is the raw query as submitted.
	QueryText string

	// Keywords are the extracted keywords in query order, stopwords removed.
	Keywords []string

	// KeywordCount is len(Keywords).
	KeywordCount int

	// TopK is the retrieval depth requested alongside the query.
	TopK int

	// VersionLabel partitions records into comparable cohorts (e.g. "v1", "v2").
	VersionLabel string

	// CreatedAt orders records within a version.
	CreatedAt time.Time
}

// NewFeatureRecord builds a feature record and validates it.
func NewFeatureRecord(
	id, runID, query string,
	keywords []string,
	topK int,
	versionLabel string,
	createdAt time.Time,
) (FeatureRecord, error) {
	switch {
	case id == "":
		return FeatureRecord{}, fmt.Errorf("%w: feature record id is empty", ErrInvalidInput)
	case versionLabel == "":
		return FeatureRecord{}, fmt.Errorf("%w: version label is empty", ErrInvalidInput)
	case topK < 0:
		return FeatureRecord{}, fmt.Errorf("%w: top_k %d", ErrInvalidInput, topK)
	}

	kw := make([]string, len(keywords))
	copy(kw, keywords)

	return FeatureRecord{
		ID:           id,
		RunID:        runID,
		QueryText:    query,
		Keywords:     kw,
		KeywordCount: len(kw),
		TopK:         topK,
		VersionLabel: versionLabel,
		CreatedAt:    createdAt,
	}, nil
}

// FeatureVersionSummary aggregates feature records for one version label.
type FeatureVersionSummary struct {
	VersionLabel string
	TotalQueries int
	AvgKeywords  float64
	AvgTopK      float64
	FirstSeen    time.Time
	LastSeen     time.Time
}

// FeatureComparison places two version summaries side by side.
type FeatureComparison struct {
	Base      FeatureVersionSummary
	Candidate FeatureVersionSummary

	// KeywordDelta is Candidate.AvgKeywords - Base.AvgKeywords.
	KeywordDelta float64

	// TopKDelta is Candidate.AvgTopK - Base.AvgTopK.
	TopKDelta float64
}
