package domain

import "time"

// EvaluationRecord captures retrieval quality metrics for one query run.
type EvaluationRecord struct {
	ID           string
	RunID        string
	VersionLabel string
	QueryText    string
	TopK         int
	RowsReturned int
	AvgScore     float64
	MaxScore     float64
	MinScore     float64
	LatencyMS    int64
	KeywordCount int
	CreatedAt    time.Time
}

// EvaluationSummary aggregates evaluation records for one version label.
type EvaluationSummary struct {
	VersionLabel  string
	TotalRuns     int
	MeanAvgScore  float64
	MeanLatencyMS float64
	MeanRows      float64
	MeanKeywords  float64
	FirstRun      time.Time
	LastRun       time.Time
}

// ScenarioReport summarises one what-if query variant.
type ScenarioReport struct {
	Query          string
	Keywords       []string
	KeywordCount   int
	ReturnedChunks int
	AverageScore   float64
	LatencyMS      int64
}

// NewEvaluationRecord derives score statistics from a query result.
// An empty result yields zero statistics.
func NewEvaluationRecord(id, runID, versionLabel string, result *QueryResult, at time.Time) EvaluationRecord {
	rec := EvaluationRecord{
		ID:           id,
		RunID:        runID,
		VersionLabel: versionLabel,
		CreatedAt:    at,
	}
	if result == nil {
		return rec
	}

	rec.QueryText = result.QueryText
	rec.TopK = result.TopK
	rec.LatencyMS = result.LatencyMS
	rec.KeywordCount = len(result.Keywords)
	rec.RowsReturned = len(result.RankedChunks)

	scores := result.Scores()
	if len(scores) == 0 {
		return rec
	}

	sum := 0.0
	rec.MaxScore = scores[0]
	rec.MinScore = scores[0]
	for _, s := range scores {
		sum += s
		if s > rec.MaxScore {
			rec.MaxScore = s
		}
		if s < rec.MinScore {
			rec.MinScore = s
		}
	}
	rec.AvgScore = sum / float64(len(scores))
	return rec
}
