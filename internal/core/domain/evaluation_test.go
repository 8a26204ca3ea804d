package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewEvaluationRecord(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	result := &QueryResult{
		QueryText: "late rent fees",
		Keywords:  []string{"late", "rent", "fees"},
		TopK:      5,
		RankedChunks: []RankedChunk{
			{Score: 3},
			{Score: 2},
			{Score: 1},
		},
		LatencyMS: 12,
	}

	rec := NewEvaluationRecord("eval-1", "run-1", "v2", result, at)

	assert.Equal(t, "late rent fees", rec.QueryText)
	assert.Equal(t, 5, rec.TopK)
	assert.Equal(t, 3, rec.RowsReturned)
	assert.Equal(t, 3, rec.KeywordCount)
	assert.InDelta(t, 2.0, rec.AvgScore, 1e-9)
	assert.Equal(t, 3.0, rec.MaxScore)
	assert.Equal(t, 1.0, rec.MinScore)
	assert.Equal(t, int64(12), rec.LatencyMS)
	assert.Equal(t, at, rec.CreatedAt)
}

func TestNewEvaluationRecord_EmptyResult(t *testing.T) {
	rec := NewEvaluationRecord("eval-1", "run-1", "v1", &QueryResult{QueryText: "parking", TopK: 3}, time.Now())

	assert.Equal(t, 0, rec.RowsReturned)
	assert.Zero(t, rec.AvgScore)
	assert.Zero(t, rec.MaxScore)
	assert.Zero(t, rec.MinScore)

	nilRec := NewEvaluationRecord("eval-2", "run-1", "v1", nil, time.Now())
	assert.Empty(t, nilRec.QueryText)
}

func TestQueryResult_Scores(t *testing.T) {
	var nilResult *QueryResult
	assert.Nil(t, nilResult.Scores())

	result := &QueryResult{RankedChunks: []RankedChunk{{Score: 2.5}, {Score: 1}}}
	assert.Equal(t, []float64{2.5, 1}, result.Scores())
}
