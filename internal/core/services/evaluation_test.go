package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// mockEvaluationStore implements driven.EvaluationStore for testing.
type mockEvaluationStore struct {
	mu        sync.Mutex
	records   []domain.EvaluationRecord
	appendErr error
	lastLimit int
}

func (m *mockEvaluationStore) Append(_ context.Context, rec domain.EvaluationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockEvaluationStore) History(_ context.Context, limit int) ([]domain.EvaluationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	return m.records, nil
}

func (m *mockEvaluationStore) Summaries(_ context.Context) ([]domain.EvaluationSummary, error) {
	return nil, nil
}

func TestEvaluationRecord_Metrics(t *testing.T) {
	store := &mockEvaluationStore{}
	svc := NewEvaluationService(store, nil)
	svc.SetClock(func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) })

	result := &domain.QueryResult{
		QueryText: "housing deposit",
		Keywords:  []string{"housing", "deposit"},
		TopK:      5,
		RankedChunks: []domain.RankedChunk{
			{Score: 1.0}, {Score: 0.5},
		},
		LatencyMS: 12,
	}

	rec, err := svc.Record(context.Background(), "run-1", "", result)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultVersionLabel, rec.VersionLabel)
	assert.Equal(t, 2, rec.RowsReturned)
	assert.InDelta(t, 0.75, rec.AvgScore, 1e-9)
	assert.InDelta(t, 1.0, rec.MaxScore, 1e-9)
	assert.InDelta(t, 0.5, rec.MinScore, 1e-9)
	assert.Equal(t, int64(12), rec.LatencyMS)
	assert.Equal(t, 2, rec.KeywordCount)
	assert.Len(t, store.records, 1)
}

func TestEvaluationRecord_ConfiguredDefaultVersion(t *testing.T) {
	store := &mockEvaluationStore{}
	svc := NewEvaluationService(store, nil)
	svc.SetDefaultVersion("v2")

	rec, err := svc.Record(context.Background(), "run", "  ", &domain.QueryResult{})
	require.NoError(t, err)
	assert.Equal(t, "v2", rec.VersionLabel)

	rec, err = svc.Record(context.Background(), "run", "v3", &domain.QueryResult{})
	require.NoError(t, err)
	assert.Equal(t, "v3", rec.VersionLabel)
}

func TestEvaluationRecord_NilResult(t *testing.T) {
	svc := NewEvaluationService(&mockEvaluationStore{}, nil)
	_, err := svc.Record(context.Background(), "run", "v1", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEvaluationRecord_SinkFailure(t *testing.T) {
	svc := NewEvaluationService(&mockEvaluationStore{appendErr: errors.New("locked")}, nil)
	_, err := svc.Record(context.Background(), "run", "v1", &domain.QueryResult{})
	assert.ErrorIs(t, err, domain.ErrSinkWrite)
}

func TestEvaluationHistory_Clamp(t *testing.T) {
	store := &mockEvaluationStore{}
	svc := NewEvaluationService(store, nil)

	_, err := svc.History(context.Background(), 99999)
	require.NoError(t, err)
	assert.Equal(t, 1000, store.lastLimit)
}

func TestWhatIf_ReportsInInputOrder(t *testing.T) {
	chunks := &mockChunkStore{}
	chunks.chunks = []domain.Chunk{
		testChunk(t, "aaaa", 1, 0, "housing deposit refund"),
		testChunk(t, "aaaa", 1, 1, "parking permit"),
	}
	svc := NewEvaluationService(&mockEvaluationStore{}, newTestRetrieval(chunks))

	reports, err := svc.WhatIf(context.Background(), []string{
		"housing deposit",
		"  ",
		"parking fines",
		"the",
	}, 5)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	assert.Equal(t, "housing deposit", reports[0].Query)
	assert.Equal(t, 1, reports[0].ReturnedChunks)
	assert.InDelta(t, 1.0, reports[0].AverageScore, 1e-9)

	assert.Equal(t, "parking fines", reports[1].Query)
	assert.Equal(t, 2, reports[1].KeywordCount)
	assert.InDelta(t, 0.5, reports[1].AverageScore, 1e-9)

	assert.Equal(t, "the", reports[2].Query)
	assert.Zero(t, reports[2].KeywordCount)
	assert.Zero(t, reports[2].ReturnedChunks)
}

func TestWhatIf_PropagatesError(t *testing.T) {
	svc := NewEvaluationService(&mockEvaluationStore{}, &countingRetriever{err: errors.New("offline")})

	_, err := svc.WhatIf(context.Background(), []string{"a query"}, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
}

func TestWhatIf_NoRetriever(t *testing.T) {
	svc := NewEvaluationService(&mockEvaluationStore{}, nil)
	_, err := svc.WhatIf(context.Background(), []string{"q"}, 5)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
