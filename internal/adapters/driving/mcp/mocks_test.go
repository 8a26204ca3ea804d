package mcp

import (
	"context"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	result    *domain.QueryResult
	err       error
	lastQuery string
	lastTopK  int
}

func (m *mockRetriever) Retrieve(_ context.Context, query string, topK int) (*domain.QueryResult, error) {
	m.lastQuery = query
	m.lastTopK = topK
	return m.result, m.err
}

// mockFeatureService is a mock implementation of driving.FeatureService.
type mockFeatureService struct {
	record    *domain.FeatureRecord
	history   []domain.FeatureRecord
	summaries []domain.FeatureVersionSummary
	err       error
	lastLabel string
}

func (m *mockFeatureService) ExtractFeatures(
	_ context.Context, _ string, _ int, _ string,
) (*domain.FeatureRecord, error) {
	return m.record, m.err
}

func (m *mockFeatureService) History(_ context.Context, label string, _ int) ([]domain.FeatureRecord, error) {
	m.lastLabel = label
	return m.history, m.err
}

func (m *mockFeatureService) Versions(_ context.Context) ([]domain.FeatureVersionSummary, error) {
	return m.summaries, m.err
}

func (m *mockFeatureService) Compare(_ context.Context, _, _ string) (*domain.FeatureComparison, error) {
	return nil, m.err
}

// mockEvaluationService is a mock implementation of driving.EvaluationService.
type mockEvaluationService struct {
	recorded  []*domain.QueryResult
	lastRunID string
	err       error
}

func (m *mockEvaluationService) Record(
	_ context.Context, runID, _ string, result *domain.QueryResult,
) (*domain.EvaluationRecord, error) {
	m.lastRunID = runID
	m.recorded = append(m.recorded, result)
	return &domain.EvaluationRecord{}, m.err
}

func (m *mockEvaluationService) History(_ context.Context, _ int) ([]domain.EvaluationRecord, error) {
	return nil, m.err
}

func (m *mockEvaluationService) Summaries(_ context.Context) ([]domain.EvaluationSummary, error) {
	return nil, m.err
}

func (m *mockEvaluationService) WhatIf(_ context.Context, _ []string, _ int) ([]domain.ScenarioReport, error) {
	return nil, m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	records []domain.IngestRecord
	err     error
}

func (m *mockIngestService) CheckAndRegister(_ context.Context, _ domain.InboxFile) (*domain.IngestResult, error) {
	return nil, m.err
}

func (m *mockIngestService) RunOnce(_ context.Context) ([]domain.IngestResult, error) {
	return nil, m.err
}

func (m *mockIngestService) Ledger(_ context.Context, _ int) ([]domain.IngestRecord, error) {
	return m.records, m.err
}

func (m *mockIngestService) StoredChunks(_ context.Context) (int, error) {
	total := 0
	for i := range m.records {
		total += m.records[i].RowCount
	}
	return total, m.err
}
