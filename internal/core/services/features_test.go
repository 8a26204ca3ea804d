package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// mockFeatureStore implements driven.FeatureStore for testing.
type mockFeatureStore struct {
	mu        sync.Mutex
	records   []domain.FeatureRecord
	appendErr error
	lastLimit int
}

func (m *mockFeatureStore) Append(_ context.Context, rec domain.FeatureRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *mockFeatureStore) History(_ context.Context, version string, limit int) ([]domain.FeatureRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLimit = limit
	var out []domain.FeatureRecord
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if version == "" || m.records[i].VersionLabel == version {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func (m *mockFeatureStore) VersionSummaries(_ context.Context) ([]domain.FeatureVersionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byLabel := map[string]*domain.FeatureVersionSummary{}
	var labels []string
	for _, r := range m.records {
		s, ok := byLabel[r.VersionLabel]
		if !ok {
			s = &domain.FeatureVersionSummary{VersionLabel: r.VersionLabel, FirstSeen: r.CreatedAt}
			byLabel[r.VersionLabel] = s
			labels = append(labels, r.VersionLabel)
		}
		n := float64(s.TotalQueries)
		s.AvgKeywords = (s.AvgKeywords*n + float64(r.KeywordCount)) / (n + 1)
		s.AvgTopK = (s.AvgTopK*n + float64(r.TopK)) / (n + 1)
		s.TotalQueries++
		s.LastSeen = r.CreatedAt
	}
	sort.Strings(labels)
	out := make([]domain.FeatureVersionSummary, 0, len(labels))
	for _, l := range labels {
		out = append(out, *byLabel[l])
	}
	return out, nil
}

func newTestFeatureService(store *mockFeatureStore) *FeatureService {
	svc := NewFeatureService(store, defaultExtractor(), "", 5)
	svc.SetRunID("run-1")
	svc.SetClock(func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) })
	return svc
}

func TestExtractFeatures_AppendsRecord(t *testing.T) {
	store := &mockFeatureStore{}
	svc := newTestFeatureService(store)

	rec, err := svc.ExtractFeatures(context.Background(), "How much is the housing deposit?", 5, "v2")
	require.NoError(t, err)

	assert.Equal(t, []string{"housing", "deposit"}, rec.Keywords)
	assert.Equal(t, 2, rec.KeywordCount)
	assert.Equal(t, 5, rec.TopK)
	assert.Equal(t, "v2", rec.VersionLabel)
	assert.Equal(t, "run-1", rec.RunID)
	assert.NotEmpty(t, rec.ID)
	require.Len(t, store.records, 1)
}

func TestExtractFeatures_NeverOverwrites(t *testing.T) {
	store := &mockFeatureStore{}
	svc := newTestFeatureService(store)

	a, err := svc.ExtractFeatures(context.Background(), "housing deposit", 5, "v1")
	require.NoError(t, err)
	b, err := svc.ExtractFeatures(context.Background(), "housing deposit", 5, "v1")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, store.records, 2)
}

func TestExtractFeatures_Defaults(t *testing.T) {
	store := &mockFeatureStore{}
	svc := newTestFeatureService(store)

	rec, err := svc.ExtractFeatures(context.Background(), "exam rules", 0, "  ")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultVersionLabel, rec.VersionLabel)
	assert.Equal(t, 5, rec.TopK)
}

func TestExtractFeatures_NoKeywordsStillRecorded(t *testing.T) {
	store := &mockFeatureStore{}
	svc := newTestFeatureService(store)

	rec, err := svc.ExtractFeatures(context.Background(), "what is it", 5, "v1")
	require.NoError(t, err)
	assert.Empty(t, rec.Keywords)
	assert.Zero(t, rec.KeywordCount)
	assert.Len(t, store.records, 1)
}

func TestExtractFeatures_SinkFailure(t *testing.T) {
	store := &mockFeatureStore{appendErr: errors.New("disk full")}
	svc := newTestFeatureService(store)

	_, err := svc.ExtractFeatures(context.Background(), "housing", 5, "v1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSinkWrite)
}

func TestFeatureHistory_ClampsLimit(t *testing.T) {
	store := &mockFeatureStore{}
	svc := newTestFeatureService(store)

	_, err := svc.History(context.Background(), "", 5000)
	require.NoError(t, err)
	assert.Equal(t, 1000, store.lastLimit)

	_, err = svc.History(context.Background(), "", -3)
	require.NoError(t, err)
	assert.Equal(t, 1, store.lastLimit)

	_, err = svc.History(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Equal(t, 50, store.lastLimit)
}

func TestFeatureHistory_FiltersByVersion(t *testing.T) {
	store := &mockFeatureStore{}
	svc := newTestFeatureService(store)

	for _, v := range []string{"v1", "v2", "v1"} {
		_, err := svc.ExtractFeatures(context.Background(), "housing deposit", 5, v)
		require.NoError(t, err)
	}

	recs, err := svc.History(context.Background(), "v1", 10)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestCompare(t *testing.T) {
	store := &mockFeatureStore{}
	svc := newTestFeatureService(store)
	ctx := context.Background()

	_, err := svc.ExtractFeatures(ctx, "housing", 5, "v1")
	require.NoError(t, err)
	_, err = svc.ExtractFeatures(ctx, "housing deposit refund", 10, "v2")
	require.NoError(t, err)

	cmp, err := svc.Compare(ctx, "v1", "v2")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, cmp.KeywordDelta, 1e-9)
	assert.InDelta(t, 5.0, cmp.TopKDelta, 1e-9)
	assert.Equal(t, "v1", cmp.Base.VersionLabel)
	assert.Equal(t, "v2", cmp.Candidate.VersionLabel)
}

func TestCompare_UnknownVersion(t *testing.T) {
	store := &mockFeatureStore{}
	svc := newTestFeatureService(store)

	_, err := svc.ExtractFeatures(context.Background(), "housing", 5, "v1")
	require.NoError(t, err)

	_, err = svc.Compare(context.Background(), "v1", "v9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 50, clampLimit(0))
	assert.Equal(t, 1, clampLimit(-1))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, 1000, clampLimit(1001))
}
