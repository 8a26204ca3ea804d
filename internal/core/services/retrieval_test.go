package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// mockChunkStore implements driven.ChunkStore for testing.
type mockChunkStore struct {
	mu        sync.Mutex
	chunks    []domain.Chunk
	saveErr   error
	scanErr   error
	saveCalls    int
	replaceCalls int
	scanCalls    int
}

func (m *mockChunkStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	existing := make(map[string]struct{}, len(m.chunks))
	for _, c := range m.chunks {
		existing[c.ID] = struct{}{}
	}
	for _, c := range chunks {
		if _, ok := existing[c.ID]; ok {
			continue
		}
		m.chunks = append(m.chunks, c)
	}
	return nil
}

func (m *mockChunkStore) ReplaceChunks(_ context.Context, sourceID string, chunks []domain.Chunk) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	kept := m.chunks[:0]
	for _, c := range m.chunks {
		if c.SourceID != sourceID {
			kept = append(kept, c)
		}
	}
	m.chunks = append(kept, chunks...)
	return nil
}

func (m *mockChunkStore) Scan(_ context.Context, filter domain.ChunkFilter) ([]domain.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanCalls++
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	var out []domain.Chunk
	for _, c := range m.chunks {
		if len(filter.AnyTerms) == 0 {
			out = append(out, c)
			continue
		}
		lower := strings.ToLower(c.Text)
		for _, term := range filter.AnyTerms {
			if strings.Contains(lower, term) {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func (m *mockChunkStore) CountChunks(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chunks), nil
}

func (m *mockChunkStore) scans() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scanCalls
}

func testChunk(t *testing.T, source string, page, seq int, text string) domain.Chunk {
	t.Helper()
	c, err := domain.NewChunk(source, source+".pdf", page, seq, text, 0,
		len([]rune(text)), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return c
}

func newTestRetrieval(store *mockChunkStore) *RetrievalService {
	settings := domain.DefaultAppSettings()
	return NewRetrievalService(store, NewKeywordExtractor(settings.Keywords), settings.Retrieval)
}

func TestRetrieve_RanksByKeywordOverlap(t *testing.T) {
	store := &mockChunkStore{}
	store.chunks = []domain.Chunk{
		testChunk(t, "aaaa", 1, 0, "Deposits are refunded after move-out."),
		testChunk(t, "aaaa", 1, 1, "The housing deposit is due in August."),
		testChunk(t, "bbbb", 1, 0, "Library opening hours."),
	}

	res, err := newTestRetrieval(store).Retrieve(context.Background(), "housing deposit", 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"housing", "deposit"}, res.Keywords)
	require.Len(t, res.RankedChunks, 2)
	assert.Equal(t, 1, res.RankedChunks[0].Chunk.SequenceIndex)
	assert.InDelta(t, 1.0, res.RankedChunks[0].Score, 1e-9)
	assert.InDelta(t, 0.5, res.RankedChunks[1].Score, 1e-9)
	assert.True(t, res.Grounded())
}

func TestRetrieve_ExcludesChunkWithoutKeywords(t *testing.T) {
	store := &mockChunkStore{}
	store.chunks = []domain.Chunk{
		testChunk(t, "aaaa", 1, 0, "Parking permits are issued each term."),
		testChunk(t, "aaaa", 1, 1, "Evacuation procedures start at the nearest stairwell."),
	}

	res, err := newTestRetrieval(store).Retrieve(context.Background(), "evacuation procedures", 5)
	require.NoError(t, err)

	require.Len(t, res.RankedChunks, 1)
	assert.Equal(t, 1, res.RankedChunks[0].Chunk.SequenceIndex)
	assert.Greater(t, res.RankedChunks[0].Score, 0.0)
}

func TestRetrieve_TopKBoundsAndDescendingScores(t *testing.T) {
	store := &mockChunkStore{}
	texts := []string{
		"parking permit fines",
		"parking permit",
		"parking",
		"permit fines",
		"fines",
		"nothing relevant",
	}
	for i, text := range texts {
		store.chunks = append(store.chunks, testChunk(t, "cccc", 1, i, text))
	}

	res, err := newTestRetrieval(store).Retrieve(context.Background(), "parking permit fines", 3)
	require.NoError(t, err)
	require.Len(t, res.RankedChunks, 3)

	scores := res.Scores()
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1], scores[i])
	}
}

func TestRetrieve_TieBreaksBySequenceThenSource(t *testing.T) {
	store := &mockChunkStore{}
	store.chunks = []domain.Chunk{
		testChunk(t, "zzzz", 1, 2, "tuition refund"),
		testChunk(t, "yyyy", 1, 0, "tuition refund"),
		testChunk(t, "xxxx", 1, 2, "tuition refund"),
	}

	res, err := newTestRetrieval(store).Retrieve(context.Background(), "tuition refund", 10)
	require.NoError(t, err)
	require.Len(t, res.RankedChunks, 3)

	assert.Equal(t, "yyyy", res.RankedChunks[0].Chunk.SourceID)
	assert.Equal(t, "xxxx", res.RankedChunks[1].Chunk.SourceID)
	assert.Equal(t, "zzzz", res.RankedChunks[2].Chunk.SourceID)
}

func TestRetrieve_NoKeywordsIsEmptyNotError(t *testing.T) {
	store := &mockChunkStore{}
	store.chunks = []domain.Chunk{testChunk(t, "aaaa", 1, 0, "what is the policy")}

	res, err := newTestRetrieval(store).Retrieve(context.Background(), "what is the", 5)
	require.NoError(t, err)
	assert.Empty(t, res.Keywords)
	assert.Empty(t, res.RankedChunks)
	assert.False(t, res.Grounded())
	assert.Zero(t, store.scans())
}

func TestRetrieve_ShortResultSet(t *testing.T) {
	store := &mockChunkStore{}
	store.chunks = []domain.Chunk{testChunk(t, "aaaa", 1, 0, "Graduation ceremony details")}

	res, err := newTestRetrieval(store).Retrieve(context.Background(), "graduation gown rental", 5)
	require.NoError(t, err)
	require.Len(t, res.RankedChunks, 1)
	assert.InDelta(t, 1.0/3.0, res.RankedChunks[0].Score, 1e-9)
}

func TestRetrieve_DefaultTopK(t *testing.T) {
	store := &mockChunkStore{}
	for i := 0; i < 10; i++ {
		store.chunks = append(store.chunks, testChunk(t, "aaaa", 1, i, "exam schedule"))
	}

	res, err := newTestRetrieval(store).Retrieve(context.Background(), "exam schedule", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTopK, res.TopK)
	assert.Len(t, res.RankedChunks, domain.DefaultTopK)
}

func TestRetrieve_ScanError(t *testing.T) {
	store := &mockChunkStore{scanErr: errors.New("warehouse down")}

	_, err := newTestRetrieval(store).Retrieve(context.Background(), "housing deposit", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warehouse down")
}

func TestRetrieve_LatencyUsesClock(t *testing.T) {
	store := &mockChunkStore{}
	svc := newTestRetrieval(store)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	svc.SetClock(func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * 42 * time.Millisecond)
	})

	res, err := svc.Retrieve(context.Background(), "housing", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.LatencyMS)
}

func TestScore_HeadingBoost(t *testing.T) {
	body := "Students must pay the housing deposit before move-in."
	withHeading := "HOUSING DEPOSIT\n" + body

	plain := Score(body, []string{"housing", "deposit"}, 0.25)
	boosted := Score(withHeading, []string{"housing", "deposit"}, 0.25)

	assert.InDelta(t, 1.0, plain, 1e-9)
	assert.InDelta(t, 1.25, boosted, 1e-9)
}

func TestScore_HeadingForms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"colon", "Refund policy:\nrefund applies", 1.5},
		{"numbered", "3.2 Refund rules\nrefund applies", 1.5},
		{"roman", "IV. Refund rules\nrefund applies", 1.5},
		{"sentence", "The refund applies to all.", 1.0},
		{"no match", "Nothing here.", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Score(tt.text, []string{"refund"}, 0.5), 1e-9)
		})
	}
}

func TestScore_LongLineIsNotHeading(t *testing.T) {
	line := strings.Repeat("REFUND ", 20)
	assert.InDelta(t, 1.0, Score(line, []string{"refund"}, 0.5), 1e-9)
}

func TestScore_NoKeywords(t *testing.T) {
	assert.Zero(t, Score("anything", nil, 0.25))
}
