package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, 1200, s.Chunking.Window)
	assert.Equal(t, 200, s.Chunking.Overlap)
	assert.Equal(t, 6, s.Keywords.MaxKeywords)
	assert.Equal(t, 3, s.Keywords.MinTermLength)
	assert.Contains(t, s.Keywords.Stopwords, "the")
	assert.Equal(t, DefaultTopK, s.Retrieval.TopK)
	assert.Equal(t, 120*time.Second, s.Retrieval.CacheTTL)
	assert.Equal(t, 60*time.Second, s.Ingest.PollInterval)
	assert.Equal(t, "v1", s.VersionLabel)
	require.NoError(t, s.Validate())
}

func TestDefaultAppSettings_StopwordsAreCopied(t *testing.T) {
	s := DefaultAppSettings()
	s.Keywords.Stopwords[0] = "changed"
	assert.Equal(t, "a", DefaultStopwords[0])
}

func TestChunkingSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		window  int
		overlap int
		wantErr bool
	}{
		{"defaults", 1200, 200, false},
		{"zero overlap", 100, 0, false},
		{"overlap one below window", 100, 99, false},
		{"overlap equals window", 100, 100, true},
		{"overlap exceeds window", 100, 150, true},
		{"negative overlap", 100, -1, true},
		{"zero window", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ChunkingSettings{Window: tt.window, Overlap: tt.overlap}.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfiguration)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"bad chunking", func(s *AppSettings) { s.Chunking.Overlap = s.Chunking.Window }},
		{"negative max keywords", func(s *AppSettings) { s.Keywords.MaxKeywords = -1 }},
		{"zero min term length", func(s *AppSettings) { s.Keywords.MinTermLength = 0 }},
		{"zero top_k", func(s *AppSettings) { s.Retrieval.TopK = 0 }},
		{"negative boost", func(s *AppSettings) { s.Retrieval.SectionBoost = -0.1 }},
		{"negative ttl", func(s *AppSettings) { s.Retrieval.CacheTTL = -time.Second }},
		{"zero poll interval", func(s *AppSettings) { s.Ingest.PollInterval = 0 }},
		{"empty version", func(s *AppSettings) { s.VersionLabel = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrConfiguration)
		})
	}
}
