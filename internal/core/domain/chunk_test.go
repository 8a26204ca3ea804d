package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkID(t *testing.T) {
	t.Run("truncates long hashes", func(t *testing.T) {
		id := ChunkID("0123456789abcdef0123456789abcdef", 7)
		assert.Equal(t, "0123456789abcdef-000007", id)
	})

	t.Run("keeps short source ids", func(t *testing.T) {
		assert.Equal(t, "abc-000000", ChunkID("abc", 0))
	})

	t.Run("is deterministic", func(t *testing.T) {
		assert.Equal(t, ChunkID("hash", 3), ChunkID("hash", 3))
		assert.NotEqual(t, ChunkID("hash", 3), ChunkID("hash", 4))
	})
}

func TestNewChunk(t *testing.T) {
	now := time.Now()

	t.Run("valid chunk", func(t *testing.T) {
		c, err := NewChunk("h1", "policy.pdf", 2, 4, "hello", 10, 15, now)
		require.NoError(t, err)
		assert.Equal(t, ChunkID("h1", 4), c.ID)
		assert.Equal(t, "policy.pdf", c.SourceName)
		assert.Equal(t, 2, c.PageNum)
		assert.Equal(t, 5, c.Len())
		assert.Equal(t, now, c.CreatedAt)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		_, err := NewChunk("h1", "f", 1, 0, "héllo", 0, 5, now)
		assert.NoError(t, err)
	})

	tests := []struct {
		name     string
		sourceID string
		page     int
		seq      int
		text     string
		start    int
		end      int
	}{
		{"empty source", "", 1, 0, "abc", 0, 3},
		{"zero page", "h", 0, 0, "abc", 0, 3},
		{"negative sequence", "h", 1, -1, "abc", 0, 3},
		{"negative start", "h", 1, 0, "abc", -1, 2},
		{"empty span", "h", 1, 0, "", 3, 3},
		{"length mismatch", "h", 1, 0, "abcd", 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunk(tt.sourceID, "f", tt.page, tt.seq, tt.text, tt.start, tt.end, now)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDocument_CharCount_MultiByte(t *testing.T) {
	doc := Document{Pages: []Page{{Number: 1, Text: "abc"}, {Number: 2, Text: "déf"}}}
	assert.Equal(t, 6, doc.CharCount())
}
