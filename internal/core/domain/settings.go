package domain

import (
	"fmt"
	"time"
)

// Default pipeline settings.
const (
	DefaultWindow        = 1200
	DefaultOverlap       = 200
	DefaultTopK          = 5
	DefaultMaxKeywords   = 6
	DefaultMinTermLength = 3
	DefaultSectionBoost  = 0.25
	DefaultCacheTTL      = 120 * time.Second
)

// DefaultStopwords is the stopword set applied to queries.
var DefaultStopwords = []string{
	"a", "an", "the", "and", "or", "but", "if", "then", "else", "so",
	"is", "are", "was", "were", "be", "been", "being",
	"do", "does", "did", "to", "of", "in", "on", "for", "with", "at", "by", "from", "as",
	"how", "much", "many", "what", "when", "where", "who", "whom", "why",
	"i", "me", "my", "you", "your", "we", "our", "they", "their",
	"can", "could", "should", "would", "may", "might", "will", "shall",
}

// ChunkingSettings configures the Segmenter.
type ChunkingSettings struct {
	// Window is the chunk length in characters.
	Window int

	// Overlap is the number of characters shared by consecutive chunks.
	Overlap int
}

// Validate checks 0 <= Overlap < Window.
func (c ChunkingSettings) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("%w: window %d must be positive", ErrConfiguration, c.Window)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap %d must not be negative", ErrConfiguration, c.Overlap)
	}
	if c.Overlap >= c.Window {
		return fmt.Errorf("%w: overlap %d must be smaller than window %d",
			ErrConfiguration, c.Overlap, c.Window)
	}
	return nil
}

// KeywordSettings configures query keyword extraction.
type KeywordSettings struct {
	// Stopwords are removed from queries before scoring.
	Stopwords []string

	// MaxKeywords caps the keyword list. Zero means unlimited.
	MaxKeywords int

	// MinTermLength drops shorter tokens.
	MinTermLength int
}

// RetrievalSettings configures ranked retrieval.
type RetrievalSettings struct {
	// TopK is the default result depth.
	TopK int

	// SectionBoost weights keywords found in heading lines.
	SectionBoost float64

	// CacheTTL is how long a retrieval result is reused. Zero disables the cache.
	CacheTTL time.Duration
}

// IngestSettings configures the inbox poller.
type IngestSettings struct {
	// InboxDir is polled for new files.
	InboxDir string

	// DoneDir receives successfully ingested files.
	DoneDir string

	// PollInterval is the time between poll cycles.
	PollInterval time.Duration

	// Watch triggers an extra cycle when the inbox changes.
	Watch bool
}

// AppSettings holds all externally supplied configuration.
type AppSettings struct {
	Chunking  ChunkingSettings
	Keywords  KeywordSettings
	Retrieval RetrievalSettings
	Ingest    IngestSettings

	// VersionLabel tags feature and evaluation records.
	VersionLabel string
}

// DefaultAppSettings returns the default configuration.
// Directories are left empty; callers resolve them relative to the data home.
func DefaultAppSettings() AppSettings {
	stopwords := make([]string, len(DefaultStopwords))
	copy(stopwords, DefaultStopwords)

	return AppSettings{
		Chunking: ChunkingSettings{
			Window:  DefaultWindow,
			Overlap: DefaultOverlap,
		},
		Keywords: KeywordSettings{
			Stopwords:     stopwords,
			MaxKeywords:   DefaultMaxKeywords,
			MinTermLength: DefaultMinTermLength,
		},
		Retrieval: RetrievalSettings{
			TopK:         DefaultTopK,
			SectionBoost: DefaultSectionBoost,
			CacheTTL:     DefaultCacheTTL,
		},
		Ingest: IngestSettings{
			PollInterval: DefaultPollInterval,
		},
		VersionLabel: DefaultVersionLabel,
	}
}

// Validate reports the first configuration error.
func (s *AppSettings) Validate() error {
	if err := s.Chunking.Validate(); err != nil {
		return err
	}
	if s.Keywords.MaxKeywords < 0 {
		return fmt.Errorf("%w: max keywords %d", ErrConfiguration, s.Keywords.MaxKeywords)
	}
	if s.Keywords.MinTermLength < 1 {
		return fmt.Errorf("%w: min term length %d", ErrConfiguration, s.Keywords.MinTermLength)
	}
	if s.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: top_k %d must be positive", ErrConfiguration, s.Retrieval.TopK)
	}
	if s.Retrieval.SectionBoost < 0 {
		return fmt.Errorf("%w: section boost %.2f", ErrConfiguration, s.Retrieval.SectionBoost)
	}
	if s.Retrieval.CacheTTL < 0 {
		return fmt.Errorf("%w: cache ttl %s", ErrConfiguration, s.Retrieval.CacheTTL)
	}
	if s.Ingest.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval %s", ErrConfiguration, s.Ingest.PollInterval)
	}
	if s.VersionLabel == "" {
		return fmt.Errorf("%w: version label is empty", ErrConfiguration)
	}
	return nil
}
