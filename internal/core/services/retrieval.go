package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.Retriever = (*RetrievalService)(nil)

const maxHeadingRunes = 80

var sectionNumbering = regexp.MustCompile(`^(\d+(\.\d+)*\.?|[IVX]+\.)\s+\S`)

// RetrievalService ranks stored chunks against a query by keyword overlap.
type RetrievalService struct {
	chunks       driven.ChunkStore
	keywords     *KeywordExtractor
	defaultTopK  int
	sectionBoost float64
	now          func() time.Time
}

// NewRetrievalService creates a retrieval service.
func NewRetrievalService(
	chunks driven.ChunkStore,
	keywords *KeywordExtractor,
	settings domain.RetrievalSettings,
) *RetrievalService {
	topK := settings.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &RetrievalService{
		chunks:       chunks,
		keywords:     keywords,
		defaultTopK:  topK,
		sectionBoost: settings.SectionBoost,
		now:          time.Now,
	}
}

// SetClock replaces the clock used for latency measurement.
func (s *RetrievalService) SetClock(now func() time.Time) {
	s.now = now
}

// Retrieve returns up to topK chunks ordered by descending score.
// A non-positive topK falls back to the configured default.
// Queries without keywords produce an empty result.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, topK int) (*domain.QueryResult, error) {
	started := s.now()
	if topK <= 0 {
		topK = s.defaultTopK
	}

	result := &domain.QueryResult{
		QueryText:    query,
		Keywords:     s.keywords.Extract(query),
		TopK:         topK,
		RankedChunks: []domain.RankedChunk{},
	}
	if len(result.Keywords) == 0 {
		logger.Debug("retrieve: no keywords in %q", query)
		result.LatencyMS = s.now().Sub(started).Milliseconds()
		return result, nil
	}

	candidates, err := s.chunks.Scan(ctx, domain.ChunkFilter{AnyTerms: result.Keywords})
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}

	ranked := make([]domain.RankedChunk, 0, len(candidates))
	for i := range candidates {
		score := Score(candidates[i].Text, result.Keywords, s.sectionBoost)
		if score <= 0 {
			continue
		}
		ranked = append(ranked, domain.RankedChunk{Chunk: candidates[i], Score: score})
	}

	sortRanked(ranked)
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	result.RankedChunks = ranked
	result.LatencyMS = s.now().Sub(started).Milliseconds()

	logger.Debug("retrieve: %d candidates, %d ranked, keywords=%v",
		len(candidates), len(ranked), result.Keywords)
	return result, nil
}

// Score is the fraction of keywords found in text as case-insensitive
// substrings, plus boost times the fraction also found in heading lines.
func Score(text string, keywords []string, boost float64) float64 {
	if len(keywords) == 0 || text == "" {
		return 0
	}

	lower := strings.ToLower(text)
	headings := strings.ToLower(strings.Join(headingLines(text), "\n"))

	matched, inHeading := 0, 0
	for _, kw := range keywords {
		if !strings.Contains(lower, kw) {
			continue
		}
		matched++
		if headings != "" && strings.Contains(headings, kw) {
			inHeading++
		}
	}
	if matched == 0 {
		return 0
	}

	n := float64(len(keywords))
	return float64(matched)/n + boost*float64(inHeading)/n
}

// headingLines returns the short lines of text that look like section
// headings: upper-case, colon-terminated, or numbered.
func headingLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || utf8.RuneCountInString(line) > maxHeadingRunes {
			continue
		}
		if strings.HasSuffix(line, ":") || sectionNumbering.MatchString(line) || isUpperLine(line) {
			out = append(out, line)
		}
	}
	return out
}

func isUpperLine(line string) bool {
	letters := 0
	for _, r := range line {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}

// sortRanked orders by score desc, then sequence index, source, page and id.
func sortRanked(ranked []domain.RankedChunk) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Chunk.SequenceIndex != b.Chunk.SequenceIndex {
			return a.Chunk.SequenceIndex < b.Chunk.SequenceIndex
		}
		if a.Chunk.SourceID != b.Chunk.SourceID {
			return a.Chunk.SourceID < b.Chunk.SourceID
		}
		if a.Chunk.PageNum != b.Chunk.PageNum {
			return a.Chunk.PageNum < b.Chunk.PageNum
		}
		return a.Chunk.ID < b.Chunk.ID
	})
}
