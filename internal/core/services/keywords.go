package services

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

// KeywordExtractor turns free-text queries into the ordered keyword list
// shared by feature recording and retrieval.
type KeywordExtractor struct {
	stopwords     map[string]struct{}
	maxKeywords   int
	minTermLength int
}

// NewKeywordExtractor creates an extractor from keyword settings.
// A MaxKeywords of zero means no cap.
func NewKeywordExtractor(settings domain.KeywordSettings) *KeywordExtractor {
	stop := make(map[string]struct{}, len(settings.Stopwords))
	for _, w := range settings.Stopwords {
		stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}

	minLen := settings.MinTermLength
	if minLen < 1 {
		minLen = 1
	}

	return &KeywordExtractor{
		stopwords:     stop,
		maxKeywords:   settings.MaxKeywords,
		minTermLength: minLen,
	}
}

// Extract returns lowercase alphanumeric terms in first-occurrence order,
// without stopwords, short terms or duplicates.
func (e *KeywordExtractor) Extract(query string) []string {
	tokens := tokenise(strings.ToLower(query))

	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < e.minTermLength {
			continue
		}
		if _, stop := e.stopwords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)

		if e.maxKeywords > 0 && len(keywords) == e.maxKeywords {
			break
		}
	}
	return keywords
}

// tokenise splits s into maximal runs of [a-z0-9].
func tokenise(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
