package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// featureStore implements driven.FeatureStore.
type featureStore struct {
	store *Store
}

var _ driven.FeatureStore = (*featureStore)(nil)

// Append inserts a feature record. Records are never updated.
func (s *featureStore) Append(ctx context.Context, rec domain.FeatureRecord) error {
	keywords := rec.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("marshalling keywords: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO feature_store
			(id, run_id, version_label, query_text, keywords, keyword_count, top_k, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RunID, rec.VersionLabel, rec.QueryText, string(keywordsJSON),
		rec.KeywordCount, rec.TopK, formatTime(rec.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("feature record %s: %w", rec.ID, domain.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("appending feature record: %w", err)
	}
	return nil
}

// History returns records newest first; an empty versionLabel matches all.
func (s *featureStore) History(ctx context.Context, versionLabel string, limit int) ([]domain.FeatureRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, run_id, version_label, query_text, keywords, keyword_count, top_k, created_at
		FROM feature_store
		WHERE ? = '' OR version_label = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, versionLabel, versionLabel, limit)
	if err != nil {
		return nil, fmt.Errorf("querying feature history: %w", err)
	}
	defer rows.Close()

	var records []domain.FeatureRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.FeatureRecord
		var keywordsJSON, createdAt string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.VersionLabel, &rec.QueryText,
			&keywordsJSON, &rec.KeywordCount, &rec.TopK, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning feature record: %w", err)
		}
		if err := json.Unmarshal([]byte(keywordsJSON), &rec.Keywords); err != nil {
			return nil, fmt.Errorf("unmarshalling keywords: %w", err)
		}
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feature history: %w", err)
	}
	return records, nil
}

// VersionSummaries aggregates records per version label, ordered by label.
func (s *featureStore) VersionSummaries(ctx context.Context) ([]domain.FeatureVersionSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT version_label, COUNT(*), AVG(keyword_count), AVG(top_k), MIN(created_at), MAX(created_at)
		FROM feature_store
		GROUP BY version_label
		ORDER BY version_label
	`)
	if err != nil {
		return nil, fmt.Errorf("querying feature versions: %w", err)
	}
	defer rows.Close()

	var summaries []domain.FeatureVersionSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var sum domain.FeatureVersionSummary
		var first, last string
		if err := rows.Scan(&sum.VersionLabel, &sum.TotalQueries, &sum.AvgKeywords,
			&sum.AvgTopK, &first, &last); err != nil {
			return nil, fmt.Errorf("scanning feature version: %w", err)
		}
		sum.FirstSeen = parseTime(first)
		sum.LastSeen = parseTime(last)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating feature versions: %w", err)
	}
	return summaries, nil
}
