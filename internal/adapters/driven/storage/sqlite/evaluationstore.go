package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// evaluationStore implements driven.EvaluationStore.
type evaluationStore struct {
	store *Store
}

var _ driven.EvaluationStore = (*evaluationStore)(nil)

// Append inserts an evaluation record.
func (s *evaluationStore) Append(ctx context.Context, rec domain.EvaluationRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO eval_metrics
			(id, run_id, version_label, query_text, top_k, rows_returned,
			 avg_score, max_score, min_score, latency_ms, keyword_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RunID, rec.VersionLabel, rec.QueryText, rec.TopK, rec.RowsReturned,
		rec.AvgScore, rec.MaxScore, rec.MinScore, rec.LatencyMS, rec.KeywordCount,
		formatTime(rec.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("evaluation record %s: %w", rec.ID, domain.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("appending evaluation record: %w", err)
	}
	return nil
}

// History returns up to limit records, newest first.
func (s *evaluationStore) History(ctx context.Context, limit int) ([]domain.EvaluationRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, run_id, version_label, query_text, top_k, rows_returned,
		       avg_score, max_score, min_score, latency_ms, keyword_count, created_at
		FROM eval_metrics
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying evaluation history: %w", err)
	}
	defer rows.Close()

	var records []domain.EvaluationRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.EvaluationRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.VersionLabel, &rec.QueryText, &rec.TopK,
			&rec.RowsReturned, &rec.AvgScore, &rec.MaxScore, &rec.MinScore, &rec.LatencyMS,
			&rec.KeywordCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning evaluation record: %w", err)
		}
		rec.CreatedAt = parseTime(createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating evaluation history: %w", err)
	}
	return records, nil
}

// Summaries aggregates evaluation metrics per version label.
func (s *evaluationStore) Summaries(ctx context.Context) ([]domain.EvaluationSummary, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT version_label, COUNT(*), AVG(avg_score), AVG(latency_ms), AVG(rows_returned),
		       AVG(keyword_count), MIN(created_at), MAX(created_at)
		FROM eval_metrics
		GROUP BY version_label
		ORDER BY version_label
	`)
	if err != nil {
		return nil, fmt.Errorf("querying evaluation summaries: %w", err)
	}
	defer rows.Close()

	var summaries []domain.EvaluationSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var sum domain.EvaluationSummary
		var first, last string
		if err := rows.Scan(&sum.VersionLabel, &sum.TotalRuns, &sum.MeanAvgScore,
			&sum.MeanLatencyMS, &sum.MeanRows, &sum.MeanKeywords, &first, &last); err != nil {
			return nil, fmt.Errorf("scanning evaluation summary: %w", err)
		}
		sum.FirstRun = parseTime(first)
		sum.LastRun = parseTime(last)
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating evaluation summaries: %w", err)
	}
	return summaries, nil
}
