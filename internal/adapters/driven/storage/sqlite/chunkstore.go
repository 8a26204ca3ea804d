package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

const chunkColumns = `id, source_id, source_name, page_num, sequence_index, text, char_start, char_end, created_at`

// SaveChunks inserts chunks in one transaction. Rows whose id already
// exists are left untouched, so re-persisting a file is a no-op.
func (s *chunkStore) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := insertChunks(ctx, tx, chunks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ReplaceChunks deletes the chunks of sourceID and inserts chunks in the
// same transaction. Readers see either the old set or the new one.
func (s *chunkStore) ReplaceChunks(ctx context.Context, sourceID string, chunks []domain.Chunk) error {
	for i := range chunks {
		if chunks[i].SourceID != sourceID {
			return fmt.Errorf("%w: chunk %s belongs to %s, not %s",
				domain.ErrInvalidInput, chunks[i].ID, chunks[i].SourceID, sourceID)
		}
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE source_id = ?", sourceID); err != nil {
		return fmt.Errorf("deleting chunks of %s: %w", sourceID, err)
	}
	if err := insertChunks(ctx, tx, chunks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func insertChunks(ctx context.Context, tx *sql.Tx, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (`+chunkColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i := range chunks {
		c := &chunks[i]
		if _, err := stmt.ExecContext(ctx, c.ID, c.SourceID, c.SourceName, c.PageNum,
			c.SequenceIndex, c.Text, c.CharStart, c.CharEnd, formatTime(c.CreatedAt)); err != nil {
			return fmt.Errorf("saving chunk %s: %w", c.ID, err)
		}
	}
	return nil
}

// Scan returns chunks matching filter, ordered by source and sequence.
// AnyTerms match as case-insensitive substrings of the chunk text.
func (s *chunkStore) Scan(ctx context.Context, filter domain.ChunkFilter) ([]domain.Chunk, error) {
	var (
		where []string
		args  []any
	)

	if len(filter.AnyTerms) > 0 {
		ors := make([]string, 0, len(filter.AnyTerms))
		for _, term := range filter.AnyTerms {
			ors = append(ors, `lower(text) LIKE ? ESCAPE '\'`)
			args = append(args, likePattern(term))
		}
		where = append(where, "("+strings.Join(ors, " OR ")+")")
	}
	if len(filter.SourceIDs) > 0 {
		where = append(where, "source_id IN ("+placeholders(len(filter.SourceIDs))+")")
		for _, id := range filter.SourceIDs {
			args = append(args, id)
		}
	}

	query := "SELECT " + chunkColumns + " FROM chunks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY source_id, sequence_index"

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// CountChunks returns the number of stored chunks.
func (s *chunkStore) CountChunks(ctx context.Context) (int, error) {
	var n int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

func scanChunk(row rowScanner) (*domain.Chunk, error) {
	var c domain.Chunk
	var createdAt string

	if err := row.Scan(&c.ID, &c.SourceID, &c.SourceName, &c.PageNum, &c.SequenceIndex,
		&c.Text, &c.CharStart, &c.CharEnd, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}
	c.CreatedAt = parseTime(createdAt)
	return &c, nil
}
