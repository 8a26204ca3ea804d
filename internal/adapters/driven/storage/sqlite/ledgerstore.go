package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

// ledgerStore implements driven.LedgerStore.
type ledgerStore struct {
	store *Store
}

var _ driven.LedgerStore = (*ledgerStore)(nil)

const ledgerColumns = `id, file_identity_hash, file_name, status, row_count, forced, processed_at`

// Find returns the most recent record for hash.
func (s *ledgerStore) Find(ctx context.Context, hash string) (*domain.IngestRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+ledgerColumns+`
		FROM ingest_ledger
		WHERE file_identity_hash = ?
		ORDER BY processed_at DESC, rowid DESC
		LIMIT 1
	`, hash)

	rec, err := scanLedgerRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rec, err
}

// Record appends rec. An unforced record for a hash that already has one
// fails with domain.ErrAlreadyExists.
func (s *ledgerStore) Record(ctx context.Context, rec domain.IngestRecord) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ingest_ledger (`+ledgerColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.FileIdentityHash, rec.FileName, string(rec.Status),
		rec.RowCount, boolToInt(rec.Forced), formatTime(rec.ProcessedAt))

	if isUniqueViolation(err) {
		return fmt.Errorf("ledger record for %s: %w", rec.FileIdentityHash, domain.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("recording ledger entry: %w", err)
	}
	return nil
}

// List returns up to limit records, most recent first.
func (s *ledgerStore) List(ctx context.Context, limit int) ([]domain.IngestRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+ledgerColumns+`
		FROM ingest_ledger
		ORDER BY processed_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var records []domain.IngestRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanLedgerRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ledger record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger: %w", err)
	}
	return records, nil
}

func scanLedgerRecord(row rowScanner) (*domain.IngestRecord, error) {
	var rec domain.IngestRecord
	var status, processedAt string
	var forced int

	if err := row.Scan(&rec.ID, &rec.FileIdentityHash, &rec.FileName, &status,
		&rec.RowCount, &forced, &processedAt); err != nil {
		return nil, err
	}
	rec.Status = domain.IngestStatus(status)
	rec.Forced = forced == 1
	rec.ProcessedAt = parseTime(processedAt)
	return &rec, nil
}
