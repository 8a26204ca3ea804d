package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ContentHash returns the hex SHA-256 of content. It is the file identity
// used by the ledger.
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// IngestStatus is the outcome of checking an inbox file against the ledger.
type IngestStatus string

// Ingest statuses.
const (
	// IngestStatusNew means the file was not in the ledger and has been ingested.
	IngestStatusNew IngestStatus = "NEW"

	// IngestStatusDuplicate means the file's content hash is already recorded.
	// It is a normal control-flow outcome, not an error.
	IngestStatusDuplicate IngestStatus = "DUPLICATE"
)

// String returns the string representation.
func (s IngestStatus) String() string {
	return string(s)
}

// IngestRecord is a ledger entry for a successfully processed file.
// Records are append-only and never updated in place.
type IngestRecord struct {
	// ID is the unique identifier for the ledger entry.
	ID string

	// FileIdentityHash is the hex SHA-256 of the file content.
	FileIdentityHash string

	// FileName is the inbox file name at the time of ingestion.
	FileName string

	// Status is the ingestion status recorded for the file.
	Status IngestStatus

	// RowCount is the number of chunks persisted.
	RowCount int

	// Forced marks a record created by an explicit reprocess.
	Forced bool

	// ProcessedAt is when persistence completed.
	ProcessedAt time.Time
}

// NewIngestRecord builds a ledger entry and validates it.
func NewIngestRecord(id, hash, fileName string, rowCount int, forced bool, at time.Time) (IngestRecord, error) {
	switch {
	case id == "":
		return IngestRecord{}, fmt.Errorf("%w: ingest record id is empty", ErrInvalidInput)
	case hash == "":
		return IngestRecord{}, fmt.Errorf("%w: file identity hash is empty", ErrInvalidInput)
	case fileName == "":
		return IngestRecord{}, fmt.Errorf("%w: file name is empty", ErrInvalidInput)
	case rowCount < 0:
		return IngestRecord{}, fmt.Errorf("%w: row count %d", ErrInvalidInput, rowCount)
	}
	return IngestRecord{
		ID:               id,
		FileIdentityHash: hash,
		FileName:         fileName,
		Status:           IngestStatusNew,
		RowCount:         rowCount,
		Forced:           forced,
		ProcessedAt:      at,
	}, nil
}

// InboxFile is a file waiting in the inbox directory.
type InboxFile struct {
	// Name is the base file name.
	Name string

	// Path is the absolute path to the file.
	Path string

	// Size is the file size in bytes.
	Size int64

	// ModifiedAt is the file modification time.
	ModifiedAt time.Time
}

// IngestResult describes what happened to one inbox file.
type IngestResult struct {
	// File is the inbox file that was checked.
	File InboxFile

	// Status is NEW or DUPLICATE.
	Status IngestStatus

	// FileIdentityHash is the content hash of the file.
	FileIdentityHash string

	// Record is the ledger entry created (NEW) or matched (DUPLICATE).
	Record *IngestRecord

	// ChunkCount is the number of chunks persisted for a NEW file.
	ChunkCount int

	// RelocationRetried is set when a DUPLICATE was the same file left behind by an
	// interrupted run and only its relocation to the done directory was repeated.
	RelocationRetried bool
}
