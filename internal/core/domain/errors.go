package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no extractor handles a file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Pipeline Errors.

	// ErrConfiguration indicates an invalid configuration, such as an overlap
	// that is not smaller than the chunk window. It is fatal and reported
	// before any processing begins.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrExtraction indicates the upstream text producer failed for a file.
	// The file stays in the inbox, unrecorded, and is retried on the next poll.
	ErrExtraction = errors.New("text extraction failed")

	// ErrSinkWrite indicates a store rejected or failed a write.
	// Ingestion does not advance the ledger or relocate the file.
	ErrSinkWrite = errors.New("sink write failed")

	// ErrRelocation indicates an ingested file could not be moved to the done directory.
	ErrRelocation = errors.New("relocation failed")

	// ErrSchedulerRunning indicates the poll scheduler is already started.
	ErrSchedulerRunning = errors.New("scheduler already running")
)
