package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

const defaultLedgerLimit = 50

// IngestService moves inbox files into the chunk store exactly once per content hash.
type IngestService struct {
	inbox     driven.Inbox
	ledger    driven.LedgerStore
	chunks    driven.ChunkStore
	extractor driven.TextExtractor
	segmenter driven.Segmenter

	force bool
	now   func() time.Time
}

// NewIngestService creates an ingestion service.
func NewIngestService(
	inbox driven.Inbox,
	ledger driven.LedgerStore,
	chunks driven.ChunkStore,
	extractor driven.TextExtractor,
	segmenter driven.Segmenter,
) *IngestService {
	return &IngestService{
		inbox:     inbox,
		ledger:    ledger,
		chunks:    chunks,
		extractor: extractor,
		segmenter: segmenter,
		now:       time.Now,
	}
}

// SetForce makes every file be reprocessed regardless of the ledger.
func (s *IngestService) SetForce(force bool) {
	s.force = force
}

// SetClock replaces the clock used for chunk and ledger timestamps.
func (s *IngestService) SetClock(now func() time.Time) {
	s.now = now
}

// CheckAndRegister ingests one inbox file unless its content was seen before.
//
// On success the chunks are persisted, then the ledger, then the file is
// moved to the done directory. A failure at any step leaves the later steps
// undone so the file is retried on the next cycle.
func (s *IngestService) CheckAndRegister(ctx context.Context, file domain.InboxFile) (*domain.IngestResult, error) {
	content, err := s.inbox.Read(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrExtraction, file.Name, err)
	}

	hash := domain.ContentHash(content)
	result := &domain.IngestResult{File: file, FileIdentityHash: hash}

	forced := false
	prior, err := s.ledger.Find(ctx, hash)
	switch {
	case err == nil && !s.force:
		return s.duplicate(ctx, result, prior)
	case err == nil:
		forced = true
	case !errors.Is(err, domain.ErrNotFound):
		return nil, fmt.Errorf("ledger lookup %s: %w", file.Name, err)
	}

	doc, err := s.extractor.Extract(ctx, file.Name, content)
	if err != nil {
		if errors.Is(err, domain.ErrExtraction) {
			return nil, fmt.Errorf("extract %s: %w", file.Name, err)
		}
		return nil, fmt.Errorf("%w: extract %s: %w", domain.ErrExtraction, file.Name, err)
	}
	doc.SourceID = hash
	doc.SourceName = file.Name

	now := s.now().UTC()
	chunks, err := s.segmenter.Process(ctx, doc, now)
	if err != nil {
		return nil, fmt.Errorf("segment %s: %w", file.Name, err)
	}

	if err := s.persist(ctx, hash, chunks, forced); err != nil {
		return nil, fmt.Errorf("%w: save chunks for %s: %w", domain.ErrSinkWrite, file.Name, err)
	}

	rec, err := domain.NewIngestRecord(uuid.NewString(), hash, file.Name, len(chunks), forced, now)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.Record(ctx, rec); err != nil {
		return nil, fmt.Errorf("%w: record ledger for %s: %w", domain.ErrSinkWrite, file.Name, err)
	}

	result.Status = domain.IngestStatusNew
	result.Record = &rec
	result.ChunkCount = len(chunks)

	if err := s.inbox.Relocate(ctx, file); err != nil {
		return result, fmt.Errorf("%w: %s: %w", domain.ErrRelocation, file.Name, err)
	}

	logger.Event("ingest", "success", "file", file.Name, "rows", len(chunks), "forced", forced)
	return result, nil
}

// persist writes the chunks of one file. A forced reprocess replaces the
// source's whole chunk set so a changed window or overlap never leaves two
// chunkings side by side.
func (s *IngestService) persist(ctx context.Context, sourceID string, chunks []domain.Chunk, forced bool) error {
	if forced {
		return s.chunks.ReplaceChunks(ctx, sourceID, chunks)
	}
	if len(chunks) == 0 {
		return nil
	}
	return s.chunks.SaveChunks(ctx, chunks)
}

// duplicate handles a file whose hash is already in the ledger. When the
// ledger names this very file and the done directory does not hold this
// content under that name, the previous cycle stopped after persisting, so
// only the move is retried. An older done file of the same name is replaced.
func (s *IngestService) duplicate(
	ctx context.Context,
	result *domain.IngestResult,
	prior *domain.IngestRecord,
) (*domain.IngestResult, error) {
	result.Status = domain.IngestStatusDuplicate
	result.Record = prior

	if prior.FileName != result.File.Name {
		logger.Event("ingest", "duplicate", "file", result.File.Name, "matches", prior.FileName)
		return result, nil
	}

	done, err := s.inbox.Completed(ctx, result.File.Name, result.FileIdentityHash)
	if err != nil {
		return result, fmt.Errorf("check done for %s: %w", result.File.Name, err)
	}
	if done {
		logger.Event("ingest", "duplicate", "file", result.File.Name)
		return result, nil
	}

	if err := s.inbox.Relocate(ctx, result.File); err != nil {
		return result, fmt.Errorf("%w: retry %s: %w", domain.ErrRelocation, result.File.Name, err)
	}
	result.RelocationRetried = true
	logger.Event("ingest", "relocated", "file", result.File.Name)
	return result, nil
}

// RunOnce processes every inbox file in name order. Per-file failures are
// logged and joined; they do not stop the cycle.
func (s *IngestService) RunOnce(ctx context.Context) ([]domain.IngestResult, error) {
	logger.Section("Ingest cycle")

	files, err := s.inbox.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inbox: %w", err)
	}
	logger.Debug("ingest: %d file(s) in inbox", len(files))

	results := make([]domain.IngestResult, 0, len(files))
	var errs []error
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		res, err := s.CheckAndRegister(ctx, file)
		if res != nil {
			results = append(results, *res)
		}
		if err != nil {
			logger.Warn("ingest: %s: %v", file.Name, err)
			logger.Event("ingest", "fail", "file", file.Name, "error", err.Error())
			errs = append(errs, err)
			continue
		}
		logger.Info("ingest: %s %s (%d chunks)", file.Name, res.Status, res.ChunkCount)
	}

	return results, errors.Join(errs...)
}

// Ledger lists ingest records, most recent first.
func (s *IngestService) Ledger(ctx context.Context, limit int) ([]domain.IngestRecord, error) {
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	return s.ledger.List(ctx, limit)
}

// StoredChunks returns the size of the chunk store.
func (s *IngestService) StoredChunks(ctx context.Context) (int, error) {
	n, err := s.chunks.CountChunks(ctx)
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}
