package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

type pollStore struct {
	store *Store
}

var _ driven.PollStore = (*pollStore)(nil)

func (s *pollStore) LoadState(ctx context.Context, loop string) (*domain.PollState, error) {
	state := domain.PollState{Loop: loop}
	var secs int64
	var last, next, clean, lastErr sql.NullString

	err := s.store.db.QueryRowContext(ctx, `
		SELECT interval_seconds, last_cycle, next_cycle, last_clean, last_error
		FROM poll_state WHERE loop = ?
	`, loop).Scan(&secs, &last, &next, &clean, &lastErr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading poll state %s: %w", loop, err)
	}

	state.Interval = time.Duration(secs) * time.Second
	state.LastCycle = parseNullableTime(last)
	state.NextCycle = parseNullableTime(next)
	state.LastClean = parseNullableTime(clean)
	state.LastError = lastErr.String
	return &state, nil
}

func (s *pollStore) SaveState(ctx context.Context, state *domain.PollState) error {
	if state == nil || state.Loop == "" {
		return domain.ErrInvalidInput
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO poll_state (loop, interval_seconds, last_cycle, next_cycle, last_clean, last_error)
		VALUES (?, ?, ?, ?, ?, ?)
	`, state.Loop, int64(state.Interval/time.Second),
		formatNullableTime(state.LastCycle), formatNullableTime(state.NextCycle),
		formatNullableTime(state.LastClean), nullString(state.LastError))
	if err != nil {
		return fmt.Errorf("saving poll state %s: %w", state.Loop, err)
	}
	return nil
}

// AppendCycle inserts and trims in one transaction so the history never
// exceeds keep rows between the two statements.
func (s *pollStore) AppendCycle(ctx context.Context, c *domain.PollCycle, keep int) error {
	if c == nil || c.Loop == "" || keep < 1 {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO poll_cycles (loop, cause, started_at, ended_at, files, new_files, duplicates, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.Loop, string(c.Trigger), formatTime(c.StartedAt), formatTime(c.EndedAt),
		c.Files, c.New, c.Duplicates, nullString(c.Error)); err != nil {
		return fmt.Errorf("recording poll cycle: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM poll_cycles
		WHERE loop = ? AND id NOT IN (
			SELECT id FROM poll_cycles WHERE loop = ? ORDER BY id DESC LIMIT ?
		)
	`, c.Loop, c.Loop, keep); err != nil {
		return fmt.Errorf("trimming poll cycles: %w", err)
	}

	return tx.Commit()
}

func (s *pollStore) Cycles(ctx context.Context, loop string, limit int) ([]domain.PollCycle, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT cause, started_at, ended_at, files, new_files, duplicates, error
		FROM poll_cycles WHERE loop = ?
		ORDER BY id DESC LIMIT ?
	`, loop, limit)
	if err != nil {
		return nil, fmt.Errorf("querying poll cycles: %w", err)
	}
	defer rows.Close()

	var out []domain.PollCycle //nolint:prealloc // size unknown from query
	for rows.Next() {
		c := domain.PollCycle{Loop: loop}
		var cause, started, ended string
		var errMsg sql.NullString
		if err := rows.Scan(&cause, &started, &ended, &c.Files, &c.New, &c.Duplicates, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning poll cycle: %w", err)
		}
		c.Trigger = domain.PollTrigger(cause)
		c.StartedAt = parseTime(started)
		c.EndedAt = parseTime(ended)
		c.Error = errMsg.String
		out = append(out, c)
	}
	return out, rows.Err()
}
