package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/groundwork/internal/core/domain"
)

func TestPollStore_StateRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	polls := store.PollStore()

	got, err := polls.LoadState(ctx, domain.InboxLoop)
	require.NoError(t, err)
	assert.Nil(t, got)

	state := &domain.PollState{
		Loop:      domain.InboxLoop,
		Interval:  domain.DefaultPollInterval,
		LastCycle: testTime,
		NextCycle: testTime.Add(domain.DefaultPollInterval),
		LastError: "extract a.pdf: boom",
	}
	require.NoError(t, polls.SaveState(ctx, state))

	got, err = polls.LoadState(ctx, domain.InboxLoop)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.DefaultPollInterval, got.Interval)
	assert.True(t, testTime.Equal(got.LastCycle))
	assert.True(t, got.LastClean.IsZero())
	assert.Equal(t, "extract a.pdf: boom", got.LastError)

	state.Interval = 5 * time.Second
	state.LastError = ""
	state.LastClean = testTime
	require.NoError(t, polls.SaveState(ctx, state))

	got, err = polls.LoadState(ctx, domain.InboxLoop)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, got.Interval)
	assert.Empty(t, got.LastError)
	assert.True(t, testTime.Equal(got.LastClean))
}

func TestPollStore_RejectsInvalidInput(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	polls := store.PollStore()

	assert.ErrorIs(t, polls.SaveState(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, polls.SaveState(ctx, &domain.PollState{}), domain.ErrInvalidInput)
	assert.ErrorIs(t, polls.AppendCycle(ctx, nil, 10), domain.ErrInvalidInput)
	assert.ErrorIs(t, polls.AppendCycle(ctx, &domain.PollCycle{Loop: "a"}, 0), domain.ErrInvalidInput)
}

func appendCycles(t *testing.T, store *Store, loop string, n, keep int) {
	t.Helper()
	for i := 0; i < n; i++ {
		start := testTime.Add(time.Duration(i) * time.Minute)
		c := &domain.PollCycle{
			Loop:      loop,
			Trigger:   domain.TriggerTick,
			StartedAt: start,
			EndedAt:   start.Add(time.Second),
			Files:     i,
			New:       i,
		}
		if i%2 == 1 {
			c.Error = fmt.Sprintf("cycle %d failed", i)
		}
		require.NoError(t, store.PollStore().AppendCycle(context.Background(), c, keep))
	}
}

func TestPollStore_CyclesNewestFirst(t *testing.T) {
	store := setupTestStore(t)
	appendCycles(t, store, domain.InboxLoop, 4, 100)

	cycles, err := store.PollStore().Cycles(context.Background(), domain.InboxLoop, 3)
	require.NoError(t, err)
	require.Len(t, cycles, 3)
	assert.Equal(t, 3, cycles[0].New)
	assert.Equal(t, 2, cycles[1].New)
	assert.Equal(t, "cycle 3 failed", cycles[0].Error)
	assert.True(t, cycles[1].Clean())
	assert.Equal(t, domain.TriggerTick, cycles[0].Trigger)
	assert.True(t, testTime.Add(3*time.Minute).Equal(cycles[0].StartedAt))
}

func TestPollStore_AppendTrimsPerLoop(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	appendCycles(t, store, "a", 5, 3)
	appendCycles(t, store, "b", 2, 3)

	a, err := store.PollStore().Cycles(ctx, "a", 100)
	require.NoError(t, err)
	require.Len(t, a, 3)
	assert.Equal(t, 4, a[0].Files)
	assert.Equal(t, 2, a[2].Files)

	b, err := store.PollStore().Cycles(ctx, "b", 100)
	require.NoError(t, err)
	assert.Len(t, b, 2)
}
