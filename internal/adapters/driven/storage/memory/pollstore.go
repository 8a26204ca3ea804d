package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
)

var _ driven.PollStore = (*PollStore)(nil)

// PollStore keeps poll loop state for the lifetime of the process.
type PollStore struct {
	mu     sync.RWMutex
	states map[string]domain.PollState
	cycles map[string][]domain.PollCycle // oldest first
}

// NewPollStore creates an empty poll store.
func NewPollStore() *PollStore {
	return &PollStore{
		states: make(map[string]domain.PollState),
		cycles: make(map[string][]domain.PollCycle),
	}
}

func (s *PollStore) LoadState(_ context.Context, loop string) (*domain.PollState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[loop]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (s *PollStore) SaveState(_ context.Context, state *domain.PollState) error {
	if state == nil || state.Loop == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.Loop] = *state
	return nil
}

func (s *PollStore) AppendCycle(_ context.Context, c *domain.PollCycle, keep int) error {
	if c == nil || c.Loop == "" || keep < 1 {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cycles := append(s.cycles[c.Loop], *c)
	if len(cycles) > keep {
		cycles = append([]domain.PollCycle(nil), cycles[len(cycles)-keep:]...)
	}
	s.cycles[c.Loop] = cycles
	return nil
}

func (s *PollStore) Cycles(_ context.Context, loop string, limit int) ([]domain.PollCycle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cycles := s.cycles[loop]
	out := make([]domain.PollCycle, 0, min(limit, len(cycles)))
	for i := len(cycles) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, cycles[i])
	}
	return out, nil
}
