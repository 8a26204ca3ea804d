package services

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/groundwork/internal/core/domain"
	"github.com/custodia-labs/groundwork/internal/core/ports/driven"
	"github.com/custodia-labs/groundwork/internal/core/ports/driving"
	"github.com/custodia-labs/groundwork/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// Ticker delivers poll ticks. It exists so tests can drive the loop by hand.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type timeTicker struct{ *time.Ticker }

func (t timeTicker) Chan() <-chan time.Time { return t.C }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

// Scheduler runs the inbox ingestion cycle on a fixed interval.
// Each cycle runs inline, so a cycle finishes, relocations included,
// before the next tick is read.
type Scheduler struct {
	store  driven.PollStore
	cfg    domain.PollConfig
	ingest driving.IngestService
	inbox  driven.Inbox

	newTicker func(time.Duration) Ticker
	now       func() time.Time
	trigger   *rate.Limiter

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewScheduler creates a scheduler with configuration.
// The inbox is only used when cfg.Watch is set.
func NewScheduler(
	cfg domain.PollConfig,
	store driven.PollStore,
	ingest driving.IngestService,
	inbox driven.Inbox,
) *Scheduler {
	return &Scheduler{
		cfg:       cfg.Normalised(),
		store:     store,
		ingest:    ingest,
		inbox:     inbox,
		newTicker: newTimeTicker,
		now:       time.Now,
		trigger:   rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// SetTicker replaces the tick source.
func (s *Scheduler) SetTicker(newTicker func(time.Duration) Ticker) {
	s.newTicker = newTicker
}

// SetClock replaces the clock stamped on cycles.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

// SetTriggerLimit sets how often watch events may start an early cycle.
func (s *Scheduler) SetTriggerLimit(every time.Duration) {
	s.trigger = rate.NewLimiter(rate.Every(every), 1)
}

// Start runs the scheduler loop. It blocks until Stop is called or ctx ends.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return domain.ErrSchedulerRunning
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		close(s.doneCh)
		s.mu.Unlock()
	}()

	if !s.cfg.Enabled {
		logger.Info("scheduler: %s disabled", domain.InboxLoop)
		return nil
	}

	state, err := s.loadState(ctx)
	if err != nil {
		log.Printf("scheduler: failed to load poll state: %v", err)
		return err
	}

	return s.run(ctx, state)
}

// Stop shuts the loop down and waits for an in-flight cycle to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	done := s.doneCh
	s.mu.Unlock()

	<-done
	return nil
}

// Cycles returns recent poll cycles of the inbox loop, newest first.
func (s *Scheduler) Cycles(ctx context.Context, limit int) ([]domain.PollCycle, error) {
	if limit <= 0 {
		limit = s.cfg.HistoryLimit
	}
	return s.store.Cycles(ctx, domain.InboxLoop, limit)
}

// loadState restores the inbox loop state, resetting the schedule when the
// configured interval changed since it was saved.
func (s *Scheduler) loadState(ctx context.Context) (*domain.PollState, error) {
	state, err := s.store.LoadState(ctx, domain.InboxLoop)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = &domain.PollState{Loop: domain.InboxLoop}
	}
	if state.Interval != s.cfg.Interval {
		state.Interval = s.cfg.Interval
		state.NextCycle = s.now()
	}
	if err := s.store.SaveState(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context, state *domain.PollState) error {
	var events <-chan struct{}
	if s.cfg.Watch && s.inbox != nil {
		ch, err := s.inbox.Watch(ctx)
		if err != nil {
			log.Printf("scheduler: inbox watch unavailable, polling only: %v", err)
		} else {
			events = ch
		}
	}

	s.runCycle(ctx, state, domain.TriggerStartup)

	ticker := s.newTicker(state.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case <-ticker.Chan():
			s.runCycle(ctx, state, domain.TriggerTick)
		case _, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if s.trigger.Allow() {
				logger.Debug("scheduler: inbox changed, running early cycle")
				s.runCycle(ctx, state, domain.TriggerWatch)
			}
		}
	}
}

// runCycle executes one ingestion pass and records the outcome.
func (s *Scheduler) runCycle(ctx context.Context, state *domain.PollState, trigger domain.PollTrigger) {
	cycle := &domain.PollCycle{
		Loop:      state.Loop,
		Trigger:   trigger,
		StartedAt: s.now(),
	}

	results, err := s.ingest.RunOnce(ctx)
	cycle.Tally(results)
	cycle.EndedAt = s.now()
	state.Finish(cycle, err)

	status := "success"
	if !cycle.Clean() {
		status = "fail"
		log.Printf("scheduler: %s cycle finished with errors: %v", state.Loop, err)
	}
	logger.Event("poll", status, "trigger", string(trigger), "files", cycle.Files, "new", cycle.New)

	// Record the cycle even when ctx was cancelled mid-run.
	bctx := context.WithoutCancel(ctx)
	if saveErr := s.store.SaveState(bctx, state); saveErr != nil {
		log.Printf("scheduler: failed to save poll state: %v", saveErr)
	}
	if appendErr := s.store.AppendCycle(bctx, cycle, s.cfg.HistoryLimit); appendErr != nil {
		log.Printf("scheduler: failed to record poll cycle: %v", appendErr)
	}
}
