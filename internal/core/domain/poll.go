package domain

import "time"

// DefaultPollInterval is how often the inbox is polled when not configured.
const DefaultPollInterval = 60 * time.Second

// DefaultPollHistory is how many finished cycles the poll store keeps.
const DefaultPollHistory = 100

// InboxLoop names the inbox poll loop in the poll store.
const InboxLoop = "inbox-ingest"

// PollTrigger records what started a poll cycle.
type PollTrigger string

const (
	TriggerStartup PollTrigger = "startup"
	TriggerTick    PollTrigger = "tick"
	TriggerWatch   PollTrigger = "watch"
)

// PollConfig configures the inbox poll loop.
type PollConfig struct {
	Enabled      bool
	Interval     time.Duration
	Watch        bool // run early when the inbox changes
	HistoryLimit int
}

// DefaultPollConfig returns an enabled loop on the default interval.
func DefaultPollConfig() PollConfig {
	return PollConfig{
		Enabled:      true,
		Interval:     DefaultPollInterval,
		HistoryLimit: DefaultPollHistory,
	}
}

// Normalised fills unset fields with their defaults.
func (c PollConfig) Normalised() PollConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultPollInterval
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultPollHistory
	}
	return c
}

// PollState is the persisted bookkeeping of a poll loop. It survives
// restarts so the last clean drain of the inbox stays visible.
type PollState struct {
	Loop      string
	Interval  time.Duration
	LastCycle time.Time
	NextCycle time.Time
	LastClean time.Time
	LastError string
}

// PollCycle is the outcome of one pass over the inbox.
type PollCycle struct {
	Loop       string
	Trigger    PollTrigger
	StartedAt  time.Time
	EndedAt    time.Time
	Files      int
	New        int
	Duplicates int
	Error      string
}

// Clean reports whether every file in the cycle was handled.
func (c *PollCycle) Clean() bool {
	return c.Error == ""
}

// Tally counts the per-file results of a cycle.
func (c *PollCycle) Tally(results []IngestResult) {
	c.Files = len(results)
	c.New, c.Duplicates = 0, 0
	for i := range results {
		switch results[i].Status {
		case IngestStatusNew:
			c.New++
		case IngestStatusDuplicate:
			c.Duplicates++
		}
	}
}

// Finish closes the cycle and folds it into the loop state.
func (s *PollState) Finish(c *PollCycle, err error) {
	if err != nil {
		c.Error = err.Error()
	}
	s.LastCycle = c.StartedAt
	s.NextCycle = c.EndedAt.Add(s.Interval)
	s.LastError = c.Error
	if c.Clean() {
		s.LastClean = c.EndedAt
	}
}
