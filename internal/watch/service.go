// Package watch provides the long-running budget monitor service: it polls
// the data service, recomputes allocations, and emits events when spend
// moves, a bucket overspends, or the cycle rolls over.
package watch

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"cadence/internal/budget"
	"cadence/internal/model"
)

// Fetcher is the read surface of the data service the monitor needs.
type Fetcher interface {
	ListIncomes(ctx context.Context) ([]model.Income, error)
	ListExpenses(ctx context.Context, start, end time.Time) ([]model.Expense, error)
	GetRatio(ctx context.Context) (model.Ratio, error)
}

// Config controls the monitor runtime behavior.
type Config struct {
	Fetcher      Fetcher
	Interval     time.Duration
	EventsBuffer int
	Log          *logrus.Logger
}

// Snapshot is a compact budget state for event payloads.
type Snapshot struct {
	At            time.Time        `json:"at"`
	HasMain       bool             `json:"has_main"`
	CycleStart    time.Time        `json:"cycle_start,omitzero"`
	CycleEnd      time.Time        `json:"cycle_end,omitzero"`
	RemainingDays int              `json:"remaining_days"`
	TotalIncome   decimal.Decimal  `json:"total_income"`
	SpentNeeds    decimal.Decimal  `json:"spent_needs"`
	SpentWants    decimal.Decimal  `json:"spent_wants"`
	SpentSavings  decimal.Decimal  `json:"spent_savings"`
	Overspent     []model.Category `json:"overspent,omitempty"`
}

// Delta captures per-bucket spend movement between polls.
type Delta struct {
	Needs   decimal.Decimal `json:"needs"`
	Wants   decimal.Decimal `json:"wants"`
	Savings decimal.Decimal `json:"savings"`
}

func (d Delta) isZero() bool {
	return d.Needs.IsZero() && d.Wants.IsZero() && d.Savings.IsZero()
}

// Event types emitted by the monitor.
const (
	EventSnapshot     = "snapshot"
	EventSpendDelta   = "spend_delta"
	EventOverspend    = "overspend"
	EventRollover     = "cycle_rollover"
	EventNoMainIncome = "no_main_income"
)

// Event is emitted whenever the budget snapshot changes in a relevant way.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
	Category  model.Category `json:"category,omitempty"` // set for overspend events
}

// Service is the monitor runtime.
type Service struct {
	cfg Config
	log *logrus.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new monitor service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 10*time.Second {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	log := cfg.Log
	if log == nil {
		log = logrus.New()
	}

	return &Service{
		cfg:       cfg,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run polls until ctx is canceled. A cron entry re-polls just after local
// midnight so a cycle rollover is noticed promptly even with long intervals.
func (s *Service) Run(ctx context.Context) error {
	s.pollOnce(ctx)

	sched := cron.New()
	_, err := sched.AddFunc("1 0 * * *", func() { s.pollOnce(ctx) })
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.pollOnce(ctx)
		}
	}
}

// Subscribe returns a channel receiving future events plus an unsubscribe
// function. Slow subscribers drop events rather than blocking the poller.
func (s *Service) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan Event, 16)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Events returns a copy of the buffered event ring.
func (s *Service) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// LastSnapshot returns the most recent snapshot, if any.
func (s *Service) LastSnapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.hasSnapshot
}

func (s *Service) pollOnce(ctx context.Context) {
	snap, err := s.fetchSnapshot(ctx)
	now := time.Now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.WithError(err).Warn("budget poll failed")
		return
	}

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""
	s.mu.Unlock()

	if !prevExists {
		s.publish(Event{Type: EventSnapshot, Timestamp: now, Snapshot: snap})
		return
	}

	for _, ev := range diffEvents(prev, snap, now) {
		s.publish(ev)
	}
}

func (s *Service) fetchSnapshot(ctx context.Context) (Snapshot, error) {
	incomes, err := s.cfg.Fetcher.ListIncomes(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	now := time.Now()
	res, err := budget.Resolve(incomes, now)
	if err != nil {
		return Snapshot{}, err
	}
	if !res.HasMain() {
		return Snapshot{At: now}, nil
	}

	ratio, err := s.cfg.Fetcher.GetRatio(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	expenses, err := s.cfg.Fetcher.ListExpenses(ctx, res.Cycle.Start, res.Cycle.End)
	if err != nil {
		return Snapshot{}, err
	}

	allocs := budget.Aggregate(*res.Cycle, ratio, expenses)
	return snapshotFromAllocations(*res.Cycle, allocs, now), nil
}

func snapshotFromAllocations(cycle model.Cycle, allocs []model.Allocation, at time.Time) Snapshot {
	snap := Snapshot{
		At:            at,
		HasMain:       true,
		CycleStart:    cycle.Start,
		CycleEnd:      cycle.End,
		RemainingDays: cycle.RemainingDays,
		TotalIncome:   cycle.TotalIncome,
	}
	for _, a := range allocs {
		switch a.Category {
		case model.CategoryNeeds:
			snap.SpentNeeds = a.Spent
		case model.CategoryWants:
			snap.SpentWants = a.Spent
		case model.CategorySavings:
			snap.SpentSavings = a.Spent
		}
		if a.Remaining.IsNegative() {
			snap.Overspent = append(snap.Overspent, a.Category)
		}
	}
	return snap
}

// diffEvents turns two consecutive snapshots into the events they imply.
func diffEvents(prev, curr Snapshot, now time.Time) []Event {
	var events []Event

	if prev.HasMain && !curr.HasMain {
		events = append(events, Event{Type: EventNoMainIncome, Timestamp: now, Snapshot: curr})
		return events
	}
	if !curr.HasMain {
		return nil
	}

	if prev.HasMain && !prev.CycleStart.Equal(curr.CycleStart) {
		events = append(events, Event{Type: EventRollover, Timestamp: now, Snapshot: curr})
	}

	delta := diffSnapshots(prev, curr)
	if !delta.isZero() {
		events = append(events, Event{Type: EventSpendDelta, Timestamp: now, Snapshot: curr, Delta: delta})
	}

	for _, cat := range curr.Overspent {
		if !containsCategory(prev.Overspent, cat) {
			events = append(events, Event{Type: EventOverspend, Timestamp: now, Snapshot: curr, Category: cat})
		}
	}

	return events
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Needs:   curr.SpentNeeds.Sub(prev.SpentNeeds),
		Wants:   curr.SpentWants.Sub(prev.SpentWants),
		Savings: curr.SpentSavings.Sub(prev.SpentSavings),
	}
}

func containsCategory(cats []model.Category, cat model.Category) bool {
	for _, c := range cats {
		if c == cat {
			return true
		}
	}
	return false
}

func (s *Service) publish(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"event": ev.Type,
		"id":    ev.ID,
	}).Debug("published budget event")
}
