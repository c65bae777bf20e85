package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"birthday-countdown/internal/domain"
	"birthday-countdown/internal/logging"
)

// CountdownUseCase is the primary port for countdown operations.
// This represents the application's use cases.
type CountdownUseCase interface {
	SetTarget(target time.Time) domain.Snapshot
	SetTargetInput(input string) domain.Snapshot
	ClearTarget() domain.Snapshot
	Start() (domain.Snapshot, error)
	Stop()
	Tick() domain.Snapshot
	Snapshot() domain.Snapshot
	Subscribe(o domain.Observer) (unsubscribe func())
	Close()
}

// countdownInteractor implements CountdownUseCase.
// It depends only on domain layer and secondary ports.
type countdownInteractor struct {
	clock    domain.Clock
	service  *domain.CountdownService
	interval time.Duration
	loc      *time.Location
	newRunID func() string

	mu    sync.Mutex
	pubMu sync.Mutex
	state domain.CountdownState
	// schedule is bumped on every arm and halt; a loop only commits ticks
	// while its generation is current.
	schedule  uint64
	cancel    context.CancelFunc
	ticker    domain.Ticker
	running   bool
	closed    bool
	observers map[int]domain.Observer
	nextObsID int
	// seq numbers each committed batch of events under mu; delivered is the
	// newest batch handed to observers and is guarded by pubMu.
	seq       uint64
	delivered uint64
}

// NewCountdownUseCase creates a countdown engine ticking every interval.
// Dependencies are injected (secondary ports).
func NewCountdownUseCase(clock domain.Clock, interval time.Duration) (CountdownUseCase, error) {
	if interval < domain.MinTickInterval {
		return nil, domain.ErrInvalidInterval
	}
	return &countdownInteractor{
		clock:     clock,
		service:   domain.NewCountdownService(),
		interval:  interval,
		loc:       time.Local,
		newRunID:  func() string { return ulid.Make().String() },
		observers: make(map[int]domain.Observer),
	}, nil
}

// SetTarget replaces the target, clears the expired flag and restarts the tick loop.
func (s *countdownInteractor) SetTarget(target time.Time) domain.Snapshot {
	s.mu.Lock()
	if s.closed {
		defer s.mu.Unlock()
		return s.snapshotLocked()
	}
	now := s.clock.Now()
	s.haltLocked()
	s.state = s.service.Arm(target, s.newRunID(), now)
	logging.Infof("countdown armed for %s (run %s)", target.Format(time.RFC3339), s.state.RunID)

	armed := domain.Event{Type: domain.EventArmed, Snapshot: s.snapshotLocked()}
	events := append([]domain.Event{armed}, s.startLocked(now)...)
	obs, seq := s.commitLocked()
	s.mu.Unlock()

	s.publish(obs, seq, events)
	return events[len(events)-1].Snapshot
}

// SetTargetInput parses a date/time input. Empty or unparseable input clears the target.
func (s *countdownInteractor) SetTargetInput(input string) domain.Snapshot {
	target, ok := domain.ParseTarget(input, s.loc)
	if !ok {
		if input != "" {
			logging.Debugf("ignoring unparseable target %q", input)
		}
		return s.ClearTarget()
	}
	return s.SetTarget(target)
}

// ClearTarget drops the target and cancels the tick loop.
func (s *countdownInteractor) ClearTarget() domain.Snapshot {
	s.mu.Lock()
	if s.closed {
		defer s.mu.Unlock()
		return s.snapshotLocked()
	}
	s.haltLocked()
	s.state = s.service.Clear(s.state, s.clock.Now())
	snap := s.snapshotLocked()
	obs, seq := s.commitLocked()
	s.mu.Unlock()

	s.publish(obs, seq, []domain.Event{{Type: domain.EventCleared, Snapshot: snap}})
	return snap
}

// Start ticks once synchronously and then on every interval.
// Without a target it records the validation error and schedules nothing.
func (s *countdownInteractor) Start() (domain.Snapshot, error) {
	s.mu.Lock()
	if s.closed {
		defer s.mu.Unlock()
		return s.snapshotLocked(), domain.ErrClosed
	}
	now := s.clock.Now()
	if !s.state.HasTarget {
		s.state = s.service.Reject(s.state, now)
		snap := s.snapshotLocked()
		obs, seq := s.commitLocked()
		s.mu.Unlock()

		logging.Debugf("start rejected: %v", domain.ErrMissingTarget)
		s.publish(obs, seq, []domain.Event{{Type: domain.EventRejected, Snapshot: snap}})
		return snap, domain.ErrMissingTarget
	}

	events := s.startLocked(now)
	obs, seq := s.commitLocked()
	s.mu.Unlock()

	s.publish(obs, seq, events)
	return events[len(events)-1].Snapshot, nil
}

// Stop cancels the pending schedule. It is safe to call at any time.
func (s *countdownInteractor) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.haltLocked()
	snap := s.snapshotLocked()
	obs, seq := s.commitLocked()
	s.mu.Unlock()

	s.publish(obs, seq, []domain.Event{{Type: domain.EventStopped, Snapshot: snap}})
}

// Tick recomputes the remaining time now, independent of the schedule.
func (s *countdownInteractor) Tick() domain.Snapshot {
	s.mu.Lock()
	if s.closed || !s.state.HasTarget {
		defer s.mu.Unlock()
		return s.snapshotLocked()
	}
	events := s.evaluateLocked(s.clock.Now())
	obs, seq := s.commitLocked()
	s.mu.Unlock()

	s.publish(obs, seq, events)
	return events[len(events)-1].Snapshot
}

// Snapshot returns the current countdown state.
func (s *countdownInteractor) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers an observer until the returned function is called.
// Observers are called from the goroutine that committed the change, one event
// at a time and in commit order. They must not call back into the engine
// synchronously.
func (s *countdownInteractor) Subscribe(o domain.Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = o
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Close tears the engine down. No event is published after Close returns.
func (s *countdownInteractor) Close() {
	s.mu.Lock()
	s.haltLocked()
	s.closed = true
	s.observers = make(map[int]domain.Observer)
	s.mu.Unlock()

	// wait out a delivery that was already in flight
	s.pubMu.Lock()
	s.pubMu.Unlock()
}

// startLocked evaluates once and schedules the loop unless that evaluation expired.
func (s *countdownInteractor) startLocked(now time.Time) []domain.Event {
	s.haltLocked()
	events := s.evaluateLocked(now)
	if !s.state.Expired {
		s.scheduleLocked()
		events[len(events)-1].Snapshot.Running = true
	}
	return events
}

func (s *countdownInteractor) evaluateLocked(now time.Time) []domain.Event {
	var expiredNow bool
	s.state, expiredNow = s.service.Evaluate(s.state, now)
	if expiredNow {
		s.haltLocked()
		logging.Infof("countdown %s expired", s.state.RunID)
	}
	snap := s.snapshotLocked()
	events := []domain.Event{{Type: domain.EventTick, Snapshot: snap}}
	if expiredNow {
		events = append(events, domain.Event{Type: domain.EventExpired, Snapshot: snap})
	}
	return events
}

func (s *countdownInteractor) scheduleLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	s.schedule++
	s.cancel = cancel
	s.ticker = s.clock.NewTicker(s.interval)
	s.running = true
	go s.loop(ctx, s.ticker, s.schedule)
}

// haltLocked cancels the current loop, if any, and invalidates its ticks.
func (s *countdownInteractor) haltLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.running {
		s.schedule++
		s.running = false
	}
}

func (s *countdownInteractor) loop(ctx context.Context, ticker domain.Ticker, generation uint64) {
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			s.mu.Lock()
			if s.closed || s.schedule != generation {
				s.mu.Unlock()
				return
			}
			events := s.evaluateLocked(s.clock.Now())
			obs, seq := s.commitLocked()
			s.mu.Unlock()

			logging.Tracef("tick %s: %s", events[0].Snapshot.RunID, events[0].Snapshot.Remaining)
			s.publish(obs, seq, events)
			if events[0].Snapshot.Expired {
				return
			}
		}
	}
}

func (s *countdownInteractor) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		CountdownState: s.state,
		Running:        s.running,
	}
}

// commitLocked numbers the batch being committed and returns the observers to
// deliver it to.
func (s *countdownInteractor) commitLocked() ([]domain.Observer, uint64) {
	out := make([]domain.Observer, 0, len(s.observers))
	for _, o := range s.observers {
		out = append(out, o)
	}
	s.seq++
	return out, s.seq
}

// publish delivers a batch in commit order. A batch overtaken by a newer one
// is stale: only its expiry signal is still delivered.
func (s *countdownInteractor) publish(observers []domain.Observer, seq uint64, events []domain.Event) {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}
	stale := seq < s.delivered
	if !stale {
		s.delivered = seq
	}
	for _, ev := range events {
		if stale && ev.Type != domain.EventExpired {
			logging.Tracef("dropping stale %s event", ev.Type)
			continue
		}
		for _, o := range observers {
			o.Observe(ev)
		}
	}
}
