package clock

import (
	"sync"
	"time"

	"birthday-countdown/internal/domain"
)

// ManualClock provides a controllable time source for testing.
// Tickers created from it only fire when Fire is called.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*ManualTicker
}

// NewManualClock creates a manual clock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current mocked time.
func (m *ManualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t.
func (m *ManualClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *ManualClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// NewTicker registers a ticker that fires on demand.
func (m *ManualClock) NewTicker(d time.Duration) domain.Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &ManualTicker{interval: d, c: make(chan time.Time, 1)}
	m.tickers = append(m.tickers, t)
	return t
}

// Active returns the tickers that have not been stopped.
func (m *ManualClock) Active() []*ManualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ManualTicker
	for _, t := range m.tickers {
		if !t.Stopped() {
			out = append(out, t)
		}
	}
	return out
}

// Created returns how many tickers were ever created.
func (m *ManualClock) Created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

// Tick advances the clock by each active ticker's interval and fires it.
// It returns the number of tickers fired.
func (m *ManualClock) Tick() int {
	active := m.Active()
	if len(active) == 0 {
		return 0
	}
	m.Advance(active[0].interval)
	now := m.Now()
	for _, t := range active {
		t.Fire(now)
	}
	return len(active)
}

// ManualTicker is a domain.Ticker driven by the test.
type ManualTicker struct {
	mu       sync.Mutex
	interval time.Duration
	c        chan time.Time
	stopped  bool
}

func (t *ManualTicker) C() <-chan time.Time { return t.c }

// Stop marks the ticker stopped; later Fire calls are dropped.
func (t *ManualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

// Stopped reports whether Stop was called.
func (t *ManualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Interval returns the period the ticker was created with.
func (t *ManualTicker) Interval() time.Duration {
	return t.interval
}

// Fire delivers one tick. Like time.Ticker, a tick is dropped when the
// previous one has not been consumed yet.
func (t *ManualTicker) Fire(now time.Time) {
	if t.Stopped() {
		return
	}
	select {
	case t.c <- now:
	default:
	}
}
