package clock

import (
	"time"

	"birthday-countdown/internal/domain"
)

// SystemClock implements domain.Clock using the host wall clock.
// This is a secondary adapter.
type SystemClock struct{}

// NewSystemClock creates a clock backed by time.Now and time.NewTicker.
func NewSystemClock() domain.Clock {
	return SystemClock{}
}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// NewTicker starts a runtime ticker.
func (SystemClock) NewTicker(d time.Duration) domain.Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s *systemTicker) C() <-chan time.Time { return s.t.C }
func (s *systemTicker) Stop()               { s.t.Stop() }

var _ domain.Clock = SystemClock{}
