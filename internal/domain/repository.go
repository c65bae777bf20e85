package domain

import (
	"context"
	"time"
)

// SettingsRepository is a secondary port that defines how to persist settings.
// This interface is defined in the domain layer and implemented by adapters.
type SettingsRepository interface {
	Load() (Settings, error)
	Save(settings Settings) error
}

// Clock is a secondary port providing wall time and periodic tickers.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers ticks until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Celebrator is a secondary port run once when a countdown expires.
type Celebrator interface {
	Celebrate(ctx context.Context, snap Snapshot) error
}

// Observer receives countdown events. Observe must not block.
type Observer interface {
	Observe(ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ev Event)

func (f ObserverFunc) Observe(ev Event) { f(ev) }
