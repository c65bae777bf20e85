package domain

import (
	"fmt"
	"time"
)

// Remaining is the calendar breakdown of the time left until the target.
// Every field is non-negative.
type Remaining struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// IsZero reports whether nothing is left to count down.
func (r Remaining) IsZero() bool {
	return r == Remaining{}
}

// Duration folds the breakdown back into a duration.
func (r Remaining) Duration() time.Duration {
	return time.Duration(r.Days)*24*time.Hour +
		time.Duration(r.Hours)*time.Hour +
		time.Duration(r.Minutes)*time.Minute +
		time.Duration(r.Seconds)*time.Second
}

func (r Remaining) String() string {
	return fmt.Sprintf("%d days %02d hours %02d minutes %02d seconds",
		r.Days, r.Hours, r.Minutes, r.Seconds)
}

// CountdownState is the value owned by the countdown engine.
// It is only ever replaced through CountdownService, never mutated in place.
type CountdownState struct {
	Target          time.Time
	HasTarget       bool
	Remaining       Remaining
	Expired         bool
	ValidationError bool
	// RunID identifies the armed target. A new one is issued on every SetTarget.
	RunID     string
	UpdatedAt time.Time
}

// Snapshot represents a complete view of the countdown for presentation.
type Snapshot struct {
	CountdownState
	Running bool
}

// EventType classifies a countdown notification.
type EventType int

const (
	EventArmed EventType = iota
	EventTick
	EventExpired
	EventStopped
	EventCleared
	EventRejected
)

func (t EventType) String() string {
	switch t {
	case EventArmed:
		return "armed"
	case EventTick:
		return "tick"
	case EventExpired:
		return "expired"
	case EventStopped:
		return "stopped"
	case EventCleared:
		return "cleared"
	case EventRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Event is delivered to observers after the state it describes was committed.
type Event struct {
	Type     EventType
	Snapshot Snapshot
}

// Settings holds the user preferences shared by the CLI, TUI and web surfaces.
// The target date itself is intentionally not part of it.
type Settings struct {
	TickInterval time.Duration
	Addr         string
	VideoURL     string
	Chime        bool
	LogLevel     string
}

// Validate checks if the settings values are usable.
func (s Settings) Validate() error {
	if s.TickInterval < MinTickInterval {
		return ErrInvalidInterval
	}
	if s.Addr == "" {
		return ErrInvalidAddr
	}
	switch s.LogLevel {
	case "error", "warn", "warning", "info", "debug", "trace":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, s.LogLevel)
	}
	return nil
}

const (
	// DefaultTickInterval is the refresh cadence of a running countdown.
	DefaultTickInterval = time.Second
	// MinTickInterval bounds how fast a countdown may refresh.
	MinTickInterval = 100 * time.Millisecond
	// DefaultVideoURL is shown once the countdown has expired.
	DefaultVideoURL = "https://www.youtube.com/embed/Hqa4q2WG6Dk?autoplay=1"
	// MissingTargetMessage is the inline text for ErrMissingTarget.
	MissingTargetMessage = "Please select a date to start the timer"
)

// DefaultSettings returns the default settings values.
func DefaultSettings() Settings {
	return Settings{
		TickInterval: DefaultTickInterval,
		Addr:         "127.0.0.1:7070",
		VideoURL:     DefaultVideoURL,
		Chime:        true,
		LogLevel:     "warn",
	}
}
