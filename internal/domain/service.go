package domain

import (
	"strings"
	"time"
)

const (
	msPerSecond = int64(1000)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

// inputLayouts are the forms a datetime-local control (or a user typing one) produces.
var inputLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CountdownService provides pure domain logic for the countdown.
// This service has no side effects and no dependencies on external concerns.
type CountdownService struct{}

// NewCountdownService creates a new countdown service.
func NewCountdownService() *CountdownService {
	return &CountdownService{}
}

// Decompose splits a millisecond difference into days, hours, minutes and seconds,
// truncating at every unit. Non-positive differences yield the zero value.
func Decompose(diffMs int64) Remaining {
	if diffMs <= 0 {
		return Remaining{}
	}
	return Remaining{
		Days:    int(diffMs / msPerDay),
		Hours:   int(diffMs % msPerDay / msPerHour),
		Minutes: int(diffMs % msPerHour / msPerMinute),
		Seconds: int(diffMs % msPerMinute / msPerSecond),
	}
}

// DiffMillis returns target - now in whole milliseconds of wall clock.
func DiffMillis(target, now time.Time) int64 {
	return target.UnixMilli() - now.UnixMilli()
}

// ParseTarget interprets a date/time input in loc. Empty or unparseable input
// reports ok=false, which callers treat as "no target".
func ParseTarget(input string, loc *time.Location) (t time.Time, ok bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, true
	}
	for _, layout := range inputLayouts {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatInput renders t in the datetime-local form accepted by ParseTarget.
func FormatInput(t time.Time) string {
	return t.Format("2006-01-02T15:04:05")
}

// Arm starts a fresh state for target. Nothing carries over from the previous
// target: Expired, Remaining and ValidationError all start cleared.
func (s *CountdownService) Arm(target time.Time, runID string, now time.Time) CountdownState {
	return CountdownState{
		Target:    target,
		HasTarget: true,
		RunID:     runID,
		UpdatedAt: now,
	}
}

// Clear drops the target.
func (s *CountdownService) Clear(state CountdownState, now time.Time) CountdownState {
	return CountdownState{
		ValidationError: state.ValidationError,
		UpdatedAt:       now,
	}
}

// Reject records a start attempt without a target.
func (s *CountdownService) Reject(state CountdownState, now time.Time) CountdownState {
	next := state
	next.ValidationError = true
	next.UpdatedAt = now
	return next
}

// Evaluate recomputes the remaining time at now. expiredNow is true only on the
// evaluation that moves the state into Expired, so the signal fires once per target.
// This is a pure function with no side effects.
func (s *CountdownService) Evaluate(state CountdownState, now time.Time) (next CountdownState, expiredNow bool) {
	if !state.HasTarget {
		return state, false
	}
	next = state
	next.UpdatedAt = now
	if state.Expired {
		next.Remaining = Remaining{}
		return next, false
	}

	diff := DiffMillis(state.Target, now)
	if diff <= 0 {
		next.Remaining = Remaining{}
		next.Expired = true
		return next, true
	}
	next.Remaining = Decompose(diff)
	return next, false
}

// ValidateAndNormalize validates settings and fills optional blanks.
func (s *CountdownService) ValidateAndNormalize(settings Settings) (Settings, error) {
	settings.LogLevel = strings.ToLower(strings.TrimSpace(settings.LogLevel))
	if settings.LogLevel == "" {
		settings.LogLevel = DefaultSettings().LogLevel
	}
	if settings.VideoURL == "" {
		settings.VideoURL = DefaultVideoURL
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}
