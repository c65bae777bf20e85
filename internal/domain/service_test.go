package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDecompose(t *testing.T) {
	tests := []struct {
		name string
		diff int64
		want Remaining
	}{
		{"zero", 0, Remaining{}},
		{"negative", -5000, Remaining{}},
		{"sub second", 999, Remaining{}},
		{"one of each", 90061000, Remaining{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}},
		{"truncates millis", 90061999, Remaining{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}},
		{"just under a day", 86399999, Remaining{Hours: 23, Minutes: 59, Seconds: 59}},
		{"exact day", 86400000, Remaining{Days: 1}},
		{"many days", 400 * 86400000, Remaining{Days: 400}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decompose(tt.diff); got != tt.want {
				t.Errorf("Decompose(%d) = %+v, want %+v", tt.diff, got, tt.want)
			}
		})
	}
}

func TestDecompose_Bounds(t *testing.T) {
	for _, diff := range []int64{1, 1000, 59999, 3600001, 123456789, 987654321012} {
		r := Decompose(diff)
		folded := r.Duration().Milliseconds()
		if folded > diff || diff >= folded+1000 {
			t.Errorf("Decompose(%d) folds to %d, outside [diff-1000, diff]", diff, folded)
		}
		if r.Hours > 23 || r.Minutes > 59 || r.Seconds > 59 {
			t.Errorf("Decompose(%d) = %+v has an overflowing unit", diff, r)
		}
	}
}

func TestEvaluate(t *testing.T) {
	svc := NewCountdownService()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)

	state := svc.Arm(now.Add(90061*time.Second), "run-1", now)
	next, expired := svc.Evaluate(state, now)
	if expired {
		t.Fatal("future target reported as expired")
	}
	want := Remaining{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}
	if next.Remaining != want {
		t.Errorf("Remaining = %+v, want %+v", next.Remaining, want)
	}
	if next.RunID != "run-1" {
		t.Errorf("RunID = %q, want run-1", next.RunID)
	}
}

func TestEvaluate_ExpiresOnce(t *testing.T) {
	svc := NewCountdownService()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)

	for _, target := range []time.Time{now, now.Add(-time.Hour)} {
		state := svc.Arm(target, "run", now)
		state.Remaining = Remaining{Seconds: 3}

		next, expired := svc.Evaluate(state, now)
		if !expired || !next.Expired {
			t.Fatalf("target %v: expected expiry, got expired=%v state=%+v", target, expired, next)
		}
		if !next.Remaining.IsZero() {
			t.Errorf("target %v: Remaining = %+v, want zero", target, next.Remaining)
		}

		again, expiredAgain := svc.Evaluate(next, now.Add(time.Second))
		if expiredAgain {
			t.Errorf("target %v: expiry signalled twice", target)
		}
		if !again.Expired {
			t.Errorf("target %v: Expired flag was lost", target)
		}
	}
}

func TestEvaluate_NoTarget(t *testing.T) {
	svc := NewCountdownService()
	state := CountdownState{ValidationError: true}
	next, expired := svc.Evaluate(state, time.Now())
	if expired || next != state {
		t.Errorf("Evaluate without target changed state: %+v", next)
	}
}

func TestArm_ResetsDerivedState(t *testing.T) {
	svc := NewCountdownService()
	now := time.Now()

	expired, expiredNow := svc.Evaluate(svc.Arm(now.Add(-time.Hour), "old", now), now)
	if !expiredNow || !expired.Expired {
		t.Fatalf("past target did not expire: %+v", expired)
	}
	rejected := svc.Reject(svc.Clear(expired, now), now)
	if !rejected.ValidationError {
		t.Fatalf("Reject = %+v", rejected)
	}

	next := svc.Arm(now.Add(time.Hour), "new", now)
	if next.Expired || next.ValidationError || !next.Remaining.IsZero() {
		t.Errorf("Arm kept stale fields: %+v", next)
	}
	if next.RunID != "new" || !next.HasTarget {
		t.Errorf("Arm = %+v", next)
	}
}

func TestReject(t *testing.T) {
	svc := NewCountdownService()
	next := svc.Reject(CountdownState{}, time.Now())
	if !next.ValidationError {
		t.Error("Reject did not set ValidationError")
	}
	if next.HasTarget {
		t.Error("Reject invented a target")
	}
}

func TestParseTarget(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)
	tests := []struct {
		input  string
		ok     bool
		expect time.Time
	}{
		{"2026-12-24T18:30", true, time.Date(2026, 12, 24, 18, 30, 0, 0, loc)},
		{"2026-12-24T18:30:15", true, time.Date(2026, 12, 24, 18, 30, 15, 0, loc)},
		{" 2026-12-24 18:30 ", true, time.Date(2026, 12, 24, 18, 30, 0, 0, loc)},
		{"2026-12-24", true, time.Date(2026, 12, 24, 0, 0, 0, 0, loc)},
		{"2026-12-24T18:30:00Z", true, time.Date(2026, 12, 24, 18, 30, 0, 0, time.UTC)},
		{"", false, time.Time{}},
		{"   ", false, time.Time{}},
		{"next tuesday", false, time.Time{}},
		{"2026-13-40T99:99", false, time.Time{}},
	}

	for _, tt := range tests {
		got, ok := ParseTarget(tt.input, loc)
		if ok != tt.ok {
			t.Errorf("ParseTarget(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.expect) {
			t.Errorf("ParseTarget(%q) = %v, want %v", tt.input, got, tt.expect)
		}
	}
}

func TestValidateAndNormalize(t *testing.T) {
	svc := NewCountdownService()

	got, err := svc.ValidateAndNormalize(Settings{TickInterval: time.Second, Addr: ":7070", LogLevel: " INFO "})
	if err != nil {
		t.Fatalf("ValidateAndNormalize() error = %v", err)
	}
	if got.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", got.LogLevel)
	}
	if got.VideoURL != DefaultVideoURL {
		t.Errorf("VideoURL = %q, want default", got.VideoURL)
	}

	bad := DefaultSettings()
	bad.TickInterval = time.Millisecond
	if _, err := svc.ValidateAndNormalize(bad); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("short interval error = %v, want ErrInvalidInterval", err)
	}

	bad = DefaultSettings()
	bad.LogLevel = "loud"
	if _, err := svc.ValidateAndNormalize(bad); !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("bad level error = %v, want ErrInvalidLogLevel", err)
	}

	bad = DefaultSettings()
	bad.Addr = ""
	if _, err := svc.ValidateAndNormalize(bad); !errors.Is(err, ErrInvalidAddr) {
		t.Errorf("empty addr error = %v, want ErrInvalidAddr", err)
	}
}
