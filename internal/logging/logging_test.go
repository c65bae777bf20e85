package logging

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestSetVerbosity_FiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetVerbosity(0)

	SetVerbosity(0)
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Errorf("info line leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Errorf("warn line missing: %q", out)
	}

	buf.Reset()
	SetVerbosity(2)
	Debugf("debug line")
	Tracef("trace line")
	out = buf.String()
	if !strings.Contains(out, "[DEBUG] debug line") {
		t.Errorf("debug line missing at -vv: %q", out)
	}
	if strings.Contains(out, "trace line") {
		t.Errorf("trace line leaked at -vv: %q", out)
	}
}

func TestStdLogGoesThroughLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetVerbosity(0)

	SetVerbosity(0)
	log.Printf("[DEBUG] plain debug")
	log.Printf("[ERROR] plain error")
	log.Printf("untagged line")
	out := buf.String()
	if strings.Contains(out, "plain debug") {
		t.Errorf("debug line passed the warn filter: %q", out)
	}
	if !strings.Contains(out, "[ERROR] plain error") || !strings.Contains(out, "untagged line") {
		t.Errorf("error or untagged line dropped: %q", out)
	}

	buf.Reset()
	SetVerbosity(2)
	log.Printf("[DEBUG] plain debug")
	if !strings.Contains(buf.String(), "[DEBUG] plain debug") {
		t.Errorf("debug line dropped at -vv: %q", buf.String())
	}
}

func TestSetVerbosity_Clamps(t *testing.T) {
	defer SetVerbosity(0)

	SetVerbosity(-3)
	if Verbosity() != 0 || LevelName() != "warn" {
		t.Errorf("SetVerbosity(-3) = %d/%s, want 0/warn", Verbosity(), LevelName())
	}
	SetVerbosity(9)
	if Verbosity() != 4 || LevelName() != "trace" {
		t.Errorf("SetVerbosity(9) = %d/%s, want 4/trace", Verbosity(), LevelName())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		level Level
		count int
	}{
		{"error", LevelError, 0},
		{"WARNING", LevelWarn, 0},
		{"info", LevelInfo, 1},
		{" debug ", LevelDebug, 2},
		{"trace", LevelTrace, 4},
	}
	for _, tt := range tests {
		level, count, err := ParseLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLevel(%q) error = %v", tt.in, err)
			continue
		}
		if level != tt.level || count != tt.count {
			t.Errorf("ParseLevel(%q) = %v/%d, want %v/%d", tt.in, level, count, tt.level, tt.count)
		}
	}

	if _, _, err := ParseLevel("shouty"); err == nil {
		t.Error("ParseLevel(shouty) should fail")
	}
}

func TestSetLevel(t *testing.T) {
	defer SetVerbosity(0)

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel(debug) error = %v", err)
	}
	if LevelName() != "debug" {
		t.Errorf("LevelName() = %q, want debug", LevelName())
	}
	if err := SetLevel("nope"); err == nil {
		t.Error("SetLevel(nope) should fail")
	}
}
