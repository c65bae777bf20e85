package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/logutils"
)

// Level represents logging severity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

var levelTags = []logutils.LogLevel{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

var (
	mu               sync.RWMutex
	currentLevel     = LevelWarn
	currentVerbosity = 0
	filter           = &logutils.LevelFilter{
		Levels:   levelTags,
		MinLevel: "WARN",
		Writer:   os.Stderr,
	}
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetOutput(lockedFilter{})
}

// lockedFilter serialises writes through the level filter with level changes.
type lockedFilter struct{}

func (lockedFilter) Write(p []byte) (int, error) {
	mu.RLock()
	defer mu.RUnlock()
	return filter.Write(p)
}

// SetOutput redirects the filtered log stream.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	filter.Writer = w
}

// SetVerbosity configures logger output from count of -v flags (0-4).
func SetVerbosity(count int) {
	if count < 0 {
		count = 0
	}
	if count > 4 {
		count = 4
	}
	var level Level
	switch count {
	case 0:
		level = LevelWarn
	case 1:
		level = LevelInfo
	case 2:
		level = LevelDebug
	default:
		level = LevelTrace
	}

	mu.Lock()
	defer mu.Unlock()
	currentVerbosity = count
	currentLevel = level
	filter.SetMinLevel(tag(level))
}

// SetLevel configures the logger from a level name such as "info".
func SetLevel(name string) error {
	_, count, err := ParseLevel(name)
	if err != nil {
		return err
	}
	SetVerbosity(count)
	return nil
}

// Verbosity returns the stored -v count.
func Verbosity() int {
	mu.RLock()
	defer mu.RUnlock()
	return currentVerbosity
}

// LevelName returns current level label.
func LevelName() string {
	mu.RLock()
	defer mu.RUnlock()
	return LevelToString(currentLevel)
}

// LevelToString converts a Level to human readable text.
func LevelToString(l Level) string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return "unknown"
	}
}

// ParseLevel returns Level + verbosity count from string.
func ParseLevel(s string) (Level, int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, 0, nil
	case "warn", "warning":
		return LevelWarn, 0, nil
	case "info":
		return LevelInfo, 1, nil
	case "debug":
		return LevelDebug, 2, nil
	case "trace":
		return LevelTrace, 4, nil
	default:
		return LevelWarn, Verbosity(), fmt.Errorf("unknown level %s", s)
	}
}

func tag(l Level) logutils.LogLevel {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "TRACE"
	}
}

// logf tags the line; the level filter on the log output decides whether it is written.
func logf(l Level, format string, args ...any) {
	log.Printf("[%s] %s", tag(l), fmt.Sprintf(format, args...))
}

// Errorf always prints.
func Errorf(format string, args ...any) {
	logf(LevelError, format, args...)
}

func Warnf(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

func Infof(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

func Debugf(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

func Tracef(format string, args ...any) {
	logf(LevelTrace, format, args...)
}
