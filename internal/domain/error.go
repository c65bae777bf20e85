package domain

import "errors"

var (
	// ErrMissingTarget indicates that a countdown was started before a date was chosen.
	ErrMissingTarget = errors.New("no target date selected")

	// ErrInvalidInterval indicates that the tick interval is too short.
	ErrInvalidInterval = errors.New("tick interval must be at least 100ms")

	// ErrInvalidAddr indicates that no listen address was configured.
	ErrInvalidAddr = errors.New("listen address is required")

	// ErrInvalidLogLevel indicates an unknown log level name.
	ErrInvalidLogLevel = errors.New("unknown log level")

	// ErrClosed indicates that the countdown engine has been torn down.
	ErrClosed = errors.New("countdown is closed")
)
