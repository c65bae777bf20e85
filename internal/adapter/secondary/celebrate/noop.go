package celebrate

import (
	"context"

	"birthday-countdown/internal/domain"
)

// NoopCelebrator implements domain.Celebrator with no-op behavior.
// Useful for testing or hosts without an audio device.
type NoopCelebrator struct{}

// NewNoopCelebrator creates a new no-op celebrator.
func NewNoopCelebrator() domain.Celebrator {
	return &NoopCelebrator{}
}

// Celebrate does nothing and always succeeds.
func (n *NoopCelebrator) Celebrate(ctx context.Context, snap domain.Snapshot) error {
	return nil
}
