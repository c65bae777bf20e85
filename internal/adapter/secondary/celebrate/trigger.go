package celebrate

import (
	"context"

	"birthday-countdown/internal/domain"
	"birthday-countdown/internal/logging"
)

// OnExpiry returns an observer that runs c in the background each time a
// countdown expires. Failures are logged and otherwise ignored.
func OnExpiry(ctx context.Context, c domain.Celebrator) domain.Observer {
	return domain.ObserverFunc(func(ev domain.Event) {
		if ev.Type != domain.EventExpired {
			return
		}
		snap := ev.Snapshot
		go func() {
			if err := c.Celebrate(ctx, snap); err != nil && ctx.Err() == nil {
				logging.Warnf("celebration for %s failed: %v", snap.RunID, err)
			}
		}()
	})
}
