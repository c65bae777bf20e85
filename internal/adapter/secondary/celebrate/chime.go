package celebrate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"birthday-countdown/internal/domain"
)

const (
	sampleRate = beep.SampleRate(44100)
	beat       = 400 * time.Millisecond
)

// ChimeCelebrator implements domain.Celebrator by playing the birthday tune
// on the default audio device.
// This is a secondary adapter.
type ChimeCelebrator struct {
	mu          sync.Mutex
	initialized bool
}

// NewChimeCelebrator creates a celebrator backed by the beep speaker.
func NewChimeCelebrator() domain.Celebrator {
	return &ChimeCelebrator{}
}

func (c *ChimeCelebrator) init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	c.initialized = true
	return nil
}

// Celebrate plays the tune and blocks until it ends or ctx is cancelled.
func (c *ChimeCelebrator) Celebrate(ctx context.Context, snap domain.Snapshot) error {
	if err := c.init(); err != nil {
		return err
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(
		Melody(HappyBirthday, beat, sampleRate),
		beep.Callback(func() { close(done) }),
	))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}
