// Package tui is the full-screen terminal rendering of the countdown.
package tui

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"birthday-countdown/internal/domain"
	"birthday-countdown/internal/logging"
	"birthday-countdown/internal/usecase"
)

const (
	frameInterval = 80 * time.Millisecond
	maxInputLen   = 19
)

// App drives a tcell screen from countdown events and keyboard input.
type App struct {
	screen   tcell.Screen
	uc       usecase.CountdownUseCase
	confetti *Confetti

	input string
	snap  domain.Snapshot
}

// New creates the terminal app. The screen must not be initialised yet.
func New(screen tcell.Screen, uc usecase.CountdownUseCase) *App {
	return &App{
		screen:   screen,
		uc:       uc,
		confetti: NewConfetti(time.Now().UnixNano()),
	}
}

// SetInput pre-fills the date field, e.g. from a --at flag.
func (a *App) SetInput(s string) {
	a.input = s
}

// Run owns the screen until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.screen.Init(); err != nil {
		return err
	}
	defer a.screen.Fini()

	unsubscribe := a.uc.Subscribe(domain.ObserverFunc(func(ev domain.Event) {
		// wake the event loop; a full queue only drops a redraw
		_ = a.screen.PostEvent(tcell.NewEventInterrupt(ev))
	}))
	defer unsubscribe()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	frames := time.NewTicker(frameInterval)
	defer frames.Stop()

	a.snap = a.uc.Snapshot()
	if a.input != "" {
		a.apply(a.uc.SetTargetInput(a.input))
	}
	a.draw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-frames.C:
			if a.snap.Expired {
				a.confetti.Step()
				a.draw()
			}
		case ev := <-events:
			if done := a.handle(ev); done {
				return nil
			}
			a.draw()
		}
	}
}

// handle processes one tcell event and reports whether the app should exit.
func (a *App) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		if cev, ok := ev.Data().(domain.Event); ok {
			a.apply(cev.Snapshot)
		}
	case *tcell.EventResize:
		w, h := a.screen.Size()
		a.confetti.Resize(w, h)
		a.screen.Sync()
	case *tcell.EventKey:
		return a.key(ev)
	}
	return false
}

func (a *App) key(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		a.apply(a.uc.SetTargetInput(a.input))
	case tcell.KeyTab:
		a.start()
	case tcell.KeyCtrlX:
		a.stop()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(a.input); n > 0 {
			a.input = a.input[:n-1]
		}
	case tcell.KeyRune:
		// letters other than the 'T' date separator are shortcuts
		switch ev.Rune() {
		case 'q':
			return true
		case 's':
			a.start()
		case 'x':
			a.stop()
		default:
			a.typeRune(ev.Rune())
		}
	}
	return false
}

func (a *App) start() {
	snap, err := a.uc.Start()
	if err != nil {
		logging.Debugf("start from terminal: %v", err)
	}
	a.apply(snap)
}

func (a *App) stop() {
	a.uc.Stop()
	a.apply(a.uc.Snapshot())
}

func (a *App) typeRune(r rune) {
	if len(a.input) >= maxInputLen {
		return
	}
	switch {
	case r >= '0' && r <= '9', r == '-', r == ':', r == ' ', r == 'T':
		a.input += string(r)
	}
}

// apply adopts a newer snapshot and starts the confetti on the expiry edge.
func (a *App) apply(snap domain.Snapshot) {
	if snap.UpdatedAt.Before(a.snap.UpdatedAt) {
		return
	}
	if snap.Expired && !a.snap.Expired {
		w, h := a.screen.Size()
		a.confetti.Reset(w, h, w*h/12)
	}
	a.snap = snap
}

func (a *App) draw() {
	render(a.screen, view{snap: a.snap, input: a.input, confetti: a.confetti})
	a.screen.Show()
}
