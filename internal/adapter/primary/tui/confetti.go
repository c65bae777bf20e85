package tui

import (
	"math/rand"

	"github.com/gdamore/tcell/v2"
)

var (
	confettiGlyphs = []rune{'*', '+', 'o', '~', '.', '\'', '%', '@'}
	confettiColors = []tcell.Color{
		tcell.ColorRed,
		tcell.ColorFuchsia,
		tcell.ColorPurple,
		tcell.ColorBlue,
		tcell.ColorAqua,
		tcell.ColorGreen,
		tcell.ColorYellow,
		tcell.ColorOrange,
	}
)

// particle is one falling piece of confetti.
type particle struct {
	x, y   float64
	vx, vy float64
	glyph  rune
	style  tcell.Style
}

// Confetti is a simple particle system raining over the whole screen.
type Confetti struct {
	rng       *rand.Rand
	particles []particle
	w, h      int
}

// NewConfetti creates an empty system; seed fixes the random pattern.
func NewConfetti(seed int64) *Confetti {
	return &Confetti{rng: rand.New(rand.NewSource(seed))}
}

// Reset scatters n particles above and across a w x h area.
func (c *Confetti) Reset(w, h, n int) {
	c.w, c.h = w, h
	c.particles = c.particles[:0]
	if w <= 0 || h <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		c.particles = append(c.particles, c.spawn(c.rng.Float64()*float64(h)-float64(h)))
	}
}

// Resize keeps particles but adapts the wrap area.
func (c *Confetti) Resize(w, h int) {
	c.w, c.h = w, h
}

// Len returns the number of live particles.
func (c *Confetti) Len() int {
	return len(c.particles)
}

func (c *Confetti) spawn(y float64) particle {
	return particle{
		x:     c.rng.Float64() * float64(c.w),
		y:     y,
		vx:    c.rng.Float64()*0.6 - 0.3,
		vy:    0.3 + c.rng.Float64()*0.7,
		glyph: confettiGlyphs[c.rng.Intn(len(confettiGlyphs))],
		style: tcell.StyleDefault.Foreground(confettiColors[c.rng.Intn(len(confettiColors))]),
	}
}

// Step advances every particle one frame. Pieces leaving the bottom re-enter at the top.
func (c *Confetti) Step() {
	for i := range c.particles {
		p := &c.particles[i]
		p.x += p.vx
		p.y += p.vy
		if p.x < 0 {
			p.x += float64(c.w)
		} else if p.x >= float64(c.w) {
			p.x -= float64(c.w)
		}
		if p.y >= float64(c.h) {
			*p = c.spawn(0)
		}
	}
}

// Draw paints visible particles.
func (c *Confetti) Draw(cv canvas) {
	for _, p := range c.particles {
		if p.y < 0 {
			continue
		}
		x, y := int(p.x), int(p.y)
		if x < 0 || x >= c.w || y >= c.h {
			continue
		}
		cv.SetContent(x, y, p.glyph, nil, p.style)
	}
}
