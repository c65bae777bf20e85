package celebrate

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Note is a pitch held for a number of beats. A zero frequency is a rest.
type Note struct {
	Freq  float64
	Beats float64
}

const (
	noteC5 = 523.25
	noteD5 = 587.33
	noteE5 = 659.25
	noteF5 = 698.46
	noteG4 = 392.00
	noteA4 = 440.00
	noteB4 = 493.88
	noteG5 = 783.99
)

// HappyBirthday is the tune played when a countdown expires.
var HappyBirthday = []Note{
	{noteG4, 0.75}, {noteG4, 0.25}, {noteA4, 1}, {noteG4, 1}, {noteC5, 1}, {noteB4, 2},
	{noteG4, 0.75}, {noteG4, 0.25}, {noteA4, 1}, {noteG4, 1}, {noteD5, 1}, {noteC5, 2},
	{noteG4, 0.75}, {noteG4, 0.25}, {noteG5, 1}, {noteE5, 1}, {noteC5, 1}, {noteB4, 1}, {noteA4, 2},
	{noteF5, 0.75}, {noteF5, 0.25}, {noteE5, 1}, {noteC5, 1}, {noteD5, 1}, {noteC5, 2},
}

// Melody renders notes as one streamer, each note shaped by a short envelope.
func Melody(notes []Note, beat time.Duration, rate beep.SampleRate) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		d := time.Duration(float64(beat) * n.Beats)
		if n.Freq <= 0 {
			parts = append(parts, beep.Silence(rate.N(d)))
			continue
		}
		parts = append(parts, newEnvelope(newSine(n.Freq, d, rate), d, d/10, d/4, rate))
	}
	return beep.Seq(parts...)
}

// MelodyLength returns the number of samples Melody produces.
func MelodyLength(notes []Note, beat time.Duration, rate beep.SampleRate) int {
	total := 0
	for _, n := range notes {
		total += rate.N(time.Duration(float64(beat) * n.Beats))
	}
	return total
}

// sine generates a pure tone for a fixed number of samples.
type sine struct {
	freq     float64
	phase    float64
	duration int
	position int
	rate     beep.SampleRate
}

func newSine(freq float64, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &sine{freq: freq, duration: rate.N(d), rate: rate}
}

func (o *sine) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}
		val := math.Sin(2*math.Pi*o.phase) * 0.4
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *sine) Err() error { return nil }

// envelope applies attack/release shaping so notes do not click.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer:       s,
		attackSamples:  rate.N(attack),
		releaseSamples: rate.N(release),
		totalSamples:   rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	releaseStart := e.totalSamples - e.releaseSamples
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = float64(e.totalSamples-e.position) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }
