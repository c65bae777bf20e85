package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"birthday-countdown/internal/domain"
)

// canvas is the part of tcell.Screen the renderer draws on.
type canvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
}

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xeb, 0xdd, 0xdd))
	styleTitle  = styleText.Bold(true)
	styleBox    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xc2, 0xaf, 0xaf)).Background(tcell.NewRGBColor(0x18, 0x03, 0x03))
	styleInput  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.NewRGBColor(0x6a, 0x51, 0x51))
	styleError  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHint   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// view is everything the renderer needs for one frame.
type view struct {
	snap     domain.Snapshot
	input    string
	confetti *Confetti
}

// drawText writes s at (x, y) and returns the column after it.
func drawText(cv canvas, x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		cv.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

func drawCentered(cv canvas, y int, s string, style tcell.Style) {
	w, _ := cv.Size()
	x := (w - runewidth.StringWidth(s)) / 2
	if x < 0 {
		x = 0
	}
	drawText(cv, x, y, s, style)
}

func fill(cv canvas, style tcell.Style) {
	w, h := cv.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cv.SetContent(x, y, ' ', nil, style)
		}
	}
}

func render(cv canvas, v view) {
	fill(cv, tcell.StyleDefault)
	_, h := cv.Size()

	if v.snap.Expired {
		if v.confetti != nil {
			v.confetti.Draw(cv)
		}
		drawCentered(cv, h/2-1, "  HAPPY BIRTHDAY!  ", styleBanner)
		drawCentered(cv, h/2+1, " q quit  Enter pick another date ", styleHint)
		return
	}

	top := h/2 - 5
	if top < 0 {
		top = 0
	}
	drawCentered(cv, top, "Happy Birthday!", styleTitle)

	field := fmt.Sprintf(" %-19s ", v.input+"_")
	line := "Birthday date: " + field + "  [Start Timer]"
	w, _ := cv.Size()
	x := (w - runewidth.StringWidth(line)) / 2
	if x < 0 {
		x = 0
	}
	x = drawText(cv, x, top+2, "Birthday date: ", styleText)
	x = drawText(cv, x, top+2, field, styleInput)
	drawText(cv, x, top+2, "  [Start Timer]", styleTitle)

	r := v.snap.Remaining
	boxes := fmt.Sprintf(" %d days ", r.Days) + " " +
		fmt.Sprintf(" %d hours ", r.Hours) + " " +
		fmt.Sprintf(" %d minutes ", r.Minutes) + " " +
		fmt.Sprintf(" %d seconds ", r.Seconds)
	drawCentered(cv, top+5, boxes, styleBox)

	if v.snap.ValidationError {
		drawCentered(cv, top+8, domain.MissingTargetMessage, styleError)
	}
	drawCentered(cv, h-1, "type YYYY-MM-DD HH:MM  Enter set  s start  x stop  q quit", styleHint)
}
