package midi

import (
	"fretnote/fretboard"
	"fretnote/trainer"
)

// The Launchpad shows an 8-fret slice of the neck: rows 7..2 are strings
// 1..6 (high E on top, as in tab), columns are frets Start..Start+7.
const (
	WindowWidth = 8
	topRow      = 7
	bottomRow   = topRow - fretboard.NumStrings + 1

	// top control row arrows
	arrowLeft  = 2
	arrowRight = 3
)

// Pad colours
var (
	colorOff      = [3]uint8{0, 0, 0}
	colorInWindow = [3]uint8{0, 100, 255}
	colorInlay    = [3]uint8{40, 40, 40}
	colorOutside  = [3]uint8{40, 60, 120}
	colorArrow    = [3]uint8{255, 200, 0}
	colorCorrect  = [3]uint8{0, 255, 0}
	colorWrong    = [3]uint8{255, 0, 0}
)

var inlayFrets = map[int]bool{3: true, 5: true, 7: true, 9: true, 12: true, 15: true}

// FretWindow maps grid pads to fretboard coordinates
type FretWindow struct {
	Start int
}

// WindowFor positions the window at the start of cfg's fret range
func WindowFor(cfg trainer.Config) FretWindow {
	w := FretWindow{Start: cfg.MinFret}
	w.clamp()
	return w
}

func (w *FretWindow) clamp() {
	maxStart := fretboard.BoardMaxFret - WindowWidth + 1
	if w.Start > maxStart {
		w.Start = maxStart
	}
	if w.Start < 0 {
		w.Start = 0
	}
}

// Shift slides the window along the neck
func (w *FretWindow) Shift(delta int) {
	w.Start += delta
	w.clamp()
}

// Coordinate returns the fretboard position under a grid pad
func (w FretWindow) Coordinate(row, col int) (trainer.Coordinate, bool) {
	if row < bottomRow || row > topRow || col < 0 || col >= WindowWidth {
		return trainer.Coordinate{}, false
	}
	return trainer.Coordinate{String: topRow - row + 1, Fret: w.Start + col}, true
}

// Pad returns the grid pad showing a coordinate, if it is in the window
func (w FretWindow) Pad(c trainer.Coordinate) (row, col int, ok bool) {
	col = c.Fret - w.Start
	if c.String < 1 || c.String > fretboard.NumStrings || col < 0 || col >= WindowWidth {
		return -1, -1, false
	}
	return topRow - c.String + 1, col, true
}

// Frame paints the window: frets inside the training range are lit, inlay
// frets outside it are marked, and the arrows show which way it can move.
func (w FretWindow) Frame(cfg trainer.Config) []LEDUpdate {
	var leds []LEDUpdate
	for row := 0; row < 8; row++ {
		for col := 0; col < WindowWidth; col++ {
			color := colorOff
			if c, ok := w.Coordinate(row, col); ok {
				switch {
				case c.Fret >= cfg.MinFret && c.Fret <= cfg.MaxFret:
					color = colorInWindow
				case inlayFrets[c.Fret]:
					color = colorInlay
				default:
					color = colorOutside
				}
			}
			leds = append(leds, LEDUpdate{Row: row, Col: col, Color: color, Channel: ChannelStatic})
		}
	}

	left, right := colorOff, colorOff
	if w.Start > 0 {
		left = colorArrow
	}
	if w.Start < fretboard.BoardMaxFret-WindowWidth+1 {
		right = colorArrow
	}
	leds = append(leds,
		LEDUpdate{Row: 8, Col: arrowLeft, Color: left},
		LEDUpdate{Row: 8, Col: arrowRight, Color: right},
	)
	return leds
}

// VerdictLED is the flash shown on the pressed pad
func VerdictLED(row, col int, v trainer.Verdict) LEDUpdate {
	color := colorWrong
	if v == trainer.Correct {
		color = colorCorrect
	}
	return LEDUpdate{Row: row, Col: col, Color: color, Channel: ChannelPulse}
}
