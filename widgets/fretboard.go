package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"fretnote/fretboard"
	"fretnote/theme"
	"fretnote/trainer"
)

// Fretboard text geometry. Row 0 holds fret numbers, rows 1..6 are strings
// 1..6, row 7 marks inlay frets. Each fret is a FretCellWidth cell followed
// by a one-column wire.
const (
	FretLabelWidth = 3
	FretCellWidth  = 3
	fretStride     = FretCellWidth + 1
)

var inlayFrets = map[int]bool{3: true, 5: true, 7: true, 9: true, 12: true, 15: true}

// FretboardView is what the fretboard widget draws
type FretboardView struct {
	Cursor     trainer.Coordinate
	ShowCursor bool
	MinFret    int // training range, drawn brighter
	MaxFret    int

	Flash      *trainer.Coordinate // briefly highlighted cell
	FlashColor lipgloss.Color
}

// FretboardWidth is the rendered width in columns
func FretboardWidth() int {
	return FretLabelWidth + (fretboard.BoardMaxFret+1)*fretStride
}

// RenderFretboard draws the 6 x 17 grid of string/fret cells
func RenderFretboard(v FretboardView, th *theme.Theme) string {
	s := th.Symbols
	c := newCanvas(FretboardWidth(), fretboard.NumStrings+2)

	for fret := 0; fret <= fretboard.BoardMaxFret; fret++ {
		x := FretLabelWidth + fret*fretStride
		color := th.Muted()
		if fret >= v.MinFret && fret <= v.MaxFret {
			color = th.FG()
		}
		c.text(x, 0, fmt.Sprintf("%2d", fret), color)
		if inlayFrets[fret] {
			c.set(x+1, fretboard.NumStrings+1, s.Inlay, th.Muted())
		}
	}

	for str := 1; str <= fretboard.NumStrings; str++ {
		c.text(0, str, fmt.Sprintf("%d", str), th.Muted())
		for fret := 0; fret <= fretboard.BoardMaxFret; fret++ {
			x := FretLabelWidth + fret*fretStride

			color := th.FretWire()
			if fret >= v.MinFret && fret <= v.MaxFret {
				color = th.FG()
			}
			for dx := 0; dx < FretCellWidth; dx++ {
				c.set(x+dx, str, s.String, color)
			}

			here := trainer.Coordinate{String: str, Fret: fret}
			switch {
			case v.Flash != nil && *v.Flash == here:
				c.set(x+1, str, s.NoteHead, v.FlashColor)
			case v.ShowCursor && v.Cursor == here:
				c.set(x+1, str, s.Cursor, th.Cursor())
			}

			wire := s.FretWire
			if fret == 0 {
				wire = s.Nut
			}
			c.set(x+FretCellWidth, str, wire, th.FretWire())
		}
	}
	return c.String()
}

// FretboardHit maps a column/row inside the widget to the cell under it
func FretboardHit(x, y int) (trainer.Coordinate, bool) {
	if y < 1 || y > fretboard.NumStrings || x < FretLabelWidth {
		return trainer.Coordinate{}, false
	}
	fret := (x - FretLabelWidth) / fretStride
	if fret > fretboard.BoardMaxFret {
		return trainer.Coordinate{}, false
	}
	return trainer.Coordinate{String: y, Fret: fret}, true
}
