package widgets

import (
	"fretnote/fretboard"
	"fretnote/theme"
	"fretnote/trainer"
)

// Staff text geometry: one text row per diatonic step, one column block per note.
const (
	StaffMargin    = 4
	StaffNoteWidth = 6
	stemRows       = 3
)

func stepOf(y int) int {
	return (100 - y) / fretboard.StepHeight
}

// RenderStaff draws a round on a treble staff. Staff lines are the even
// steps 2..10; ledger lines, sharps and stems follow the projected layout.
// A marker row under the staff points at the current note.
func RenderStaff(sl trainer.StaffLayout, th *theme.Theme) string {
	top, bottom := 11, 1
	for _, g := range sl.Glyphs {
		top = maxOf(top, g.Step, g.Step-g.Stem*stemRows)
		bottom = minOf(bottom, g.Step, g.Step-g.Stem*stemRows)
	}

	width := StaffMargin*2 + maxOf(1, len(sl.Glyphs))*StaffNoteWidth
	c := newCanvas(width, top-bottom+2)
	row := func(step int) int { return top - step }

	s := th.Symbols
	for _, y := range sl.Lines {
		for x := 0; x < width; x++ {
			c.set(x, row(stepOf(y)), s.StaffLine, th.Muted())
		}
	}

	for _, g := range sl.Glyphs {
		x := StaffMargin + g.Index*StaffNoteWidth
		color := th.Status(g.Status)

		for _, ly := range g.Ledger {
			for dx := 0; dx < 5; dx++ {
				c.set(x+dx, row(stepOf(ly)), s.Ledger, th.Muted())
			}
		}

		for i := 1; i <= stemRows; i++ {
			c.set(x+3, row(g.Step-g.Stem*i), s.Stem, color)
		}

		if g.Accidental {
			c.set(x+1, row(g.Step), s.Sharp, color)
		}
		c.set(x+2, row(g.Step), s.NoteHead, color)
	}

	if sl.Current >= 0 {
		c.set(StaffMargin+sl.Current*StaffNoteWidth+2, top-bottom+1, '▲', th.Cursor())
	}
	return c.String()
}
