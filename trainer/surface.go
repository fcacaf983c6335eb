package trainer

import (
	"golang.org/x/exp/constraints"

	"fretnote/fretboard"
)

// CandidateSource is an input surface that can produce an answer
type CandidateSource interface {
	Candidate() Coordinate
}

// PickerColumn identifies one of the picker's two selectors
type PickerColumn int

const (
	ColumnString PickerColumn = iota
	ColumnFret
)

// Picker is the two-column scrolling selector: string 1..6 and fret 0..15
type Picker struct {
	str   int
	fret  int
	focus PickerColumn
}

func NewPicker() *Picker {
	return &Picker{str: 1}
}

func (p *Picker) SelectedString() int { return p.str }
func (p *Picker) SelectedFret() int   { return p.fret }
func (p *Picker) Focus() PickerColumn { return p.focus }

// SetFocus moves keyboard focus to a column
func (p *Picker) SetFocus(c PickerColumn) {
	p.focus = c
}

// SetString selects a string, clamped to 1..6
func (p *Picker) SetString(v int) {
	p.str = clamp(v, 1, fretboard.NumStrings)
}

// SetFret selects a fret, clamped to 0..15
func (p *Picker) SetFret(v int) {
	p.fret = clamp(v, 0, fretboard.PickerMaxFret)
}

// Scroll moves the focused column by delta items
func (p *Picker) Scroll(delta int) {
	if p.focus == ColumnString {
		p.SetString(p.str + delta)
	} else {
		p.SetFret(p.fret + delta)
	}
}

// ScrollTo selects the item nearest a pixel scroll offset, as a snapping
// scroll list reports it.
func (p *Picker) ScrollTo(c PickerColumn, offset, itemHeight int) {
	if itemHeight <= 0 {
		return
	}
	idx := (offset + itemHeight/2) / itemHeight
	if c == ColumnString {
		p.SetString(idx + 1)
	} else {
		p.SetFret(idx)
	}
}

func (p *Picker) Candidate() Coordinate {
	return Coordinate{String: p.str, Fret: p.fret}
}

// Grid is the fretboard surface: a cursor over 6 strings and frets 0..16
type Grid struct {
	cursor Coordinate
}

func NewGrid() *Grid {
	return &Grid{cursor: Coordinate{String: 1}}
}

func (g *Grid) Cursor() Coordinate { return g.cursor }

// Move shifts the cursor, clamping at the board edges
func (g *Grid) Move(dString, dFret int) {
	g.Select(g.cursor.String+dString, g.cursor.Fret+dFret)
}

// Select puts the cursor on a cell, clamped to the board
func (g *Grid) Select(str, fret int) {
	g.cursor = Coordinate{
		String: clamp(str, 1, fretboard.NumStrings),
		Fret:   clamp(fret, 0, fretboard.BoardMaxFret),
	}
}

func (g *Grid) Candidate() Coordinate {
	return g.cursor
}

func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
