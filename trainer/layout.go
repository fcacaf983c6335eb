package trainer

import "fretnote/fretboard"

// Horizontal staff geometry, matching the vertical units of fretboard.StaffPosition
const (
	StaffStartX = 90
	NoteSpacing = 70
	StemLength  = 35
)

// Status is how a note is drawn relative to round progress
type Status int

const (
	StatusPending Status = iota
	StatusCurrent
	StatusDone
)

func (s Status) String() string {
	switch s {
	case StatusCurrent:
		return "current"
	case StatusDone:
		return "done"
	default:
		return "pending"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Color is the default hex colour for the status
func (s Status) Color() string {
	switch s {
	case StatusCurrent:
		return "#000000"
	case StatusDone:
		return "#34C759"
	default:
		return "#cccccc"
	}
}

// Glyph is everything a renderer needs to draw one note
type Glyph struct {
	Index      int             `json:"index"`
	Pitch      fretboard.Pitch `json:"pitch"`
	Name       string          `json:"name"`
	X          int             `json:"x"`
	Y          int             `json:"y"`
	Step       int             `json:"step"`
	Ledger     []int           `json:"ledger"`
	Status     Status          `json:"status"`
	Color      string          `json:"color"`
	Accidental bool            `json:"accidental"`
	Stem       int             `json:"stem"` // +1 drawn downward, -1 upward
}

// StemEnd returns the y where the stem stops
func (g Glyph) StemEnd() int {
	return g.Y + StemLength*g.Stem
}

// StaffLayout is the full geometric description of a round's staff
type StaffLayout struct {
	Lines   [5]int  `json:"lines"`
	Glyphs  []Glyph `json:"glyphs"`
	Current int     `json:"current"` // index of the highlighted note, -1 if none
}

// Project computes the staff layout for a round. It does not modify r.
func Project(r Round) StaffLayout {
	sl := StaffLayout{
		Lines:   fretboard.StaffLines,
		Glyphs:  make([]Glyph, 0, len(r.Notes)),
		Current: -1,
	}
	for i, n := range r.Notes {
		pl := fretboard.StaffPosition(n.Pitch)

		status := StatusPending
		switch {
		case n.Done:
			status = StatusDone
		case i == r.Index && !r.Finished:
			status = StatusCurrent
			sl.Current = i
		}

		stem := -1
		if pl.Y < fretboard.StaffCenter {
			stem = 1
		}

		sl.Glyphs = append(sl.Glyphs, Glyph{
			Index:      i,
			Pitch:      n.Pitch,
			Name:       n.Pitch.Name(true),
			X:          StaffStartX + i*NoteSpacing,
			Y:          pl.Y,
			Step:       pl.Step,
			Ledger:     pl.Ledger,
			Status:     status,
			Color:      status.Color(),
			Accidental: !n.Pitch.IsNatural(),
			Stem:       stem,
		})
	}
	return sl
}
