package fretboard

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

const (
	NumStrings = 6

	// PickerMaxFret is the highest fret offered by the scrolling picker and
	// the upper bound of the configurable fret window.
	PickerMaxFret = 15

	// BoardMaxFret is the highest fret drawn on the fretboard grid.
	BoardMaxFret = 16
)

// ErrInvalidCoordinate is returned for a string or fret the instrument does not have.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Layout maps string number (1 = highest) to its open-string pitch.
type Layout [NumStrings]Pitch

// Standard is six-string guitar tuning: E4 B3 G3 D3 A2 E2 for strings 1..6.
var Standard = Layout{64, 59, 55, 50, 45, 40}

// Position is a physical fretboard coordinate.
type Position struct {
	String int `json:"string"`
	Fret   int `json:"fret"`
}

// Open returns the open pitch of a string.
func (l Layout) Open(str int) (Pitch, error) {
	if str < 1 || str > NumStrings {
		return 0, fmt.Errorf("%w: string %d", ErrInvalidCoordinate, str)
	}
	return l[str-1], nil
}

// PitchOf returns the pitch sounded at fret on string str.
func (l Layout) PitchOf(str, fret int) (Pitch, error) {
	open, err := l.Open(str)
	if err != nil {
		return 0, err
	}
	if fret < 0 || fret > BoardMaxFret {
		return 0, fmt.Errorf("%w: fret %d", ErrInvalidCoordinate, fret)
	}
	return open + Pitch(fret), nil
}

// MustPitchOf is PitchOf for coordinates known to be in range.
func (l Layout) MustPitchOf(str, fret int) Pitch {
	p, err := l.PitchOf(str, fret)
	if err != nil {
		panic(err)
	}
	return p
}

// Positions returns every coordinate within [minFret, maxFret] that sounds p,
// lowest fret first, then lowest string number.
func (l Layout) Positions(p Pitch, minFret, maxFret int) []Position {
	var out []Position
	for s := 1; s <= NumStrings; s++ {
		f := int(p - l[s-1])
		if f >= minFret && f <= maxFret && f >= 0 && f <= BoardMaxFret {
			out = append(out, Position{String: s, Fret: f})
		}
	}
	slices.SortFunc(out, func(a, b Position) bool {
		if a.Fret != b.Fret {
			return a.Fret < b.Fret
		}
		return a.String < b.String
	})
	return out
}
