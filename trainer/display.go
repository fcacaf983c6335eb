package trainer

import (
	"fmt"

	"fretnote/fretboard"
)

// DisplayInfo labels a picker selection independently of round state
type DisplayInfo struct {
	StringLabel string          `json:"stringLabel"`
	FretLabel   string          `json:"fretLabel"`
	NoteName    string          `json:"noteName"`
	Pitch       fretboard.Pitch `json:"pitch"`
}

// Describe labels the pitch at a coordinate, e.g. "String 1", "Open", "E4"
func Describe(l fretboard.Layout, c Coordinate) (DisplayInfo, error) {
	p, err := c.Resolve(l)
	if err != nil {
		return DisplayInfo{}, err
	}
	fret := "Open"
	if c.Fret > 0 {
		fret = fmt.Sprintf("Fret %d", c.Fret)
	}
	return DisplayInfo{
		StringLabel: fmt.Sprintf("String %d", c.String),
		FretLabel:   fret,
		NoteName:    p.Name(true),
		Pitch:       p,
	}, nil
}
