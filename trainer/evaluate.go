package trainer

import (
	"fmt"

	"fretnote/fretboard"
)

// Candidate is anything that names a pitch on the instrument
type Candidate interface {
	Resolve(l fretboard.Layout) (fretboard.Pitch, error)
}

// Coordinate is a (string, fret) answer from the picker or the fretboard grid
type Coordinate struct {
	String int `json:"string"`
	Fret   int `json:"fret"`
}

func (c Coordinate) Resolve(l fretboard.Layout) (fretboard.Pitch, error) {
	return l.PitchOf(c.String, c.Fret)
}

// PitchGuess is an answer that already is a pitch, e.g. a MIDI note-on
type PitchGuess fretboard.Pitch

func (g PitchGuess) Resolve(fretboard.Layout) (fretboard.Pitch, error) {
	return fretboard.Pitch(g), nil
}

// Verdict classifies one evaluation
type Verdict int

const (
	Ignored Verdict = iota // no target: empty or finished round
	Correct
	Incorrect
)

func (v Verdict) String() string {
	switch v {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "ignored"
	}
}

func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Verdict) UnmarshalText(b []byte) error {
	switch string(b) {
	case "correct":
		*v = Correct
	case "incorrect":
		*v = Incorrect
	case "ignored":
		*v = Ignored
	default:
		return fmt.Errorf("unknown verdict %q", b)
	}
	return nil
}

// Outcome reports what an evaluation decided and changed
type Outcome struct {
	Verdict       Verdict         `json:"verdict"`
	Target        fretboard.Pitch `json:"target"`
	Guess         fretboard.Pitch `json:"guess"`
	Index         int             `json:"index"`
	Advanced      bool            `json:"advanced"`
	RoundComplete bool            `json:"roundComplete"`
	Completed     int             `json:"completed"`
}
