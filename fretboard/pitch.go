package fretboard

import (
	"fmt"
	"math"
)

// Pitch is a MIDI note number. 60 is middle C (C4).
type Pitch int

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// naturals marks the pitch classes drawn without an accidental
var naturals = [12]bool{
	0: true, 2: true, 4: true, 5: true, 7: true, 9: true, 11: true,
}

// Class returns the pitch class, 0 (C) through 11 (B).
func (p Pitch) Class() int {
	c := int(p) % 12
	if c < 0 {
		c += 12
	}
	return c
}

// Octave returns the scientific octave number (C4 = 60).
func (p Pitch) Octave() int {
	return floorDiv(int(p), 12) - 1
}

// Name returns the sharp spelling of the pitch, optionally with its octave.
func (p Pitch) Name(includeOctave bool) string {
	name := noteNames[p.Class()]
	if includeOctave {
		return fmt.Sprintf("%s%d", name, p.Octave())
	}
	return name
}

func (p Pitch) String() string {
	return p.Name(true)
}

// IsNatural reports whether the pitch needs no sharp.
func (p Pitch) IsNatural() bool {
	return naturals[p.Class()]
}

// Frequency returns the equal-tempered frequency in Hz (A4 = 440).
func (p Pitch) Frequency() float64 {
	return 440 * math.Pow(2, float64(int(p)-69)/12)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
