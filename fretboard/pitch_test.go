package fretboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPitchNames(t *testing.T) {
	cases := []struct {
		pitch  Pitch
		name   string
		full   string
		octave int
	}{
		{40, "E", "E2", 2},
		{60, "C", "C4", 4},
		{61, "C#", "C#4", 4},
		{64, "E", "E4", 4},
		{69, "A", "A4", 4},
		{71, "B", "B4", 4},
		{72, "C", "C5", 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.name, tc.pitch.Name(false), "pitch %d", tc.pitch)
		assert.Equal(t, tc.full, tc.pitch.Name(true), "pitch %d", tc.pitch)
		assert.Equal(t, tc.full, tc.pitch.String(), "pitch %d", tc.pitch)
		assert.Equal(t, tc.octave, tc.pitch.Octave(), "pitch %d", tc.pitch)
	}
}

func TestIsNatural(t *testing.T) {
	assert := assert.New(t)
	assert.False(Pitch(61).IsNatural())
	assert.Equal(1, Pitch(61).Class())

	var naturalCount int
	for p := Pitch(48); p < 60; p++ {
		if p.IsNatural() {
			naturalCount++
		}
	}
	assert.Equal(7, naturalCount)
	for _, c := range []Pitch{60, 62, 64, 65, 67, 69, 71} {
		assert.True(c.IsNatural(), "%s", c)
	}
}

func TestNegativePitchClass(t *testing.T) {
	assert.Equal(t, 11, Pitch(-1).Class())
	assert.Equal(t, -2, Pitch(-1).Octave())
}

func TestFrequency(t *testing.T) {
	assert.InDelta(t, 440.0, Pitch(69).Frequency(), 1e-9)
	assert.InDelta(t, 220.0, Pitch(57).Frequency(), 1e-9)
	assert.InDelta(t, 329.628, Pitch(64).Frequency(), 1e-3)
}
