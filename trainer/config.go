package trainer

import (
	"errors"
	"fmt"

	"fretnote/fretboard"
)

// InputMode selects which surface the player answers with
type InputMode string

const (
	ModePicker    InputMode = "picker"
	ModeFretboard InputMode = "fretboard"
)

var (
	ErrInvalidRange = errors.New("invalid fret range")
	ErrInvalidMode  = errors.New("invalid input mode")
)

// ParseInputMode accepts "picker" or "fretboard"
func ParseInputMode(s string) (InputMode, error) {
	switch InputMode(s) {
	case ModePicker, ModeFretboard:
		return InputMode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Toggle returns the other input mode
func (m InputMode) Toggle() InputMode {
	if m == ModeFretboard {
		return ModePicker
	}
	return ModeFretboard
}

// Config is the fret window targets are drawn from, plus the active input surface
type Config struct {
	MinFret   int       `json:"minFret"`
	MaxFret   int       `json:"maxFret"`
	InputMode InputMode `json:"inputMode"`
}

// DefaultConfig returns the first-position window used on a fresh start
func DefaultConfig() Config {
	return Config{MinFret: 0, MaxFret: 3, InputMode: ModePicker}
}

// Validate checks 0 <= MinFret <= MaxFret <= PickerMaxFret and the mode
func (c Config) Validate() error {
	if c.MinFret < 0 || c.MaxFret > fretboard.PickerMaxFret || c.MinFret > c.MaxFret {
		return fmt.Errorf("%w: %d-%d", ErrInvalidRange, c.MinFret, c.MaxFret)
	}
	if _, err := ParseInputMode(string(c.InputMode)); err != nil {
		return err
	}
	return nil
}
