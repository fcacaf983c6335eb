package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"fretnote/debug"
)

// KeyboardController turns note-ons from a keyboard or MIDI guitar into
// note events. Channel 0 listens on all channels; 1-16 filters.
type KeyboardController struct {
	id       string
	channel  int
	stopFunc func()

	padChan  chan PadEvent
	noteChan chan NoteEvent
}

// NewKeyboardController creates a keyboard controller (input only)
func NewKeyboardController(id string, inPort drivers.In, channel int) (*KeyboardController, error) {
	kb := &KeyboardController{
		id:       id,
		channel:  channel,
		padChan:  make(chan PadEvent),
		noteChan: make(chan NoteEvent, 32),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, _ int32) {
			var ch, note, vel uint8
			if msg.GetNoteOn(&ch, &note, &vel) {
				kb.emit(ch, note, vel)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		kb.stopFunc = stop
	}

	return kb, nil
}

// emit forwards a note-on, skipping zero velocity (running-status note-off)
// and filtered channels
func (kb *KeyboardController) emit(ch, note, vel uint8) bool {
	if vel == 0 {
		return false
	}
	if kb.channel > 0 && int(ch)+1 != kb.channel {
		return false
	}
	select {
	case kb.noteChan <- NoteEvent{Note: note, Velocity: vel, Channel: ch}:
		return true
	default:
		debug.Log("keyboard", "note dropped %d", note)
		return false
	}
}

func (kb *KeyboardController) ID() string                   { return kb.id }
func (kb *KeyboardController) Type() ControllerType         { return ControllerKeyboard }
func (kb *KeyboardController) PadEvents() <-chan PadEvent   { return kb.padChan }
func (kb *KeyboardController) NoteEvents() <-chan NoteEvent { return kb.noteChan }

// SetLEDBatch is a no-op for keyboards
func (kb *KeyboardController) SetLEDBatch(updates []LEDUpdate) error {
	return nil
}

func (kb *KeyboardController) Close() error {
	if kb.stopFunc != nil {
		kb.stopFunc()
	}
	close(kb.padChan)
	close(kb.noteChan)
	return nil
}
