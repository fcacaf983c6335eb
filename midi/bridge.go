package midi

import (
	"sync"
	"time"

	"fretnote/debug"
	"fretnote/trainer"
)

const flashLength = 400 * time.Millisecond

// Submitter is the part of trainer.Manager a controller needs
type Submitter interface {
	Submit(c trainer.Candidate) (trainer.Outcome, error)
	Config() trainer.Config
}

// Bridge feeds a controller's input into a training session: grid pads
// become coordinates, keyboard notes become pitch guesses.
type Bridge struct {
	ctrl   Controller
	target Submitter

	mu     sync.Mutex
	window FretWindow
}

// NewBridge creates a bridge; call Run to start forwarding
func NewBridge(ctrl Controller, target Submitter) *Bridge {
	return &Bridge{
		ctrl:   ctrl,
		target: target,
		window: WindowFor(target.Config()),
	}
}

// Window returns the current fret window
func (b *Bridge) Window() FretWindow {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.window
}

// Run forwards events until the controller's channels close
func (b *Bridge) Run() {
	b.Repaint()

	pads, notes := b.ctrl.PadEvents(), b.ctrl.NoteEvents()
	for pads != nil || notes != nil {
		select {
		case pad, ok := <-pads:
			if !ok {
				pads = nil
				continue
			}
			b.HandlePad(pad)
		case note, ok := <-notes:
			if !ok {
				notes = nil
				continue
			}
			b.HandleNote(note)
		}
	}
	debug.Log("midi", "bridge for %s stopped", b.ctrl.ID())
}

// Repaint redraws the grid for the current settings
func (b *Bridge) Repaint() {
	b.mu.Lock()
	frame := b.window.Frame(b.target.Config())
	b.mu.Unlock()
	b.ctrl.SetLEDBatch(frame)
}

// Reset moves the window back to the start of the training range
func (b *Bridge) Reset() {
	b.mu.Lock()
	b.window = WindowFor(b.target.Config())
	b.mu.Unlock()
	b.Repaint()
}

// HandlePad submits the pressed position or moves the window
func (b *Bridge) HandlePad(pad PadEvent) {
	if pad.Row == 8 {
		b.mu.Lock()
		switch pad.Col {
		case arrowLeft:
			b.window.Shift(-1)
		case arrowRight:
			b.window.Shift(1)
		}
		b.mu.Unlock()
		b.Repaint()
		return
	}

	b.mu.Lock()
	coord, ok := b.window.Coordinate(pad.Row, pad.Col)
	b.mu.Unlock()
	if !ok {
		return
	}

	out, err := b.target.Submit(coord)
	if err != nil {
		debug.Log("midi", "pad %d,%d: %v", pad.Row, pad.Col, err)
		return
	}
	if out.Verdict == trainer.Ignored {
		return
	}
	b.ctrl.SetLEDBatch([]LEDUpdate{VerdictLED(pad.Row, pad.Col, out.Verdict)})
	time.AfterFunc(flashLength, b.Repaint)
}

// HandleNote submits a played note as a pitch guess
func (b *Bridge) HandleNote(note NoteEvent) {
	if _, err := b.target.Submit(trainer.PitchGuess(note.Note)); err != nil {
		debug.Log("midi", "note %d: %v", note.Note, err)
	}
}
