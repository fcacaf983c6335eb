package midi

import (
	"sync"
	"testing"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fretnote/trainer"
)

func TestNoteRowColRoundTrip(t *testing.T) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 9; col++ {
			r, c := noteToRowCol(rowColToNote(row, col))
			assert.Equal(t, row, r)
			assert.Equal(t, col, c)
		}
	}
	r, c := noteToRowCol(95)
	assert.Equal(t, 8, r)
	assert.Equal(t, 4, c)
	r, _ = noteToRowCol(5)
	assert.Equal(t, -1, r)
	r, _ = ccToRowCol(20)
	assert.Equal(t, -1, r)
}

func TestNearestPaletteColor(t *testing.T) {
	assert.Equal(t, uint8(0), nearestPaletteColor([3]uint8{0, 0, 0}))
	assert.Equal(t, uint8(21), nearestPaletteColor(colorCorrect))
	assert.Equal(t, uint8(5), nearestPaletteColor(colorWrong))
	assert.Equal(t, uint8(119), nearestPaletteColor([3]uint8{250, 250, 250}))
}

func TestFretWindowMapping(t *testing.T) {
	w := WindowFor(trainer.Config{MinFret: 3, MaxFret: 6, InputMode: trainer.ModeFretboard})
	assert.Equal(t, 3, w.Start)

	c, ok := w.Coordinate(7, 0)
	require.True(t, ok)
	assert.Equal(t, trainer.Coordinate{String: 1, Fret: 3}, c)

	c, ok = w.Coordinate(2, 7)
	require.True(t, ok)
	assert.Equal(t, trainer.Coordinate{String: 6, Fret: 10}, c)

	_, ok = w.Coordinate(1, 0)
	assert.False(t, ok)
	_, ok = w.Coordinate(4, 8)
	assert.False(t, ok)

	row, col, ok := w.Pad(trainer.Coordinate{String: 6, Fret: 10})
	require.True(t, ok)
	assert.Equal(t, 2, row)
	assert.Equal(t, 7, col)
	_, _, ok = w.Pad(trainer.Coordinate{String: 1, Fret: 2})
	assert.False(t, ok)
}

func TestFretWindowClamp(t *testing.T) {
	w := WindowFor(trainer.Config{MinFret: 15, MaxFret: 15, InputMode: trainer.ModePicker})
	assert.Equal(t, 9, w.Start)
	w.Shift(5)
	assert.Equal(t, 9, w.Start)
	w.Shift(-20)
	assert.Equal(t, 0, w.Start)
}

func TestFrameColors(t *testing.T) {
	cfg := trainer.Config{MinFret: 0, MaxFret: 3, InputMode: trainer.ModeFretboard}
	frame := WindowFor(cfg).Frame(cfg)
	colors := map[[2]int][3]uint8{}
	for _, u := range frame {
		colors[[2]int{u.Row, u.Col}] = u.Color
	}
	assert.Len(t, frame, 8*8+2)
	assert.Equal(t, colorInWindow, colors[[2]int{7, 3}])
	assert.Equal(t, colorInlay, colors[[2]int{7, 5}])
	assert.Equal(t, colorOutside, colors[[2]int{7, 4}])
	assert.Equal(t, colorOff, colors[[2]int{0, 0}])
	assert.Equal(t, colorOff, colors[[2]int{8, arrowLeft}])
	assert.Equal(t, colorArrow, colors[[2]int{8, arrowRight}])
}

// fakeController records LED writes and lets tests push events
type fakeController struct {
	mu    sync.Mutex
	pads  chan PadEvent
	notes chan NoteEvent
	leds  [][]LEDUpdate
}

func newFakeController() *fakeController {
	return &fakeController{pads: make(chan PadEvent, 8), notes: make(chan NoteEvent, 8)}
}

func (f *fakeController) ID() string                   { return "fake" }
func (f *fakeController) Type() ControllerType         { return ControllerLaunchpad }
func (f *fakeController) PadEvents() <-chan PadEvent   { return f.pads }
func (f *fakeController) NoteEvents() <-chan NoteEvent { return f.notes }
func (f *fakeController) SetLEDBatch(u []LEDUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leds = append(f.leds, u)
	return nil
}
func (f *fakeController) Close() error {
	close(f.pads)
	close(f.notes)
	return nil
}

type fakeSubmitter struct {
	mu   sync.Mutex
	cfg  trainer.Config
	got  []trainer.Candidate
	want trainer.Candidate
}

func (s *fakeSubmitter) Submit(c trainer.Candidate) (trainer.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, c)
	if c == s.want {
		return trainer.Outcome{Verdict: trainer.Correct}, nil
	}
	return trainer.Outcome{Verdict: trainer.Incorrect}, nil
}

func (s *fakeSubmitter) Config() trainer.Config { return s.cfg }

func TestBridgeForwardsPadsAndNotes(t *testing.T) {
	ctrl := newFakeController()
	sub := &fakeSubmitter{
		cfg:  trainer.Config{MinFret: 2, MaxFret: 5, InputMode: trainer.ModeFretboard},
		want: trainer.Coordinate{String: 2, Fret: 3},
	}
	b := NewBridge(ctrl, sub)

	done := make(chan struct{})
	go func() {
		b.Run()
		close(done)
	}()

	ctrl.pads <- PadEvent{Row: 6, Col: 1, Velocity: 100} // string 2, fret 3
	ctrl.pads <- PadEvent{Row: 8, Col: arrowRight, Velocity: 100}
	ctrl.notes <- NoteEvent{Note: 64, Velocity: 90}
	ctrl.Close()
	<-done

	require.Len(t, sub.got, 2)
	assert.Contains(t, sub.got, trainer.Candidate(trainer.Coordinate{String: 2, Fret: 3}))
	assert.Contains(t, sub.got, trainer.Candidate(trainer.PitchGuess(64)))
	assert.Equal(t, 3, b.Window().Start)

	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	var flashed bool
	for _, batch := range ctrl.leds {
		if len(batch) == 1 && batch[0].Color == colorCorrect {
			flashed = true
		}
	}
	assert.True(t, flashed)
}

func TestKeyboardEmitFilters(t *testing.T) {
	kb := &KeyboardController{channel: 2, noteChan: make(chan NoteEvent, 4)}
	assert.False(t, kb.emit(1, 60, 0)) // velocity 0 is a note-off
	assert.False(t, kb.emit(0, 60, 90)) // channel 1, filtered
	assert.True(t, kb.emit(1, 60, 90))
	assert.Equal(t, NoteEvent{Note: 60, Velocity: 90, Channel: 1}, <-kb.noteChan)
}

func TestClassify(t *testing.T) {
	dm := NewDeviceManager()
	assert.Equal(t, ControllerLaunchpad, dm.classify("Launchpad X LPX MIDI"))
	assert.Equal(t, ControllerUnknown, dm.classify("Launchpad X LPX DAW"))
	assert.Equal(t, ControllerUnknown, dm.classify("Midi Through Port-0"))
	assert.Equal(t, ControllerKeyboard, dm.classify("Fishman TriplePlay"))

	dm.IgnorePort("FluidSynth")
	assert.Equal(t, ControllerUnknown, dm.classify("fluidsynth"))

	dm.SetFilter(func(name string) bool { return name != "Keystation 49" })
	assert.Equal(t, ControllerUnknown, dm.classify("Keystation 49"))
	assert.Equal(t, ControllerKeyboard, dm.classify("Fishman TriplePlay"))
}

func TestOutputFeedback(t *testing.T) {
	var mu sync.Mutex
	var sent []gomidi.Message
	o := newOutput("test", 0, 100, func(m gomidi.Message) error {
		mu.Lock()
		sent = append(sent, m)
		mu.Unlock()
		return nil
	})

	o.Feedback(64, trainer.Incorrect)
	mu.Lock()
	require.NotEmpty(t, sent)
	var ch, key, vel uint8
	require.True(t, sent[0].GetNoteOn(&ch, &key, &vel))
	mu.Unlock()
	assert.Equal(t, uint8(64), key)
	assert.Equal(t, uint8(50), vel)

	o.Play(200, 100) // out of MIDI range, ignored
	o.Close()
	o.Play(60, 100) // closed, nothing sent
	mu.Lock()
	defer mu.Unlock()
	var on int
	for _, m := range sent {
		if m.GetNoteOn(&ch, &key, &vel) {
			on++
		}
	}
	assert.Equal(t, 1, on)
}
