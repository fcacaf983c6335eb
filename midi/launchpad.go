package midi

import (
	"fmt"
	"sync/atomic"

	"fretnote/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

var ledSendCount uint64

// Launchpad X SysEx bodies (without F0/F7)
var (
	sysexProgrammerMode = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}
	sysexBrightnessMax  = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}
	sysexLEDFeedback    = []byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x0A, 0x01, 0x01}
)

// LaunchpadController drives a Novation Launchpad X in programmer mode
type LaunchpadController struct {
	id       string
	send     func(msg gomidi.Message) error
	stopFunc func()

	padChan  chan PadEvent
	noteChan chan NoteEvent
}

// NewLaunchpadController opens the ports and switches the device to programmer mode
func NewLaunchpadController(id string, inPort drivers.In, outPort drivers.Out) (*LaunchpadController, error) {
	lp := &LaunchpadController{
		id:       id,
		padChan:  make(chan PadEvent, 32),
		noteChan: make(chan NoteEvent, 32),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		lp.send = send
		for _, body := range [][]byte{sysexProgrammerMode, sysexBrightnessMax, sysexLEDFeedback} {
			if err := lp.send(gomidi.SysEx(body)); err != nil {
				debug.Log("launchpad", "sysex failed: %v", err)
			}
		}
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, lp.handle)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		lp.stopFunc = stop
	}

	return lp, nil
}

func (lp *LaunchpadController) handle(msg gomidi.Message, _ int32) {
	var channel, key, value uint8
	row, col := -1, -1

	switch {
	case msg.GetNoteOn(&channel, &key, &value) && value > 0:
		row, col = noteToRowCol(key)
	case msg.GetControlChange(&channel, &key, &value) && value > 0:
		row, col = ccToRowCol(key)
	}
	if row < 0 {
		return
	}
	select {
	case lp.padChan <- PadEvent{Row: row, Col: col, Velocity: value}:
	default:
		debug.Log("launchpad", "pad event dropped row=%d col=%d", row, col)
	}
}

func (lp *LaunchpadController) ID() string                   { return lp.id }
func (lp *LaunchpadController) Type() ControllerType         { return ControllerLaunchpad }
func (lp *LaunchpadController) PadEvents() <-chan PadEvent   { return lp.padChan }
func (lp *LaunchpadController) NoteEvents() <-chan NoteEvent { return lp.noteChan }

// SetLEDBatch sends one NoteOn per pad
func (lp *LaunchpadController) SetLEDBatch(updates []LEDUpdate) error {
	if lp.send == nil || len(updates) == 0 {
		return nil
	}
	for _, u := range updates {
		if err := lp.send(gomidi.NoteOn(u.Channel, rowColToNote(u.Row, u.Col), nearestPaletteColor(u.Color))); err != nil {
			return err
		}
	}
	count := atomic.AddUint64(&ledSendCount, uint64(len(updates)))
	debug.LogEvery(20, "launchpad", "led batch size=%d total=%d", len(updates), count)
	return nil
}

// Close blanks the grid and stops listening
func (lp *LaunchpadController) Close() error {
	var updates []LEDUpdate
	for row := 0; row < 9; row++ {
		for col := 0; col < 9; col++ {
			if row == 8 && col == 8 {
				continue // no LED at 8,8
			}
			updates = append(updates, LEDUpdate{Row: row, Col: col})
		}
	}
	lp.SetLEDBatch(updates)
	if lp.stopFunc != nil {
		lp.stopFunc()
	}
	close(lp.padChan)
	close(lp.noteChan)
	return nil
}

// launchpadPalette holds approximate RGB values for a subset of the Launchpad X
// velocity palette: {velocity, R, G, B}
var launchpadPalette = [][4]uint8{
	{0, 0, 0, 0},
	{3, 180, 180, 180},
	{5, 255, 0, 0},
	{7, 180, 60, 60},
	{9, 255, 100, 0},
	{13, 255, 200, 0},
	{19, 0, 100, 0},
	{21, 0, 255, 0},
	{37, 0, 200, 200},
	{43, 40, 60, 120},
	{45, 0, 100, 255},
	{49, 150, 0, 200},
	{53, 255, 80, 180},
	{71, 40, 40, 40},
	{97, 180, 180, 60},
	{119, 255, 255, 255},
}

// nearestPaletteColor picks the palette velocity closest to rgb
func nearestPaletteColor(rgb [3]uint8) uint8 {
	best, bestDist := uint8(0), -1
	for _, p := range launchpadPalette {
		dr, dg, db := int(rgb[0])-int(p[1]), int(rgb[1])-int(p[2]), int(rgb[2])-int(p[3])
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			best, bestDist = p[0], dist
		}
	}
	return best
}

// Launchpad X programmer-mode layout:
//
//	grid rows 0 (bottom)..7 = notes 11-18 .. 81-88
//	right column (col 8) = notes 19, 29 .. 89
//	top row (row 8) = CC 91-98, lit with the same numbers as notes

func rowColToNote(row, col int) uint8 {
	if row == 8 {
		return uint8(91 + col)
	}
	return uint8((row+1)*10 + col + 1)
}

func noteToRowCol(note uint8) (row, col int) {
	if note >= 91 && note <= 98 {
		return 8, int(note - 91)
	}
	row = int(note/10) - 1
	col = int(note%10) - 1
	if row < 0 || row > 7 || col < 0 || col > 8 {
		return -1, -1
	}
	return row, col
}

func ccToRowCol(cc uint8) (row, col int) {
	if cc >= 91 && cc <= 98 {
		return 8, int(cc - 91)
	}
	return -1, -1
}
