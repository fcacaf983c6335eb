package midi

import (
	"fmt"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"fretnote/debug"
	"fretnote/fretboard"
	"fretnote/trainer"
)

const toneLength = 600 * time.Millisecond

// Output sends answer feedback as notes to an external synth
type Output struct {
	name     string
	channel  uint8
	velocity uint8

	mu   sync.Mutex
	send func(gomidi.Message) error
}

// OpenOutput opens the first output port whose name contains name (case-insensitive)
func OpenOutput(name string, channel, velocity uint8) (*Output, error) {
	out, err := gomidi.FindOutPort(name)
	if err != nil {
		var match string
		_, outs, _ := ListPorts(3 * time.Second)
		for _, o := range outs {
			if strings.Contains(strings.ToLower(o), strings.ToLower(name)) {
				match = o
				break
			}
		}
		if match == "" {
			return nil, fmt.Errorf("output %q not found", name)
		}
		if out, err = gomidi.FindOutPort(match); err != nil {
			return nil, err
		}
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output %q: %w", name, err)
	}
	debug.Log("midi", "output opened %s", out.String())
	return newOutput(out.String(), channel, velocity, send), nil
}

func newOutput(name string, channel, velocity uint8, send func(gomidi.Message) error) *Output {
	if velocity == 0 {
		velocity = 100
	}
	return &Output{name: name, channel: channel & 0x0F, velocity: velocity, send: send}
}

func (o *Output) Name() string { return o.name }

// Play sounds a pitch for the tone length
func (o *Output) Play(p fretboard.Pitch, velocity uint8) {
	if p < 0 || p > 127 {
		return
	}
	key := uint8(p)
	o.write(gomidi.NoteOn(o.channel, key, velocity))
	time.AfterFunc(toneLength, func() {
		o.write(gomidi.NoteOff(o.channel, key))
	})
}

// Feedback plays the guessed pitch, softer when wrong
func (o *Output) Feedback(guess fretboard.Pitch, v trainer.Verdict) {
	vel := o.velocity
	if v == trainer.Incorrect {
		vel /= 2
	}
	o.Play(guess, vel)
}

func (o *Output) write(msg gomidi.Message) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.send == nil {
		return
	}
	if err := o.send(msg); err != nil {
		debug.Log("midi", "send %s: %v", msg, err)
	}
}

// Close silences the channel. The port itself is closed with the driver.
func (o *Output) Close() {
	o.write(gomidi.ControlChange(o.channel, 123, 0)) // all notes off
	o.mu.Lock()
	o.send = nil
	o.mu.Unlock()
}
