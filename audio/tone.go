package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"fretnote/debug"
	"fretnote/fretboard"
	"fretnote/trainer"
)

const (
	SampleRate = beep.SampleRate(44100)

	toneLength = time.Second
	attack     = 20 * time.Millisecond
	peak       = 0.5
	// buzzPitch is played under a wrong answer
	buzzPitch fretboard.Pitch = 28
	buzzGain                  = -0.6
)

// TonePlayer plays a plucked tone for each scored answer. If the speaker
// cannot be opened it stays silent.
type TonePlayer struct {
	mu    sync.Mutex
	ready bool
	muted bool
}

// NewTonePlayer opens the speaker. A failure is returned but the player is
// still usable (silent).
func NewTonePlayer() (*TonePlayer, error) {
	tp := &TonePlayer{}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		debug.Log("audio", "speaker init failed: %v", err)
		return tp, err
	}
	tp.ready = true
	return tp, nil
}

// SetMuted silences playback without closing the speaker
func (tp *TonePlayer) SetMuted(m bool) {
	tp.mu.Lock()
	tp.muted = m
	tp.mu.Unlock()
}

func (tp *TonePlayer) canPlay() bool {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.ready && !tp.muted
}

// Play sounds a pitch
func (tp *TonePlayer) Play(p fretboard.Pitch) {
	if !tp.canPlay() {
		return
	}
	s, err := Pluck(p, toneLength)
	if err != nil {
		debug.Log("audio", "tone %s: %v", p, err)
		return
	}
	speaker.Play(s)
}

// Feedback plays the guessed pitch, with a low buzz under a wrong answer
func (tp *TonePlayer) Feedback(guess fretboard.Pitch, v trainer.Verdict) {
	if !tp.canPlay() {
		return
	}
	s, err := Pluck(guess, toneLength)
	if err != nil {
		debug.Log("audio", "tone %s: %v", guess, err)
		return
	}
	if v == trainer.Incorrect {
		if buzz, err := Pluck(buzzPitch, toneLength/3); err == nil {
			s = beep.Mix(s, &effects.Gain{Streamer: buzz, Gain: buzzGain})
		}
	}
	speaker.Play(s)
}

// Close stops the speaker
func (tp *TonePlayer) Close() {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	if tp.ready {
		speaker.Close()
		tp.ready = false
	}
}

// Pluck builds a finite tone at p with a fast attack and exponential decay
func Pluck(p fretboard.Pitch, length time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(SampleRate, p.Frequency())
	if err != nil {
		return nil, err
	}
	n := SampleRate.N(length)
	return beep.Take(n, envelope(sine, SampleRate.N(attack), n)), nil
}

// envelope ramps linearly to peak over attackN samples, then decays to
// ~0.001 of peak by totalN samples.
func envelope(s beep.Streamer, attackN, totalN int) beep.Streamer {
	pos := 0
	decayN := float64(totalN - attackN)
	if decayN < 1 {
		decayN = 1
	}
	rate := math.Log(0.001/peak) / decayN
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := 0; i < n; i++ {
			var g float64
			if pos < attackN {
				g = peak * float64(pos) / float64(attackN)
			} else {
				g = peak * math.Exp(rate*float64(pos-attackN))
			}
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return n, ok
	})
}
