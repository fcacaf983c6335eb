package audio

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fretnote/trainer"
)

func drain(t *testing.T, length time.Duration) [][2]float64 {
	t.Helper()
	s, err := Pluck(69, length)
	require.NoError(t, err)

	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok || n == 0 {
			break
		}
	}
	return out
}

func peakAbs(samples [][2]float64) float64 {
	m := 0.0
	for _, s := range samples {
		m = math.Max(m, math.Abs(s[0]))
	}
	return m
}

func TestPluckLength(t *testing.T) {
	samples := drain(t, 100*time.Millisecond)
	assert.Len(t, samples, SampleRate.N(100*time.Millisecond))
}

func TestPluckEnvelope(t *testing.T) {
	samples := drain(t, time.Second)
	attackN := SampleRate.N(attack)

	assert.InDelta(t, 0, samples[0][0], 1e-9)
	head := peakAbs(samples[attackN : attackN+200])
	tail := peakAbs(samples[len(samples)-200:])
	assert.LessOrEqual(t, head, peak+1e-9)
	assert.Greater(t, head, 0.4)
	assert.Less(t, tail, 0.01)
}

func TestSilentPlayerIgnoresFeedback(t *testing.T) {
	tp := &TonePlayer{}
	tp.Feedback(64, trainer.Incorrect) // speaker never opened; must not block or panic
	tp.Play(64)
	tp.SetMuted(true)
	assert.False(t, tp.canPlay())
	tp.Close()
}
