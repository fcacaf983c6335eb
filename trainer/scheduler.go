package trainer

import (
	"time"

	"fretnote/fretboard"
)

// Scheduler runs fn once after d
type Scheduler interface {
	After(d time.Duration, fn func())
}

// SchedulerFunc adapts a function to Scheduler
type SchedulerFunc func(d time.Duration, fn func())

func (f SchedulerFunc) After(d time.Duration, fn func()) { f(d, fn) }

// TimerScheduler fires callbacks on a runtime timer goroutine
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

// Feedback receives the classification of every scored answer so it can
// play a tone, buzz, flash LEDs...
type Feedback interface {
	Feedback(guess fretboard.Pitch, v Verdict)
}

// FeedbackFunc adapts a function to Feedback
type FeedbackFunc func(guess fretboard.Pitch, v Verdict)

func (f FeedbackFunc) Feedback(guess fretboard.Pitch, v Verdict) { f(guess, v) }

// MultiFeedback fans one answer out to several sinks
type MultiFeedback []Feedback

func (m MultiFeedback) Feedback(guess fretboard.Pitch, v Verdict) {
	for _, f := range m {
		if f != nil {
			f.Feedback(guess, v)
		}
	}
}
