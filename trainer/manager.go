package trainer

import (
	"math/rand"
	"sync"
	"time"

	"fretnote/debug"
	"fretnote/fretboard"
)

// DefaultAdvanceDelay is how long a finished round stays on screen
const DefaultAdvanceDelay = 800 * time.Millisecond

// Manager owns one training session: configuration, round generation,
// evaluation and the deferred advance to the next round. It is the single
// mutation path for its Session.
type Manager struct {
	mu        sync.Mutex
	cfg       Config
	layout    fretboard.Layout
	gen       *Generator
	session   *Session
	scheduler Scheduler
	feedback  Feedback
	delay     time.Duration
	rng       *rand.Rand

	// Notify UI of updates
	UpdateChan chan struct{}
}

// Option configures a Manager
type Option func(*Manager)

func WithLayout(l fretboard.Layout) Option {
	return func(m *Manager) { m.layout = l }
}

func WithRand(rng *rand.Rand) Option {
	return func(m *Manager) { m.rng = rng }
}

func WithScheduler(s Scheduler) Option {
	return func(m *Manager) { m.scheduler = s }
}

func WithFeedback(f Feedback) Option {
	return func(m *Manager) { m.feedback = f }
}

func WithAdvanceDelay(d time.Duration) Option {
	return func(m *Manager) { m.delay = d }
}

// NewManager creates a manager for cfg. Call Start to deal the first round.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Manager{
		cfg:        cfg,
		layout:     fretboard.Standard,
		session:    NewSession(),
		scheduler:  TimerScheduler{},
		delay:      DefaultAdvanceDelay,
		UpdateChan: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.gen = NewGenerator(m.layout, m.rng)
	return m, nil
}

// Start deals the first round
func (m *Manager) Start() {
	m.NextRound()
}

// NextRound replaces the current round with a freshly generated one
func (m *Manager) NextRound() {
	m.mu.Lock()
	cfg := m.cfg
	r := m.gen.Generate(cfg)
	m.session.Install(r)
	m.mu.Unlock()

	debug.Log("trainer", "new round notes=%v window=%d-%d", pitches(r), cfg.MinFret, cfg.MaxFret)
	if len(r.Notes) == 0 {
		debug.Log("trainer", "empty pool, nothing to play")
	}
	m.notifyUpdate()
}

// advance is the deferred step out of RoundComplete. A stray call after the
// round was already replaced does nothing.
func (m *Manager) advance() {
	if m.session.Phase() != RoundComplete {
		return
	}
	m.NextRound()
}

// Submit scores a candidate against the current target
func (m *Manager) Submit(c Candidate) (Outcome, error) {
	m.mu.Lock()
	out, err := m.session.Evaluate(m.layout, c)
	m.mu.Unlock()
	if err != nil {
		debug.Log("trainer", "rejected candidate %+v: %v", c, err)
		return out, err
	}

	switch out.Verdict {
	case Ignored:
		return out, nil
	case Correct:
		debug.Log("trainer", "correct %s at %d", out.Guess, out.Index)
	case Incorrect:
		debug.Log("trainer", "incorrect guess=%s target=%s", out.Guess, out.Target)
	}

	if m.feedback != nil {
		m.feedback.Feedback(out.Guess, out.Verdict)
	}
	if out.RoundComplete {
		debug.Log("trainer", "round complete, total=%d", out.Completed)
		m.scheduler.After(m.delay, m.advance)
	}
	m.notifyUpdate()
	return out, nil
}

// SubmitFrom scores whatever the input surface currently selects
func (m *Manager) SubmitFrom(src CandidateSource) (Outcome, error) {
	return m.Submit(src.Candidate())
}

// Config returns the active configuration
func (m *Manager) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// ApplyConfig saves new settings and deals a new round for them.
// An invalid config is rejected and leaves everything unchanged.
func (m *Manager) ApplyConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.cfg = cfg
	m.mu.Unlock()
	debug.Log("trainer", "settings saved %+v", cfg)
	m.NextRound()
	return nil
}

// SetInputMode switches the answer surface without dealing a new round
func (m *Manager) SetInputMode(mode InputMode) error {
	if _, err := ParseInputMode(string(mode)); err != nil {
		return err
	}
	m.mu.Lock()
	m.cfg.InputMode = mode
	m.mu.Unlock()
	m.notifyUpdate()
	return nil
}

func (m *Manager) Layout() fretboard.Layout {
	return m.layout
}

func (m *Manager) Snapshot() Snapshot {
	return m.session.Snapshot()
}

func (m *Manager) Completed() int {
	return m.session.Completed()
}

// StaffLayout projects the current round for rendering
func (m *Manager) StaffLayout() StaffLayout {
	return Project(m.session.Snapshot().Round)
}

// DisplayInfo labels a coordinate for the picker readout
func (m *Manager) DisplayInfo(c Coordinate) (DisplayInfo, error) {
	return Describe(m.layout, c)
}

func (m *Manager) notifyUpdate() {
	select {
	case m.UpdateChan <- struct{}{}:
	default:
	}
}

func pitches(r Round) []fretboard.Pitch {
	out := make([]fretboard.Pitch, len(r.Notes))
	for i, n := range r.Notes {
		out[i] = n.Pitch
	}
	return out
}
