package trainer

import (
	"sync"

	"fretnote/fretboard"
)

// Phase of the session state machine
type Phase int

const (
	InProgress Phase = iota
	RoundComplete
)

func (p Phase) String() string {
	if p == RoundComplete {
		return "round-complete"
	}
	return "in-progress"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Snapshot is a copy of session state safe to hand to renderers
type Snapshot struct {
	Round     Round `json:"round"`
	Completed int   `json:"completed"`
	Phase     Phase `json:"phase"`
}

// Session owns the current round and the completed-round counter.
// All mutation goes through Install and Evaluate.
type Session struct {
	mu        sync.Mutex
	round     Round
	completed int
}

func NewSession() *Session {
	return &Session{}
}

// Install replaces the current round
func (s *Session) Install(r Round) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r = r.clone()
	r.Index = 0
	r.Finished = false
	for i := range r.Notes {
		r.Notes[i].Done = false
	}
	s.round = r
}

// Evaluate checks a candidate against the current target and advances on a
// match. With no current target the call is ignored and nothing changes.
// A candidate that cannot be resolved returns its error and changes nothing.
func (s *Session) Evaluate(l fretboard.Layout, c Candidate) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.round.Current()
	if !ok {
		return Outcome{Verdict: Ignored, Index: s.round.Index, Completed: s.completed}, nil
	}
	guess, err := c.Resolve(l)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{
		Verdict:   Incorrect,
		Target:    target.Pitch,
		Guess:     guess,
		Index:     s.round.Index,
		Completed: s.completed,
	}
	if guess != target.Pitch {
		return out, nil
	}

	s.round.Notes[s.round.Index].Done = true
	s.round.Index++
	out.Verdict = Correct
	out.Advanced = true
	if s.round.Index == len(s.round.Notes) {
		s.round.Finished = true
		s.completed++
		out.RoundComplete = true
		out.Completed = s.completed
	}
	return out, nil
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase()
}

func (s *Session) phase() Phase {
	if s.round.Finished {
		return RoundComplete
	}
	return InProgress
}

// Completed returns how many rounds have been finished
func (s *Session) Completed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{Round: s.round.clone(), Completed: s.completed, Phase: s.phase()}
}
