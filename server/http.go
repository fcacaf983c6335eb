package server

import "fretnote/trainer"

type ErrorResponse struct {
	Error string `json:"detail"`
}

// SessionResponse is the full state of one session
type SessionResponse struct {
	ID        string              `json:"id"`
	Config    trainer.Config      `json:"config"`
	Snapshot  trainer.Snapshot    `json:"snapshot"`
	Completed int                 `json:"completed"`
	Layout    trainer.StaffLayout `json:"layout"`
}

// AnswerRequest is either a coordinate or a pitch
type AnswerRequest struct {
	String *int `json:"string,omitempty"`
	Fret   *int `json:"fret,omitempty"`
	Pitch  *int `json:"pitch,omitempty"`
}

func (a AnswerRequest) candidate() (trainer.Candidate, bool) {
	switch {
	case a.Pitch != nil:
		return trainer.PitchGuess(*a.Pitch), true
	case a.String != nil && a.Fret != nil:
		return trainer.Coordinate{String: *a.String, Fret: *a.Fret}, true
	}
	return nil, false
}

// AnswerResponse is the outcome plus the session it produced
type AnswerResponse struct {
	Outcome trainer.Outcome `json:"outcome"`
	Session SessionResponse `json:"session"`
}
