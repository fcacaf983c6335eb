package trainer

import (
	"math/rand"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"fretnote/fretboard"
)

const RoundSize = 4

// Targets are limited to this inclusive range regardless of the fret window
const (
	MinAudible fretboard.Pitch = 40
	MaxAudible fretboard.Pitch = 84
)

// Note is one target in a round
type Note struct {
	Pitch fretboard.Pitch `json:"pitch"`
	Done  bool            `json:"done"`
}

// Round is the ordered set of targets the player works through
type Round struct {
	Notes    []Note `json:"notes"`
	Index    int    `json:"index"`
	Finished bool   `json:"finished"`
}

// Current returns the note awaiting an answer
func (r Round) Current() (Note, bool) {
	if r.Finished || r.Index >= len(r.Notes) {
		return Note{}, false
	}
	return r.Notes[r.Index], true
}

func (r Round) clone() Round {
	c := r
	c.Notes = slices.Clone(r.Notes)
	return c
}

// Generator samples rounds from the pitches reachable in a fret window.
// Not safe for concurrent use; Manager serializes access.
type Generator struct {
	layout fretboard.Layout
	rng    *rand.Rand
	size   int
}

// NewGenerator creates a generator. A nil rng is seeded from the clock.
func NewGenerator(layout fretboard.Layout, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{layout: layout, rng: rng, size: RoundSize}
}

// Pool returns the distinct audible pitches playable within cfg's window, ascending
func (g *Generator) Pool(cfg Config) []fretboard.Pitch {
	set := make(map[fretboard.Pitch]struct{})
	for s := 1; s <= fretboard.NumStrings; s++ {
		for f := cfg.MinFret; f <= cfg.MaxFret; f++ {
			p, err := g.layout.PitchOf(s, f)
			if err != nil {
				continue
			}
			if p >= MinAudible && p <= MaxAudible {
				set[p] = struct{}{}
			}
		}
	}
	pool := maps.Keys(set)
	slices.Sort(pool)
	return pool
}

// Generate draws RoundSize pitches from the pool with replacement, so a
// round may repeat a pitch. An empty pool yields an empty round.
func (g *Generator) Generate(cfg Config) Round {
	pool := g.Pool(cfg)
	r := Round{Notes: make([]Note, 0, g.size)}
	for i := 0; i < g.size; i++ {
		if len(pool) > 0 {
			r.Notes = append(r.Notes, Note{Pitch: pool[g.rng.Intn(len(pool))]})
		}
	}
	return r
}
