package audio

import (
	"github.com/lixenwraith/cfart/game"
	"github.com/lixenwraith/cfart/session"
)

// Cue is a feedback sound tied to a session event
type Cue int

const (
	CueSpawn    Cue = iota // target appeared
	CueHit                 // outer-ring hit
	CueBullseye            // inner-ring hit
	CueMiss                // click outside the outer ring
	CueFinish              // last trial recorded
	cueCount
)

// String returns the cue name
func (c Cue) String() string {
	switch c {
	case CueSpawn:
		return "spawn"
	case CueHit:
		return "hit"
	case CueBullseye:
		return "bullseye"
	case CueMiss:
		return "miss"
	case CueFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// CueFor maps a frame event to its cue. Finishing takes precedence over the
// hit that caused it.
func CueFor(ev session.Event) (Cue, bool) {
	if ev.Finished {
		return CueFinish, true
	}
	switch ev.Outcome {
	case game.OutcomeSpawned:
		return CueSpawn, true
	case game.OutcomeHit:
		return CueHit, true
	case game.OutcomeBullseye:
		return CueBullseye, true
	case game.OutcomeMiss:
		return CueMiss, true
	default:
		return 0, false
	}
}
