// Package game implements the trial state machine: arm at center, spawn a
// target, record the hit, repeat until the configured trial count is reached.
package game

import (
	"github.com/lixenwraith/cfart/geom"
	"github.com/lixenwraith/cfart/trial"
)

// Phase is the current stage of the trial state machine
type Phase int

const (
	PhaseWaitingAtCenter Phase = iota // waiting for a click inside the center capture radius
	PhaseTargetLive                   // target spawned, waiting for a hit
	PhaseFinished                     // all trials done, export and reset only
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseWaitingAtCenter:
		return "WaitingAtCenter"
	case PhaseTargetLive:
		return "TargetLive"
	case PhaseFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// validTransitions lists every legal phase edge. Finished -> WaitingAtCenter is reset.
var validTransitions = map[Phase][]Phase{
	PhaseWaitingAtCenter: {PhaseTargetLive},
	PhaseTargetLive:      {PhaseWaitingAtCenter, PhaseFinished},
	PhaseFinished:        {PhaseWaitingAtCenter},
}

// CanTransition reports whether from -> to is a legal phase edge
func CanTransition(from, to Phase) bool {
	for _, p := range validTransitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// State is the mutable session state. It is owned by a single Machine and
// read by renderers and exporters; only the Machine writes to it.
type State struct {
	Phase      Phase
	TrialsDone int

	// Valid only while Phase == PhaseTargetLive
	CurrentTargetIndex int
	CurrentTargetPos   geom.Point
	TargetSpawnTime    float64

	// Append-only, TrialsDone == len(Trials)
	Trials []trial.Trial

	// Latch set once the summary has been handed to the submitter
	Posted bool
}

// NewState returns a state waiting at center with no trials
func NewState(capacity int) *State {
	if capacity < 0 {
		capacity = 0
	}
	return &State{
		Phase:  PhaseWaitingAtCenter,
		Trials: make([]trial.Trial, 0, capacity),
	}
}

// LiveReactionMs returns elapsed milliseconds since the current target spawned,
// or 0 when no target is live
func (s *State) LiveReactionMs(now float64) float64 {
	if s.Phase != PhaseTargetLive {
		return 0
	}
	return (now - s.TargetSpawnTime) * 1000.0
}

// DisplayTrial returns the 1-based trial number to show in the HUD: the live
// trial counts as in progress, and the count saturates at total
func (s *State) DisplayTrial(total int) int {
	if s.TrialsDone >= total {
		return total
	}
	if s.Phase == PhaseTargetLive {
		return s.TrialsDone + 1
	}
	return s.TrialsDone
}
