package game

import (
	"github.com/lixenwraith/cfart/geom"
	"github.com/lixenwraith/cfart/trial"
)

// Outcome describes what a click did to the machine
type Outcome int

const (
	OutcomeNone     Outcome = iota // ignored, no state change
	OutcomeSpawned                 // center click armed a new target
	OutcomeMiss                    // live target clicked outside the outer ring
	OutcomeHit                     // outer-ring hit recorded
	OutcomeBullseye                // inner-ring hit recorded
)

// String returns the outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeSpawned:
		return "spawned"
	case OutcomeMiss:
		return "miss"
	case OutcomeHit:
		return "hit"
	case OutcomeBullseye:
		return "bullseye"
	default:
		return "none"
	}
}

// Recorded reports whether the outcome appended a trial
func (o Outcome) Recorded() bool {
	return o == OutcomeHit || o == OutcomeBullseye
}

// Machine drives State through the trial phases. It is not safe for
// concurrent use; the frame loop owns it.
type Machine struct {
	cfg   Config
	src   IndexSource
	state *State
}

// NewMachine creates a machine waiting at center
func NewMachine(cfg Config, src IndexSource) *Machine {
	if src == nil {
		src = NewTimeSeededSource()
	}
	return &Machine{
		cfg:   cfg,
		src:   src,
		state: NewState(cfg.Trials),
	}
}

// Config returns the active session parameters
func (m *Machine) Config() Config {
	return m.cfg
}

// State returns the live state. Callers must treat it as read-only.
func (m *Machine) State() *State {
	return m.state
}

// Phase returns the current phase
func (m *Machine) Phase() Phase {
	return m.state.Phase
}

// Click feeds one primary-button press at p, received at now (seconds since start)
func (m *Machine) Click(now float64, p geom.Point) Outcome {
	switch m.state.Phase {
	case PhaseWaitingAtCenter:
		if geom.Distance(p, m.cfg.Center()) > m.cfg.CenterRadius {
			return OutcomeNone
		}
		m.beginTrial(now)
		return OutcomeSpawned

	case PhaseTargetLive:
		return m.recordHit(now, p)

	default:
		return OutcomeNone
	}
}

// beginTrial selects a random target and records its spawn time
func (m *Machine) beginTrial(now float64) {
	s := m.state
	s.CurrentTargetIndex = RandomIndex(m.src)
	s.CurrentTargetPos = m.cfg.TargetPosition(s.CurrentTargetIndex)
	s.TargetSpawnTime = now
	m.transition(PhaseTargetLive)
}

// recordHit classifies the click against the live target. Misses leave the
// target live; hits append exactly one trial and advance the phase.
func (m *Machine) recordHit(now float64, p geom.Point) Outcome {
	s := m.state
	outer, inner := trial.Classify(geom.Distance(p, s.CurrentTargetPos), m.cfg.Radii())
	if !outer {
		return OutcomeMiss
	}

	s.Trials = append(s.Trials, trial.New(s.CurrentTargetIndex, s.TargetSpawnTime, now, outer, inner))
	s.TrialsDone++

	if s.TrialsDone >= m.cfg.Trials {
		m.transition(PhaseFinished)
	} else {
		m.transition(PhaseWaitingAtCenter)
	}

	if inner {
		return OutcomeBullseye
	}
	return OutcomeHit
}

// MarkPosted sets the submission latch. Returns true only on the call that
// set it, and only once the session is finished.
func (m *Machine) MarkPosted() bool {
	if m.state.Phase != PhaseFinished || m.state.Posted {
		return false
	}
	m.state.Posted = true
	return true
}

// Reset discards all trials and re-enters WaitingAtCenter. Only legal from Finished.
func (m *Machine) Reset() bool {
	return m.ResetWith(m.cfg)
}

// ResetWith resets like Reset and installs cfg for the next session
func (m *Machine) ResetWith(cfg Config) bool {
	if m.state.Phase != PhaseFinished {
		return false
	}
	m.cfg = cfg
	*m.state = *NewState(cfg.Trials)
	return true
}

func (m *Machine) transition(to Phase) {
	if !CanTransition(m.state.Phase, to) {
		// Unreachable through the public API
		panic("game: illegal transition " + m.state.Phase.String() + " -> " + to.String())
	}
	m.state.Phase = to
}
