// Package stats derives per-direction and whole-session rollups from the
// trial sequence. Nothing here is stored; callers recompute on demand.
package stats

import (
	"github.com/lixenwraith/cfart/geom"
	"github.com/lixenwraith/cfart/trial"
)

// DirAgg aggregates the trials shown at one clock position
type DirAgg struct {
	N     int     // trials at this direction
	Bulls int     // inner-ring hits
	SumMs float64 // sum of reaction times
	MinMs float64 // 0 when N == 0
	MaxMs float64 // 0 when N == 0
}

// Avg returns the mean reaction time, 0 when there are no samples
func (d DirAgg) Avg() float64 {
	if d.N == 0 {
		return 0
	}
	return d.SumMs / float64(d.N)
}

// BullPct returns 100 * Bulls / N, 0 when there are no samples
func (d DirAgg) BullPct() float64 {
	if d.N == 0 {
		return 0
	}
	return 100.0 * float64(d.Bulls) / float64(d.N)
}

// Directions holds one aggregate per clock index
type Directions [geom.ClockPositions]DirAgg

// ComputeDirectionStats aggregates trials by target index. Directions with no
// trials stay zeroed, including MinMs.
func ComputeDirectionStats(trials []trial.Trial) Directions {
	var dirs Directions
	for _, t := range trials {
		if !geom.ValidIndex(t.TargetIndex) {
			continue
		}
		d := &dirs[t.TargetIndex]
		if d.N == 0 || t.ReactionMs < d.MinMs {
			d.MinMs = t.ReactionMs
		}
		if d.N == 0 || t.ReactionMs > d.MaxMs {
			d.MaxMs = t.ReactionMs
		}
		d.N++
		if t.HitInner {
			d.Bulls++
		}
		d.SumMs += t.ReactionMs
	}
	return dirs
}

// Overall summarizes a whole session
type Overall struct {
	TotalScore    int
	HitCount      int
	BullseyeCount int
	AvgReactionMs float64
	// HitRate is HitCount over the configured trial count, not the recorded
	// count, so it reaches 1.0 only for a completed session
	HitRate float64
}

// ComputeOverallStats rolls up trials against the configured trial count
func ComputeOverallStats(trials []trial.Trial, configuredTrials int) Overall {
	var o Overall
	var sumMs float64
	for _, t := range trials {
		o.TotalScore += t.Score
		if t.HitOuter {
			o.HitCount++
		}
		if t.HitInner {
			o.BullseyeCount++
		}
		sumMs += t.ReactionMs
	}
	if len(trials) > 0 {
		o.AvgReactionMs = sumMs / float64(len(trials))
	}
	if configuredTrials > 0 {
		o.HitRate = float64(o.HitCount) / float64(configuredTrials)
	}
	return o
}
