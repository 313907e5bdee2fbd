// Package trial defines the record of one completed spawn-to-hit cycle and
// the ring classification that decides whether a click counts as a hit.
package trial

// Score tiers awarded per hit
const (
	ScoreMiss  = 0
	ScoreOuter = 5
	ScoreInner = 10
)

// Radii are the two concentric hit thresholds around a target center
type Radii struct {
	Outer float64 // outer ring, ScoreOuter
	Inner float64 // bullseye, ScoreInner
}

// Trial is one completed trial. Values are never mutated after New.
type Trial struct {
	TargetIndex int     // clock position 0..11
	SpawnTime   float64 // seconds since test start
	ClickTime   float64 // seconds since test start
	ReactionMs  float64 // (ClickTime - SpawnTime) * 1000
	HitOuter    bool
	HitInner    bool // implies HitOuter
	Score       int
}

// Classify returns ring membership for a click dist away from the target center.
// Boundaries are inclusive.
func Classify(dist float64, r Radii) (outer, inner bool) {
	inner = dist <= r.Inner
	outer = inner || dist <= r.Outer
	return outer, inner
}

// ScoreFor maps the ring pair to its score tier
func ScoreFor(outer, inner bool) int {
	switch {
	case inner:
		return ScoreInner
	case outer:
		return ScoreOuter
	default:
		return ScoreMiss
	}
}

// New builds a Trial for a qualifying click, deriving reaction time and score
func New(targetIndex int, spawnTime, clickTime float64, outer, inner bool) Trial {
	outer = outer || inner
	return Trial{
		TargetIndex: targetIndex,
		SpawnTime:   spawnTime,
		ClickTime:   clickTime,
		ReactionMs:  (clickTime - spawnTime) * 1000.0,
		HitOuter:    outer,
		HitInner:    inner,
		Score:       ScoreFor(outer, inner),
	}
}

// IsBullseye reports an inner-ring hit
func (t Trial) IsBullseye() bool {
	return t.HitInner
}
