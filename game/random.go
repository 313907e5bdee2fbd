package game

import (
	"math/rand/v2"
	"time"

	"github.com/lixenwraith/cfart/geom"
)

// IndexSource draws uniform integers in [0, n)
type IndexSource interface {
	IntN(n int) int
}

// NewTimeSeededSource returns a source seeded once from the current time.
// Sequences are not reproducible across runs.
func NewTimeSeededSource() IndexSource {
	seed := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomIndex draws a clock index 0..11 from src
func RandomIndex(src IndexSource) int {
	return src.IntN(geom.ClockPositions)
}

// SequenceSource replays a fixed list of indices, wrapping around.
// Used by tests and demo runs that need deterministic targets.
type SequenceSource struct {
	seq []int
	pos int
}

// NewSequenceSource creates a source cycling through seq
func NewSequenceSource(seq ...int) *SequenceSource {
	return &SequenceSource{seq: seq}
}

// IntN returns the next value of the sequence reduced modulo n
func (s *SequenceSource) IntN(n int) int {
	if len(s.seq) == 0 || n <= 0 {
		return 0
	}
	v := s.seq[s.pos%len(s.seq)]
	s.pos++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
