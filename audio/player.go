// Package audio plays short feedback tones for session events through the
// beep speaker. Every method is safe to call when the speaker could not be
// initialized; sound is optional.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"

	"github.com/lixenwraith/cfart/config"
	"github.com/lixenwraith/cfart/session"
)

const speakerBuffer = 50 * time.Millisecond

// Player mixes cues into a single speaker stream
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	cache       *cueCache
	volume      float64 // base-2 exponent, 0 is unity
	enabled     bool
	muted       bool
	initialized bool
	log         *zap.Logger
}

// NewPlayer creates a player; call Initialize before sound is heard
func NewPlayer(cfg config.AudioConfig, log *zap.Logger) *Player {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Player{
		mixer:   &beep.Mixer{},
		cache:   newCueCache(),
		volume:  cfg.Volume,
		enabled: cfg.Enabled,
		log:     log,
	}
	p.cache.preload()
	return p
}

// Initialize opens the speaker. A disabled player stays silent and never
// touches the device.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || !p.enabled {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(speakerBuffer)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	p.log.Info("audio initialized", zap.Int("sampleRate", int(sampleRate)))
	return nil
}

// Close stops all sounds and releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

// Play queues cue on the mixer
func (p *Player) Play(cue Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.muted || !p.initialized {
		return
	}

	s := p.streamer(cue)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// PlayEvent plays the cue for a frame event, if any
func (p *Player) PlayEvent(ev session.Event) {
	if cue, ok := CueFor(ev); ok {
		p.Play(cue)
	}
}

// ToggleMute flips mute and returns the new state
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	p.log.Debug("audio mute toggled", zap.Bool("muted", p.muted))
	return p.muted
}

// IsMuted reports whether cues are suppressed
func (p *Player) IsMuted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// streamer builds a finite, volume-adjusted stream for cue
func (p *Player) streamer(cue Cue) beep.Streamer {
	var s beep.Streamer
	switch cue {
	case CueSpawn:
		tone, err := generators.SineTone(sampleRate, spawnFreq)
		if err != nil {
			p.log.Warn("spawn tone", zap.Error(err))
			return nil
		}
		s = beep.Take(sampleRate.N(spawnDuration), tone)
	case CueMiss:
		s = beep.Take(sampleRate.N(missDuration), newBuzzGenerator(missFreq))
	case CueFinish:
		s = beep.Seq(
			newBufferStreamer(p.cache.get(CueBullseye)),
			newBufferStreamer(p.cache.get(CueFinish)),
		)
	case CueHit, CueBullseye:
		s = newBufferStreamer(p.cache.get(cue))
	default:
		return nil
	}

	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   p.volume,
	}
}
