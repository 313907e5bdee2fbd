package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

const sampleRate = beep.SampleRate(44100)

// Cue timing
const (
	spawnDuration = 60 * time.Millisecond
	spawnFreq     = 660.0

	hitDuration = 90 * time.Millisecond
	hitAttack   = 4 * time.Millisecond
	hitRelease  = 50 * time.Millisecond

	bullseyeDuration         = 350 * time.Millisecond
	bullseyeAttack           = 5 * time.Millisecond
	bullseyeFundamentalDecay = 320 * time.Millisecond
	bullseyeOvertoneDecay    = 140 * time.Millisecond

	missDuration = 150 * time.Millisecond
	missFreq     = 120.0

	finishNoteDuration = 120 * time.Millisecond
	finishAttack       = 5 * time.Millisecond
	finishRelease      = 60 * time.Millisecond
)

// Waveform types
const (
	waveSine = iota
	waveSquare
)

// floatBuffer is mono float64 samples at unity gain
type floatBuffer []float64

// oscillator generates raw waveform samples
func oscillator(waveType int, freq float64, samples int) floatBuffer {
	buf := make(floatBuffer, samples)
	phase := 0.0
	phaseInc := freq / float64(sampleRate)

	for i := 0; i < samples; i++ {
		switch waveType {
		case waveSine:
			buf[i] = math.Sin(2 * math.Pi * phase)
		case waveSquare:
			if phase < 0.5 {
				buf[i] = 1.0
			} else {
				buf[i] = -1.0
			}
		}

		phase += phaseInc
		if phase >= 1.0 {
			phase -= 1.0
		}
	}
	return buf
}

// applyEnvelope applies a linear attack/release envelope in place
func applyEnvelope(buf floatBuffer, attack, release time.Duration) {
	total := len(buf)
	attackSamples := sampleRate.N(attack)
	releaseSamples := sampleRate.N(release)

	releaseStart := total - releaseSamples
	if releaseStart < attackSamples {
		releaseStart = attackSamples
	}

	for i := 0; i < total; i++ {
		vol := 1.0
		if i < attackSamples && attackSamples > 0 {
			vol = float64(i) / float64(attackSamples)
		} else if i >= releaseStart && releaseSamples > 0 {
			vol = float64(total-i) / float64(releaseSamples)
		}
		buf[i] *= vol
	}
}

// mixFloatBuffers adds b into a (in place), extending a if needed
func mixFloatBuffers(a, b floatBuffer, bScale float64) floatBuffer {
	if len(b) > len(a) {
		extended := make(floatBuffer, len(b))
		copy(extended, a)
		a = extended
	}
	for i := range b {
		a[i] += b[i] * bScale
	}
	return a
}

// concatFloatBuffers appends b to a
func concatFloatBuffers(a, b floatBuffer) floatBuffer {
	result := make(floatBuffer, len(a)+len(b))
	copy(result, a)
	copy(result[len(a):], b)
	return result
}

func scale(buf floatBuffer, gain float64) floatBuffer {
	for i := range buf {
		buf[i] *= gain
	}
	return buf
}

// --- Cue buffers ---

func generateHit() floatBuffer {
	buf := oscillator(waveSquare, 880.0, sampleRate.N(hitDuration))
	applyEnvelope(buf, hitAttack, hitRelease)
	return scale(buf, 0.5)
}

func generateBullseye() floatBuffer {
	samples := sampleRate.N(bullseyeDuration)

	// A5 with an A6 overtone
	fund := oscillator(waveSine, 880.0, samples)
	applyEnvelope(fund, bullseyeAttack, bullseyeFundamentalDecay)
	over := oscillator(waveSine, 1760.0, samples)
	applyEnvelope(over, bullseyeAttack, bullseyeOvertoneDecay)

	return scale(mixFloatBuffers(fund, over, 0.3/0.7), 0.6)
}

func generateFinish() floatBuffer {
	// Rising C6, E6, G6
	var out floatBuffer
	for _, freq := range []float64{1046.50, 1318.51, 1567.98} {
		note := oscillator(waveSquare, freq, sampleRate.N(finishNoteDuration))
		applyEnvelope(note, finishAttack, finishRelease)
		out = concatFloatBuffers(out, scale(note, 0.4))
	}
	return out
}

// generateCue returns the buffer for buffer-backed cues; streamed cues return nil
func generateCue(c Cue) floatBuffer {
	switch c {
	case CueHit:
		return generateHit()
	case CueBullseye:
		return generateBullseye()
	case CueFinish:
		return generateFinish()
	default:
		return nil
	}
}

// bufferStreamer plays a mono buffer on both channels
type bufferStreamer struct {
	buf floatBuffer
	pos int
}

func newBufferStreamer(buf floatBuffer) *bufferStreamer {
	return &bufferStreamer{buf: buf}
}

func (b *bufferStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if b.pos >= len(b.buf) {
		return 0, false
	}
	for n < len(samples) && b.pos < len(b.buf) {
		v := b.buf[b.pos]
		samples[n][0] = v
		samples[n][1] = v
		n++
		b.pos++
	}
	return n, true
}

func (b *bufferStreamer) Err() error {
	return nil
}

// buzzGenerator is an endless low buzz with harmonics and a short fade-in
type buzzGenerator struct {
	freq float64
	pos  int
}

func newBuzzGenerator(freq float64) *buzzGenerator {
	return &buzzGenerator{freq: freq}
}

func (g *buzzGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(sampleRate)

		sample := 0.3 * math.Sin(2*math.Pi*g.freq*t)
		sample += 0.15 * math.Sin(2*math.Pi*g.freq*2*t)
		sample += 0.075 * math.Sin(2*math.Pi*g.freq*3*t)

		envelope := math.Min(t/0.02, 1.0)
		sample *= envelope * 0.6

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *buzzGenerator) Err() error {
	return nil
}
