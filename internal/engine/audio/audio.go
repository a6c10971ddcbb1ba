// Package audio plays short synthesized cues for the rig viewer.
package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Cue lengths.
const (
	FootstepLength = 70 * time.Millisecond
	ClipCueLength  = 40 * time.Millisecond
)

// ErrNotInitialized is returned when a cue is played before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Manager mixes cues into the speaker.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	volume      float64 // 0.0 to 1.0

	mixer *beep.Mixer
}

// New creates a new audio manager.
func New(volume float64) *Manager {
	return &Manager{
		sampleRate: DefaultSampleRate,
		volume:     clamp(volume, 0, 1),
		mixer:      &beep.Mixer{},
	}
}

// Init opens the speaker. Calling it twice is a no-op.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close stops every cue still playing.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	m.initialized = false
}

// IsInitialized reports whether Init succeeded.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetVolume sets the cue volume, clamped to [0, 1].
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clamp(vol, 0, 1)
}

// Volume returns the cue volume.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// PlayFootstep plays a low thump.
func (m *Manager) PlayFootstep() error {
	return m.play(Footstep(m.sampleRate))
}

// PlayClipCue plays a short tick when the active clip changes.
func (m *Manager) PlayClipCue() error {
	return m.play(Tone(m.sampleRate, 880, ClipCueLength))
}

func (m *Manager) play(s beep.Streamer) error {
	m.mu.RLock()
	initialized := m.initialized
	vol := m.volume
	m.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}

	speaker.Lock()
	m.mixer.Add(&effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeToExp(vol),
		Silent:   vol <= 0,
	})
	speaker.Unlock()
	return nil
}

// Footstep returns a decaying low sine with a noisy attack.
func Footstep(sr beep.SampleRate) beep.Streamer {
	return newBurst(sr, 90, FootstepLength, 0.3)
}

// Tone returns a decaying sine of the given frequency.
func Tone(sr beep.SampleRate, freq float64, length time.Duration) beep.Streamer {
	return newBurst(sr, freq, length, 0)
}

// burst is a sine with an exponential decay envelope. The first tenth of
// the cue is mixed with a deterministic noise sequence scaled by grit.
type burst struct {
	freq  float64
	rate  float64
	total int
	pos   int
	grit  float64
	seed  uint32
}

func newBurst(sr beep.SampleRate, freq float64, length time.Duration, grit float64) *burst {
	return &burst{
		freq:  freq,
		rate:  float64(sr),
		total: sr.N(length),
		grit:  grit,
		seed:  0x9e3779b9,
	}
}

func (b *burst) Stream(samples [][2]float64) (n int, ok bool) {
	if b.pos >= b.total {
		return 0, false
	}
	for i := range samples {
		if b.pos >= b.total {
			break
		}
		t := float64(b.pos) / b.rate
		progress := float64(b.pos) / float64(b.total)
		env := math.Exp(-5 * progress)

		v := math.Sin(2*math.Pi*b.freq*t) * env
		if b.grit > 0 && progress < 0.1 {
			v += b.noise() * b.grit * (1 - progress*10)
		}

		samples[i][0] = v
		samples[i][1] = v
		b.pos++
		n++
	}
	return n, true
}

func (b *burst) Err() error {
	return nil
}

// noise is an xorshift sequence in [-1, 1).
func (b *burst) noise() float64 {
	b.seed ^= b.seed << 13
	b.seed ^= b.seed >> 17
	b.seed ^= b.seed << 5
	return float64(b.seed)/float64(math.MaxUint32)*2 - 1
}

// volumeToExp converts a 0-1 volume to a base-2 exponent for effects.Volume.
func volumeToExp(vol float64) float64 {
	if vol <= 0 {
		return -10
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
