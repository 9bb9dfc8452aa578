// Package equalizer implements a three-band peaking equalizer with a volume
// stage, operating in place on stereo sample blocks.
package equalizer

import (
	"fmt"
	"strings"
)

// Gain and volume limits.
const (
	MinGain   = -12
	MaxGain   = 12
	MinVolume = 0
	MaxVolume = 150
)

// Band identifies one of the equalizer bands.
type Band int

const (
	Bass Band = iota
	Mid
	Treble

	numBands = 3
)

// Bands returns all bands in processing order.
func Bands() []Band {
	return []Band{Bass, Mid, Treble}
}

// String returns the band name.
func (b Band) String() string {
	switch b {
	case Bass:
		return "Bass"
	case Mid:
		return "Mid"
	case Treble:
		return "Treble"
	default:
		return "Unknown"
	}
}

// Valid reports whether b is one of the three bands.
func (b Band) Valid() bool {
	return b >= Bass && b <= Treble
}

// ParseBand parses a band name, case-insensitively.
func ParseBand(s string) (Band, error) {
	switch strings.ToLower(s) {
	case "bass":
		return Bass, nil
	case "mid":
		return Mid, nil
	case "treble":
		return Treble, nil
	default:
		return 0, fmt.Errorf("unknown band %q", s)
	}
}

// ClampGain limits db to [MinGain, MaxGain].
func ClampGain(db int) int {
	return max(MinGain, min(db, MaxGain))
}

// ClampVolume limits percent to [MinVolume, MaxVolume].
func ClampVolume(percent int) int {
	return max(MinVolume, min(percent, MaxVolume))
}

// VolumeMultiplier converts a volume percentage to a linear gain (100% = 1.0).
func VolumeMultiplier(percent int) float64 {
	return float64(ClampVolume(percent)) / 100
}

// Config holds the fixed filter parameters.
type Config struct {
	SampleRate float64
	Q          float64
	Freqs      [numBands]float64 // center frequency per band
}

// DefaultConfig returns a configuration for the given sample rate with the
// stock Bass/Mid/Treble centers.
func DefaultConfig(sampleRate float64) Config {
	return Config{
		SampleRate: sampleRate,
		Q:          0.707,
		Freqs:      [numBands]float64{120, 1000, 8000},
	}
}

// stage holds one band's filters, one per stereo channel sharing coefficients.
type stage struct {
	gain int
	ch   [2]Biquad
}

// Equalizer runs Bass → Mid → Treble peaking filters in series, then scales
// by volume. It is not safe for concurrent use: the audio path owns it.
type Equalizer struct {
	cfg    Config
	stages [numBands]stage
	volume int
	mult   float64
}

// New creates a flat equalizer at 100% volume.
func New(cfg Config) *Equalizer {
	e := &Equalizer{cfg: cfg}
	for i := range e.stages {
		c := Peaking(cfg.SampleRate, cfg.Freqs[i], cfg.Q, 0)
		for ch := range e.stages[i].ch {
			e.stages[i].ch[ch] = Biquad{c: c}
		}
	}
	e.SetVolume(100)
	return e
}

// SetGain clamps db, stores it and recomputes the band's coefficients.
// Filter history is preserved. Returns the stored value.
func (e *Equalizer) SetGain(b Band, db int) int {
	if !b.Valid() {
		return 0
	}
	db = ClampGain(db)
	s := &e.stages[b]
	if s.gain == db {
		return db
	}
	s.gain = db
	c := Peaking(e.cfg.SampleRate, e.cfg.Freqs[b], e.cfg.Q, float64(db))
	for ch := range s.ch {
		s.ch[ch].SetCoefficients(c)
	}
	return db
}

// Gain returns the band's gain in dB.
func (e *Equalizer) Gain(b Band) int {
	if !b.Valid() {
		return 0
	}
	return e.stages[b].gain
}

// Gains returns all band gains indexed by Band.
func (e *Equalizer) Gains() [numBands]int {
	var g [numBands]int
	for i := range e.stages {
		g[i] = e.stages[i].gain
	}
	return g
}

// SetVolume clamps and stores the volume percentage. Returns the stored value.
func (e *Equalizer) SetVolume(percent int) int {
	e.volume = ClampVolume(percent)
	e.mult = VolumeMultiplier(e.volume)
	return e.volume
}

// Volume returns the volume percentage.
func (e *Equalizer) Volume() int {
	return e.volume
}

// Process filters samples in place. It does not allocate.
func (e *Equalizer) Process(samples [][2]float64) {
	for i := range samples {
		for ch := range 2 {
			x := samples[i][ch]
			for s := range e.stages {
				x = e.stages[s].ch[ch].Process(x)
			}
			samples[i][ch] = x * e.mult
		}
	}
}
