package config

import (
	"math/bits"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName   = "ripple"
	minWindow = 64
)

type Config struct {
	MusicDir      string        `koanf:"music_dir"`
	Volume        int           `koanf:"volume"`      // percent, 0-150
	SeekStep      time.Duration `koanf:"seek_step"`   // left/right
	VolumeStep    int           `koanf:"volume_step"` // percent per +/-
	LogFile       string        `koanf:"log_file"`    // empty discards logs
	ShutdownGrace time.Duration `koanf:"shutdown_grace"`

	Audio     AudioConfig     `koanf:"audio"`
	Equalizer EqualizerConfig `koanf:"equalizer"`
	Spectrum  SpectrumConfig  `koanf:"spectrum"`
}

// AudioConfig holds output device settings.
type AudioConfig struct {
	SampleRate       int           `koanf:"sample_rate"`
	Buffer           time.Duration `koanf:"buffer"`
	PositionInterval time.Duration `koanf:"position_interval"`
}

// EqualizerConfig holds the band centres, Q and the initial gains in dB.
type EqualizerConfig struct {
	Q          float64 `koanf:"q"`
	BassFreq   float64 `koanf:"bass_freq"`
	MidFreq    float64 `koanf:"mid_freq"`
	TrebleFreq float64 `koanf:"treble_freq"`
	Bass       int     `koanf:"bass"`
	Mid        int     `koanf:"mid"`
	Treble     int     `koanf:"treble"`
}

// SpectrumConfig holds analyzer settings.
type SpectrumConfig struct {
	Window   int           `koanf:"window"`
	Interval time.Duration `koanf:"interval"`
	Decay    float64       `koanf:"decay"`
	Bars     int           `koanf:"bars"`
}

// Default returns the configuration used when no file sets a key.
func Default() Config {
	return Config{
		MusicDir:      "music",
		Volume:        100,
		SeekStep:      5 * time.Second,
		VolumeStep:    5,
		ShutdownGrace: 250 * time.Millisecond,
		Audio: AudioConfig{
			SampleRate:       44100,
			Buffer:           100 * time.Millisecond,
			PositionInterval: 50 * time.Millisecond,
		},
		Equalizer: EqualizerConfig{
			Q:          0.707,
			BassFreq:   120,
			MidFreq:    1000,
			TrebleFreq: 8000,
		},
		Spectrum: SpectrumConfig{
			Window:   2048,
			Interval: 30 * time.Millisecond,
			Decay:    0.55,
			Bars:     32,
		},
	}
}

// Load reads the user config then ./config.toml, later files overriding
// earlier ones. Missing files are skipped.
func Load() (*Config, error) {
	return LoadFiles(getConfigPaths()...)
}

// LoadFiles loads the given TOML files in order over the defaults.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Normalize replaces out-of-range values with defaults, clamps volume and
// gains, and expands ~ in paths.
func (c *Config) Normalize() {
	def := Default()

	c.MusicDir = expandPath(c.MusicDir)
	if c.MusicDir == "" {
		c.MusicDir = def.MusicDir
	}
	c.LogFile = expandPath(c.LogFile)
	c.Volume = max(0, min(c.Volume, 150))
	if c.SeekStep <= 0 {
		c.SeekStep = def.SeekStep
	}
	if c.VolumeStep <= 0 {
		c.VolumeStep = def.VolumeStep
	}
	if c.ShutdownGrace <= 0 {
		c.ShutdownGrace = def.ShutdownGrace
	}

	a := &c.Audio
	if a.SampleRate < 8000 || a.SampleRate > 192000 {
		a.SampleRate = def.Audio.SampleRate
	}
	if a.Buffer <= 0 {
		a.Buffer = def.Audio.Buffer
	}
	if a.PositionInterval <= 0 {
		a.PositionInterval = def.Audio.PositionInterval
	}

	e := &c.Equalizer
	if e.Q <= 0 {
		e.Q = def.Equalizer.Q
	}
	nyquist := float64(a.SampleRate) / 2
	e.BassFreq = freqOr(e.BassFreq, def.Equalizer.BassFreq, nyquist)
	e.MidFreq = freqOr(e.MidFreq, def.Equalizer.MidFreq, nyquist)
	e.TrebleFreq = freqOr(e.TrebleFreq, def.Equalizer.TrebleFreq, nyquist)
	e.Bass = clampGain(e.Bass)
	e.Mid = clampGain(e.Mid)
	e.Treble = clampGain(e.Treble)

	s := &c.Spectrum
	if s.Window <= 0 {
		s.Window = def.Spectrum.Window
	}
	s.Window = windowSize(s.Window)
	if s.Interval <= 0 {
		s.Interval = def.Spectrum.Interval
	}
	if s.Decay <= 0 || s.Decay >= 1 {
		s.Decay = def.Spectrum.Decay
	}
	if s.Bars <= 0 {
		s.Bars = def.Spectrum.Bars
	}
}

// Gains returns the initial gains ordered bass, mid, treble.
func (e EqualizerConfig) Gains() [3]int {
	return [3]int{e.Bass, e.Mid, e.Treble}
}

// Freqs returns the band centres ordered bass, mid, treble.
func (e EqualizerConfig) Freqs() [3]float64 {
	return [3]float64{e.BassFreq, e.MidFreq, e.TrebleFreq}
}

func freqOr(f, def, nyquist float64) float64 {
	if f <= 0 || f >= nyquist {
		return def
	}
	return f
}

// windowSize rounds an FFT size up to a power of two, at least minWindow.
func windowSize(n int) int {
	n = max(n, minWindow)
	return 1 << bits.Len(uint(n-1))
}

func clampGain(db int) int {
	return max(-12, min(db, 12))
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/ripple/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd, highest priority)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
