// Package bus is the shared-state surface between the control surface, the
// audio path and the spectrum analyzer.
//
// Every field is synchronized on its own: parameters are atomics, snapshots
// are published by pointer swap, and transport commands travel through a
// bounded queue. No lock spans more than one field, so a slow reader can
// never stall the audio path.
package bus

import (
	"errors"
	"slices"
	"sync/atomic"

	"github.com/llehouerou/ripple/internal/equalizer"
	"github.com/llehouerou/ripple/internal/playback"
)

// ErrQueueFull is returned by Send when the command queue is full.
var ErrQueueFull = errors.New("command queue full")

const (
	defaultQueueSize = 64
	maxBarCount      = 1024
)

// Config holds the initial values.
type Config struct {
	Volume    int    // percent
	Gains     [3]int // dB, indexed by equalizer.Band
	BarCount  int
	QueueSize int
}

// Bus holds the independently synchronized parameters and snapshots.
type Bus struct {
	volume atomic.Int32
	gains  [3]atomic.Int32
	bars   atomic.Int32

	transport atomic.Pointer[playback.Snapshot]
	spectrum  atomic.Pointer[[]float64]

	commands chan Command
}

// New creates a bus with the given initial values, clamped to their ranges.
func New(cfg Config) *Bus {
	size := cfg.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}
	b := &Bus{commands: make(chan Command, size)}
	b.SetVolume(cfg.Volume)
	for _, band := range equalizer.Bands() {
		b.SetBandGain(band, cfg.Gains[band])
	}
	b.SetBarCount(cfg.BarCount)
	b.transport.Store(&playback.Snapshot{Index: -1})
	return b
}

// SetVolume stores the volume clamped to 0-150 and returns the stored value.
func (b *Bus) SetVolume(percent int) int {
	v := equalizer.ClampVolume(percent)
	b.volume.Store(int32(v)) //nolint:gosec // clamped to 0-150
	return v
}

// Volume returns the volume percentage.
func (b *Bus) Volume() int {
	return int(b.volume.Load())
}

// SetBandGain stores the band gain clamped to ±12 dB and returns the stored
// value. Unknown bands are ignored.
func (b *Bus) SetBandGain(band equalizer.Band, db int) int {
	if !band.Valid() {
		return 0
	}
	g := equalizer.ClampGain(db)
	b.gains[band].Store(int32(g)) //nolint:gosec // clamped to ±12
	return g
}

// BandGain returns the gain of one band in dB.
func (b *Bus) BandGain(band equalizer.Band) int {
	if !band.Valid() {
		return 0
	}
	return int(b.gains[band].Load())
}

// BandGains returns all gains indexed by equalizer.Band. Each value is read
// atomically on its own.
func (b *Bus) BandGains() [3]int {
	var g [3]int
	for i := range b.gains {
		g[i] = int(b.gains[i].Load())
	}
	return g
}

// SetBarCount sets how many spectrum bars the display wants.
func (b *Bus) SetBarCount(n int) {
	b.bars.Store(int32(max(0, min(n, maxBarCount)))) //nolint:gosec // clamped
}

// BarCount returns the requested number of spectrum bars.
func (b *Bus) BarCount() int {
	return int(b.bars.Load())
}

// Send delivers a command from the control surface without blocking.
// Volume and gain commands are applied to their fields directly; transport
// commands are queued for the transport controller.
func (b *Bus) Send(c Command) error {
	switch c.Kind {
	case KindSetVolume:
		b.SetVolume(c.Value)
		return nil
	case KindSetBandGain:
		b.SetBandGain(c.Band, c.Value)
		return nil
	}
	select {
	case b.commands <- c:
		return nil
	default:
		return ErrQueueFull
	}
}

// Commands returns the receive side of the transport command queue.
func (b *Bus) Commands() <-chan Command {
	return b.commands
}

// PublishTransport replaces the transport snapshot.
func (b *Bus) PublishTransport(s playback.Snapshot) {
	b.transport.Store(&s)
}

// Transport returns the latest transport snapshot with the current volume.
func (b *Bus) Transport() playback.Snapshot {
	s := *b.transport.Load()
	s.Volume = b.Volume()
	return s
}

// PublishSpectrum replaces the spectrum snapshot. The caller must not modify
// bars afterwards.
func (b *Bus) PublishSpectrum(bars []float64) {
	b.spectrum.Store(&bars)
}

// Spectrum returns a copy of the latest spectrum. Its length always equals
// BarCount: until the analyzer catches up with a new count, it is all zeros.
func (b *Bus) Spectrum() []float64 {
	n := b.BarCount()
	p := b.spectrum.Load()
	if p == nil || len(*p) != n {
		return make([]float64, n)
	}
	return slices.Clone(*p)
}
