// Package spectrum estimates a live frequency spectrum from tapped output
// samples and publishes it as a fixed number of smoothed bars.
package spectrum

import (
	"context"
	"io"
	"log/slog"
	"math"
	"math/cmplx"
	"slices"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Bar values are normalized to [0, MaxLevel].
const MaxLevel = 100.0

const (
	defaultWindow   = 2048
	minWindow       = 64
	defaultInterval = 30 * time.Millisecond
	defaultDecay    = 0.55

	riseKeep = 0.2 // weight of the previous value when rising
	snapZero = 0.5 // values below this fall straight to zero
	floorDB  = -20.0
	rangeDB  = 55.0
)

// Publisher receives analysis results and supplies the requested bar count.
type Publisher interface {
	BarCount() int
	PublishSpectrum(bars []float64)
}

// Config tunes the analyzer.
type Config struct {
	Window   int           // FFT size, power of two
	Interval time.Duration // analysis cadence
	Decay    float64       // fall smoothing, 0 = instant, 1 = frozen
}

func (c Config) withDefaults() Config {
	if c.Window <= 0 {
		c.Window = defaultWindow
	}
	c.Window = nextPow2(max(c.Window, minWindow))
	if c.Interval <= 0 {
		c.Interval = defaultInterval
	}
	if c.Decay <= 0 || c.Decay >= 1 {
		c.Decay = defaultDecay
	}
	return c
}

// Analyzer periodically reads the most recent window of samples from a Ring,
// applies a Hann window, runs a real FFT and aggregates the magnitudes into
// logarithmically spaced bars.
//
// Step and Run must be called from a single goroutine.
type Analyzer struct {
	ring *Ring
	pub  Publisher
	cfg  Config
	log  *slog.Logger

	fft    *fourier.FFT
	window []float64
	raw    []float32
	in     []float64
	coeffs []complex128
	mags   []float64

	target      []float64
	prev        []float64
	lastWritten uint64
}

// New creates an analyzer reading from ring and publishing to pub.
// A nil logger discards output.
func New(ring *Ring, pub Publisher, cfg Config, logger *slog.Logger) *Analyzer {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{
		ring:   ring,
		pub:    pub,
		cfg:    cfg,
		log:    logger,
		fft:    fourier.NewFFT(cfg.Window),
		window: Hann(cfg.Window),
		raw:    make([]float32, cfg.Window),
		in:     make([]float64, cfg.Window),
		coeffs: make([]complex128, cfg.Window/2+1),
		mags:   make([]float64, cfg.Window/2),
	}
}

// Run analyzes on the configured cadence until ctx is done.
func (a *Analyzer) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Debug("spectrum analyzer stopped")
			return nil
		case <-ticker.C:
			a.Step()
		}
	}
}

// Step performs one analysis pass, publishes the result and returns it.
// When no new samples arrived since the previous pass the bars decay
// toward zero instead of freezing.
func (a *Analyzer) Step() []float64 {
	n := max(a.pub.BarCount(), 0)
	if len(a.prev) != n {
		a.prev = resize(a.prev, n)
		a.target = make([]float64, n)
	}

	written := a.ring.Written()
	fresh := written != a.lastWritten
	a.lastWritten = written

	if fresh && a.analyze() {
		barsInto(a.target, a.mags)
	} else {
		clear(a.target)
	}

	for i, v := range a.target {
		p := a.prev[i]
		if v > p {
			p = p*riseKeep + v*(1-riseKeep)
		} else {
			p = p*a.cfg.Decay + v*(1-a.cfg.Decay)
		}
		if p < snapZero {
			p = 0
		}
		a.prev[i] = p
	}

	out := slices.Clone(a.prev)
	a.pub.PublishSpectrum(out)
	return out
}

// analyze fills a.mags from the latest window. It reports false when the
// ring does not hold a full window yet.
func (a *Analyzer) analyze() bool {
	got := a.ring.Latest(a.raw)
	if got < len(a.raw) {
		a.log.Debug("spectrum underrun", "have", got, "want", len(a.raw))
		return false
	}
	for i, s := range a.raw {
		a.in[i] = float64(s) * a.window[i]
	}
	a.coeffs = a.fft.Coefficients(a.coeffs, a.in)
	for i := range a.mags {
		a.mags[i] = cmplx.Abs(a.coeffs[i])
	}
	return true
}

// Hann returns the symmetric Hann window of length n.
func Hann(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// Bars aggregates FFT magnitudes into n logarithmically spaced bars,
// normalized to [0, MaxLevel].
func Bars(mags []float64, n int) []float64 {
	return barsInto(make([]float64, max(n, 0)), mags)
}

func barsInto(dst, mags []float64) []float64 {
	n := len(dst)
	half := len(mags)
	if half < 2 {
		clear(dst)
		return dst
	}
	for i := range dst {
		lo := int(math.Pow(float64(half), float64(i)/float64(n)))
		hi := int(math.Pow(float64(half), float64(i+1)/float64(n)))
		lo = max(1, min(lo, half-1))
		hi = max(lo+1, min(hi, half))

		var sum float64
		for _, m := range mags[lo:hi] {
			sum += m
		}
		dst[i] = level(sum / float64(hi-lo))
	}
	return dst
}

// level maps a linear magnitude onto the bar scale.
func level(mag float64) float64 {
	db := 20 * math.Log10(max(mag, 1e-10))
	return max(0, min((db-floorDB)/rangeDB*MaxLevel, MaxLevel))
}

func resize(s []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, s)
	return out
}
