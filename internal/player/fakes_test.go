package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/llehouerou/ripple/internal/playback"
)

const testRate = beep.SampleRate(44100)

// memStream is an in-memory beep.StreamSeekCloser of constant samples.
type memStream struct {
	frames [][2]float64
	pos    int
	closed bool
}

func newMemStream(n int, v float64) *memStream {
	frames := make([][2]float64, n)
	for i := range frames {
		frames[i] = [2]float64{v, v}
	}
	return &memStream{frames: frames}
}

func (m *memStream) Stream(samples [][2]float64) (int, bool) {
	if m.pos >= len(m.frames) {
		return 0, false
	}
	n := copy(samples, m.frames[m.pos:])
	m.pos += n
	return n, true
}

func (m *memStream) Err() error    { return nil }
func (m *memStream) Len() int      { return len(m.frames) }
func (m *memStream) Position() int { return m.pos }

func (m *memStream) Seek(p int) error {
	m.pos = max(0, min(p, len(m.frames)))
	return nil
}

func (m *memStream) Close() error {
	m.closed = true
	return nil
}

// fakeSink records what the engine hands the device and lets tests pull
// blocks the way the device goroutine would.
type fakeSink struct {
	mu      sync.Mutex
	initErr error
	rate    beep.SampleRate
	s       beep.Streamer
	closed  bool

	// pullOnUnlock makes the device grab the lock and stream this many
	// frames as soon as the engine releases it.
	pullOnUnlock int
	lastPull     [][2]float64
}

func (f *fakeSink) Init(rate beep.SampleRate, _ time.Duration) error {
	if f.initErr != nil {
		return f.initErr
	}
	f.rate = rate
	return nil
}

func (f *fakeSink) Play(s beep.Streamer) { f.s = s }
func (f *fakeSink) Lock()                { f.mu.Lock() }
func (f *fakeSink) Unlock() {
	f.mu.Unlock()
	if f.pullOnUnlock > 0 && f.s != nil {
		f.pull(f.pullOnUnlock)
	}
}

func (f *fakeSink) Close() { f.closed = true }

func (f *fakeSink) pull(n int) [][2]float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	buf := make([][2]float64, n)
	f.s.Stream(buf)
	f.lastPull = buf
	return buf
}

func (f *fakeSink) lastBlock() [][2]float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPull
}

// fakeFiles maps a path to a frame count at testRate.
type fakeFiles struct {
	mu     sync.Mutex
	frames map[string]int
	opened []*memStream
}

func newFakeFiles(frames map[string]int) *fakeFiles {
	return &fakeFiles{frames: frames}
}

func (f *fakeFiles) open(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.frames[path]
	if !ok {
		return nil, beep.Format{}, fmt.Errorf("%w: %s: no such file", playback.ErrDecode, path)
	}
	s := newMemStream(n, 0.5)
	f.opened = append(f.opened, s)
	return s, beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2}, nil
}

func (f *fakeFiles) last() *memStream {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.opened) == 0 {
		return nil
	}
	return f.opened[len(f.opened)-1]
}

func (f *fakeFiles) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.opened)
}

// staticParams is a fixed Params.
type staticParams struct {
	volume int
	gains  [3]int
}

func (p staticParams) Volume() int       { return p.volume }
func (p staticParams) BandGains() [3]int { return p.gains }
