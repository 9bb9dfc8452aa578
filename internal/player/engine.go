package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/llehouerou/ripple/internal/bus"
	"github.com/llehouerou/ripple/internal/equalizer"
	"github.com/llehouerou/ripple/internal/playback"
	"github.com/llehouerou/ripple/internal/spectrum"
)

const resampleQuality = 4

// Opener decodes the file at path.
type Opener func(path string) (beep.StreamSeekCloser, beep.Format, error)

// Config configures the engine.
type Config struct {
	SampleRate       int           // output rate, tracks are resampled to it
	Buffer           time.Duration // device buffer
	PositionInterval time.Duration // how often elapsed is refreshed
	Open             Opener        // nil means Open
}

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = 44100
	}
	if c.Buffer <= 0 {
		c.Buffer = 100 * time.Millisecond
	}
	if c.PositionInterval <= 0 {
		c.PositionInterval = 50 * time.Millisecond
	}
	if c.Open == nil {
		c.Open = Open
	}
	return c
}

// Engine owns the transport controller and the output device. It is the
// controller's Source: starting a track decodes it and swaps it into the
// pipeline under the sink lock.
//
// Everything except the pipeline runs on the goroutine that calls Run.
type Engine struct {
	cfg  Config
	rate beep.SampleRate
	sink Sink
	bus  *bus.Bus
	pipe *pipeline
	ctrl *playback.Controller
	log  *slog.Logger

	opened bool
	devErr error
	gen    uint64
	cur    io.Closer
}

// NewEngine wires the controller to b and the pipeline to eq and tap.
// A nil logger discards output.
func NewEngine(sink Sink, b *bus.Bus, eq *equalizer.Equalizer, tap *spectrum.Ring, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:    cfg,
		rate:   beep.SampleRate(cfg.SampleRate),
		sink:   sink,
		bus:    b,
		pipe:   newPipeline(b, eq, tap),
		log:    logger,
		devErr: fmt.Errorf("%w: not opened", playback.ErrDevice),
	}
	e.ctrl = playback.NewController(e, b, logger)
	return e
}

// Controller returns the transport controller. Only use it from the Run
// goroutine, or before Run starts.
func (e *Engine) Controller() *playback.Controller {
	return e.ctrl
}

// SetTracks replaces the playlist. Call before Run.
func (e *Engine) SetTracks(tracks []playback.Track) {
	e.ctrl.SetTracks(tracks)
}

// Open initialises the output device and starts the pipeline on it.
// A failure is reported on the transport snapshot and every later start
// fails with it.
func (e *Engine) Open() error {
	if e.opened {
		return nil
	}
	if err := e.sink.Init(e.rate, e.cfg.Buffer); err != nil {
		if !errors.Is(err, playback.ErrDevice) {
			err = fmt.Errorf("%w: %w", playback.ErrDevice, err)
		}
		e.devErr = err
		e.ctrl.Fail(err)
		return err
	}
	e.sink.Play(e.pipe)
	e.opened = true
	e.devErr = nil
	e.log.Info("output device opened", "rate", int(e.rate), "buffer", e.cfg.Buffer)
	return nil
}

// Run applies bus commands, refreshes the position and handles end of
// track until ctx is cancelled. On return playback is stopped and the
// device released.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.PositionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return nil
		case cmd := <-e.bus.Commands():
			e.apply(cmd)
		case f := <-e.pipe.finished:
			if f.gen != e.gen {
				continue
			}
			e.ctrl.Tick(e.consumed())
			if f.err != nil {
				e.ctrl.Fail(fmt.Errorf("%w: %w", playback.ErrDecode, f.err))
				continue
			}
			if err := e.ctrl.EndOfTrack(); err != nil {
				e.log.Debug("end of track", "err", err)
			}
		case <-ticker.C:
			e.ctrl.Tick(e.consumed())
		}
	}
}

func (e *Engine) apply(cmd bus.Command) {
	e.ctrl.Tick(e.consumed())

	var err error
	switch cmd.Kind {
	case bus.KindPlay:
		err = e.ctrl.Play(cmd.Index)
	case bus.KindTogglePause:
		e.ctrl.TogglePause()
	case bus.KindNext:
		err = e.ctrl.Next()
	case bus.KindPrevious:
		err = e.ctrl.Previous()
	case bus.KindSeek:
		err = e.ctrl.Seek(cmd.Delta)
	case bus.KindSetRepeat:
		e.ctrl.CycleRepeat()
	case bus.KindStop:
		e.ctrl.Stop()
	case bus.KindSetVolume:
		e.bus.SetVolume(cmd.Value)
	case bus.KindSetBandGain:
		e.bus.SetBandGain(cmd.Band, cmd.Value)
	}
	if err != nil {
		e.log.Debug("command failed", "cmd", cmd, "err", err)
	}
}

func (e *Engine) consumed() time.Duration {
	return e.rate.D(int(e.pipe.frames.Load()))
}

// Start implements playback.Source.
func (e *Engine) Start(t playback.Track, offset time.Duration, paused bool) (time.Duration, error) {
	if !e.opened {
		return 0, e.devErr
	}

	s, format, err := e.cfg.Open(t.Path)
	if err != nil {
		return 0, err
	}
	d := format.SampleRate.D(s.Len())
	if offset > 0 {
		pos := format.SampleRate.N(offset)
		if s.Len() > 0 {
			pos = min(pos, s.Len())
		}
		if err := s.Seek(pos); err != nil {
			s.Close()
			return 0, fmt.Errorf("%w: seek %s: %w", playback.ErrDecode, offset, err)
		}
	}

	var st beep.Streamer = s
	if format.SampleRate != e.rate {
		st = beep.Resample(resampleQuality, format.SampleRate, e.rate, s)
	}
	e.swap(st, s, paused)
	return d, nil
}

// Stop implements playback.Source.
func (e *Engine) Stop() {
	e.swap(nil, nil, false)
}

// SetPaused implements playback.Source.
func (e *Engine) SetPaused(paused bool) {
	if !e.opened {
		return
	}
	e.sink.Lock()
	e.pipe.setPaused(paused)
	e.sink.Unlock()
}

// swap installs s as the active source in one critical section, so the
// device never sees it in a different pause state than requested.
func (e *Engine) swap(s beep.Streamer, c io.Closer, paused bool) {
	e.gen++
	if e.opened {
		e.sink.Lock()
		e.pipe.load(s, e.gen, paused)
		e.sink.Unlock()
	} else {
		e.pipe.load(s, e.gen, paused)
	}

	if e.cur != nil {
		if err := e.cur.Close(); err != nil {
			e.log.Debug("close decoder", "err", err)
		}
	}
	e.cur = c
}

func (e *Engine) shutdown() {
	e.ctrl.Stop()
	e.swap(nil, nil, false)
	if e.opened {
		e.sink.Close()
		e.opened = false
	}
	e.log.Info("engine stopped")
}
