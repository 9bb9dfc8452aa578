package player

import (
	"sync/atomic"

	"github.com/gopxl/beep/v2"

	"github.com/llehouerou/ripple/internal/equalizer"
	"github.com/llehouerou/ripple/internal/spectrum"
)

// Params is the live parameter source read once per block.
type Params interface {
	Volume() int
	BandGains() [3]int
}

type finish struct {
	gen uint64
	err error
}

// pipeline is the single streamer handed to the sink. It never drains:
// without an active source it emits silence, so the device keeps pulling
// and the equalizer, tap and position counter see one continuous stream.
//
//	[source] -> [Ctrl] -> [zero-fill] -> [EQ + volume] -> [tap] -> sink
//
// ctrl, gen and done are only touched under the sink lock.
type pipeline struct {
	params Params
	eq     *equalizer.Equalizer
	tap    *spectrum.Ring

	ctrl *beep.Ctrl
	gen  uint64
	done bool

	frames   atomic.Int64 // frames consumed from the current source
	finished chan finish
}

func newPipeline(params Params, eq *equalizer.Equalizer, tap *spectrum.Ring) *pipeline {
	return &pipeline{
		params:   params,
		eq:       eq,
		tap:      tap,
		finished: make(chan finish, 1),
	}
}

func (p *pipeline) Stream(samples [][2]float64) (int, bool) {
	gains := p.params.BandGains()
	for i, g := range gains {
		p.eq.SetGain(equalizer.Band(i), g)
	}
	p.eq.SetVolume(p.params.Volume())

	n := 0
	if p.ctrl != nil && !p.done && !p.ctrl.Paused {
		var ok bool
		n, ok = p.ctrl.Stream(samples)
		n = max(0, min(n, len(samples)))
		p.frames.Add(int64(n))
		if !ok {
			p.done = true
			p.signal(finish{gen: p.gen, err: p.ctrl.Err()})
		}
	}
	clear(samples[n:])

	p.eq.Process(samples)
	p.tap.Write(samples)
	return len(samples), true
}

func (p *pipeline) Err() error { return nil }

// load replaces the active source, paused or not. Call with the sink locked.
func (p *pipeline) load(s beep.Streamer, gen uint64, paused bool) {
	p.ctrl = nil
	if s != nil {
		p.ctrl = &beep.Ctrl{Streamer: s, Paused: paused}
	}
	p.gen = gen
	p.done = false
	p.frames.Store(0)
	// a signal from the previous source is stale now
	select {
	case <-p.finished:
	default:
	}
}

// setPaused flips the pause flag. Call with the sink locked.
func (p *pipeline) setPaused(paused bool) {
	if p.ctrl != nil {
		p.ctrl.Paused = paused
	}
}

func (p *pipeline) signal(f finish) {
	select {
	case p.finished <- f:
	default:
	}
}
