// Package playback implements the transport state machine: which track is
// loaded, whether it is playing, where it is, and what happens at its end.
package playback

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"
)

// previousThreshold is how far into a track Previous restarts it instead of
// moving back one entry.
const previousThreshold = 3 * time.Second

// Source starts and stops decoding for the audio path.
//
// Start re-initiates decode of t at offset and returns the decoded duration
// (zero if unknown). With paused set the new source must not produce any
// audio until SetPaused(false). Seeking is implemented as a Start at the new
// offset, so a short gap in output is expected.
type Source interface {
	Start(t Track, offset time.Duration, paused bool) (time.Duration, error)
	Stop()
	SetPaused(paused bool)
}

// Publisher receives a new Snapshot after every state change.
type Publisher interface {
	PublishTransport(s Snapshot)
}

// Controller is the transport state machine. It is driven by a single
// goroutine and is not safe for concurrent use.
type Controller struct {
	src Source
	pub Publisher
	log *slog.Logger

	tracks   []Track
	index    int
	state    State
	offset   time.Duration // decode start of the current run
	elapsed  time.Duration
	duration time.Duration
	repeat   RepeatMode
	err      error
}

// NewController creates a stopped controller with an empty playlist.
// A nil logger discards output.
func NewController(src Source, pub Publisher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Controller{
		src:   src,
		pub:   pub,
		log:   logger,
		index: -1,
	}
	c.publish()
	return c
}

// SetTracks replaces the playlist. Playback stops and no track is selected.
func (c *Controller) SetTracks(tracks []Track) {
	if c.state.IsActive() {
		c.src.Stop()
	}
	c.tracks = slices.Clone(tracks)
	c.index = -1
	c.state = StateStopped
	c.offset, c.elapsed, c.duration = 0, 0, 0
	c.err = nil
	c.publish()
}

// Tracks returns a copy of the playlist.
func (c *Controller) Tracks() []Track {
	return slices.Clone(c.tracks)
}

// Snapshot returns the current transport status. Volume is left zero; the
// bus fills it in.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Index:    c.index,
		State:    c.state,
		Elapsed:  c.elapsed,
		Duration: c.duration,
		Repeat:   c.repeat,
		Err:      c.err,
	}
	if c.index >= 0 && c.index < len(c.tracks) {
		t := c.tracks[c.index]
		s.Track = &t
	}
	return s
}

// Play loads the track at index and starts it from the beginning.
func (c *Controller) Play(index int) error {
	if index < 0 || index >= len(c.tracks) {
		c.log.Debug("play ignored", "index", index, "tracks", len(c.tracks))
		return fmt.Errorf("%w: index %d of %d", ErrInvalidTrack, index, len(c.tracks))
	}
	return c.start(index, 0, StatePlaying)
}

// TogglePause switches between Playing and Paused. No effect while Stopped.
func (c *Controller) TogglePause() {
	switch c.state {
	case StatePlaying:
		c.src.SetPaused(true)
		c.state = StatePaused
	case StatePaused:
		c.src.SetPaused(false)
		c.state = StatePlaying
	case StateStopped:
		return
	}
	c.publish()
}

// Stop halts playback, keeping the current index.
func (c *Controller) Stop() {
	if c.state == StateStopped {
		return
	}
	c.src.Stop()
	c.state = StateStopped
	c.offset, c.elapsed = 0, 0
	c.publish()
}

// Next advances to the following track. Past the last track it stops when
// RepeatMode is Off and wraps to the first otherwise.
func (c *Controller) Next() error {
	if len(c.tracks) == 0 {
		return ErrInvalidTrack
	}
	if c.index < 0 {
		return c.Play(0)
	}
	next := c.index + 1
	if next >= len(c.tracks) {
		if c.repeat == RepeatOff {
			c.Stop()
			return nil
		}
		next = 0
	}
	return c.start(next, 0, StatePlaying)
}

// Previous restarts the current track when more than three seconds have
// elapsed, otherwise moves back one track. At the first track it wraps to
// the last unless RepeatMode is Off, in which case it does nothing.
func (c *Controller) Previous() error {
	if len(c.tracks) == 0 {
		return ErrInvalidTrack
	}
	if c.index < 0 {
		return c.Play(0)
	}
	if c.elapsed > previousThreshold {
		return c.start(c.index, 0, StatePlaying)
	}
	prev := c.index - 1
	if prev < 0 {
		if c.repeat == RepeatOff {
			return nil
		}
		prev = len(c.tracks) - 1
	}
	return c.start(prev, 0, StatePlaying)
}

// Seek moves by delta by restarting decode at the clamped target, keeping
// the current Playing/Paused state. The target is clamped to 0 below; above,
// to the duration when known (reaching it applies the end-of-track policy)
// or to the current position when unknown.
func (c *Controller) Seek(delta time.Duration) error {
	if !c.state.IsActive() || c.index < 0 {
		return nil
	}
	target := max(c.elapsed+delta, 0)
	if c.duration > 0 {
		if target >= c.duration {
			c.elapsed = c.duration
			return c.EndOfTrack()
		}
	} else {
		target = min(target, c.elapsed)
	}
	return c.start(c.index, target, c.state)
}

// SetRepeat sets the repeat mode.
func (c *Controller) SetRepeat(m RepeatMode) {
	c.repeat = m
	c.publish()
}

// CycleRepeat advances Off → All → One → Off and returns the new mode.
func (c *Controller) CycleRepeat() RepeatMode {
	c.SetRepeat(c.repeat.Next())
	return c.repeat
}

// Tick updates the position from the time consumed by the output since the
// last (re)start.
func (c *Controller) Tick(consumed time.Duration) {
	if !c.state.IsActive() {
		return
	}
	e := c.offset + consumed
	if c.duration > 0 {
		e = min(e, c.duration)
	}
	if e == c.elapsed {
		return
	}
	c.elapsed = e
	c.publish()
}

// EndOfTrack applies the end-of-track policy after the decoder is exhausted.
//
//   - RepeatOne restarts the current track.
//   - RepeatAll advances, wrapping to the first track.
//   - RepeatOff advances while there is a next track, then stops with the
//     position held at the duration.
func (c *Controller) EndOfTrack() error {
	if !c.state.IsActive() || c.index < 0 {
		return nil
	}
	switch c.repeat {
	case RepeatOne:
		return c.start(c.index, 0, StatePlaying)
	case RepeatAll:
		return c.start((c.index+1)%len(c.tracks), 0, StatePlaying)
	case RepeatOff:
		if c.index+1 < len(c.tracks) {
			return c.start(c.index+1, 0, StatePlaying)
		}
	}

	c.src.Stop()
	c.state = StateStopped
	if c.duration > 0 {
		c.elapsed = c.duration
	}
	c.log.Debug("end of playlist", "index", c.index)
	c.publish()
	return nil
}

// Fail stops playback after a decode or device failure reported by the
// audio path. A decode failure marks the duration unknown.
func (c *Controller) Fail(err error) {
	if err == nil {
		return
	}
	c.src.Stop()
	c.state = StateStopped
	if errors.Is(err, ErrDecode) {
		c.duration = 0
	}
	c.err = err
	c.log.Warn("playback failed", "err", err)
	c.publish()
}

func (c *Controller) start(index int, offset time.Duration, state State) error {
	t := c.tracks[index]
	c.index = index

	d, err := c.src.Start(t, offset, state == StatePaused)
	if err != nil {
		if !errors.Is(err, ErrDecode) && !errors.Is(err, ErrDevice) {
			err = fmt.Errorf("%w: %w", ErrDecode, err)
		}
		c.offset, c.elapsed = 0, 0
		c.Fail(err)
		return err
	}

	if d <= 0 {
		d = t.Duration
	}
	c.duration = d
	c.offset, c.elapsed = offset, offset
	c.err = nil
	c.state = state
	c.log.Debug("track started", "index", index, "offset", offset, "state", state)
	c.publish()
	return nil
}

func (c *Controller) publish() {
	if c.pub != nil {
		c.pub.PublishTransport(c.Snapshot())
	}
}
