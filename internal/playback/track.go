package playback

import (
	"errors"
	"time"
)

// Error kinds surfaced by the transport.
var (
	// ErrInvalidTrack means the playlist is empty or the index is out of range.
	// The command is ignored.
	ErrInvalidTrack = errors.New("invalid track")
	// ErrDecode means the track could not be opened or decoded.
	ErrDecode = errors.New("decode error")
	// ErrDevice means the output device is unavailable.
	ErrDevice = errors.New("output device unavailable")
)

// Track is an immutable playlist entry.
type Track struct {
	Path     string
	Name     string
	Duration time.Duration // zero if unknown
}

// Snapshot is the transport status published after every state change.
// It is a value: a new one replaces the old, nothing mutates it.
type Snapshot struct {
	Index    int // -1 when no track is loaded
	Track    *Track
	State    State
	Elapsed  time.Duration
	Duration time.Duration // zero if unknown
	Volume   int           // percent, 0-150
	Repeat   RepeatMode
	Err      error // last decode/device failure, nil after a successful start
}

// HasTrack reports whether a track index is set.
func (s Snapshot) HasTrack() bool {
	return s.Index >= 0
}

// DurationKnown reports whether the current track's duration is known.
func (s Snapshot) DurationKnown() bool {
	return s.Duration > 0
}

// Progress returns elapsed/duration in [0, 1], or 0 if the duration is unknown.
func (s Snapshot) Progress() float64 {
	if !s.DurationKnown() {
		return 0
	}
	return min(1, max(0, float64(s.Elapsed)/float64(s.Duration)))
}
