package playback

// State represents the transport state.
//
//	┌──────────┐  Play/Next/Previous  ┌──────────┐
//	│ Stopped  │ ───────────────────▶ │ Playing  │
//	└──────────┘                      └──────────┘
//	     ▲  ▲                            │    ▲
//	     │  │ end of list, Stop,   pause │    │ pause / Play
//	     │  │ decode or device error     ▼    │
//	     │  │                         ┌──────────┐
//	     │  └─────────────────────────│  Paused  │
//	     │            Stop            └──────────┘
//	     └── end of list (RepeatMode Off), explicit Next past the last track
//
// TogglePause is a no-op while Stopped.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a track is loaded (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// RepeatMode defines the end-of-track and wrap-around behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}

// Next returns the following mode in the Off → All → One → Off cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}
