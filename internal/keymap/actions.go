// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	ActionQuit Action = "quit"

	// Playback actions
	ActionPlayPause    Action = "play_pause"
	ActionPlaySelected Action = "play_selected"
	ActionNextTrack    Action = "next_track"
	ActionPrevTrack    Action = "prev_track"
	ActionSeekBack     Action = "seek_back"
	ActionSeekForward  Action = "seek_forward"
	ActionVolumeUp     Action = "volume_up"
	ActionVolumeDown   Action = "volume_down"
	ActionCycleRepeat  Action = "cycle_repeat"

	// Navigation actions
	ActionMoveUp   Action = "move_up"
	ActionMoveDown Action = "move_down"

	// Equalizer popup
	ActionEqualizer Action = "equalizer"
	ActionEQClose   Action = "eq_close"
	ActionEQPrev    Action = "eq_prev_band"
	ActionEQNext    Action = "eq_next_band"
	ActionEQUp      Action = "eq_gain_up"
	ActionEQDown    Action = "eq_gain_down"
)
