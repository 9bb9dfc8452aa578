package keymap

import "github.com/charmbracelet/bubbles/key"

// Key binding contexts.
const (
	ContextGlobal    = "global"
	ContextEqualizer = "equalizer"
)

// Binding maps keys to an action within a context.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string
}

// Key returns the binding as a bubbles key.Binding, with the first key as
// the help label.
func (b Binding) Key() key.Binding {
	label := ""
	if len(b.Keys) > 0 {
		label = b.Keys[0]
		if label == " " {
			label = "space"
		}
	}
	return key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(label, b.Description))
}

// Bindings contains every key binding.
var Bindings = []Binding{
	{ActionQuit, []string{"q", "ctrl+c"}, "quit", ContextGlobal},
	{ActionPlayPause, []string{" "}, "play/pause", ContextGlobal},
	{ActionPlaySelected, []string{"enter"}, "play", ContextGlobal},
	{ActionNextTrack, []string{"n"}, "next", ContextGlobal},
	{ActionPrevTrack, []string{"p"}, "previous", ContextGlobal},
	{ActionMoveUp, []string{"up", "k"}, "up", ContextGlobal},
	{ActionMoveDown, []string{"down", "j"}, "down", ContextGlobal},
	{ActionSeekBack, []string{"left"}, "seek back", ContextGlobal},
	{ActionSeekForward, []string{"right"}, "seek forward", ContextGlobal},
	{ActionVolumeUp, []string{"+", "="}, "volume up", ContextGlobal},
	{ActionVolumeDown, []string{"-"}, "volume down", ContextGlobal},
	{ActionCycleRepeat, []string{"r"}, "repeat", ContextGlobal},
	{ActionEqualizer, []string{"ctrl+e"}, "equalizer", ContextGlobal},

	{ActionEQClose, []string{"esc", "ctrl+e"}, "close", ContextEqualizer},
	{ActionEQPrev, []string{"left", "h"}, "prev band", ContextEqualizer},
	{ActionEQNext, []string{"right", "l"}, "next band", ContextEqualizer},
	{ActionEQUp, []string{"up", "k"}, "+1 dB", ContextEqualizer},
	{ActionEQDown, []string{"down", "j"}, "-1 dB", ContextEqualizer},
	{ActionQuit, []string{"ctrl+c"}, "quit", ContextEqualizer},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}

// Help returns the bubbles key bindings of a context, for help rendering.
func Help(context string) []key.Binding {
	bindings := ByContext(context)
	keys := make([]key.Binding, 0, len(bindings))
	for _, b := range bindings {
		keys = append(keys, b.Key())
	}
	return keys
}
