// Package ui is the terminal control surface: the track list, the transport
// line, the spectrum and the equalizer popup. It talks to the audio side
// only through the bus.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ripple/internal/bus"
	"github.com/llehouerou/ripple/internal/keymap"
	"github.com/llehouerou/ripple/internal/playback"
	"github.com/llehouerou/ripple/internal/ui/popup"
)

const defaultRefresh = 100 * time.Millisecond

// Options configures the model.
type Options struct {
	SeekStep   time.Duration
	VolumeStep int
	Refresh    time.Duration // snapshot re-read interval
}

// TickMsg triggers a re-read of the bus snapshots.
type TickMsg time.Time

// Model is the root bubbletea model.
type Model struct {
	bus    *bus.Bus
	tracks []playback.Track
	opts   Options
	keys   *keymap.Resolver
	help   help.Model

	cursor int
	offset int // first visible list row
	width  int
	height int

	eq popup.Popup // nil when closed

	transport playback.Snapshot
	bars      []float64
	status    string
}

// New creates the model for a fixed playlist.
func New(b *bus.Bus, tracks []playback.Track, opts Options) Model {
	if opts.Refresh <= 0 {
		opts.Refresh = defaultRefresh
	}
	return Model{
		bus:       b,
		tracks:    tracks,
		opts:      opts,
		keys:      keymap.NewResolver(keymap.ByContext(keymap.ContextGlobal)),
		help:      help.New(),
		transport: b.Transport(),
	}
}

// Init starts the refresh tick.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Refresh, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Cursor returns the selected track index.
func (m Model) Cursor() int {
	return m.cursor
}

// EqualizerOpen reports whether the equalizer popup is shown.
func (m Model) EqualizerOpen() bool {
	return m.eq != nil
}

// Status returns the last command error shown on the status line.
func (m Model) Status() string {
	return m.status
}
