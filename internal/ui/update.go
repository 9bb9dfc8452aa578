package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ripple/internal/bus"
	"github.com/llehouerou/ripple/internal/errmsg"
	"github.com/llehouerou/ripple/internal/keymap"
	"github.com/llehouerou/ripple/internal/ui/eqpopup"
	"github.com/llehouerou/ripple/internal/ui/spectrumview"
)

// Update handles messages and returns the updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case TickMsg:
		prev := m.transport.Index
		m.transport = m.bus.Transport()
		m.bars = m.bus.Spectrum()
		m.followTrack(prev)
		return m, m.tick()

	case eqpopup.CloseMsg:
		m.eq = nil
		return m, nil

	case eqpopup.ErrorMsg:
		m.status = errmsg.Format(errmsg.OpCommand, msg.Err)
		return m, nil

	case tea.KeyMsg:
		if m.eq != nil {
			var cmd tea.Cmd
			m.eq, cmd = m.eq.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.bus.SetBarCount(spectrumview.BarCount(msg.Width))
	if m.eq != nil {
		m.eq.SetSize(m.width, m.listHeight())
	}
	m.scrollToCursor()
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.Resolve(msg.String()) {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionMoveUp:
		m.moveCursor(-1)
	case keymap.ActionMoveDown:
		m.moveCursor(1)
	case keymap.ActionPlaySelected:
		if len(m.tracks) > 0 {
			m.send(bus.Play(m.cursor))
		}
	case keymap.ActionPlayPause:
		m.send(bus.TogglePause())
	case keymap.ActionNextTrack:
		m.skip(bus.Next())
	case keymap.ActionPrevTrack:
		m.skip(bus.Previous())
	case keymap.ActionSeekBack:
		m.send(bus.Seek(-m.opts.SeekStep))
	case keymap.ActionSeekForward:
		m.send(bus.Seek(m.opts.SeekStep))
	case keymap.ActionVolumeUp:
		m.send(bus.SetVolume(m.bus.Volume() + m.opts.VolumeStep))
	case keymap.ActionVolumeDown:
		m.send(bus.SetVolume(m.bus.Volume() - m.opts.VolumeStep))
	case keymap.ActionCycleRepeat:
		m.send(bus.SetRepeat())
	case keymap.ActionEqualizer:
		eq := eqpopup.New(m.bus)
		eq.SetSize(m.width, m.listHeight())
		m.eq = eq
		return m, eq.Init()
	}
	return m, nil
}

// send delivers c to the bus, recording a rejected command on the status line.
func (m *Model) send(c bus.Command) {
	if err := m.bus.Send(c); err != nil {
		m.status = errmsg.FormatWith(errmsg.OpCommand, c.String(), err)
		return
	}
	m.status = ""
}

// skip sends a Next or Previous command. With nothing loaded there is no
// neighbour to move to, so the selected track starts instead.
func (m *Model) skip(c bus.Command) {
	if !m.transport.HasTrack() {
		if len(m.tracks) > 0 {
			m.send(bus.Play(m.cursor))
		}
		return
	}
	m.send(c)
}

// followTrack moves the cursor onto the current track when the engine
// changed it, leaving manual navigation alone otherwise.
func (m *Model) followTrack(prev int) {
	i := m.transport.Index
	if i == prev || i < 0 || i >= len(m.tracks) {
		return
	}
	m.cursor = i
	m.scrollToCursor()
}

func (m *Model) moveCursor(delta int) {
	if len(m.tracks) == 0 {
		return
	}
	m.cursor = max(0, min(m.cursor+delta, len(m.tracks)-1))
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	h := m.listHeight()
	if h <= 0 {
		m.offset = 0
		return
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}
