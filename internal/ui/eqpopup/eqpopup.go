// Package eqpopup is the equalizer adjustment popup.
package eqpopup

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/ripple/internal/bus"
	"github.com/llehouerou/ripple/internal/equalizer"
	"github.com/llehouerou/ripple/internal/keymap"
	"github.com/llehouerou/ripple/internal/ui/popup"
	"github.com/llehouerou/ripple/internal/ui/styles"
)

// sliderWidth covers MinGain..MaxGain, one cell per dB.
const sliderWidth = equalizer.MaxGain - equalizer.MinGain + 1

// Params is the part of the bus the popup reads and writes.
type Params interface {
	BandGain(b equalizer.Band) int
	Send(c bus.Command) error
}

// CloseMsg asks the parent to close the popup.
type CloseMsg struct{}

// ErrorMsg reports a command the bus rejected.
type ErrorMsg struct{ Err error }

// Model holds the popup state: which band is selected.
type Model struct {
	params Params
	band   equalizer.Band
	keys   *keymap.Resolver
	help   help.Model
	width  int
	height int
}

var _ popup.Popup = (*Model)(nil)

// New creates a popup with the bass band selected.
func New(params Params) *Model {
	return &Model{
		params: params,
		band:   equalizer.Bass,
		keys:   keymap.NewResolver(keymap.ByContext(keymap.ContextEqualizer)),
		help:   help.New(),
	}
}

// Band returns the selected band.
func (m *Model) Band() equalizer.Band {
	return m.band
}

func (m *Model) Init() tea.Cmd { return nil }

// Update handles key presses.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.keys.Resolve(keyMsg.String()) {
	case keymap.ActionEQClose:
		return m, func() tea.Msg { return CloseMsg{} }
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionEQPrev:
		m.band = (m.band + equalizer.Band(len(equalizer.Bands())) - 1) % equalizer.Band(len(equalizer.Bands()))
	case keymap.ActionEQNext:
		m.band = (m.band + 1) % equalizer.Band(len(equalizer.Bands()))
	case keymap.ActionEQUp:
		return m, m.adjust(1)
	case keymap.ActionEQDown:
		return m, m.adjust(-1)
	}
	return m, nil
}

func (m *Model) adjust(delta int) tea.Cmd {
	db := m.params.BandGain(m.band) + delta
	if err := m.params.Send(bus.SetBandGain(m.band, db)); err != nil {
		return func() tea.Msg { return ErrorMsg{Err: err} }
	}
	return nil
}

// SetSize sets the area the popup is centred in.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
}

// View renders the dialog centred in the area set by SetSize.
func (m *Model) View() string {
	footer := m.help.ShortHelpView(keymap.Help(keymap.ContextEqualizer))
	return popup.New("Equalizer", m.content(), footer).Render(m.width, m.height)
}

func (m *Model) content() string {
	st := styles.T().S()
	lines := make([]string, 0, len(equalizer.Bands()))
	for _, b := range equalizer.Bands() {
		db := m.params.BandGain(b)
		marker := "  "
		name := fmt.Sprintf("%-6s", b)
		if b == m.band {
			marker = "▸ "
			name = st.Title.Render(name)
		}
		lines = append(lines, fmt.Sprintf("%s%s %s %+3d dB", marker, name, slider(db), db))
	}
	return strings.Join(lines, "\n")
}

// slider draws a gain as a knob on a track centred at 0 dB.
func slider(db int) string {
	pos := equalizer.ClampGain(db) - equalizer.MinGain
	var sb strings.Builder
	for i := range sliderWidth {
		switch {
		case i == pos:
			sb.WriteString("●")
		case i == -equalizer.MinGain:
			sb.WriteString("┼")
		default:
			sb.WriteString("─")
		}
	}
	return sb.String()
}
