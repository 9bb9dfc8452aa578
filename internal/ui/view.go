package ui

import (
	"strings"

	"github.com/llehouerou/ripple/internal/keymap"
	"github.com/llehouerou/ripple/internal/ui/playerbar"
	"github.com/llehouerou/ripple/internal/ui/render"
	"github.com/llehouerou/ripple/internal/ui/spectrumview"
	"github.com/llehouerou/ripple/internal/ui/styles"
)

// help line and status line
const footerHeight = 2

// listHeight returns the rows left for the track list (or the popup).
func (m Model) listHeight() int {
	return max(m.height-spectrumview.Height-playerbar.Height-footerHeight, 0)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var main string
	if m.eq != nil {
		main = m.eq.View()
	} else {
		main = m.renderList()
	}

	st := styles.T().S()
	sections := []string{
		main,
		spectrumview.Render(m.bars, m.width, spectrumview.Height),
		playerbar.Render(m.transport, m.width),
		st.Error.Render(render.Truncate(m.status, m.width)),
		m.help.ShortHelpView(keymap.Help(keymap.ContextGlobal)),
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderList() string {
	h := m.listHeight()
	if h == 0 {
		return ""
	}
	st := styles.T().S()
	lines := make([]string, 0, h)

	if len(m.tracks) == 0 {
		lines = append(lines, st.Muted.Render(render.TruncateAndPad("No tracks found", m.width)))
	}
	for i := m.offset; i < len(m.tracks) && len(lines) < h; i++ {
		prefix := "  "
		if m.transport.Index == i && m.transport.HasTrack() {
			prefix = "♪ "
		}
		line := render.TruncateAndPad(prefix+m.tracks[i].Name, m.width)
		switch {
		case i == m.cursor:
			line = st.Cursor.Render(line)
		case m.transport.Index == i:
			line = st.Playing.Render(line)
		}
		lines = append(lines, line)
	}
	for len(lines) < h {
		lines = append(lines, strings.Repeat(" ", m.width))
	}
	return strings.Join(lines, "\n")
}
