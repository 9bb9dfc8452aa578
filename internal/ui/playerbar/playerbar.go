// Package playerbar renders the transport line: what is playing, where it
// is, volume and repeat mode.
package playerbar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/ripple/internal/errmsg"
	"github.com/llehouerou/ripple/internal/playback"
	"github.com/llehouerou/ripple/internal/ui/render"
	"github.com/llehouerou/ripple/internal/ui/styles"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	stopSymbol  = "■"
)

var barStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

// Height is the rendered height: border, two content rows, border.
const Height = 4

// Render returns the bordered player bar for the given outer width.
func Render(s playback.Snapshot, width int) string {
	inner := max(width-4, 0)
	st := styles.T().S()

	titleWidth := max(inner-12, 0)
	title := st.Title.Render(render.Truncate("Nothing playing", titleWidth))
	if s.Track != nil {
		t := styles.T()
		title = styles.ApplyBoldGradient(render.Truncate(s.Track.Name, titleWidth), t.Primary, t.Secondary)
	}
	right := st.Muted.Render(RenderVolume(s.Volume) + "  " + RenderRepeat(s.Repeat))
	top := render.Row(title, right, inner)

	bottom := RenderProgressBar(s.Elapsed, s.Duration, inner, statusSymbol(s.State))
	if s.Err != nil {
		bottom = st.Error.Render(render.Truncate(errorText(s.Err), inner))
	}

	return barStyle.Width(max(width-2, 0)).Render(top + "\n" + bottom)
}

// errorText names the operation that failed: a device error happens when
// the output opens, anything else when the track starts.
func errorText(err error) string {
	if errors.Is(err, playback.ErrDevice) {
		return errmsg.Format(errmsg.OpDeviceOpen, err)
	}
	return errmsg.Format(errmsg.OpPlaybackStart, err)
}

func statusSymbol(state playback.State) string {
	switch state {
	case playback.StatePlaying:
		return playSymbol
	case playback.StatePaused:
		return pauseSymbol
	default:
		return stopSymbol
	}
}

// RenderVolume renders the volume percentage.
func RenderVolume(percent int) string {
	return fmt.Sprintf("vol %3d%%", percent)
}

// RenderRepeat renders the repeat mode.
func RenderRepeat(m playback.RepeatMode) string {
	return "repeat " + strings.ToLower(m.String())
}

// formatDuration renders m:ss, or --:-- for an unknown duration.
func formatDuration(d time.Duration, known bool) string {
	if !known {
		return "--:--"
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
