// Package spectrumview draws spectrum bars as coloured block columns.
package spectrumview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/ripple/internal/ui/styles"
)

// Height is the default number of rows.
const Height = 8

// eighths of a cell, empty to full
var levels = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// BarCount returns how many bars fit in width columns, one column per bar
// with a one-column gap.
func BarCount(width int) int {
	return max(0, (width+1)/2)
}

// Render draws bars (0-100) bottom-up in a width x height block.
func Render(bars []float64, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	t := styles.T()
	ramp := styles.Ramp(height, t.SpectrumLow, t.SpectrumHigh)

	rows := make([]string, 0, height)
	var line strings.Builder
	for r := height - 1; r >= 0; r-- {
		line.Reset()
		for i, v := range bars {
			if 2*i+1 > width {
				break
			}
			if i > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(levels[cell(v, r, height)])
		}
		row := lipgloss.NewStyle().Foreground(ramp[r]).Render(line.String())
		if pad := width - lipgloss.Width(row); pad > 0 {
			row += strings.Repeat(" ", pad)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

// cell returns how many eighths of row r (0 = bottom) a bar of value v fills.
func cell(v float64, r, height int) int {
	total := int(max(0, min(v, 100)) / 100 * float64(height*8))
	return max(0, min(total-r*8, 8))
}
