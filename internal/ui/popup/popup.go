package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/ripple/internal/ui/styles"
)

// Style configures the popup appearance.
type Style struct {
	Border      lipgloss.Border
	BorderColor lipgloss.Color
	TitleStyle  lipgloss.Style
	FooterStyle lipgloss.Style
}

// DefaultStyle returns the default popup style.
func DefaultStyle() Style {
	t := styles.T()
	return Style{
		Border:      lipgloss.RoundedBorder(),
		BorderColor: t.Primary,
		TitleStyle:  t.S().Title,
		FooterStyle: t.S().Subtle,
	}
}

// Dialog is a bordered box with a title, content and footer.
type Dialog struct {
	Title   string
	Content string
	Footer  string
	Style   Style
}

// New creates a new dialog with default style.
func New(title, content, footer string) *Dialog {
	return &Dialog{Title: title, Content: content, Footer: footer, Style: DefaultStyle()}
}

// Render returns the dialog centred in a width x height area.
func (p *Dialog) Render(width, height int) string {
	style := p.Style

	innerWidth := maxLineWidth(p.Content)
	innerWidth = max(innerWidth, lipgloss.Width(p.Title), lipgloss.Width(p.Footer))
	innerWidth = min(innerWidth, max(width-4, 1))

	var lines []string
	if p.Title != "" {
		lines = append(lines, centerLine(style.TitleStyle.Render(p.Title), innerWidth), "")
	}
	lines = append(lines, p.Content)
	if p.Footer != "" {
		lines = append(lines, "", centerLine(style.FooterStyle.Render(p.Footer), innerWidth))
	}

	box := lipgloss.NewStyle().
		Border(style.Border).
		BorderForeground(style.BorderColor).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func maxLineWidth(s string) int {
	maxW := 0
	for line := range strings.SplitSeq(s, "\n") {
		maxW = max(maxW, lipgloss.Width(line))
	}
	return maxW
}

func centerLine(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	pad := (width - w) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-w-pad)
}
