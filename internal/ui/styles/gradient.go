package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// ApplyGradient renders text with a horizontal color gradient, one color
// per grapheme cluster.
func ApplyGradient(text string, from, to lipgloss.Color) string {
	return applyGradient(text, lipgloss.NewStyle(), from, to)
}

// ApplyBoldGradient is ApplyGradient in bold.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	return applyGradient(text, lipgloss.NewStyle().Bold(true), from, to)
}

func applyGradient(text string, base lipgloss.Style, from, to lipgloss.Color) string {
	clusters := graphemes(text)
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return base.Foreground(from).Render(text)
	}

	ramp := Ramp(len(clusters), from, to)
	var b strings.Builder
	for i, c := range clusters {
		b.WriteString(base.Foreground(ramp[i]).Render(c))
	}
	return b.String()
}

// graphemes splits text into user-perceived characters.
func graphemes(text string) []string {
	var out []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

// Ramp returns size colors blended from from to to in HCL space, for
// perceptually uniform steps.
func Ramp(size int, from, to lipgloss.Color) []lipgloss.Color {
	if size <= 0 {
		return nil
	}
	blended := blendColors(size, from, to)
	out := make([]lipgloss.Color, size)
	for i, c := range blended {
		out[i] = lipgloss.Color(colorToHex(c))
	}
	return out
}

func blendColors(size int, from, to lipgloss.Color) []color.Color {
	if size < 2 {
		return []color.Color{lipglossToColor(from)}
	}

	c1, _ := colorful.MakeColor(lipglossToColor(from))
	c2, _ := colorful.MakeColor(lipglossToColor(to))

	colors := make([]color.Color, size)
	for i := range size {
		t := float64(i) / float64(size-1)
		colors[i] = c1.BlendHcl(c2, t).Clamped()
	}
	return colors
}

// lipglossToColor converts a hex lipgloss.Color; ANSI colors fall back to
// a neutral gray.
func lipglossToColor(c lipgloss.Color) color.Color {
	hex := string(c)
	if len(hex) == 7 && hex[0] == '#' {
		if col, err := colorful.Hex(hex); err == nil {
			return col
		}
	}
	return color.RGBA{R: 128, G: 128, B: 128, A: 255}
}

func colorToHex(c color.Color) string {
	if cf, ok := c.(colorful.Color); ok {
		return cf.Hex()
	}
	r, g, b, _ := c.RGBA()
	return colorful.Color{
		R: float64(r) / 65535.0,
		G: float64(g) / 65535.0,
		B: float64(b) / 65535.0,
	}.Hex()
}
