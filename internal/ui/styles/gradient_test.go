package styles

import (
	"slices"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRamp_Endpoints(t *testing.T) {
	ramp := Ramp(5, "#000000", "#ffffff")
	if len(ramp) != 5 {
		t.Fatalf("len = %d, want 5", len(ramp))
	}
	if ramp[0] != "#000000" {
		t.Errorf("first = %s, want #000000", ramp[0])
	}
	if ramp[4] != "#ffffff" {
		t.Errorf("last = %s, want #ffffff", ramp[4])
	}
}

func TestRamp_Sizes(t *testing.T) {
	if got := Ramp(0, "#000000", "#ffffff"); got != nil {
		t.Errorf("Ramp(0) = %v, want nil", got)
	}
	if got := Ramp(1, "#ff0000", "#0000ff"); len(got) != 1 || got[0] != "#ff0000" {
		t.Errorf("Ramp(1) = %v, want [#ff0000]", got)
	}
}

func TestRamp_ANSIFallsBackToGray(t *testing.T) {
	got := Ramp(1, lipgloss.Color("240"), "#ffffff")
	if got[0] != "#808080" {
		t.Errorf("Ramp(ansi) = %v, want #808080", got)
	}
}

func TestApplyGradient_KeepsText(t *testing.T) {
	out := ApplyGradient("ripple", "#42b883", "#a78bfa")
	if w := lipgloss.Width(out); w != 6 {
		t.Errorf("width = %d, want 6", w)
	}
	if ApplyGradient("", "#000000", "#ffffff") != "" {
		t.Error("empty text should render empty")
	}
}

func TestGraphemes_KeepsCombiningMarks(t *testing.T) {
	// "e" plus a combining acute accent is one cluster of two runes
	got := graphemes("cafe\u0301")
	want := []string{"c", "a", "f", "e\u0301"}
	if !slices.Equal(got, want) {
		t.Errorf("graphemes = %q, want %q", got, want)
	}

	out := ApplyBoldGradient("cafe\u0301", "#42b883", "#a78bfa")
	if w := lipgloss.Width(out); w != 4 {
		t.Errorf("width = %d, want 4", w)
	}
}
