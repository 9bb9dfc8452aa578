package eqpopup

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/ripple/internal/bus"
	"github.com/llehouerou/ripple/internal/equalizer"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBandSelectionWraps(t *testing.T) {
	m := New(bus.New(bus.Config{}))
	assert.Equal(t, equalizer.Bass, m.Band())

	m.Update(key("left"))
	assert.Equal(t, equalizer.Treble, m.Band())
	m.Update(key("right"))
	assert.Equal(t, equalizer.Bass, m.Band())
	m.Update(key("l"))
	assert.Equal(t, equalizer.Mid, m.Band())
	m.Update(key("h"))
	assert.Equal(t, equalizer.Bass, m.Band())
}

func TestGainAdjustsSelectedBand(t *testing.T) {
	b := bus.New(bus.Config{})
	m := New(b)

	m.Update(key("right"))
	m.Update(key("up"))
	m.Update(key("k"))
	assert.Equal(t, 2, b.BandGain(equalizer.Mid))
	assert.Equal(t, 0, b.BandGain(equalizer.Bass))

	m.Update(key("right"))
	m.Update(key("down"))
	m.Update(key("j"))
	assert.Equal(t, -2, b.BandGain(equalizer.Treble))
}

func TestGainClampsAtLimit(t *testing.T) {
	b := bus.New(bus.Config{Gains: [3]int{equalizer.MaxGain, 0, 0}})
	m := New(b)

	m.Update(key("up"))
	assert.Equal(t, equalizer.MaxGain, b.BandGain(equalizer.Bass))
}

func TestCloseKeys(t *testing.T) {
	for _, k := range []string{"esc", "ctrl+e"} {
		m := New(bus.New(bus.Config{}))
		_, cmd := m.Update(key(k))
		require.NotNil(t, cmd, k)
		assert.Equal(t, CloseMsg{}, cmd(), k)
	}
}

func TestIgnoresOtherMessages(t *testing.T) {
	m := New(bus.New(bus.Config{}))
	_, cmd := m.Update(tea.WindowSizeMsg{Width: 10, Height: 10})
	assert.Nil(t, cmd)
	_, cmd = m.Update(key("x"))
	assert.Nil(t, cmd)
}

func TestViewShowsAllBands(t *testing.T) {
	b := bus.New(bus.Config{Gains: [3]int{3, 0, -12}})
	m := New(b)
	m.SetSize(80, 20)

	view := m.View()
	for _, want := range []string{"Equalizer", "Bass", "Mid", "Treble", "+3 dB", "-12 dB", "▸"} {
		assert.Contains(t, view, want)
	}
}

func TestSlider(t *testing.T) {
	tests := []struct {
		db   int
		knob int
	}{
		{equalizer.MinGain, 0},
		{0, 12},
		{equalizer.MaxGain, sliderWidth - 1},
		{40, sliderWidth - 1},
	}
	for _, tt := range tests {
		s := []rune(slider(tt.db))
		require.Len(t, s, sliderWidth)
		assert.Equal(t, '●', s[tt.knob], "db %d", tt.db)
		assert.Equal(t, 1, strings.Count(string(s), "●"))
	}
}
