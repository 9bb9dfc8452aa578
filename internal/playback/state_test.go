// internal/playback/state_test.go
package playback

import (
	"testing"
	"time"
)

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StatePlaying, "Playing"},
		{StatePaused, "Paused"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateStopped, false},
		{StatePlaying, true},
		{StatePaused, true},
	}
	for _, tt := range tests {
		if got := tt.state.IsActive(); got != tt.want {
			t.Errorf("%v.IsActive() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestRepeatMode_String(t *testing.T) {
	tests := []struct {
		mode RepeatMode
		want string
	}{
		{RepeatOff, "Off"},
		{RepeatAll, "All"},
		{RepeatOne, "One"},
		{RepeatMode(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestRepeatMode_NextCycles(t *testing.T) {
	want := []RepeatMode{RepeatAll, RepeatOne, RepeatOff}
	m := RepeatOff
	for cycle := range 3 {
		for i, w := range want {
			m = m.Next()
			if m != w {
				t.Fatalf("cycle %d step %d: got %v, want %v", cycle, i, m, w)
			}
		}
	}
}

func TestSnapshot_Progress(t *testing.T) {
	tests := []struct {
		name string
		s    Snapshot
		want float64
	}{
		{"unknown duration", Snapshot{Elapsed: time.Second}, 0},
		{"half", Snapshot{Elapsed: 30 * time.Second, Duration: time.Minute}, 0.5},
		{"clamped", Snapshot{Elapsed: 2 * time.Minute, Duration: time.Minute}, 1},
	}
	for _, tt := range tests {
		if got := tt.s.Progress(); got != tt.want {
			t.Errorf("%s: Progress() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
