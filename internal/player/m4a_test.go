package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt16Frames(t *testing.T) {
	stereo := int16Frames([]int16{16384, -16384, 0, 32767}, 2)
	assert.Equal(t, [][2]float64{{0.5, -0.5}, {0, 32767.0 / 32768}}, stereo)

	mono := int16Frames([]int16{-32768, 8192}, 1)
	assert.Equal(t, [][2]float64{{-1, -1}, {0.25, 0.25}}, mono)

	// only the front pair of a 5.1 frame is kept
	surround := int16Frames([]int16{1, 2, 3, 4, 5, 6}, 6)
	assert.Equal(t, [][2]float64{{1.0 / 32768, 2.0 / 32768}}, surround)
}

func TestPCMFrames(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		bits     int
		channels int
		want     [][2]float64
	}{
		{
			name:     "16-bit stereo",
			data:     []byte{0x00, 0x40, 0x00, 0xc0},
			bits:     16,
			channels: 2,
			want:     [][2]float64{{0.5, -0.5}},
		},
		{
			name:     "24-bit mono sign extends",
			data:     []byte{0x00, 0x00, 0xc0, 0x00, 0x00, 0x20},
			bits:     24,
			channels: 1,
			want:     [][2]float64{{-0.5, -0.5}, {0.25, 0.25}},
		},
		{
			name:     "partial frame dropped",
			data:     []byte{0x00, 0x40, 0x00},
			bits:     16,
			channels: 2,
			want:     [][2]float64{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pcmFrames(tt.data, tt.bits, tt.channels))
		})
	}
}
