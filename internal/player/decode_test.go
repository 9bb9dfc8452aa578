package player

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/ripple/internal/playback"
)

// writeWAV writes frames of constant samples at rate to path.
func writeWAV(t *testing.T, path string, rate beep.SampleRate, frames int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, newMemStream(frames, 0.25), format))
}

func TestSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"song.mp3", true},
		{"song.MP3", true},
		{"song.flac", true},
		{"song.wav", true},
		{"song.ogg", true},
		{"song.opus", true},
		{"song.m4a", true},
		{"song.mp4", true},
		{"song.AAC", true},
		{"song.wma", false},
		{"song.txt", false},
		{"song", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Supported(tt.path))
		})
	}
}

func TestOpen_UnsupportedIsDecodeError(t *testing.T) {
	_, _, err := Open("/music/cover.jpg")
	assert.ErrorIs(t, err, playback.ErrDecode)
}

func TestOpen_MissingFileIsDecodeError(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "gone.mp3"))
	assert.ErrorIs(t, err, playback.ErrDecode)
}

func TestOpen_CorruptFileIsDecodeError(t *testing.T) {
	for _, name := range []string{"bad.mp3", "bad.flac", "bad.wav", "bad.ogg", "bad.m4a", "bad.aac"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte("definitely not audio"), 0o600))

			_, _, err := Open(path)
			assert.ErrorIs(t, err, playback.ErrDecode)
		})
	}
}

func TestOpen_WAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 22050, 4410)

	s, format, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, beep.SampleRate(22050), format.SampleRate)
	assert.Equal(t, 4410, s.Len())

	buf := make([][2]float64, 16)
	n, ok := s.Stream(buf)
	require.True(t, ok)
	assert.Equal(t, 16, n)
	assert.InDelta(t, 0.25, buf[0][0], 1e-3)

	require.NoError(t, s.Seek(4000))
	assert.Equal(t, 4000, s.Position())
}

func TestReadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 22050, 4410)

	d, err := ReadDuration(path)
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, d)

	_, err = ReadDuration(filepath.Join(t.TempDir(), "none.flac"))
	assert.ErrorIs(t, err, playback.ErrDecode)
}

func TestSkipID3v2(t *testing.T) {
	tag := []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0x01, 0x02} // size 0x82 = 130
	body := append(bytes.Repeat([]byte{0}, 130), []byte("fLaC")...)

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"with tag", append(append([]byte{}, tag...), body...), "fLaC"},
		{"without tag", []byte("fLaC\x00\x00\x00\x22rest"), "fLaC"},
		{"shorter than a header", []byte("fLa"), "fLa"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader(tt.data)
			require.NoError(t, skipID3v2(r))

			got := make([]byte, len(tt.want))
			_, err := io.ReadFull(r, got)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "01 Intro", Stem("/music/album/01 Intro.flac"))
	assert.Equal(t, "noext", Stem("noext"))
	assert.Equal(t, "a.b", Stem("a.b.mp3"))
}

func TestTrackInfo_DisplayName(t *testing.T) {
	assert.Equal(t, "Title", TrackInfo{Title: "Title"}.DisplayName())
	assert.Equal(t, "Band - Title", TrackInfo{Title: "Title", Artist: "Band"}.DisplayName())
}

func TestReadTrackInfo_NoTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, path, 44100, 100)

	_, err := ReadTrackInfo(path)
	assert.Error(t, err)
}
