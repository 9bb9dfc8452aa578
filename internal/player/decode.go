// Package player is the audio-production path: decoders, the processing
// pipeline that feeds the output device, and the engine that drives the
// transport controller from bus commands.
package player

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"

	"github.com/llehouerou/ripple/internal/playback"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
	extOPUS = ".opus"
	extM4A  = ".m4a"
	extMP4  = ".mp4"
	extAAC  = ".aac"
)

// Supported reports whether path has an extension Open can decode.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC, extWAV, extOGG, extOPUS, extM4A, extMP4, extAAC:
		return true
	}
	return false
}

// Open opens and decodes the file at path. Closing the returned stream
// closes the file. Every failure wraps playback.ErrDecode.
func Open(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(path) {
		return nil, beep.Format{}, fmt.Errorf("%w: unsupported format %q", playback.ErrDecode, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: %w", playback.ErrDecode, err)
	}

	var (
		s      beep.StreamSeekCloser
		format beep.Format
	)
	switch ext {
	case extMP3:
		s, format, err = decodeMP3(f)
	case extFLAC:
		// some taggers prepend ID3v2 to FLAC, which the decoder rejects
		if err = skipID3v2(f); err == nil {
			s, format, err = flac.Decode(f)
		}
	case extWAV:
		s, format, err = wav.Decode(f)
	case extOGG, extOPUS:
		s, format, err = decodeOgg(f)
	case extM4A, extMP4:
		s, format, err = decodeM4A(f)
	case extAAC:
		s, format, err = decodeADTS(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("%w: %s: %w", playback.ErrDecode, filepath.Base(path), err)
	}
	return s, format, nil
}

// skipID3v2 positions r after a leading ID3v2 tag, or at the start when
// there is none.
func skipID3v2(r io.ReadSeeker) error {
	var header [10]byte
	n, err := io.ReadFull(r, header[:])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	if n < len(header) || string(header[:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}
	// syncsafe: 7 bits per byte
	size := int64(header[6]&0x7f)<<21 | int64(header[7]&0x7f)<<14 |
		int64(header[8]&0x7f)<<7 | int64(header[9]&0x7f)
	_, err = r.Seek(int64(len(header))+size, io.SeekStart)
	return err
}
