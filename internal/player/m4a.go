package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

// ALAC's default frames per packet.
const alacFrameSize = 4096

// frameDecoder turns one compressed access unit into stereo frames.
type frameDecoder interface {
	decode(unit []byte) ([][2]float64, error)
	close()
}

// m4aStream plays AAC or ALAC from an MP4 container.
type m4aStream struct {
	container *m4a.Reader
	dec       frameDecoder
	closer    io.Closer
	rate      int
	total     int

	unit    int // next container sample to read
	buf     [][2]float64
	bufPos  int
	discard int
	pos     int
	err     error
}

func decodeM4A(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	container, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}
	rate := int(container.SampleRate())
	channels := int(container.Channels())
	if rate <= 0 || channels <= 0 {
		return nil, beep.Format{}, errors.New("m4a: invalid audio track")
	}

	precision := 2
	var dec frameDecoder
	switch container.Codec() {
	case m4a.CodecAAC:
		dec, err = newAACDecoder(container.CodecConfig(), channels)
	case m4a.CodecALAC:
		bits := int(container.SampleSize())
		if bits == 24 {
			precision = 3
		}
		dec, err = newALACDecoder(rate, bits, channels)
	default:
		err = fmt.Errorf("m4a: unsupported codec %s", container.Codec())
	}
	if err != nil {
		return nil, beep.Format{}, err
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: 2,
		Precision:   precision,
	}
	return &m4aStream{
		container: container,
		dec:       dec,
		closer:    rc,
		rate:      rate,
		total:     format.SampleRate.N(container.Duration()),
	}, format, nil
}

func (s *m4aStream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	n := 0
	for n < len(samples) && s.pos < s.total {
		if s.bufPos >= len(s.buf) {
			if s.unit >= s.container.SampleCount() {
				break
			}
			unit, err := s.container.ReadSample(s.unit)
			if err != nil {
				s.err = err
				break
			}
			s.unit++
			if s.buf, err = s.dec.decode(unit); err != nil {
				s.err = err
				break
			}
			s.bufPos = 0
			continue
		}
		if s.discard > 0 {
			skip := min(len(s.buf)-s.bufPos, s.discard)
			s.bufPos += skip
			s.discard -= skip
			continue
		}
		c := copy(samples[n:], s.buf[s.bufPos:])
		c = min(c, s.total-s.pos)
		s.bufPos += c
		s.pos += c
		n += c
	}
	return n, n > 0
}

func (s *m4aStream) Err() error    { return s.err }
func (s *m4aStream) Len() int      { return s.total }
func (s *m4aStream) Position() int { return s.pos }

// Seek lands on the access unit containing p and decodes forward to it.
func (s *m4aStream) Seek(p int) error {
	p = max(0, min(p, s.total))
	at := time.Duration(float64(p) / float64(s.rate) * float64(time.Second))
	s.unit = s.container.SeekToTime(at)
	unitStart := beep.SampleRate(s.rate).N(s.container.SampleTime(s.unit))
	s.buf, s.bufPos = nil, 0
	s.discard = max(0, p-unitStart)
	s.pos = p
	s.err = nil
	return nil
}

func (s *m4aStream) Close() error {
	s.dec.close()
	return s.closer.Close()
}

// aacDecoder decodes raw AAC access units with FAAD2.
type aacDecoder struct {
	dec      *faad2.Decoder
	channels int
}

// newAACDecoder initialises FAAD2 from an AudioSpecificConfig.
func newAACDecoder(asc []byte, channels int) (*aacDecoder, error) {
	ctx := context.Background()
	dec, err := faad2.NewDecoder(ctx)
	if err != nil {
		return nil, err
	}
	if err := dec.Init(ctx, asc); err != nil {
		dec.Close(ctx)
		return nil, err
	}
	return &aacDecoder{dec: dec, channels: channels}, nil
}

func (d *aacDecoder) decode(unit []byte) ([][2]float64, error) {
	pcm, err := d.dec.Decode(context.Background(), unit)
	if err != nil {
		return nil, err
	}
	return int16Frames(pcm, d.channels), nil
}

func (d *aacDecoder) close() { d.dec.Close(context.Background()) }

type alacDecoder struct {
	dec      *alac.Alac
	bits     int
	channels int
}

func newALACDecoder(rate, bits, channels int) (*alacDecoder, error) {
	dec, err := alac.NewWithConfig(alac.Config{
		SampleRate:  rate,
		SampleSize:  bits,
		NumChannels: channels,
		FrameSize:   alacFrameSize,
	})
	if err != nil {
		return nil, err
	}
	return &alacDecoder{dec: dec, bits: bits, channels: channels}, nil
}

func (d *alacDecoder) decode(unit []byte) ([][2]float64, error) {
	return pcmFrames(d.dec.Decode(unit), d.bits, d.channels), nil
}

func (d *alacDecoder) close() {}

// int16Frames converts interleaved 16-bit samples to stereo frames, copying
// mono to both sides and dropping channels past the second.
func int16Frames(pcm []int16, channels int) [][2]float64 {
	if channels <= 0 {
		return nil
	}
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		l := float64(pcm[i*channels]) / 32768
		r := l
		if channels > 1 {
			r = float64(pcm[i*channels+1]) / 32768
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

// pcmFrames converts little-endian signed PCM of 16 or 24 bits to stereo
// frames.
func pcmFrames(data []byte, bits, channels int) [][2]float64 {
	width := 2
	scale := float64(1 << 15)
	if bits == 24 {
		width = 3
		scale = 1 << 23
	}
	if channels <= 0 {
		return nil
	}
	sample := func(b []byte) float64 {
		v := int32(b[0]) | int32(b[1])<<8
		if width == 3 {
			v |= int32(b[2]) << 16
		}
		shift := 32 - 8*width
		return float64(v<<shift>>shift) / scale
	}
	stride := width * channels
	frames := make([][2]float64, len(data)/stride)
	for i := range frames {
		f := data[i*stride:]
		l := sample(f)
		r := l
		if channels > 1 {
			r = sample(f[width:])
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}
