package player

import (
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
)

// Largest decoded packet per channel: a Vorbis long block.
const oggMaxFrames = 8192

// oggStream decodes an Ogg Vorbis or Opus file. Positions count frames after
// the Opus pre-skip, matching the page granules.
type oggStream struct {
	ogg    *oggReader
	codec  oggCodec
	index  oggIndex
	closer io.Closer

	pcm     []float32
	pcmPos  int // next unread frame
	pcmLen  int // frames in pcm
	discard int64
	pos     int64
	err     error
}

func decodeOgg(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	ogg := newOggReader(rc)
	first, err := ogg.nextPacket()
	if err != nil {
		return nil, beep.Format{}, err
	}
	codec, err := detectOggCodec(first)
	if err != nil {
		return nil, beep.Format{}, err
	}
	for done := false; !done; {
		pkt, err := ogg.nextPacket()
		if err != nil {
			return nil, beep.Format{}, err
		}
		if done, err = codec.AddHeaderPacket(pkt); err != nil {
			return nil, beep.Format{}, err
		}
	}

	return newOggStream(rc, ogg, codec)
}

// newOggStream indexes the audio pages from the current position of rc.
// Packets ogg has already buffered stay queued.
func newOggStream(rc io.ReadSeekCloser, ogg *oggReader, codec oggCodec) (*oggStream, beep.Format, error) {
	dataStart, err := rc.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, beep.Format{}, err
	}
	index, err := scanOggIndex(rc, dataStart, codec.GranuleToSamples)
	if err != nil {
		return nil, beep.Format{}, err
	}
	if _, err := rc.Seek(dataStart, io.SeekStart); err != nil {
		return nil, beep.Format{}, err
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(codec.SampleRate()),
		NumChannels: min(codec.Channels(), 2),
		Precision:   2,
	}
	return &oggStream{
		ogg:     ogg,
		codec:   codec,
		index:   index,
		closer:  rc,
		pcm:     make([]float32, oggMaxFrames*codec.Channels()),
		discard: int64(codec.PreSkip()),
	}, format, nil
}

func (s *oggStream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	ch := s.codec.Channels()
	total := s.index.length()
	n := 0
	for n < len(samples) && s.pos < total {
		if s.pcmPos >= s.pcmLen {
			if !s.decodeNext() {
				break
			}
			continue
		}
		if s.discard > 0 {
			skip := min(int64(s.pcmLen-s.pcmPos), s.discard)
			s.pcmPos += int(skip)
			s.discard -= skip
			continue
		}
		i := s.pcmPos * ch
		l := float64(s.pcm[i])
		r := l
		if ch > 1 {
			r = float64(s.pcm[i+1])
		}
		samples[n] = [2]float64{l, r}
		s.pcmPos++
		s.pos++
		n++
	}
	return n, n > 0
}

// decodeNext fills pcm from the next packet. It returns false at end of
// stream or on a read error.
func (s *oggStream) decodeNext() bool {
	pkt, err := s.ogg.nextPacket()
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			s.err = err
		}
		return false
	}
	frames, err := s.codec.Decode(pkt, s.pcm)
	if err != nil {
		// a corrupt packet costs its own frames only
		frames = 0
	}
	s.pcmPos, s.pcmLen = 0, frames
	return true
}

func (s *oggStream) Err() error    { return s.err }
func (s *oggStream) Len() int      { return int(s.index.length()) }
func (s *oggStream) Position() int { return int(s.pos) }

func (s *oggStream) Seek(p int) error {
	target := max(0, min(int64(p), s.index.length()))
	s.pcmPos, s.pcmLen = 0, 0
	s.pos = target
	s.err = nil

	offset, start, ok := s.index.locate(target)
	if !ok {
		s.discard = 0
		return nil
	}
	if offset == s.index[0].offset {
		// the first page still carries the pre-skip
		start = -int64(s.codec.PreSkip())
	}
	if err := s.ogg.seek(offset); err != nil {
		return err
	}
	if err := s.codec.Reset(); err != nil {
		return err
	}
	s.discard = target - start
	return nil
}

func (s *oggStream) Close() error {
	return s.closer.Close()
}
