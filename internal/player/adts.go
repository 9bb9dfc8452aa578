package player

import (
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
)

const (
	adtsHeaderSize = 7
	adtsCRCSize    = 2
	aacFrameLen    = 1024 // frames per AAC-LC access unit
)

var (
	errADTSSync   = errors.New("adts: lost frame sync")
	errADTSEmpty  = errors.New("adts: no frames")
	errADTSLayout = errors.New("adts: unsupported sample rate or channel layout")
)

var adtsRates = [...]int{96000, 88200, 64000, 48000, 44100, 32000, 24000, 22050, 16000, 12000, 11025, 8000, 7350}

// adtsHeader is the part of an ADTS frame header the decoder needs.
type adtsHeader struct {
	profile    uint8 // object type minus one
	rateIndex  uint8
	channels   uint8
	frameSize  int // header included
	headerSize int
}

func parseADTSHeader(b []byte) (adtsHeader, error) {
	if len(b) < adtsHeaderSize || b[0] != 0xff || b[1]&0xf6 != 0xf0 {
		return adtsHeader{}, errADTSSync
	}
	h := adtsHeader{
		profile:    b[2] >> 6,
		rateIndex:  b[2] >> 2 & 0x0f,
		channels:   (b[2]&0x01)<<2 | b[3]>>6,
		frameSize:  int(b[3]&0x03)<<11 | int(b[4])<<3 | int(b[5])>>5,
		headerSize: adtsHeaderSize,
	}
	if b[1]&0x01 == 0 {
		h.headerSize += adtsCRCSize
	}
	if h.frameSize <= h.headerSize {
		return adtsHeader{}, errADTSSync
	}
	if int(h.rateIndex) >= len(adtsRates) || h.channels == 0 {
		return adtsHeader{}, errADTSLayout
	}
	return h, nil
}

// audioSpecificConfig builds the two-byte AudioSpecificConfig FAAD2 expects
// for raw frames.
func (h adtsHeader) audioSpecificConfig() []byte {
	obj := h.profile + 1
	return []byte{
		obj<<3 | h.rateIndex>>1,
		(h.rateIndex&0x01)<<7 | h.channels<<3,
	}
}

// adtsFrame locates one access unit's payload in the file.
type adtsFrame struct {
	offset int64
	size   int
}

// scanADTS walks frame headers from the current position to EOF. A
// truncated final frame is dropped.
func scanADTS(r io.ReadSeeker) (adtsHeader, []adtsFrame, error) {
	offset, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return adtsHeader{}, nil, err
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return adtsHeader{}, nil, err
	}

	var (
		first  adtsHeader
		frames []adtsFrame
		buf    [adtsHeaderSize]byte
	)
	for offset+adtsHeaderSize <= end {
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return adtsHeader{}, nil, err
		}
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return adtsHeader{}, nil, err
		}
		h, err := parseADTSHeader(buf[:])
		if err != nil {
			if len(frames) > 0 && errors.Is(err, errADTSSync) {
				// trailing tag or garbage
				break
			}
			return adtsHeader{}, nil, err
		}
		if offset+int64(h.frameSize) > end {
			break
		}
		if len(frames) == 0 {
			first = h
		}
		frames = append(frames, adtsFrame{
			offset: offset + int64(h.headerSize),
			size:   h.frameSize - h.headerSize,
		})
		offset += int64(h.frameSize)
	}
	if len(frames) == 0 {
		return adtsHeader{}, nil, errADTSEmpty
	}
	return first, frames, nil
}

// adtsStream plays a raw AAC (ADTS) file. Every access unit decodes to the
// same number of frames, so seeking is arithmetic on the frame index.
type adtsStream struct {
	r        io.ReadSeeker
	closer   io.Closer
	dec      *aacDecoder
	frames   []adtsFrame
	perFrame int

	next    int
	unit    []byte
	buf     [][2]float64
	bufPos  int
	discard int
	pos     int
	err     error
}

func decodeADTS(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	if err := skipID3v2(rc); err != nil {
		return nil, beep.Format{}, err
	}
	h, frames, err := scanADTS(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}
	dec, err := newAACDecoder(h.audioSpecificConfig(), int(h.channels))
	if err != nil {
		return nil, beep.Format{}, err
	}
	s := &adtsStream{r: rc, closer: rc, dec: dec, frames: frames}

	// HE-AAC doubles the frames per unit and the output rate
	first, err := s.decodeFrame(0)
	if err != nil {
		dec.close()
		return nil, beep.Format{}, err
	}
	s.perFrame = aacFrameLen
	if len(first) > aacFrameLen {
		s.perFrame = len(first)
	}
	s.buf, s.next = first, 1

	format := beep.Format{
		SampleRate:  beep.SampleRate(adtsRates[h.rateIndex] * s.perFrame / aacFrameLen),
		NumChannels: 2,
		Precision:   2,
	}
	return s, format, nil
}

func (s *adtsStream) decodeFrame(i int) ([][2]float64, error) {
	f := s.frames[i]
	if cap(s.unit) < f.size {
		s.unit = make([]byte, f.size)
	}
	s.unit = s.unit[:f.size]
	if _, err := s.r.Seek(f.offset, io.SeekStart); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(s.r, s.unit); err != nil {
		return nil, err
	}
	return s.dec.decode(s.unit)
}

func (s *adtsStream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	n := 0
	for n < len(samples) {
		if s.bufPos >= len(s.buf) {
			if s.next >= len(s.frames) {
				break
			}
			buf, err := s.decodeFrame(s.next)
			if err != nil {
				s.err = err
				break
			}
			s.next++
			s.buf, s.bufPos = buf, 0
			continue
		}
		if s.discard > 0 {
			skip := min(len(s.buf)-s.bufPos, s.discard)
			s.bufPos += skip
			s.discard -= skip
			continue
		}
		c := copy(samples[n:], s.buf[s.bufPos:])
		s.bufPos += c
		s.pos += c
		n += c
	}
	return n, n > 0
}

func (s *adtsStream) Err() error    { return s.err }
func (s *adtsStream) Len() int      { return len(s.frames) * s.perFrame }
func (s *adtsStream) Position() int { return s.pos }

func (s *adtsStream) Seek(p int) error {
	p = max(0, min(p, s.Len()))
	s.next = p / s.perFrame
	s.discard = p - s.next*s.perFrame
	s.buf, s.bufPos = nil, 0
	s.pos = p
	s.err = nil
	return nil
}

func (s *adtsStream) Close() error {
	s.dec.close()
	return s.closer.Close()
}
