package player

import (
	"encoding/binary"
	"errors"
	"slices"

	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

// Opus always decodes at 48kHz whatever rate the header reports.
const opusSampleRate = 48000

var (
	errUnknownOggCodec     = errors.New("ogg: unknown codec (not Opus or Vorbis)")
	errInvalidOpusHead     = errors.New("opus: invalid OpusHead")
	errInvalidVorbisHeader = errors.New("vorbis: invalid identification header")
	errVorbisNotReady      = errors.New("vorbis: headers incomplete")
	errPCMBufferTooSmall   = errors.New("ogg: pcm buffer too small")
)

// oggCodec decodes the packets of one logical Ogg stream.
type oggCodec interface {
	SampleRate() int
	Channels() int
	// PreSkip is how many decoded frames to drop at the start of the stream.
	PreSkip() int
	// GranuleToSamples maps a page granule position to a frame position.
	GranuleToSamples(granule int64) int64
	// AddHeaderPacket feeds a setup packet and reports when decoding can start.
	AddHeaderPacket(packet []byte) (complete bool, err error)
	// Decode writes interleaved samples to pcm and returns frames decoded.
	Decode(packet []byte, pcm []float32) (frames int, err error)
	// Reset drops decoder state after a seek.
	Reset() error
}

// detectOggCodec picks the codec from the identification packet.
func detectOggCodec(first []byte) (oggCodec, error) {
	switch {
	case len(first) >= 8 && string(first[:8]) == "OpusHead":
		return newOpusCodec(first)
	case len(first) >= 7 && first[0] == 0x01 && string(first[1:7]) == "vorbis":
		return newVorbisCodec(first)
	}
	return nil, errUnknownOggCodec
}

type opusCodec struct {
	dec      *opus.Decoder
	channels int
	preSkip  int
}

func newOpusCodec(head []byte) (*opusCodec, error) {
	if len(head) < 19 || head[8] != 1 {
		return nil, errInvalidOpusHead
	}
	channels := int(head[9])
	if channels < 1 || channels > 2 {
		return nil, errInvalidOpusHead
	}
	dec, err := opus.NewDecoder(opusSampleRate, channels)
	if err != nil {
		return nil, err
	}
	return &opusCodec{
		dec:      dec,
		channels: channels,
		preSkip:  int(binary.LittleEndian.Uint16(head[10:12])),
	}, nil
}

func (c *opusCodec) SampleRate() int { return opusSampleRate }
func (c *opusCodec) Channels() int   { return c.channels }
func (c *opusCodec) PreSkip() int    { return c.preSkip }

func (c *opusCodec) GranuleToSamples(granule int64) int64 {
	return granule - int64(c.preSkip)
}

// AddHeaderPacket consumes the OpusTags packet that follows OpusHead.
func (c *opusCodec) AddHeaderPacket([]byte) (bool, error) {
	return true, nil
}

func (c *opusCodec) Decode(packet []byte, pcm []float32) (int, error) {
	return c.dec.DecodeFloat32(packet, pcm)
}

// Reset is a no-op: the decoder conceals the discontinuity itself.
func (c *opusCodec) Reset() error { return nil }

type vorbisCodec struct {
	dec        *vorbis.Decoder
	channels   int
	sampleRate int
	headers    [][]byte // identification, comment, setup
}

func newVorbisCodec(ident []byte) (*vorbisCodec, error) {
	// [7:11] version, [11] channels, [12:16] rate
	if len(ident) < 16 || binary.LittleEndian.Uint32(ident[7:11]) != 0 {
		return nil, errInvalidVorbisHeader
	}
	channels := int(ident[11])
	rate := int(binary.LittleEndian.Uint32(ident[12:16]))
	if channels < 1 || rate <= 0 {
		return nil, errInvalidVorbisHeader
	}
	return &vorbisCodec{
		channels:   channels,
		sampleRate: rate,
		headers:    [][]byte{slices.Clone(ident)},
	}, nil
}

func (c *vorbisCodec) SampleRate() int                      { return c.sampleRate }
func (c *vorbisCodec) Channels() int                        { return c.channels }
func (c *vorbisCodec) PreSkip() int                         { return 0 }
func (c *vorbisCodec) GranuleToSamples(granule int64) int64 { return granule }

func (c *vorbisCodec) AddHeaderPacket(packet []byte) (bool, error) {
	if c.dec != nil {
		return true, nil
	}
	c.headers = append(c.headers, slices.Clone(packet))
	if len(c.headers) < 3 {
		return false, nil
	}
	dec := &vorbis.Decoder{}
	for _, h := range c.headers {
		if err := dec.ReadHeader(h); err != nil {
			return false, err
		}
	}
	c.dec = dec
	c.headers = nil
	return true, nil
}

func (c *vorbisCodec) Decode(packet []byte, pcm []float32) (int, error) {
	if c.dec == nil {
		return 0, errVorbisNotReady
	}
	out, err := c.dec.Decode(packet)
	if err != nil {
		return 0, err
	}
	if len(pcm) < len(out) {
		return 0, errPCMBufferTooSmall
	}
	return copy(pcm, out) / c.channels, nil
}

func (c *vorbisCodec) Reset() error {
	if c.dec != nil {
		c.dec.Clear()
	}
	return nil
}
