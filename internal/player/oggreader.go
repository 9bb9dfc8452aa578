package player

import (
	"encoding/binary"
	"errors"
	"io"
	"slices"
)

var (
	errInvalidOggMagic   = errors.New("ogg: invalid capture pattern")
	errInvalidOggVersion = errors.New("ogg: unsupported version")
)

const (
	oggHeaderSize    = 27
	oggFlagContinued = 0x01
	oggNoGranule     = -1 // no packet ends on the page
)

// oggPageHeader is the fixed part of an Ogg page plus its lacing table.
type oggPageHeader struct {
	Flags        uint8
	GranulePos   int64
	SerialNumber uint32
	SequenceNum  uint32
	SegmentTable []uint8
}

// bodySize returns the total payload size described by the lacing table.
func (h *oggPageHeader) bodySize() int64 {
	var n int64
	for _, s := range h.SegmentTable {
		n += int64(s)
	}
	return n
}

// parseOggPageHeader reads one page header from r.
func parseOggPageHeader(r io.Reader) (*oggPageHeader, error) {
	var buf [oggHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	if string(buf[0:4]) != "OggS" {
		return nil, errInvalidOggMagic
	}
	if buf[4] != 0 {
		return nil, errInvalidOggVersion
	}

	hdr := &oggPageHeader{
		Flags:        buf[5],
		GranulePos:   int64(binary.LittleEndian.Uint64(buf[6:14])), //nolint:gosec // -1 means none
		SerialNumber: binary.LittleEndian.Uint32(buf[14:18]),
		SequenceNum:  binary.LittleEndian.Uint32(buf[18:22]),
	}
	// CRC at buf[22:26] is not checked
	if n := buf[26]; n > 0 {
		hdr.SegmentTable = make([]uint8, n)
		if _, err := io.ReadFull(r, hdr.SegmentTable); err != nil {
			return nil, err
		}
	}
	return hdr, nil
}

// oggReader turns a sequence of Ogg pages into packets. A packet may span
// pages; a packet continued from a page that was skipped by a seek is
// dropped.
type oggReader struct {
	r       io.ReadSeeker
	packets [][]byte
	pending []byte // start of a packet continued on the next page
	resync  bool   // drop continued data until the next packet boundary
}

func newOggReader(r io.ReadSeeker) *oggReader {
	return &oggReader{r: r}
}

// nextPacket returns the next complete packet.
func (o *oggReader) nextPacket() ([]byte, error) {
	for len(o.packets) == 0 {
		if err := o.readPage(); err != nil {
			return nil, err
		}
	}
	p := o.packets[0]
	o.packets = o.packets[1:]
	return p, nil
}

func (o *oggReader) readPage() error {
	hdr, err := parseOggPageHeader(o.r)
	if err != nil {
		return err
	}
	body := make([]byte, hdr.bodySize())
	if _, err := io.ReadFull(o.r, body); err != nil {
		return err
	}

	continued := hdr.Flags&oggFlagContinued != 0
	if !continued {
		o.pending = nil
	}
	skip := continued && o.resync
	o.resync = false

	cur := o.pending
	o.pending = nil
	off := 0
	for _, seg := range hdr.SegmentTable {
		if !skip {
			cur = append(cur, body[off:off+int(seg)]...)
		}
		off += int(seg)
		if seg < 255 {
			if !skip {
				o.packets = append(o.packets, cur)
			}
			cur = nil
			skip = false
		}
	}
	if !skip && len(hdr.SegmentTable) > 0 && hdr.SegmentTable[len(hdr.SegmentTable)-1] == 255 {
		o.pending = cur
	}
	if skip {
		// the whole page belonged to the dropped packet
		o.resync = true
	}
	return nil
}

// seek moves to the page starting at offset and forgets buffered packets.
func (o *oggReader) seek(offset int64) error {
	if _, err := o.r.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	o.packets = nil
	o.pending = nil
	o.resync = true
	return nil
}

// oggPageMark records where a page starts and the sample position reached
// at its end.
type oggPageMark struct {
	offset int64
	end    int64
}

// oggIndex lists the audio pages of a stream in order.
type oggIndex []oggPageMark

// scanOggIndex reads page headers from offset to EOF, skipping bodies, and
// records pages that end a packet. toSamples converts granule positions.
func scanOggIndex(r io.ReadSeeker, offset int64, toSamples func(int64) int64) (oggIndex, error) {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	var idx oggIndex
	for {
		hdr, err := parseOggPageHeader(r)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return idx, nil
		}
		if err != nil {
			return nil, err
		}
		if hdr.GranulePos != oggNoGranule {
			idx = append(idx, oggPageMark{offset: offset, end: max(toSamples(hdr.GranulePos), 0)})
		}
		offset += oggHeaderSize + int64(len(hdr.SegmentTable)) + hdr.bodySize()
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return nil, err
		}
	}
}

// length returns the sample position at the end of the last page.
func (x oggIndex) length() int64 {
	if len(x) == 0 {
		return 0
	}
	return x[len(x)-1].end
}

// locate returns the offset of the first page whose samples reach past p,
// and the sample position at which that page's audio begins.
func (x oggIndex) locate(p int64) (offset, start int64, ok bool) {
	i, _ := slices.BinarySearchFunc(x, p, func(m oggPageMark, p int64) int {
		if m.end <= p {
			return -1
		}
		return 1
	})
	if i >= len(x) {
		return 0, 0, false
	}
	if i > 0 {
		start = x[i-1].end
	}
	return x[i].offset, start, true
}
