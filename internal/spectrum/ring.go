package spectrum

import (
	"math"
	"sync/atomic"
)

// Ring is a fixed-capacity single-producer/single-consumer sample buffer
// that overwrites its oldest samples when full. The producer never blocks.
//
// Each slot holds a float32 bit pattern behind an atomic, so a reader racing
// the writer gets a mix of older and newer samples but never a torn value.
type Ring struct {
	buf     []atomic.Uint32
	mask    uint64
	written atomic.Uint64
}

// NewRing creates a ring holding at least size samples (rounded up to a
// power of two).
func NewRing(size int) *Ring {
	n := nextPow2(max(size, 1))
	return &Ring{
		buf:  make([]atomic.Uint32, n),
		mask: uint64(n - 1),
	}
}

// Len returns the ring capacity.
func (r *Ring) Len() int {
	return len(r.buf)
}

// Written returns the total number of samples ever written.
func (r *Ring) Written() uint64 {
	return r.written.Load()
}

// Write appends the mono mix of a stereo block. Safe for one producer.
func (r *Ring) Write(samples [][2]float64) {
	pos := r.written.Load()
	for i := range samples {
		v := float32((samples[i][0] + samples[i][1]) / 2)
		r.buf[pos&r.mask].Store(math.Float32bits(v))
		pos++
	}
	r.written.Store(pos)
}

// Latest copies the most recent samples into dst in chronological order and
// returns how many were copied: len(dst), or fewer if the ring has not yet
// seen that many samples. Safe for one consumer.
func (r *Ring) Latest(dst []float32) int {
	end := r.written.Load()
	n := uint64(min(len(dst), len(r.buf)))
	if end < n {
		n = end
	}
	start := end - n
	for i := range n {
		dst[i] = math.Float32frombits(r.buf[(start+i)&r.mask].Load())
	}
	return int(n)
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
