package equalizer

import "math"

// Coefficients are normalized biquad coefficients (a0 divided out).
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Peaking computes a peaking EQ filter per the Audio EQ Cookbook.
//
// fs is the sample rate, f0 the center frequency, q the quality factor and
// db the boost (positive) or cut (negative) at f0.
func Peaking(fs, f0, q, db float64) Coefficients {
	a := math.Pow(10, db/40)
	w0 := 2 * math.Pi * f0 / fs
	sinW0, cosW0 := math.Sincos(w0)
	alpha := sinW0 / (2 * q)

	a0 := 1 + alpha/a
	return Coefficients{
		B0: (1 + alpha*a) / a0,
		B1: -2 * cosW0 / a0,
		B2: (1 - alpha*a) / a0,
		A1: -2 * cosW0 / a0,
		A2: (1 - alpha/a) / a0,
	}
}

// IsIdentity reports whether c behaves as a pass-through within tol.
func (c Coefficients) IsIdentity(tol float64) bool {
	// At 0 dB b1 == a1 and b2 == a2, so the zeros cancel the poles.
	return math.Abs(c.B0-1) <= tol &&
		math.Abs(c.B1-c.A1) <= tol &&
		math.Abs(c.B2-c.A2) <= tol
}

// Biquad is a single second-order IIR section in Direct Form I.
type Biquad struct {
	c      Coefficients
	x1, x2 float64
	y1, y2 float64
}

// NewBiquad returns a filter with cleared history.
func NewBiquad(c Coefficients) *Biquad {
	return &Biquad{c: c}
}

// SetCoefficients swaps the coefficients. History is kept so a gain change
// does not click.
func (b *Biquad) SetCoefficients(c Coefficients) {
	b.c = c
}

// Coefficients returns the current coefficients.
func (b *Biquad) Coefficients() Coefficients {
	return b.c
}

// Reset clears the filter history.
func (b *Biquad) Reset() {
	b.x1, b.x2, b.y1, b.y2 = 0, 0, 0, 0
}

// Process filters one sample.
func (b *Biquad) Process(x float64) float64 {
	c := &b.c
	y := c.B0*x + c.B1*b.x1 + c.B2*b.x2 - c.A1*b.y1 - c.A2*b.y2
	b.x2, b.x1 = b.x1, x
	b.y2, b.y1 = b.y1, y
	return y
}
