package equalizer

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomBlock(n int, seed uint64) [][2]float64 {
	r := rand.New(rand.NewPCG(seed, seed+1))
	out := make([][2]float64, n)
	for i := range out {
		out[i] = [2]float64{r.Float64()*2 - 1, r.Float64()*2 - 1}
	}
	return out
}

func TestPeaking_ZeroGainIsIdentity(t *testing.T) {
	for _, fs := range []float64{22050, 44100, 48000, 96000} {
		for _, f0 := range []float64{60, 120, 1000, 8000, 10000} {
			c := Peaking(fs, f0, 0.707, 0)
			assert.True(t, c.IsIdentity(1e-12), "fs=%v f0=%v: %+v", fs, f0, c)
		}
	}
}

func TestPeaking_NonZeroGainIsNotIdentity(t *testing.T) {
	c := Peaking(44100, 1000, 0.707, 6)
	assert.False(t, c.IsIdentity(1e-6))
}

func TestBiquad_ZeroGainPassesInputThrough(t *testing.T) {
	b := NewBiquad(Peaking(44100, 120, 0.707, 0))
	r := rand.New(rand.NewPCG(1, 2))
	for i := range 10000 {
		x := r.Float64()*2 - 1
		y := b.Process(x)
		if math.Abs(y-x) > 1e-6 {
			t.Fatalf("sample %d: got %v, want %v", i, y, x)
		}
	}
}

func TestBiquad_PeakingBoostsCenterFrequency(t *testing.T) {
	const fs, f0 = 44100.0, 1000.0
	b := NewBiquad(Peaking(fs, f0, 0.707, 12))

	var peak float64
	for i := range 8192 {
		x := math.Sin(2 * math.Pi * f0 * float64(i) / fs)
		y := b.Process(x)
		if i > 4096 { // past the transient
			peak = max(peak, math.Abs(y))
		}
	}
	// +12 dB is roughly x3.98
	assert.InDelta(t, math.Pow(10, 12.0/20), peak, 0.1)
}

func TestBiquad_SetCoefficientsKeepsHistory(t *testing.T) {
	b := NewBiquad(Peaking(44100, 1000, 0.707, 6))
	for i := range 64 {
		b.Process(math.Sin(float64(i)))
	}
	x1, y1 := b.x1, b.y1
	b.SetCoefficients(Peaking(44100, 1000, 0.707, -6))
	assert.Equal(t, x1, b.x1)
	assert.Equal(t, y1, b.y1)

	b.Reset()
	assert.Zero(t, b.x1)
	assert.Zero(t, b.y2)
}

func TestEqualizer_FlatAt100PercentIsPassThrough(t *testing.T) {
	e := New(DefaultConfig(44100))
	in := randomBlock(4096, 7)
	out := make([][2]float64, len(in))
	copy(out, in)

	e.Process(out)

	for i := range in {
		for ch := range 2 {
			if math.Abs(out[i][ch]-in[i][ch]) > 1e-6 {
				t.Fatalf("sample %d ch %d: got %v, want %v", i, ch, out[i][ch], in[i][ch])
			}
		}
	}
}

func TestEqualizer_SetGainClamps(t *testing.T) {
	e := New(DefaultConfig(48000))
	tests := []struct {
		in, want int
	}{
		{0, 0},
		{12, 12},
		{-12, -12},
		{13, 12},
		{100, 12},
		{-13, -12},
		{-1000, -12},
		{5, 5},
	}
	for _, band := range Bands() {
		for _, tt := range tests {
			got := e.SetGain(band, tt.in)
			assert.Equal(t, tt.want, got, "%v SetGain(%d)", band, tt.in)
			assert.Equal(t, tt.want, e.Gain(band))
		}
	}
}

func TestEqualizer_SetGainInvalidBand(t *testing.T) {
	e := New(DefaultConfig(48000))
	assert.Equal(t, 0, e.SetGain(Band(7), 6))
	assert.Equal(t, [3]int{0, 0, 0}, e.Gains())
}

func TestEqualizer_SetGainRecomputesOnlyThatBand(t *testing.T) {
	e := New(DefaultConfig(44100))
	e.SetGain(Mid, 6)

	assert.True(t, e.stages[Bass].ch[0].Coefficients().IsIdentity(1e-12))
	assert.False(t, e.stages[Mid].ch[0].Coefficients().IsIdentity(1e-6))
	assert.Equal(t, e.stages[Mid].ch[0].Coefficients(), e.stages[Mid].ch[1].Coefficients())
	assert.True(t, e.stages[Treble].ch[1].Coefficients().IsIdentity(1e-12))
	assert.Equal(t, [3]int{0, 6, 0}, e.Gains())
}

func TestEqualizer_VolumeScaling(t *testing.T) {
	tests := []struct {
		percent int
		stored  int
		mult    float64
	}{
		{100, 100, 1.0},
		{50, 50, 0.5},
		{0, 0, 0},
		{150, 150, 1.5},
		{151, 150, 1.5},
		{-5, 0, 0},
	}
	for _, tt := range tests {
		e := New(DefaultConfig(44100))
		require.Equal(t, tt.stored, e.SetVolume(tt.percent))
		assert.Equal(t, tt.stored, e.Volume())

		block := [][2]float64{{0.5, -0.25}}
		e.Process(block)
		assert.InDelta(t, 0.5*tt.mult, block[0][0], 1e-9, "percent=%d", tt.percent)
		assert.InDelta(t, -0.25*tt.mult, block[0][1], 1e-9, "percent=%d", tt.percent)
	}
}

func TestEqualizer_ChannelsAreIndependent(t *testing.T) {
	e := New(DefaultConfig(44100))
	e.SetGain(Bass, 12)

	block := make([][2]float64, 512)
	for i := range block {
		block[i][0] = math.Sin(2 * math.Pi * 120 * float64(i) / 44100)
	}
	e.Process(block)

	for i := range block {
		assert.Zero(t, block[i][1], "right channel must stay silent at %d", i)
	}
}

func TestEqualizer_ProcessDoesNotAllocate(t *testing.T) {
	e := New(DefaultConfig(44100))
	e.SetGain(Treble, -4)
	block := randomBlock(1024, 3)
	allocs := testing.AllocsPerRun(100, func() {
		e.Process(block)
	})
	assert.Zero(t, allocs)
}

func TestClampVolumeAndMultiplier(t *testing.T) {
	for p := -50; p <= 200; p += 7 {
		v := ClampVolume(p)
		assert.GreaterOrEqual(t, v, MinVolume)
		assert.LessOrEqual(t, v, MaxVolume)
		assert.InDelta(t, float64(v)/100, VolumeMultiplier(p), 1e-12)
	}
}

func TestParseBand(t *testing.T) {
	for _, b := range Bands() {
		got, err := ParseBand(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}
	_, err := ParseBand("sub")
	assert.Error(t, err)
	assert.Equal(t, "Unknown", Band(9).String())
}
