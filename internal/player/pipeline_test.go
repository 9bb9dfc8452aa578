package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/ripple/internal/equalizer"
	"github.com/llehouerou/ripple/internal/spectrum"
)

func newTestPipeline(params Params) (*pipeline, *spectrum.Ring) {
	ring := spectrum.NewRing(4096)
	eq := equalizer.New(equalizer.DefaultConfig(float64(testRate)))
	return newPipeline(params, eq, ring), ring
}

func TestPipeline_SilenceWithoutSource(t *testing.T) {
	p, ring := newTestPipeline(staticParams{volume: 100})

	buf := make([][2]float64, 256)
	buf[3] = [2]float64{1, 1}
	n, ok := p.Stream(buf)

	assert.Equal(t, 256, n)
	assert.True(t, ok, "pipeline never drains")
	for i, s := range buf {
		require.Equal(t, [2]float64{}, s, "frame %d", i)
	}
	assert.Equal(t, uint64(256), ring.Written())
	assert.Zero(t, p.frames.Load())
}

func TestPipeline_AppliesVolume(t *testing.T) {
	p, _ := newTestPipeline(staticParams{volume: 50})
	p.load(newMemStream(1000, 0.5), 1, false)

	buf := make([][2]float64, 100)
	p.Stream(buf)

	for _, s := range buf {
		assert.InDelta(t, 0.25, s[0], 1e-9)
		assert.InDelta(t, 0.25, s[1], 1e-9)
	}
	assert.Equal(t, int64(100), p.frames.Load())
}

func TestPipeline_PicksUpGainChanges(t *testing.T) {
	params := &staticParams{volume: 100}
	p, _ := newTestPipeline(params)

	p.Stream(make([][2]float64, 16))
	assert.Equal(t, [3]int{}, p.eq.Gains())

	params.gains = [3]int{6, 0, -3}
	p.Stream(make([][2]float64, 16))
	assert.Equal(t, [3]int{6, 0, -3}, p.eq.Gains())
}

func TestPipeline_ShortReadIsZeroFilledThenSignalsEnd(t *testing.T) {
	p, _ := newTestPipeline(staticParams{volume: 100})
	p.load(newMemStream(10, 0.5), 7, false)

	buf := make([][2]float64, 16)
	for i := range buf {
		buf[i] = [2]float64{9, 9}
	}
	p.Stream(buf)
	assert.InDelta(t, 0.5, buf[9][0], 1e-9)
	assert.Equal(t, [2]float64{}, buf[10])
	assert.Empty(t, p.finished)

	p.Stream(buf)
	require.Len(t, p.finished, 1)
	f := <-p.finished
	assert.Equal(t, uint64(7), f.gen)
	assert.NoError(t, f.err)

	// exhausted sources signal once
	p.Stream(buf)
	assert.Empty(t, p.finished)
	assert.Equal(t, int64(10), p.frames.Load())
}

func TestPipeline_LoadDropsStaleSignal(t *testing.T) {
	p, _ := newTestPipeline(staticParams{volume: 100})
	p.load(newMemStream(0, 0), 1, false)
	p.Stream(make([][2]float64, 8))
	require.Len(t, p.finished, 1)

	p.load(newMemStream(100, 0.5), 2, false)
	assert.Empty(t, p.finished)
	assert.Zero(t, p.frames.Load())
}

func TestPipeline_PausedEmitsSilenceAndHoldsPosition(t *testing.T) {
	p, _ := newTestPipeline(staticParams{volume: 100})
	src := newMemStream(1000, 0.5)
	p.load(src, 1, false)
	p.Stream(make([][2]float64, 100))

	p.setPaused(true)
	buf := make([][2]float64, 100)
	p.Stream(buf)
	assert.Equal(t, int64(100), p.frames.Load())
	assert.Equal(t, 100, src.Position())
	assert.InDelta(t, 0, buf[99][0], 1e-3)

	p.setPaused(false)
	p.Stream(buf)
	assert.Equal(t, int64(200), p.frames.Load())
}

func TestPipeline_LoadPausedStaysSilent(t *testing.T) {
	p, _ := newTestPipeline(staticParams{volume: 100})
	src := newMemStream(1000, 0.5)
	p.load(src, 1, true)

	buf := make([][2]float64, 100)
	p.Stream(buf)
	assert.Equal(t, [2]float64{}, buf[99])
	assert.Zero(t, src.Position())
	assert.Zero(t, p.frames.Load())
}

func TestPipeline_StreamDoesNotAllocate(t *testing.T) {
	p, _ := newTestPipeline(staticParams{volume: 80, gains: [3]int{3, -2, 5}})
	p.load(newMemStream(1<<20, 0.1), 1, false)
	buf := make([][2]float64, 512)

	allocs := testing.AllocsPerRun(50, func() {
		p.Stream(buf)
	})
	assert.Zero(t, allocs)
}
