package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestTrackBuilder_StraightSegment(t *testing.T) {
	b := NewTrackBuilder(10)

	steps := b.Advance(Segment{Angle: 0, Length: 40})
	require.Len(t, steps, 4)

	total := 0.0
	for i, s := range steps {
		assert.InDelta(t, s.StartX, s.EndX, eps, "step %d should be straight", i)
		assert.InDelta(t, 10.0, s.Length(), eps)
		assert.Equal(t, i, s.Index)
		total += s.Length()
	}
	assert.InDelta(t, 40.0, total, eps)
	assert.InDelta(t, -40.0, b.Cursor().Z, eps)
}

func TestTrackBuilder_QuarterTurn(t *testing.T) {
	b := NewTrackBuilder(10)
	start := b.Cursor().Heading

	steps := b.Advance(Segment{Angle: math.Pi / 2, Length: 20})
	require.Len(t, steps, 2)

	assert.InDelta(t, math.Pi/4, steps[0].Heading-start, eps)
	assert.InDelta(t, math.Pi/2, steps[1].Heading-start, eps)
	assert.InDelta(t, math.Pi/2, b.Cursor().Heading-start, eps)

	// heading pi/2 moves toward +X without changing Z
	assert.InDelta(t, steps[1].StartZ, steps[1].EndZ, eps)
	assert.Greater(t, steps[1].EndX, steps[1].StartX)
}

func TestTrackBuilder_PartialStrideRoundsUp(t *testing.T) {
	b := NewTrackBuilder(10)

	steps := b.Advance(Segment{Angle: 0.3, Length: 25})
	require.Len(t, steps, 3)
	assert.InDelta(t, 0.3, b.Cursor().Heading, eps)
}

func TestTrackBuilder_DegenerateSegment(t *testing.T) {
	b := NewTrackBuilder(10)
	assert.Empty(t, b.Advance(Segment{Angle: 1, Length: 0}))
	assert.Equal(t, Cursor{}, b.Cursor())
}

func TestTrackBuilder_Continuity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	track := NewTrack(NewPathGenerator(DefaultCatalog, rng), 10, math.Pi/3)

	var all []Step
	for i := 0; i < 200; i++ {
		all = append(all, track.Extend()...)
	}
	require.NotEmpty(t, all)

	assert.Equal(t, 0.0, all[0].StartX)
	assert.Equal(t, 0.0, all[0].StartZ)
	for i := 0; i+1 < len(all); i++ {
		assert.InDelta(t, all[i].EndX, all[i+1].StartX, 1e-6, "x gap after step %d", i)
		assert.InDelta(t, all[i].EndZ, all[i+1].StartZ, 1e-6, "z gap after step %d", i)
		assert.Equal(t, all[i].Index+1, all[i+1].Index)
	}
}

func TestTrack_HeadingStaysBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	maxHeading := math.Pi / 3
	track := NewTrack(NewPathGenerator(DefaultCatalog, rng), 10, maxHeading)

	for i := 0; i < 500; i++ {
		for _, s := range track.Extend() {
			assert.LessOrEqual(t, math.Abs(s.Heading), maxHeading+eps)
			assert.Less(t, s.EndZ, s.StartZ, "road must keep progressing toward -Z")
		}
	}
	assert.Equal(t, 500, track.Segments())
}

func TestTrack_ResetReturnsToOrigin(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	track := NewTrack(NewPathGenerator(DefaultCatalog, rng), 10, math.Pi/3)
	for i := 0; i < 5; i++ {
		track.Extend()
	}

	track.Reset()
	assert.Equal(t, Cursor{}, track.Builder.Cursor())
	assert.Equal(t, 0, track.Segments())

	steps := track.Extend()
	require.NotEmpty(t, steps)
	assert.Equal(t, 0, steps[0].Index)
}
