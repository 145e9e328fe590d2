package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftline/game"
)

func TestCentreline_IsContinuous(t *testing.T) {
	cfg := game.DefaultConfig()
	steps := centreline(cfg, 9, 12)
	require.NotEmpty(t, steps)

	for i := 1; i < len(steps); i++ {
		assert.InDelta(t, steps[i-1].EndX, steps[i].StartX, 1e-9)
		assert.InDelta(t, steps[i-1].EndZ, steps[i].StartZ, 1e-9)
	}
}

func TestLineString_LengthMatchesSteps(t *testing.T) {
	cfg := game.DefaultConfig()
	steps := centreline(cfg, 4, 8)

	ls, err := lineString(steps)
	require.NoError(t, err)

	var want float64
	for _, s := range steps {
		want += s.Length()
	}
	assert.InDelta(t, want, ls.Length(), 1e-6)
	assert.Equal(t, len(steps)+1, ls.Coordinates().Length())

	// the road runs toward +Y on the page
	start, ok := ls.StartPoint().XY()
	require.True(t, ok)
	end, ok := ls.EndPoint().XY()
	require.True(t, ok)
	assert.Equal(t, geom.XY{X: 0, Y: 0}, start)
	assert.Greater(t, end.Y, start.Y)
}

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dump(&buf, game.DefaultConfig(), 2, 3, true))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "# seed=2 segments=3 "))
	assert.True(t, strings.HasPrefix(lines[1], "LINESTRING("))
	assert.True(t, strings.HasPrefix(lines[2], "MULTIPOLYGON("))
}

func TestDump_NoSegments(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, dump(&buf, game.DefaultConfig(), 2, 0, false))
}
