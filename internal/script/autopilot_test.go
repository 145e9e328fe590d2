package script

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftline/game"
)

func TestNew_RequiresSteerFunction(t *testing.T) {
	_, err := New("empty.js", "var x = 1;", zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoSteerFunc)

	_, err = New("notfunc.js", "var steer = 3;", zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoSteerFunc)

	_, err = New("broken.js", "function steer( {", zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script parse error")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(defaultSource))
	assert.ErrorIs(t, Validate("function decide() {}"), ErrNoSteerFunc)
}

func TestDecide_PassesContext(t *testing.T) {
	a, err := New("echo.js", "function steer(ctx) { return ctx.targetX - ctx.x + ctx.roadWidth; }", zerolog.Nop())
	require.NoError(t, err)

	v, err := a.Decide(SteerContext{X: 1, TargetX: 3, RoadWidth: 20})
	require.NoError(t, err)
	assert.Equal(t, 22.0, v)
}

func TestDecide_KeepsGlobalState(t *testing.T) {
	a, err := New("counter.js", "var n = 0; function steer(ctx) { n++; return n; }", zerolog.Nop())
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		v, err := a.Decide(SteerContext{})
		require.NoError(t, err)
		assert.Equal(t, float64(i), v)
	}
}

func TestDecide_RejectsNonNumbers(t *testing.T) {
	a, err := New("str.js", "function steer(ctx) { return 'left'; }", zerolog.Nop())
	require.NoError(t, err)

	_, err = a.Decide(SteerContext{})
	assert.Error(t, err)
}

func TestDecide_InterruptsRunawayScript(t *testing.T) {
	a, err := New("loop.js", "function steer(ctx) { while (ctx.x > 0) {} return 0.5; }", zerolog.Nop())
	require.NoError(t, err)
	a.Budget = 10 * time.Millisecond

	_, err = a.Decide(SteerContext{X: 1})
	require.Error(t, err)

	// the runtime is usable again after an interrupt
	v, err := a.Decide(SteerContext{X: 0})
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
}

func TestSteering_FallsBackToStraight(t *testing.T) {
	a, err := New("throw.js", "function steer(ctx) { throw new Error('boom'); }", zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 0.0, a.Steering(game.Snapshot{}))
	assert.Equal(t, 1, a.Failures)
}

func TestDefaultScript_SteersTowardTarget(t *testing.T) {
	a, err := NewDefault(zerolog.Nop())
	require.NoError(t, err)

	right, err := a.Decide(SteerContext{TargetX: 5, TargetZ: -8})
	require.NoError(t, err)
	assert.Greater(t, right, 0.0)

	left, err := a.Decide(SteerContext{TargetX: -5, TargetZ: -8})
	require.NoError(t, err)
	assert.Less(t, left, 0.0)

	ahead, err := a.Decide(SteerContext{TargetX: 0, TargetZ: -8})
	require.NoError(t, err)
	assert.Equal(t, 0.0, ahead)
}

func TestLoad(t *testing.T) {
	a, err := Load("", zerolog.Nop())
	require.NoError(t, err)
	assert.NotNil(t, a)

	path := filepath.Join(t.TempDir(), "custom.js")
	require.NoError(t, os.WriteFile(path, []byte("function steer(ctx) { return -1; }"), 0644))
	a, err = Load(path, zerolog.Nop())
	require.NoError(t, err)
	v, err := a.Decide(SteerContext{})
	require.NoError(t, err)
	assert.Equal(t, -1.0, v)

	_, err = Load(filepath.Join(t.TempDir(), "missing.js"), zerolog.Nop())
	assert.Error(t, err)
}

func TestPointAhead(t *testing.T) {
	b := game.NewTrackBuilder(10)
	steps := b.Advance(game.Segment{Length: 50})

	x, z := pointAhead(steps, 0, -12, 8)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, -20.0, z, 1e-9)

	// past the end of the window the last step end is the target
	x, z = pointAhead(steps, 0, -48, 8)
	assert.InDelta(t, -50.0, z, 1e-9)
	assert.InDelta(t, 0.0, x, 1e-9)

	x, z = pointAhead(nil, 3, -1, 8)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, -9.0, z)
}

func TestAutopilot_DrivesARun(t *testing.T) {
	cfg := game.DefaultConfig()
	cfg.Seed = 21
	cfg.RoadWidth = 30
	g := game.NewGame(cfg, nil, game.Collaborators{})

	a, err := NewDefault(zerolog.Nop())
	require.NoError(t, err)
	a.Budget = 0

	g.StartRun()
	for i := 0; i < 600; i++ {
		g.Tick(1.0/60, a.Steering(g.Snapshot()))
		require.Equal(t, game.StatePlaying, g.State(), "crashed after %d ticks at %+v", i, g.Vehicle().Pose())
	}
	assert.Greater(t, g.Score(), 250)
	assert.Zero(t, a.Failures)
	assert.False(t, math.IsNaN(g.Vehicle().Pose().Heading))
}
