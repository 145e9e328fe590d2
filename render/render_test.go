package render

import (
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"driftline/game"
)

func TestCamera_RoundTrip(t *testing.T) {
	cam := NewCamera(800, 600, 5)
	cam.Follow(game.Pose{X: 12, Z: -340})

	sx, sy := cam.WorldToScreen(12, -340)
	assert.InDelta(t, 400.0, sx, 1e-9)
	assert.InDelta(t, 450.0, sy, 1e-9)

	// ahead of the vehicle is up the screen
	_, ahead := cam.WorldToScreen(12, -350)
	assert.Less(t, ahead, sy)

	wx, wz := cam.ScreenToWorld(123, 45)
	bx, by := cam.WorldToScreen(wx, wz)
	assert.InDelta(t, 123.0, bx, 1e-9)
	assert.InDelta(t, 45.0, by, 1e-9)

	view := cam.View()
	assert.InDelta(t, 12-80.0, view.MinX, 1e-9)
	assert.InDelta(t, -340-90.0, view.MinZ, 1e-9)
	assert.InDelta(t, -340+30.0, view.MaxZ, 1e-9)
}

func TestTrackMeshes_FollowsWindow(t *testing.T) {
	cfg := game.DefaultConfig()
	meshes := NewTrackMeshes()

	path := game.NewPathGenerator(game.DefaultCatalog, rand.New(rand.NewSource(3)))
	track := game.NewTrack(path, cfg.Stride, cfg.MaxHeading)
	w := game.NewWindow(cfg, track, []game.TrackRenderer{meshes})

	w.Reset()
	require.Equal(t, len(w.Steps()), meshes.Len())
	assert.Equal(t, meshes.Len(), meshes.Built)

	for z := 0.0; z > -2000; z -= 5 {
		w.Update(z)
		require.Less(t, meshes.Len(), 120)
	}
	assert.Positive(t, meshes.Disposed)
	assert.Equal(t, meshes.Built-meshes.Disposed, meshes.Len())

	w.Reset()
	assert.Equal(t, len(w.Steps()), meshes.Len())
}

func TestWallQuad_MatchesBounds(t *testing.T) {
	cfg := game.DefaultConfig()
	step := game.Step{StartX: 0, StartZ: 0, EndX: 5, EndZ: -8.66}
	left, right := game.PlaceWalls(step, cfg)

	for _, wp := range []game.WallPlacement{left, right} {
		q := wallQuad(wp)
		b := wp.Bounds()
		minX, maxX := math.Inf(1), math.Inf(-1)
		minZ, maxZ := math.Inf(1), math.Inf(-1)
		for _, c := range q {
			minX, maxX = math.Min(minX, c[0]), math.Max(maxX, c[0])
			minZ, maxZ = math.Min(minZ, c[1]), math.Max(maxZ, c[1])
		}
		assert.InDelta(t, b.MinX, minX, 1e-9)
		assert.InDelta(t, b.MaxX, maxX, 1e-9)
		assert.InDelta(t, b.MinZ, minZ, 1e-9)
		assert.InDelta(t, b.MaxZ, maxZ, 1e-9)
	}
}

func TestSpriteVehicle_FootprintFromViewBox(t *testing.T) {
	v, err := NewSpriteVehicle(4, 10, zerolog.Nop())
	require.NoError(t, err)

	assert.InDelta(t, 2.0, v.Width, 1e-9)
	assert.InDelta(t, 4.0, v.Length, 1e-9)
	assert.Equal(t, 20, v.raster.Bounds().Dx())
	assert.Equal(t, 40, v.raster.Bounds().Dy())

	// the body is painted
	_, _, _, a := v.raster.At(10, 20).RGBA()
	assert.NotZero(t, a)

	v.SetPose(game.Pose{X: 1, Z: -2})
	assert.Equal(t, game.OrientedBounds(1, -2, 0, 4, 2), v.Bounds())
	v.Reset()
	assert.Equal(t, game.Pose{}, v.Pose())
}

func TestSpriteVehicle_BadSVG(t *testing.T) {
	_, err := newSpriteVehicle([]byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), 4, 10, zerolog.Nop())
	assert.Error(t, err)
}

func testGame(t *testing.T) *game.Game {
	t.Helper()
	cfg := game.DefaultConfig()
	cfg.Seed = 5
	return game.NewGame(cfg, nil, game.Collaborators{})
}

func TestHUDLines(t *testing.T) {
	g := testGame(t)
	best := Best{Time: 12.3, Score: 400, Coins: 40}

	lines := hudLines(g, best)
	assert.Equal(t, "SCORE 0", lines[0])
	assert.Equal(t, "BEST  400 / 12.3s", lines[2])
	assert.Len(t, lines, 3)

	g.StartRun()
	g.Tick(0.1, 0)
	lines = hudLines(g, best)
	assert.Equal(t, "SCORE 3", lines[0])
	assert.Equal(t, "RUN   1", lines[3])
}

func TestOverlayLines(t *testing.T) {
	g := testGame(t)

	home := overlayLines(g, Best{Coins: 7}, true)
	assert.Contains(t, home, "autopilot is driving")
	assert.Contains(t, home, "coins 7")

	g.StartRun()
	assert.Empty(t, overlayLines(g, Best{}, false))

	for i := 0; i < 600 && g.State() == game.StatePlaying; i++ {
		g.Tick(0.1, 1)
	}
	require.Equal(t, game.StateDead, g.State())

	dead := overlayLines(g, Best{}, false)
	assert.Equal(t, "CRASHED", dead[0])
	assert.NotContains(t, dead, "R  retry    ESC  home")

	for g.SlowMotion() {
		g.Tick(0.1, 0)
	}
	dead = overlayLines(g, Best{}, false)
	assert.Contains(t, dead, "R  retry    ESC  home")
}

func TestMinimapPoint(t *testing.T) {
	tests := []struct {
		name         string
		dx, dz, h    float64
		wantX, wantY float64
	}{
		{"ahead is up", 0, -10, 0, 0, -10},
		{"right stays right", 10, 0, 0, 10, 0},
		{"turned right, ahead is up", 10, 0, math.Pi / 2, 0, -10},
		{"clamped to rim", 0, -1000, 0, 0, -50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := minimapPoint(tt.dx, tt.dz, tt.h, 1, 50)
			assert.InDelta(t, tt.wantX, x, 1e-9)
			assert.InDelta(t, tt.wantY, y, 1e-9)
		})
	}
}

func TestMinimap_TrailAgesOut(t *testing.T) {
	var m Minimap
	for i := 0; i < 100; i++ {
		m.Update(0.1, game.Pose{Z: -float64(i)})
	}
	assert.LessOrEqual(t, len(m.trail), minimapTrailMax)
	for _, p := range m.trail {
		assert.Less(t, p.age, minimapTrailAge)
	}

	m.Reset()
	assert.Empty(t, m.trail)
}

func TestDebris_BurstAndExpire(t *testing.T) {
	d := NewDebris(rand.New(rand.NewSource(1)))
	d.Burst(game.Pose{X: 3, Z: -50})
	require.Equal(t, 48, d.Len())

	// thrown forward, toward -Z
	d.Update(0.05)
	var sumZ float64
	for _, p := range d.particles {
		sumZ += p.z
	}
	assert.Less(t, sumZ/float64(d.Len()), -50.0)

	for i := 0; i < 20; i++ {
		d.Update(0.1)
	}
	assert.Zero(t, d.Len())

	d.Burst(game.Pose{})
	d.Clear()
	assert.Zero(t, d.Len())
}

func fakeKeys(down ...ebiten.Key) KeyState {
	set := map[ebiten.Key]bool{}
	for _, k := range down {
		set[k] = true
	}
	return func(k ebiten.Key) bool { return set[k] }
}

func TestKeyboard_Steering(t *testing.T) {
	tests := []struct {
		name string
		down []ebiten.Key
		want float64
	}{
		{"none", nil, 0},
		{"left arrow", []ebiten.Key{ebiten.KeyLeft}, -1},
		{"d key", []ebiten.Key{ebiten.KeyD}, 1},
		{"both cancel", []ebiten.Key{ebiten.KeyA, ebiten.KeyRight}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := &Keyboard{pressed: fakeKeys(tt.down...)}
			assert.Equal(t, tt.want, k.Steering(game.Snapshot{}))
		})
	}
}

func TestControls_EdgeTriggered(t *testing.T) {
	var down []ebiten.Key
	c := &Controls{pressed: func(k ebiten.Key) bool { return fakeKeys(down...)(k) }}

	assert.Equal(t, ActionNone, c.Poll())

	down = []ebiten.Key{ebiten.KeySpace}
	assert.Equal(t, ActionStart, c.Poll())
	assert.Equal(t, ActionNone, c.Poll(), "held key fires once")

	down = []ebiten.Key{ebiten.KeySpace, ebiten.KeyEscape}
	assert.Equal(t, ActionHome, c.Poll())

	down = nil
	assert.Equal(t, ActionNone, c.Poll())
	down = []ebiten.Key{ebiten.KeyR}
	assert.Equal(t, ActionRetry, c.Poll())
}

func TestProfiler_CapturesOnRepeatedStalls(t *testing.T) {
	p := NewProfiler(t.TempDir(), zerolog.Nop())

	var mu sync.Mutex
	var captured []string
	done := make(chan struct{}, 4)
	p.capture = func(name string) {
		mu.Lock()
		captured = append(captured, name)
		mu.Unlock()
		done <- struct{}{}
	}

	start := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

	// stalls spread wider than the window never trigger
	for i := 1; i <= 5; i++ {
		p.Observe(start.Add(time.Duration(i)*3*time.Second), i)
	}
	assert.Empty(t, captured)

	now := start.Add(time.Minute)
	p.Observe(now, 10)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("capture did not run")
	}
	mu.Lock()
	assert.Equal(t, []string{"stall-20260506-070909"}, captured)
	mu.Unlock()

	// inside the cooldown nothing new starts
	require.Eventually(t, func() bool { return !p.IsProfiling() }, time.Second, time.Millisecond)
	p.Observe(now.Add(time.Second), 20)
	assert.ErrorIs(t, p.CaptureProfile(now.Add(2*time.Second), "manual"), errCooldown)
}
