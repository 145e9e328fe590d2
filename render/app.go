package render

import (
	"image/color"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"driftline/game"
)

var colorBackground = color.RGBA{18, 60, 32, 255}

// Options configures the desktop frontend
type Options struct {
	Width, Height int
	Zoom          float64 // pixels per metre

	// Skin draws the sprite vehicle; nil draws the procedural box
	Skin *SpriteVehicle

	Minimap   bool
	Autopilot bool

	// Profiler captures stall profiles; nil disables it
	Profiler *Profiler

	// Best reads the persisted record; nil shows zeros
	Best func() Best

	Log zerolog.Logger
}

// App adapts the game to ebiten.Game. It is also a RunListener so it can
// react to crashes with debris and a refreshed record.
type App struct {
	opts Options
	log  zerolog.Logger

	game *game.Game
	loop *game.Loop

	cam      *Camera
	meshes   *TrackMeshes
	minimap  Minimap
	debris   *Debris
	controls *Controls
	debug    DebugState
	best     Best
}

var (
	_ ebiten.Game      = (*App)(nil)
	_ game.RunListener = (*App)(nil)
)

// NewApp creates the frontend. Bind must be called before RunGame.
func NewApp(opts Options) *App {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 960, 720
	}
	if opts.Zoom <= 0 {
		opts.Zoom = 6
	}
	return &App{
		opts:     opts,
		log:      opts.Log.With().Str("component", "render").Logger(),
		cam:      NewCamera(float64(opts.Width), float64(opts.Height), opts.Zoom),
		meshes:   NewTrackMeshes(),
		debris:   NewDebris(rand.New(rand.NewSource(time.Now().UnixNano()))),
		controls: NewControls(),
	}
}

// Meshes returns the TrackRenderer to hand to the game
func (a *App) Meshes() *TrackMeshes {
	return a.meshes
}

// Bind attaches the game and the steering source
func (a *App) Bind(g *game.Game, steering game.SteeringSource) {
	a.game = g
	a.loop = game.NewLoop(g, steering)
	a.refreshBest()
}

// Loop returns the frame loop driving the game
func (a *App) Loop() *game.Loop {
	return a.loop
}

func (a *App) refreshBest() {
	if a.opts.Best != nil {
		a.best = a.opts.Best()
	}
}

// RunStarted clears effects from the previous run
func (a *App) RunStarted(int) {
	a.debris.Clear()
	a.minimap.Reset()
}

// Crashed throws debris from the crash pose
func (a *App) Crashed(ev game.CrashEvent) {
	if ev.Pose.Finite() {
		a.debris.Burst(ev.Pose)
	}
	a.refreshBest()
}

// Update handles the control keys and delivers one frame to the loop
func (a *App) Update() error {
	now := time.Now()

	switch a.controls.Poll() {
	case ActionStart:
		if a.game.State() != game.StatePlaying {
			a.game.StartRun()
		}
	case ActionRetry:
		a.game.ResumeFromDeath()
	case ActionHome:
		if a.game.State() == game.StateHome {
			return ebiten.Termination
		}
		a.game.GoHome()
	case ActionToggleDebug:
		a.debug.ShowBounds = !a.debug.ShowBounds
	case ActionToggleMinimap:
		a.opts.Minimap = !a.opts.Minimap
	}

	dt := a.loop.Frame(now)
	if limit := a.game.Config().MaxDelta; limit > 0 && dt > limit {
		dt = limit
	}

	effects := dt * a.game.TimeScale()
	if a.game.State() == game.StateDead && !a.game.SlowMotion() {
		effects = dt
	}
	a.debris.Update(effects)

	pose := a.game.Vehicle().Pose()
	if a.game.State() == game.StatePlaying {
		a.minimap.Update(dt, pose)
	}
	if pose.Finite() {
		a.cam.Follow(pose)
	}

	if a.opts.Profiler != nil {
		a.opts.Profiler.Observe(now, a.loop.Clamped)
	}
	return nil
}

// Draw renders one frame
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	a.meshes.Draw(screen, a.cam)

	v := a.game.Vehicle()
	if v.Pose().Finite() {
		cfg := a.game.Config()
		drawVehicle(screen, a.cam, v, a.opts.Skin, cfg.VehicleWidth, cfg.VehicleLength)
	}
	a.debris.Draw(screen, a.cam)

	if a.debug.ShowBounds {
		drawBounds(screen, a.cam, a.game.Window().Walls().Boxes(), v.Bounds())
	}
	if a.opts.Minimap && a.game.State() != game.StateHome && v.Pose().Finite() {
		a.minimap.Draw(screen, a.game.Window(), v.Pose())
	}

	drawHUD(screen, a.game, a.best)
	drawOverlay(screen, a.game, a.best, a.opts.Autopilot)
}

// Layout keeps a fixed logical screen size
func (a *App) Layout(int, int) (int, int) {
	return a.opts.Width, a.opts.Height
}
