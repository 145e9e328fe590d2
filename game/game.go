package game

import (
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// Game is the run state machine. It owns the track window, the vehicle and
// every piece of run state; a single Tick call per frame drives it.
type Game struct {
	config    Config
	state     RunState
	vehicle   Vehicle
	window    *Window
	collision *CollisionSystem
	collab    Collaborators
	log       zerolog.Logger

	// Run counters
	run      int
	elapsed  float64
	distance float64
	score    int

	// Bounds from the previous tick, swept into the next collision test
	prevBounds Rect

	// Remaining real time of the post-crash slow motion
	slowMo float64

	lastCrash CrashEvent
}

// NewGame creates a game in the home state. A nil vehicle falls back to the
// procedural box.
func NewGame(config Config, vehicle Vehicle, collab Collaborators) *Game {
	if vehicle == nil {
		vehicle = NewBoxVehicle(config.VehicleWidth, config.VehicleLength)
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	path := NewPathGenerator(DefaultCatalog, rand.New(rand.NewSource(seed)))
	track := NewTrack(path, config.Stride, config.MaxHeading)
	window := NewWindow(config, track, collab.Renderers)

	return &Game{
		config:    config,
		state:     StateHome,
		vehicle:   vehicle,
		window:    window,
		collision: NewCollisionSystem(window.Walls()),
		collab:    collab,
		log:       collab.Logger.With().Str("component", "run").Logger(),
	}
}

// StartRun resets the track, the vehicle and the counters and enters Playing.
// It is valid from any state.
func (g *Game) StartRun() {
	g.run++
	g.window.Reset()
	g.vehicle.Reset()
	g.prevBounds = g.vehicle.Bounds()
	g.elapsed = 0
	g.distance = 0
	g.score = 0
	g.slowMo = 0
	g.lastCrash = CrashEvent{}
	g.state = StatePlaying

	if g.collab.Stats != nil {
		if err := g.collab.Stats.RecordAttempt(); err != nil {
			g.log.Error().Err(err).Int("run", g.run).Msg("Failed to record attempt")
		}
	}
	for _, l := range g.collab.Listeners {
		l.RunStarted(g.run)
	}

	g.log.Debug().
		Int("run", g.run).
		Int("walls", g.window.Walls().Len()).
		Float64("ahead", g.window.Ahead(0)).
		Msg("Run started")
}

// ResumeFromDeath starts a new run after a crash. It is a no-op outside Dead.
func (g *Game) ResumeFromDeath() bool {
	if g.state != StateDead {
		return false
	}
	g.StartRun()
	return true
}

// GoHome leaves the current run. Ticks stop driving the vehicle.
func (g *Game) GoHome() {
	g.state = StateHome
	g.slowMo = 0
}

// Tick advances the game by dt seconds with the given steering input
func (g *Game) Tick(dt, steer float64) {
	dt = g.clampDelta(dt)

	switch g.state {
	case StatePlaying:
		g.tickPlaying(dt, clampSteer(steer))
	case StateDead:
		g.tickDead(dt)
	}
}

// tickPlaying moves the vehicle, maintains the window and tests for a crash
func (g *Game) tickPlaying(dt, steer float64) {
	prev := g.vehicle.Pose()
	g.vehicle.SetPose(Drive(prev, dt, steer, g.config.Speed, g.config.SteerRate))

	pose := g.vehicle.Pose()
	if !pose.Finite() {
		g.log.Warn().
			Float64("x", pose.X).Float64("z", pose.Z).Float64("heading", pose.Heading).
			Msg("Non-finite vehicle pose, ending run")
		g.crash(true)
		return
	}

	g.elapsed += dt
	g.distance += math.Hypot(pose.X-prev.X, pose.Z-prev.Z)
	g.score = int(g.distance)

	g.window.Update(pose.Z)

	bounds := g.vehicle.Bounds()
	if !bounds.Finite() {
		g.log.Warn().Msg("Non-finite vehicle bounds, ending run")
		g.crash(true)
		return
	}

	// Sweep from last tick so one long step cannot skip a thin wall
	swept := bounds.Union(g.prevBounds)
	g.prevBounds = bounds

	if wall, hit := g.collision.Check(swept); hit {
		g.log.Debug().
			Int("step", wall.Step).
			Str("side", wall.Side.String()).
			Float64("elapsed", g.elapsed).
			Msg("Wall hit")
		g.crash(false)
	}
}

// tickDead plays out the slow-motion coast; steering is ignored
func (g *Game) tickDead(dt float64) {
	if g.slowMo <= 0 {
		return
	}
	scaled := dt * g.config.SlowMoFactor
	pose := Drive(g.vehicle.Pose(), scaled, 0, g.config.Speed, 0)
	if pose.Finite() {
		g.vehicle.SetPose(pose)
	}
	g.slowMo -= dt
	if g.slowMo < 0 {
		g.slowMo = 0
	}
}

// crash moves Playing to Dead exactly once per run and notifies collaborators
func (g *Game) crash(invalid bool) {
	if g.state != StatePlaying {
		return
	}
	g.state = StateDead
	g.slowMo = g.config.SlowMoDuration

	ev := CrashEvent{
		Run:      g.run,
		Elapsed:  g.elapsed,
		Distance: g.distance,
		Score:    g.score,
		Pose:     g.vehicle.Pose(),
		Segments: g.window.Segments(),
		Invalid:  invalid,
	}
	if g.config.CoinDivisor > 0 {
		ev.Coins = g.score / g.config.CoinDivisor
	}
	g.lastCrash = ev

	if g.collab.Stats != nil {
		if err := g.collab.Stats.RecordCrash(ev); err != nil {
			g.log.Error().Err(err).Int("run", g.run).Msg("Failed to record crash")
		}
	}
	for _, l := range g.collab.Listeners {
		l.Crashed(ev)
	}

	g.log.Info().
		Int("run", ev.Run).
		Int("score", ev.Score).
		Float64("elapsed", ev.Elapsed).
		Int("coins", ev.Coins).
		Msg("Crashed")
}

// clampDelta maps a raw frame delta into [0, MaxDelta]
func (g *Game) clampDelta(dt float64) float64 {
	if math.IsNaN(dt) || dt < 0 {
		return 0
	}
	if g.config.MaxDelta > 0 && dt > g.config.MaxDelta {
		return g.config.MaxDelta
	}
	return dt
}

// State returns the current run state
func (g *Game) State() RunState { return g.state }

// Config returns the tuning the game was built with
func (g *Game) Config() Config { return g.config }

// Vehicle returns the driven vehicle
func (g *Game) Vehicle() Vehicle { return g.vehicle }

// Window returns the active track window
func (g *Game) Window() *Window { return g.window }

// Run returns the number of runs started
func (g *Game) Run() int { return g.run }

// Elapsed returns seconds survived in the current run
func (g *Game) Elapsed() float64 { return g.elapsed }

// Distance returns metres travelled in the current run
func (g *Game) Distance() float64 { return g.distance }

// Score returns the accrued score of the current run
func (g *Game) Score() int { return g.score }

// LastCrash returns the crash that ended the current run, if any
func (g *Game) LastCrash() (CrashEvent, bool) {
	return g.lastCrash, g.state == StateDead
}

// SlowMotion reports whether the post-crash decay is still running
func (g *Game) SlowMotion() bool { return g.state == StateDead && g.slowMo > 0 }

// TimeScale is the cosmetic clock rate renderers should apply
func (g *Game) TimeScale() float64 {
	switch {
	case g.state == StatePlaying:
		return 1
	case g.SlowMotion():
		return g.config.SlowMoFactor
	}
	return 0
}

// Snapshot returns the view handed to steering sources
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		State:     g.state,
		Pose:      g.vehicle.Pose(),
		Elapsed:   g.elapsed,
		RoadWidth: g.config.RoadWidth,
		Steps:     g.window.Steps(),
	}
}
