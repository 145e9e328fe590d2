package game

import "github.com/rs/zerolog"

// TrackRenderer builds and disposes visual meshes for the active window.
// Calls are side effects only; nothing the renderer does feeds back into
// collision state.
type TrackRenderer interface {
	// Reset drops every mesh of the previous run
	Reset()

	// BuildStep is called once per new step with its two wall placements
	BuildStep(step Step, left, right WallPlacement)

	// DisposeBehind drops meshes whose geometry lies entirely past z
	DisposeBehind(z float64)
}

// StatsRecorder persists the scalar run totals
type StatsRecorder interface {
	RecordAttempt() error
	RecordCrash(ev CrashEvent) error
}

// RunListener receives run lifecycle notifications (UI, audio, telemetry)
type RunListener interface {
	RunStarted(run int)
	Crashed(ev CrashEvent)
}

// CrashEvent is emitted once per run when the vehicle hits a wall
type CrashEvent struct {
	Run      int
	Elapsed  float64 // seconds survived
	Distance float64 // metres travelled
	Score    int
	Coins    int

	// Where the run ended and how much road had been laid
	Pose     Pose
	Segments int

	// Invalid is set when the crash was forced by a non-finite vehicle pose
	Invalid bool
}

// Collaborators groups everything outside the core. Every field is optional.
type Collaborators struct {
	Renderers []TrackRenderer
	Stats     StatsRecorder
	Listeners []RunListener
	Logger    zerolog.Logger
}
