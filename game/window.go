package game

// WindowChange summarises one window update
type WindowChange struct {
	Added   int // steps appended
	Retired int // wall boxes removed
}

// Window owns the active span of steps and walls around the vehicle
type Window struct {
	cfg       Config
	track     *Track
	walls     *WallIndex
	steps     []Step
	renderers []TrackRenderer
}

// NewWindow creates a window over track
func NewWindow(cfg Config, track *Track, renderers []TrackRenderer) *Window {
	return &Window{
		cfg:       cfg,
		track:     track,
		walls:     NewWallIndex(256),
		steps:     make([]Step, 0, 128),
		renderers: renderers,
	}
}

// Reset clears the window and lays the initial segments from the origin
func (w *Window) Reset() {
	w.track.Reset()
	w.walls.Clear()
	w.steps = w.steps[:0]
	for _, r := range w.renderers {
		r.Reset()
	}
	for i := 0; i < w.cfg.InitialSegments; i++ {
		w.extend()
	}
}

// Update grows the window until LookAhead metres are generated past
// vehicleZ, then retires walls more than TrailingMargin behind it
func (w *Window) Update(vehicleZ float64) WindowChange {
	var change WindowChange

	for w.Ahead(vehicleZ) < w.cfg.LookAhead {
		n := w.extend()
		if n == 0 {
			break
		}
		change.Added += n
	}

	limit := vehicleZ + w.cfg.TrailingMargin
	change.Retired = w.walls.PopWhile(func(b WallBox) bool {
		return b.MaxZ > limit
	})

	k := 0
	for k < len(w.steps) && w.steps[k].StartZ > limit && w.steps[k].EndZ > limit {
		k++
	}
	if k > 0 {
		w.steps = append(w.steps[:0], w.steps[k:]...)
	}

	if change.Retired > 0 || k > 0 {
		for _, r := range w.renderers {
			r.DisposeBehind(limit)
		}
	}
	return change
}

// Ahead returns how far track has been generated beyond vehicleZ
func (w *Window) Ahead(vehicleZ float64) float64 {
	return vehicleZ - w.track.Builder.Cursor().Z
}

// Walls returns the wall index
func (w *Window) Walls() *WallIndex {
	return w.walls
}

// Steps returns the active steps front to back
func (w *Window) Steps() []Step {
	return w.steps
}

// Cursor returns the generation head
func (w *Window) Cursor() Cursor {
	return w.track.Builder.Cursor()
}

// Segments returns how many segments were laid this run
func (w *Window) Segments() int {
	return w.track.Segments()
}

// extend lays one more segment and emits its walls
func (w *Window) extend() int {
	steps := w.track.Extend()
	for _, s := range steps {
		left, right := PlaceWalls(s, w.cfg)
		w.walls.Append(WallBox{Rect: left.Bounds(), Side: SideLeft, Step: s.Index})
		w.walls.Append(WallBox{Rect: right.Bounds(), Side: SideRight, Step: s.Index})
		w.steps = append(w.steps, s)
		for _, r := range w.renderers {
			r.BuildStep(s, left, right)
		}
	}
	return len(steps)
}
