package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRenderer counts the calls the window makes into the renderer
type recordingRenderer struct {
	resets   int
	built    []Step
	disposed []float64
}

func (r *recordingRenderer) Reset() {
	r.resets++
	r.built = r.built[:0]
	r.disposed = r.disposed[:0]
}

func (r *recordingRenderer) BuildStep(step Step, left, right WallPlacement) {
	r.built = append(r.built, step)
}

func (r *recordingRenderer) DisposeBehind(z float64) {
	r.disposed = append(r.disposed, z)
}

func newTestWindow(seed int64, renderers ...TrackRenderer) (*Window, Config) {
	cfg := DefaultConfig()
	path := NewPathGenerator(DefaultCatalog, rand.New(rand.NewSource(seed)))
	track := NewTrack(path, cfg.Stride, cfg.MaxHeading)
	return NewWindow(cfg, track, renderers), cfg
}

func TestWindow_ResetLaysInitialSegments(t *testing.T) {
	r := &recordingRenderer{}
	w, cfg := newTestWindow(1, r)

	w.Reset()

	assert.Equal(t, cfg.InitialSegments, w.Segments())
	assert.Equal(t, 2*len(w.Steps()), w.Walls().Len())
	assert.Equal(t, len(w.Steps()), len(r.built))
	assert.Equal(t, 1, r.resets)

	first := w.Steps()[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 0.0, first.StartX)
	assert.Equal(t, 0.0, first.StartZ)
}

func TestWindow_StaysBoundedAsVehicleAdvances(t *testing.T) {
	r := &recordingRenderer{}
	w, cfg := newTestWindow(9, r)
	w.Reset()

	// left and right boxes of neighbouring steps interleave in Z on curves,
	// so retirement can lag the limit by up to a road width plus a stride
	slack := cfg.RoadWidth + cfg.Stride
	initialEnd := w.Cursor().Z

	for z := 0.0; z > -5000; z -= 5 {
		w.Update(z)

		assert.GreaterOrEqual(t, w.Ahead(z), cfg.LookAhead, "short look-ahead at z=%v", z)
		limit := z + cfg.TrailingMargin
		for _, b := range w.Walls().Boxes() {
			require.LessOrEqual(t, b.MaxZ, limit+slack, "stale wall of step %d at z=%v", b.Step, z)
		}

		if z < initialEnd {
			// look-ahead, trailing margin, one overshooting segment and the slack,
			// at least five metres of Z per step since the heading is bounded
			maxSteps := (cfg.LookAhead + cfg.TrailingMargin + 120 + slack) / 5
			assert.LessOrEqual(t, float64(w.Walls().Len()), 2*maxSteps+4)
		}
	}
	assert.NotEmpty(t, r.disposed)
}

func TestWindow_UpdateIsIdempotent(t *testing.T) {
	w, _ := newTestWindow(3)
	w.Reset()

	w.Update(-100)
	walls, steps, cursor := w.Walls().Len(), len(w.Steps()), w.Cursor()

	change := w.Update(-100)
	assert.Equal(t, WindowChange{}, change)
	assert.Equal(t, walls, w.Walls().Len())
	assert.Equal(t, steps, len(w.Steps()))
	assert.Equal(t, cursor, w.Cursor())
}

func TestWindow_ResetDropsPreviousRun(t *testing.T) {
	r := &recordingRenderer{}
	w, _ := newTestWindow(4, r)
	w.Reset()
	for z := 0.0; z > -2000; z -= 10 {
		w.Update(z)
	}
	require.Greater(t, w.Steps()[0].Index, 0)

	w.Reset()
	assert.Equal(t, 0, w.Steps()[0].Index)
	assert.Equal(t, 2*len(w.Steps()), w.Walls().Len())
	assert.Equal(t, 2, r.resets)
	assert.Equal(t, len(w.Steps()), len(r.built))
}
