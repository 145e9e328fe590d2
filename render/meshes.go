package render

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"driftline/game"
)

var (
	roadColor      = color.RGBA{40, 42, 48, 255}
	wallColorLeft  = color.RGBA{230, 90, 60, 255}
	wallColorRight = color.RGBA{240, 200, 70, 255}
	laneColor      = color.RGBA{200, 200, 210, 120}
	vehicleColor   = color.RGBA{60, 200, 120, 255}
)

// quad is a wall box as four ground-plane corners
type quad [4][2]float64

func wallQuad(w game.WallPlacement) quad {
	fx, fz := math.Sin(w.Angle)*w.Length/2, -math.Cos(w.Angle)*w.Length/2
	rx, rz := math.Cos(w.Angle)*w.Thickness/2, math.Sin(w.Angle)*w.Thickness/2
	return quad{
		{w.CenterX + fx - rx, w.CenterZ + fz - rz},
		{w.CenterX + fx + rx, w.CenterZ + fz + rz},
		{w.CenterX - fx + rx, w.CenterZ - fz + rz},
		{w.CenterX - fx - rx, w.CenterZ - fz - rz},
	}
}

// stepMesh is the drawable geometry of one step
type stepMesh struct {
	index       int
	left, right quad
	road        quad
	centre      [2][2]float64
	minZ        float64
}

// TrackMeshes keeps the drawable geometry of the active window. It is the
// desktop frontend's TrackRenderer.
type TrackMeshes struct {
	meshes []stepMesh

	// Built and Disposed count meshes over the lifetime of the store
	Built    int
	Disposed int
}

var _ game.TrackRenderer = (*TrackMeshes)(nil)

// NewTrackMeshes creates an empty store
func NewTrackMeshes() *TrackMeshes {
	return &TrackMeshes{meshes: make([]stepMesh, 0, 64)}
}

// Reset drops every mesh
func (t *TrackMeshes) Reset() {
	t.Disposed += len(t.meshes)
	t.meshes = t.meshes[:0]
}

// BuildStep turns a step and its walls into quads
func (t *TrackMeshes) BuildStep(step game.Step, left, right game.WallPlacement) {
	m := stepMesh{
		index:  step.Index,
		left:   wallQuad(left),
		right:  wallQuad(right),
		centre: [2][2]float64{{step.StartX, step.StartZ}, {step.EndX, step.EndZ}},
	}
	// road surface spans the inner edges of both walls
	m.road = quad{m.left[1], m.right[0], m.right[3], m.left[2]}

	m.minZ = math.Inf(1)
	for _, q := range []quad{m.left, m.right} {
		for _, c := range q {
			m.minZ = math.Min(m.minZ, c[1])
		}
	}

	t.meshes = append(t.meshes, m)
	t.Built++
}

// DisposeBehind drops meshes from the front whose geometry lies entirely
// past z
func (t *TrackMeshes) DisposeBehind(z float64) {
	k := 0
	for k < len(t.meshes) && t.meshes[k].minZ > z {
		k++
	}
	if k > 0 {
		t.meshes = append(t.meshes[:0], t.meshes[k:]...)
		t.Disposed += k
	}
}

// Len returns the number of live meshes
func (t *TrackMeshes) Len() int {
	return len(t.meshes)
}

// Draw renders the meshes that intersect the camera view
func (t *TrackMeshes) Draw(screen *ebiten.Image, cam *Camera) {
	view := cam.View()
	for i := range t.meshes {
		m := &t.meshes[i]
		if m.minZ > view.MaxZ {
			continue
		}
		fillQuad(screen, cam, m.road, roadColor)
	}
	for i := range t.meshes {
		m := &t.meshes[i]
		if m.minZ > view.MaxZ {
			continue
		}
		fillQuad(screen, cam, m.left, wallColorLeft)
		fillQuad(screen, cam, m.right, wallColorRight)

		x0, y0 := cam.WorldToScreen(m.centre[0][0], m.centre[0][1])
		x1, y1 := cam.WorldToScreen(m.centre[1][0], m.centre[1][1])
		if m.index%2 == 0 {
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 2, laneColor, true)
		}
	}
}

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// white returns a 1x1 opaque source image for DrawTriangles
func white() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

func fillQuad(screen *ebiten.Image, cam *Camera, q quad, clr color.Color) {
	var path vector.Path
	for i, c := range q {
		sx, sy := cam.WorldToScreen(c[0], c[1])
		if i == 0 {
			path.MoveTo(float32(sx), float32(sy))
		} else {
			path.LineTo(float32(sx), float32(sy))
		}
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := clr.RGBA()
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}

	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	screen.DrawTriangles(vs, is, white(), op)
}
