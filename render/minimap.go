package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"driftline/game"
)

const (
	minimapRadius     = 70.0
	minimapRange      = 260.0 // metres from the vehicle to the rim
	minimapMargin     = 14.0
	minimapEdgeMargin = 4.0
	minimapTrailAge   = 3.0 // seconds
	minimapTrailEvery = 0.1 // seconds between trail points
	minimapTrailMax   = 30
)

var (
	colorMinimapBackdrop = color.RGBA{10, 12, 18, 180}
	colorMinimapRing     = color.RGBA{90, 110, 140, 255}
	colorMinimapRoad     = color.RGBA{220, 220, 230, 255}
	colorMinimapVehicle  = color.RGBA{60, 200, 120, 255}
	colorMinimapTrail    = color.NRGBA{60, 200, 120, 255}
)

// minimapPoint maps a world offset from the vehicle to minimap coordinates.
// The map rotates with the vehicle so its heading always points up, and
// points beyond the rim are pulled onto it.
func minimapPoint(dx, dz, heading, scale, rim float64) (float64, float64) {
	sin, cos := math.Sin(-heading), math.Cos(-heading)
	rx := (dx*cos - dz*sin) * scale
	ry := (dx*sin + dz*cos) * scale

	if d := math.Hypot(rx, ry); d > rim {
		f := rim / d
		rx *= f
		ry *= f
	}
	return rx, ry
}

type trailPoint struct {
	x, z float64
	age  float64
}

// Minimap is a vehicle-centred overview of the active window
type Minimap struct {
	trail []trailPoint
	timer float64
}

// Reset clears the trail
func (m *Minimap) Reset() {
	m.trail = m.trail[:0]
	m.timer = 0
}

// Update ages the trail and samples the vehicle position
func (m *Minimap) Update(dt float64, p game.Pose) {
	k := 0
	for i := range m.trail {
		m.trail[i].age += dt
		if m.trail[i].age < minimapTrailAge {
			m.trail[k] = m.trail[i]
			k++
		}
	}
	m.trail = m.trail[:k]

	m.timer += dt
	if m.timer >= minimapTrailEvery {
		m.trail = append(m.trail, trailPoint{x: p.X, z: p.Z})
		if len(m.trail) > minimapTrailMax {
			m.trail = m.trail[1:]
		}
		m.timer = 0
	}
}

// Draw renders the minimap in the top-right corner
func (m *Minimap) Draw(screen *ebiten.Image, w *game.Window, p game.Pose) {
	b := screen.Bounds()
	cx := float64(b.Dx()) - minimapRadius - minimapMargin
	cy := minimapRadius + minimapMargin
	scale := minimapRadius / minimapRange
	rim := minimapRadius - minimapEdgeMargin

	vector.DrawFilledCircle(screen, float32(cx), float32(cy), minimapRadius+minimapEdgeMargin, colorMinimapBackdrop, true)
	vector.StrokeCircle(screen, float32(cx), float32(cy), minimapRadius, 1, colorMinimapRing, true)

	for _, s := range w.Steps() {
		x0, y0 := minimapPoint(s.StartX-p.X, s.StartZ-p.Z, p.Heading, scale, rim)
		x1, y1 := minimapPoint(s.EndX-p.X, s.EndZ-p.Z, p.Heading, scale, rim)
		vector.StrokeLine(screen, float32(cx+x0), float32(cy+y0), float32(cx+x1), float32(cy+y1), 2, colorMinimapRoad, true)
	}

	for i := 0; i+1 < len(m.trail); i++ {
		a, c := m.trail[i], m.trail[i+1]
		x0, y0 := minimapPoint(a.x-p.X, a.z-p.Z, p.Heading, scale, rim)
		x1, y1 := minimapPoint(c.x-p.X, c.z-p.Z, p.Heading, scale, rim)

		// fade from full to transparent with age
		opacity := math.Max(0, math.Min(1, 1-(a.age+c.age)/2/minimapTrailAge))
		clr := colorMinimapTrail
		clr.A = uint8(float64(clr.A) * opacity)
		vector.StrokeLine(screen, float32(cx+x0), float32(cy+y0), float32(cx+x1), float32(cy+y1), 1, clr, true)
	}

	vector.DrawFilledCircle(screen, float32(cx), float32(cy), 2.5, colorMinimapVehicle, true)
	vector.StrokeLine(screen, float32(cx), float32(cy), float32(cx), float32(cy-10), 1, colorMinimapVehicle, true)
}
