package game

import "math"

// Rect is an axis-aligned box on the X/Z ground plane
type Rect struct {
	MinX, MaxX float64
	MinZ, MaxZ float64
}

// Intersects reports strict overlap on both axes
func (r Rect) Intersects(o Rect) bool {
	return r.MinX < o.MaxX && r.MaxX > o.MinX && r.MinZ < o.MaxZ && r.MaxZ > o.MinZ
}

// Union returns the smallest box holding both r and o
func (r Rect) Union(o Rect) Rect {
	return Rect{
		MinX: math.Min(r.MinX, o.MinX),
		MaxX: math.Max(r.MaxX, o.MaxX),
		MinZ: math.Min(r.MinZ, o.MinZ),
		MaxZ: math.Max(r.MaxZ, o.MaxZ),
	}
}

// Finite reports whether every edge is a real number
func (r Rect) Finite() bool {
	return isFinite(r.MinX) && isFinite(r.MaxX) && isFinite(r.MinZ) && isFinite(r.MaxZ)
}

// OrientedBounds returns the AABB of a length x width box centred at (x, z)
// and facing heading, computed from its four rotated corners
func OrientedBounds(x, z, heading, length, width float64) Rect {
	// forward (sin h, -cos h), right (cos h, sin h)
	fx, fz := math.Sin(heading)*length/2, -math.Cos(heading)*length/2
	rx, rz := math.Cos(heading)*width/2, math.Sin(heading)*width/2

	r := Rect{MinX: math.Inf(1), MaxX: math.Inf(-1), MinZ: math.Inf(1), MaxZ: math.Inf(-1)}
	for _, c := range [4][2]float64{
		{x + fx + rx, z + fz + rz},
		{x + fx - rx, z + fz - rz},
		{x - fx + rx, z - fz + rz},
		{x - fx - rx, z - fz - rz},
	} {
		r.MinX = math.Min(r.MinX, c[0])
		r.MaxX = math.Max(r.MaxX, c[0])
		r.MinZ = math.Min(r.MinZ, c[1])
		r.MaxZ = math.Max(r.MaxZ, c[1])
	}
	return r
}

// Side identifies which wall of the road a placement belongs to
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// WallPlacement is a placed wall box, shared with renderers for mesh building
type WallPlacement struct {
	CenterX, CenterZ float64
	Angle            float64 // chord angle of the step, atan2(dx, -dz)
	Length           float64 // along the road, including padding
	Thickness        float64 // across the road
	Side             Side
	Step             int
}

// Bounds returns the AABB of the placed box
func (w WallPlacement) Bounds() Rect {
	return OrientedBounds(w.CenterX, w.CenterZ, w.Angle, w.Length, w.Thickness)
}

// PlaceWalls offsets a wall to each side of the step by half the road width
func PlaceWalls(step Step, cfg Config) (left, right WallPlacement) {
	dx := step.EndX - step.StartX
	dz := step.EndZ - step.StartZ
	angle := math.Atan2(dx, -dz)

	// perpendicular of the chord, pointing right
	px, pz := math.Cos(angle), math.Sin(angle)
	mx := (step.StartX + step.EndX) / 2
	mz := (step.StartZ + step.EndZ) / 2
	half := cfg.HalfRoad()
	length := math.Hypot(dx, dz) + 2*cfg.WallPad

	left = WallPlacement{
		CenterX:   mx - px*half,
		CenterZ:   mz - pz*half,
		Angle:     angle,
		Length:    length,
		Thickness: cfg.WallThickness,
		Side:      SideLeft,
		Step:      step.Index,
	}
	right = left
	right.CenterX = mx + px*half
	right.CenterZ = mz + pz*half
	right.Side = SideRight
	return left, right
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
