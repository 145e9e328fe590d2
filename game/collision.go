package game

// CollisionSystem tests the vehicle bounds against the active wall boxes
type CollisionSystem struct {
	walls *WallIndex
}

// NewCollisionSystem creates a new collision system over walls
func NewCollisionSystem(walls *WallIndex) *CollisionSystem {
	return &CollisionSystem{
		walls: walls,
	}
}

// Check returns the first wall box overlapping bounds, if any
func (c *CollisionSystem) Check(bounds Rect) (WallBox, bool) {
	return FirstHit(bounds, c.walls.Boxes())
}

// Collides reports whether bounds overlaps any wall. Finite bounds never
// collide with an empty list; non-finite bounds always collide.
func Collides(bounds Rect, walls []WallBox) bool {
	_, hit := FirstHit(bounds, walls)
	return hit
}

// FirstHit returns the first wall in walls overlapping bounds
func FirstHit(bounds Rect, walls []WallBox) (WallBox, bool) {
	if !bounds.Finite() {
		return WallBox{}, true
	}
	for _, w := range walls {
		if bounds.Intersects(w.Rect) {
			return w, true
		}
	}
	return WallBox{}, false
}
