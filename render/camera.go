// Package render is the ebiten frontend: it draws the track window, the
// vehicle and the HUD, and feeds keyboard steering into the frame loop.
package render

import "driftline/game"

// Camera maps the X/Z ground plane onto the screen, top-down with -Z up
type Camera struct {
	X, Z   float64 // world point under the anchor
	Zoom   float64 // pixels per metre
	Width  float64 // viewport width
	Height float64 // viewport height

	// Anchor is the vertical screen fraction the followed point sits at
	Anchor float64
}

// NewCamera creates a camera for a width x height viewport
func NewCamera(width, height, zoom float64) *Camera {
	return &Camera{
		Zoom:   zoom,
		Width:  width,
		Height: height,
		Anchor: 0.75,
	}
}

// Follow centres the camera on p
func (c *Camera) Follow(p game.Pose) {
	c.X = p.X
	c.Z = p.Z
}

// WorldToScreen converts world coordinates to screen coordinates
func (c *Camera) WorldToScreen(wx, wz float64) (float64, float64) {
	sx := (wx-c.X)*c.Zoom + c.Width/2
	sy := (wz-c.Z)*c.Zoom + c.Height*c.Anchor
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates
func (c *Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	wx := (sx-c.Width/2)/c.Zoom + c.X
	wz := (sy-c.Height*c.Anchor)/c.Zoom + c.Z
	return wx, wz
}

// View returns the world rectangle covered by the viewport
func (c *Camera) View() game.Rect {
	minX, minZ := c.ScreenToWorld(0, 0)
	maxX, maxZ := c.ScreenToWorld(c.Width, c.Height)
	return game.Rect{MinX: minX, MaxX: maxX, MinZ: minZ, MaxZ: maxZ}
}
