package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"driftline/game"
)

// DebugState holds debug flags that persist across runs
type DebugState struct {
	ShowBounds bool // wall and vehicle collision boxes
}

var colorDebugBox = color.RGBA{0, 255, 255, 200}

// drawBounds outlines every active wall box and the vehicle bounds
func drawBounds(screen *ebiten.Image, cam *Camera, walls []game.WallBox, vehicle game.Rect) {
	view := cam.View()
	for _, w := range walls {
		if !w.Intersects(view) {
			continue
		}
		strokeRect(screen, cam, w.Rect, colorDebugBox)
	}
	strokeRect(screen, cam, vehicle, colorDebugBox)
}

func strokeRect(screen *ebiten.Image, cam *Camera, r game.Rect, clr color.Color) {
	x0, y0 := cam.WorldToScreen(r.MinX, r.MinZ)
	x1, y1 := cam.WorldToScreen(r.MaxX, r.MaxZ)
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 1, clr, false)
}
