package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"driftline/game"
)

const hudLineHeight = 16

var hudFace = text.NewGoXFace(basicfont.Face7x13)

// Best is the persisted record shown on the HUD
type Best struct {
	Time  float64
	Score int
	Coins int
}

// hudLines returns the status lines for the top-left corner
func hudLines(g *game.Game, best Best) []string {
	lines := []string{
		fmt.Sprintf("SCORE %d", g.Score()),
		fmt.Sprintf("TIME  %.1fs", g.Elapsed()),
		fmt.Sprintf("BEST  %d / %.1fs", best.Score, best.Time),
	}
	if g.State() == game.StatePlaying {
		lines = append(lines, fmt.Sprintf("RUN   %d", g.Run()))
	}
	return lines
}

// overlayLines returns the centred message for the home and dead states
func overlayLines(g *game.Game, best Best, autopilot bool) []string {
	switch g.State() {
	case game.StateHome:
		lines := []string{
			"DRIFTLINE",
			"",
			"SPACE / ENTER  drive",
			"LEFT / RIGHT   steer",
		}
		if autopilot {
			lines = append(lines, "autopilot is driving")
		}
		if best.Coins > 0 {
			lines = append(lines, "", fmt.Sprintf("coins %d", best.Coins))
		}
		return lines
	case game.StateDead:
		ev, _ := g.LastCrash()
		lines := []string{"CRASHED"}
		if ev.Invalid {
			lines = append(lines, "run discarded")
		} else {
			lines = append(lines,
				fmt.Sprintf("%d m in %.1fs", ev.Score, ev.Elapsed),
				fmt.Sprintf("+%d coins", ev.Coins),
			)
		}
		if g.SlowMotion() {
			return lines
		}
		return append(lines, "", "R  retry    ESC  home")
	}
	return nil
}

// drawHUD draws the heads-up display
func drawHUD(screen *ebiten.Image, g *game.Game, best Best) {
	for i, line := range hudLines(g, best) {
		drawText(screen, line, 12, 12+float64(i*hudLineHeight), color.White)
	}
}

// drawOverlay dims the screen and centres the state message
func drawOverlay(screen *ebiten.Image, g *game.Game, best Best, autopilot bool) {
	lines := overlayLines(g, best, autopilot)
	if len(lines) == 0 {
		return
	}

	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), color.RGBA{0, 0, 0, 120}, false)

	widest := 0
	for _, l := range lines {
		widest = max(widest, len(l))
	}
	x := float64(b.Dx())/2 - float64(widest*7)/2
	y := float64(b.Dy())/2 - float64(len(lines)*hudLineHeight)/2
	drawText(screen, strings.Join(lines, "\n"), x, y, color.White)
}

func drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = hudLineHeight
	text.Draw(screen, s, hudFace, op)
}
