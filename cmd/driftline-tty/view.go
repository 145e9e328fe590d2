package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"driftline/game"
	"driftline/internal/stats"
)

const (
	// metres covered by one terminal row; a column covers half as much since
	// cells are roughly twice as tall as wide
	metresPerRow = 2.0
	anchorRow    = 0.75
)

var (
	styleDefault   = tcell.StyleDefault
	styleLeftWall  = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleRightWall = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleLane      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleVehicle   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHUD       = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleBanner    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// view projects world metres onto terminal cells, following the vehicle
type view struct {
	cols, rows int
	camX, camZ float64
}

func (v view) cell(x, z float64) (int, int) {
	col := float64(v.cols)/2 + (x-v.camX)*2/metresPerRow
	row := float64(v.rows)*anchorRow + (z-v.camZ)/metresPerRow
	return int(math.Floor(col)), int(math.Floor(row))
}

func (v view) inside(col, row int) bool {
	return col >= 0 && col < v.cols && row >= 1 && row < v.rows
}

// plot draws a run of glyphs along a segment centred on (x, z)
func (v view) plot(s tcell.Screen, x, z, angle, length float64, r rune, style tcell.Style) {
	dx, dz := math.Sin(angle), -math.Cos(angle)
	n := int(math.Ceil(length/(metresPerRow/4))) + 1
	for i := 0; i < n; i++ {
		t := -length/2 + length*float64(i)/float64(n-1)
		col, row := v.cell(x+dx*t, z+dz*t)
		if v.inside(col, row) {
			s.SetContent(col, row, r, nil, style)
		}
	}
}

func vehicleGlyph(heading float64) rune {
	switch {
	case heading > 0.2:
		return '/'
	case heading < -0.2:
		return '\\'
	default:
		return '^'
	}
}

// draw renders one frame of g
func draw(s tcell.Screen, g *game.Game, best stats.Totals, autopilot bool) {
	cols, rows := s.Size()
	pose := g.Vehicle().Pose()
	v := view{cols: cols, rows: rows}
	if pose.Finite() {
		v.camX, v.camZ = pose.X, pose.Z
	}

	s.Clear()

	cfg := g.Config()
	for _, step := range g.Window().Steps() {
		left, right := game.PlaceWalls(step, cfg)
		v.plot(s, left.CenterX, left.CenterZ, left.Angle, left.Length, '█', styleLeftWall)
		v.plot(s, right.CenterX, right.CenterZ, right.Angle, right.Length, '█', styleRightWall)

		if col, row := v.cell(step.EndX, step.EndZ); v.inside(col, row) {
			s.SetContent(col, row, '·', nil, styleLane)
		}
	}

	if pose.Finite() {
		length := cfg.VehicleLength
		v.plot(s, pose.X, pose.Z, pose.Heading, length, '█', styleVehicle)
		nx := pose.X + math.Sin(pose.Heading)*length/2
		nz := pose.Z - math.Cos(pose.Heading)*length/2
		if col, row := v.cell(nx, nz); v.inside(col, row) {
			s.SetContent(col, row, vehicleGlyph(pose.Heading), nil, styleVehicle)
		}
	}

	putString(s, 0, 0, hudLine(g, best), styleHUD)
	lines := banner(g, best, autopilot)
	top := rows/2 - len(lines)/2
	for i, line := range lines {
		putString(s, (cols-len([]rune(line)))/2, top+i, line, styleBanner)
	}

	s.Show()
}

func hudLine(g *game.Game, best stats.Totals) string {
	return fmt.Sprintf("SCORE %d  TIME %.1fs  BEST %d / %.1fs  COINS %d",
		g.Score(), g.Elapsed(), best.BestScore, best.BestTime, best.Coins)
}

func banner(g *game.Game, best stats.Totals, autopilot bool) []string {
	switch g.State() {
	case game.StateHome:
		lines := []string{"DRIFTLINE", "", "SPACE  drive    ←/→  steer    ESC  quit"}
		if autopilot {
			lines = append(lines, "autopilot is driving")
		}
		return lines
	case game.StateDead:
		lines := []string{"CRASHED"}
		if ev, ok := g.LastCrash(); ok {
			if ev.Invalid {
				lines = append(lines, "run discarded")
			} else {
				lines = append(lines, fmt.Sprintf("score %d   +%d coins", ev.Score, ev.Coins))
			}
		}
		if !g.SlowMotion() {
			lines = append(lines, "R  retry    ESC  home")
		}
		return lines
	}
	return nil
}

func putString(s tcell.Screen, col, row int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(col, row, r, nil, style)
		col++
	}
}
