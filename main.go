package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"driftline/game"
	"driftline/internal/app"
	"driftline/render"
)

func main() {
	configPath := flag.String("config", "", "config file (json, yaml or toml)")
	skin := flag.String("skin", "", "vehicle skin, box or sprite (overrides window.skin)")
	autopilot := flag.Bool("autopilot", false, "let the autopilot script drive")
	flag.Parse()

	if *autopilot {
		os.Setenv("DRIFTLINE_AUTOPILOT_ENABLED", "true")
	}
	if *skin != "" {
		os.Setenv("DRIFTLINE_WINDOW_SKIN", *skin)
	}

	stack, err := app.Start(*configPath, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "driftline: %v\n", err)
		os.Exit(1)
	}
	defer stack.Close()
	log := stack.Log

	settings := stack.Settings
	cfg := settings.Game
	win := settings.Window

	var vehicle game.Vehicle
	var sprite *render.SpriteVehicle
	switch win.Skin {
	case "sprite":
		sprite, err = render.NewSpriteVehicle(cfg.VehicleLength, win.Scale, log)
		if err != nil {
			log.Warn().Err(err).Msg("Sprite skin unavailable, using the box")
			break
		}
		vehicle = sprite
	case "box", "":
	default:
		log.Warn().Str("skin", win.Skin).Msg("Unknown skin, using the box")
	}

	var profiler *render.Profiler
	if win.ProfileStalls {
		profiler = render.NewProfiler(win.ProfilesDir, log)
	}

	frontend := render.NewApp(render.Options{
		Width:     win.Width,
		Height:    win.Height,
		Zoom:      win.Scale,
		Skin:      sprite,
		Minimap:   win.Minimap,
		Autopilot: stack.Autopilot != nil,
		Profiler:  profiler,
		Best: func() render.Best {
			t := stack.Totals()
			return render.Best{Time: t.BestTime, Score: t.BestScore, Coins: t.Coins}
		},
		Log: log,
	})

	g := game.NewGame(cfg, vehicle, stack.Collaborators(
		[]game.TrackRenderer{frontend.Meshes()},
		[]game.RunListener{frontend},
	))
	frontend.Bind(g, stack.Steering(render.NewKeyboard()))

	ebiten.SetWindowSize(win.Width, win.Height)
	ebiten.SetWindowTitle(win.Title)
	ebiten.SetWindowResizable(true)

	log.Info().
		Str("skin", win.Skin).
		Str("stats", settings.Stats.Type).
		Bool("autopilot", stack.Autopilot != nil).
		Msg("Starting")

	if err := ebiten.RunGame(frontend); err != nil {
		log.Error().Err(err).Msg("Game exited with error")
		stack.Close()
		os.Exit(1)
	}
}
