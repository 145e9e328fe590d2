// Command driftline-tty runs the game in a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"driftline/game"
	"driftline/internal/app"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS
	steerHold     = 250 * time.Millisecond
)

type frontend struct {
	screen tcell.Screen
	stack  *app.Stack
	game   *game.Game
	loop   *game.Loop
	steer  *latch
}

func newFrontend(screen tcell.Screen, stack *app.Stack) *frontend {
	f := &frontend{
		screen: screen,
		stack:  stack,
		steer:  newLatch(steerHold),
	}
	f.game = game.NewGame(stack.Settings.Game, nil, stack.Collaborators(nil, nil))
	f.loop = game.NewLoop(f.game, stack.Steering(f.steer))
	return f
}

// handleKey applies one key event and reports whether the frontend keeps running
func (f *frontend) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		if f.game.State() == game.StateHome {
			return false
		}
		f.steer.Release()
		f.game.GoHome()
	case tcell.KeyLeft:
		f.steer.Press(-1)
	case tcell.KeyRight:
		f.steer.Press(1)
	case tcell.KeyEnter:
		f.start()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a', 'A':
			f.steer.Press(-1)
		case 'd', 'D':
			f.steer.Press(1)
		case ' ':
			f.start()
		case 'r', 'R':
			f.steer.Release()
			f.game.ResumeFromDeath()
		}
	}
	return true
}

func (f *frontend) start() {
	if f.game.State() != game.StatePlaying {
		f.steer.Release()
		f.game.StartRun()
	}
}

func (f *frontend) frame(now time.Time) {
	f.loop.Frame(now)
	draw(f.screen, f.game, f.stack.Totals(), f.stack.Autopilot != nil)
}

func (f *frontend) run(ctx context.Context) {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-eventChan:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !f.handleKey(ev) {
					return
				}
			case *tcell.EventResize:
				f.screen.Sync()
			}
		case now := <-ticker.C:
			f.frame(now)
		}
	}
}

func main() {
	configPath := flag.String("config", "", "config file (json, yaml or toml)")
	autopilot := flag.Bool("autopilot", false, "let the autopilot script drive")
	flag.Parse()

	if *autopilot {
		os.Setenv("DRIFTLINE_AUTOPILOT_ENABLED", "true")
	}

	// the terminal is the display, so logs only reach the file and graylog
	stack, err := app.Start(*configPath, io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer stack.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stack.Log.Info().Msg("Terminal frontend started")
	newFrontend(screen, stack).run(ctx)
}
