package game

import (
	"context"
	"time"
)

// Loop turns external frame times into game ticks. The frame source (display
// refresh, ticker) only supplies timestamps; the loop owns delta computation.
type Loop struct {
	game  *Game
	input SteeringSource

	last    time.Time
	started bool

	// Frames counts delivered frames, Clamped those whose delta hit MaxDelta
	Frames  int
	Clamped int
}

// NewLoop creates a loop driving g with steering from input
func NewLoop(g *Game, input SteeringSource) *Loop {
	return &Loop{game: g, input: input}
}

// SetInput swaps the steering source
func (l *Loop) SetInput(input SteeringSource) {
	l.input = input
}

// Frame delivers one frame at now and returns the raw delta in seconds.
// The first frame only primes the clock.
func (l *Loop) Frame(now time.Time) float64 {
	dt := 0.0
	if l.started {
		dt = now.Sub(l.last).Seconds()
	}
	l.last = now
	l.started = true
	l.Frames++

	if limit := l.game.config.MaxDelta; limit > 0 && dt > limit {
		l.Clamped++
	}

	steer := 0.0
	if l.input != nil && l.game.State() == StatePlaying {
		steer = l.input.Steering(l.game.Snapshot())
	}
	l.game.Tick(dt, steer)
	return dt
}

// Run delivers frames from the channel until it closes or ctx is done
func (l *Loop) Run(ctx context.Context, frames <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-frames:
			if !ok {
				return nil
			}
			l.Frame(now)
		}
	}
}
