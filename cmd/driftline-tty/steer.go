package main

import (
	"time"

	"driftline/game"
)

// latch turns key presses into steering. Terminals report no key releases,
// so a press holds its value until the hold time passes without a repeat.
type latch struct {
	hold  time.Duration
	now   func() time.Time
	value float64
	until time.Time
}

func newLatch(hold time.Duration) *latch {
	return &latch{hold: hold, now: time.Now}
}

// Press steers toward value, -1 left or 1 right
func (l *latch) Press(value float64) {
	l.value = value
	l.until = l.now().Add(l.hold)
}

// Release drops any held input
func (l *latch) Release() {
	l.value = 0
	l.until = time.Time{}
}

// Steering implements game.SteeringSource
func (l *latch) Steering(game.Snapshot) float64 {
	if l.now().Before(l.until) {
		return l.value
	}
	return 0
}
