package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"driftline/game"
)

// KeyState reports whether a key is held
type KeyState func(ebiten.Key) bool

// Keyboard steers from the arrow keys or A/D
type Keyboard struct {
	pressed KeyState
}

var _ game.SteeringSource = (*Keyboard)(nil)

// NewKeyboard reads the live ebiten key state
func NewKeyboard() *Keyboard {
	return &Keyboard{pressed: ebiten.IsKeyPressed}
}

// Steering returns -1 for left, 1 for right, 0 for neither or both
func (k *Keyboard) Steering(game.Snapshot) float64 {
	left := k.pressed(ebiten.KeyLeft) || k.pressed(ebiten.KeyA)
	right := k.pressed(ebiten.KeyRight) || k.pressed(ebiten.KeyD)
	switch {
	case left && !right:
		return -1
	case right && !left:
		return 1
	}
	return 0
}

// edge turns a held key into a single press
type edge struct {
	prev bool
}

// Pressed reports true only on the frame the key goes down
func (e *edge) Pressed(down bool) bool {
	fire := down && !e.prev
	e.prev = down
	return fire
}

// Controls are the run control keys, edge-triggered
type Controls struct {
	pressed KeyState

	start, retry, home, debug, minimap edge
}

// Action is what the player asked for this frame
type Action int

const (
	ActionNone Action = iota
	ActionStart
	ActionRetry
	ActionHome
	ActionToggleDebug
	ActionToggleMinimap
)

// NewControls reads the live ebiten key state
func NewControls() *Controls {
	return &Controls{pressed: ebiten.IsKeyPressed}
}

// Poll returns the first action triggered this frame. Every key is sampled
// so edges stay in sync.
func (c *Controls) Poll() Action {
	start := c.start.Pressed(c.pressed(ebiten.KeySpace) || c.pressed(ebiten.KeyEnter))
	retry := c.retry.Pressed(c.pressed(ebiten.KeyR))
	home := c.home.Pressed(c.pressed(ebiten.KeyEscape))
	debug := c.debug.Pressed(c.pressed(ebiten.KeyF1))
	minimap := c.minimap.Pressed(c.pressed(ebiten.KeyM))

	switch {
	case start:
		return ActionStart
	case retry:
		return ActionRetry
	case home:
		return ActionHome
	case debug:
		return ActionToggleDebug
	case minimap:
		return ActionToggleMinimap
	}
	return ActionNone
}
