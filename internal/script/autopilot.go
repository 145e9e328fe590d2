// Package script runs JavaScript steering scripts with goja.
package script

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/rs/zerolog"

	"driftline/game"
)

//go:embed default.js
var defaultSource string

// ErrNoSteerFunc is returned when a script does not define steer(ctx)
var ErrNoSteerFunc = errors.New("script must define a 'steer' function")

// DefaultLookAhead is the pursuit distance handed to scripts in metres
const DefaultLookAhead = 8.0

// Autopilot steers the vehicle by calling steer(ctx) in a JavaScript runtime.
// The runtime persists between calls so scripts may keep state in globals.
type Autopilot struct {
	mu    sync.Mutex
	vm    *goja.Runtime
	steer goja.Callable
	log   zerolog.Logger

	// LookAhead is the distance of the target point along the centreline
	LookAhead float64

	// Budget bounds a single steer call; zero disables the limit
	Budget time.Duration

	// Failures counts calls that errored and fell back to straight ahead
	Failures int
}

// New compiles source and looks up its steer function
func New(name, source string, log zerolog.Logger) (*Autopilot, error) {
	prog, err := goja.Compile(name, source, false)
	if err != nil {
		return nil, fmt.Errorf("script parse error: %w", err)
	}

	vm := goja.New()
	if _, err := vm.RunProgram(prog); err != nil {
		return nil, fmt.Errorf("script execution failed: %w", err)
	}

	steer, ok := goja.AssertFunction(vm.Get("steer"))
	if !ok {
		return nil, ErrNoSteerFunc
	}

	return &Autopilot{
		vm:    vm,
		steer: steer,
		log: log.With().Str("component", "autopilot").Str("script", name).Logger().
			Sample(&zerolog.BurstSampler{
				Burst:       5,
				Period:      10 * time.Second,
				NextSampler: &zerolog.BasicSampler{N: 100},
			}),
		LookAhead: DefaultLookAhead,
		Budget:    20 * time.Millisecond,
	}, nil
}

// NewDefault creates an autopilot running the built-in pursuit script
func NewDefault(log zerolog.Logger) (*Autopilot, error) {
	return New("default.js", defaultSource, log)
}

// Load reads a script from path. An empty path selects the built-in script.
func Load(path string, log zerolog.Logger) (*Autopilot, error) {
	if path == "" {
		return NewDefault(log)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return New(path, string(src), log)
}

// Validate checks that source parses and defines steer
func Validate(source string) error {
	_, err := New("validate", source, zerolog.Nop())
	return err
}

// Decide calls steer with ctx and returns its numeric result
func (a *Autopilot) Decide(ctx SteerContext) (float64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctxJSON, err := json.Marshal(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize context: %w", err)
	}
	ctxObj, err := a.vm.RunString(fmt.Sprintf("(%s)", ctxJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to parse context: %w", err)
	}

	if a.Budget > 0 {
		timer := time.AfterFunc(a.Budget, func() {
			a.vm.Interrupt("steer budget exceeded")
		})
		defer func() {
			timer.Stop()
			a.vm.ClearInterrupt()
		}()
	}

	result, err := a.steer(goja.Undefined(), ctxObj)
	if err != nil {
		return 0, fmt.Errorf("steer function failed: %w", err)
	}

	v := result.ToFloat()
	if math.IsNaN(v) {
		return 0, fmt.Errorf("steer returned %s, want a number", result.String())
	}
	return v, nil
}

// Steering implements game.SteeringSource. Script errors steer straight.
func (a *Autopilot) Steering(s game.Snapshot) float64 {
	v, err := a.Decide(BuildContext(s, a.LookAhead))
	if err != nil {
		a.Failures++
		a.log.Warn().Err(err).Int("failures", a.Failures).Msg("Autopilot failed, steering straight")
		return 0
	}
	return v
}
