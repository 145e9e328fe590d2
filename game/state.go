package game

// RunState is the top-level run phase
type RunState int

const (
	StateHome    RunState = iota
	StatePlaying          // vehicle and track are ticking
	StateDead             // crashed, slow-motion decay then idle
)

func (s RunState) String() string {
	switch s {
	case StateHome:
		return "home"
	case StatePlaying:
		return "playing"
	case StateDead:
		return "dead"
	}
	return "unknown"
}
