package game

// Snapshot is the read-only view a steering source gets each frame
type Snapshot struct {
	State     RunState
	Pose      Pose
	Elapsed   float64
	RoadWidth float64

	// Steps is the active centreline, front to back
	Steps []Step
}

// SteeringSource defines the interface for steering input (keyboard, autopilot, tests)
type SteeringSource interface {
	// Steering returns -1 (left), 0 or 1 (right); values in between are allowed
	Steering(s Snapshot) float64
}

// FixedSteering always returns the same input
type FixedSteering float64

// Steering returns the fixed value
func (f FixedSteering) Steering(Snapshot) float64 { return float64(f) }

// SteeringFunc adapts a plain function
type SteeringFunc func(Snapshot) float64

// Steering calls f
func (f SteeringFunc) Steering(s Snapshot) float64 { return f(s) }

// clampSteer bounds steering to [-1, 1] and maps NaN to 0
func clampSteer(v float64) float64 {
	switch {
	case v != v:
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
