package script

import (
	"math"

	"driftline/game"
)

// SteerContext is passed to steering scripts as input
type SteerContext struct {
	// Vehicle state
	X       float64 `json:"x"`
	Z       float64 `json:"z"`
	Heading float64 `json:"heading"`

	// Centreline point LookAhead metres in front of the vehicle
	TargetX float64 `json:"targetX"`
	TargetZ float64 `json:"targetZ"`

	RoadWidth float64 `json:"roadWidth"`
	Elapsed   float64 `json:"elapsed"`
}

// BuildContext creates a SteerContext from a game snapshot
func BuildContext(s game.Snapshot, lookAhead float64) SteerContext {
	tx, tz := pointAhead(s.Steps, s.Pose.X, s.Pose.Z, lookAhead)
	return SteerContext{
		X:         s.Pose.X,
		Z:         s.Pose.Z,
		Heading:   s.Pose.Heading,
		TargetX:   tx,
		TargetZ:   tz,
		RoadWidth: s.RoadWidth,
		Elapsed:   s.Elapsed,
	}
}

// pointAhead returns the first centreline point dist metres from (x, z)
// among the steps that end ahead of the vehicle
func pointAhead(steps []game.Step, x, z, dist float64) (float64, float64) {
	if len(steps) == 0 {
		return x, z - dist
	}

	for _, s := range steps {
		if s.EndZ >= z {
			continue
		}
		if math.Hypot(s.EndX-x, s.EndZ-z) < dist {
			continue
		}

		// solve |start + t*d - p| = dist for the far root
		dx, dz := s.EndX-s.StartX, s.EndZ-s.StartZ
		fx, fz := s.StartX-x, s.StartZ-z
		a := dx*dx + dz*dz
		b := 2 * (fx*dx + fz*dz)
		c := fx*fx + fz*fz - dist*dist
		disc := b*b - 4*a*c
		if a == 0 || disc < 0 {
			return s.EndX, s.EndZ
		}
		t := (-b + math.Sqrt(disc)) / (2 * a)
		t = math.Max(0, math.Min(1, t))
		return s.StartX + t*dx, s.StartZ + t*dz
	}

	last := steps[len(steps)-1]
	return last.EndX, last.EndZ
}
