package game

import "math"

// Pose is a position on the ground plane plus heading (0 faces -Z)
type Pose struct {
	X, Z    float64
	Heading float64
}

// Finite reports whether the pose holds only real numbers
func (p Pose) Finite() bool {
	return isFinite(p.X) && isFinite(p.Z) && isFinite(p.Heading)
}

// Vehicle is anything the run can drive and collide. The procedural box and
// the sprite skin are interchangeable; the core only sees this interface.
type Vehicle interface {
	Pose() Pose
	SetPose(p Pose)
	Bounds() Rect
	Reset()
}

// BoxVehicle is the procedural vehicle: a plain width x length box
type BoxVehicle struct {
	Width  float64
	Length float64

	pose Pose
}

// NewBoxVehicle creates a box vehicle at the origin
func NewBoxVehicle(width, length float64) *BoxVehicle {
	return &BoxVehicle{Width: width, Length: length}
}

// Pose returns the current pose
func (v *BoxVehicle) Pose() Pose { return v.pose }

// SetPose moves the vehicle
func (v *BoxVehicle) SetPose(p Pose) { v.pose = p }

// Bounds returns the axis-aligned bounds of the rotated box
func (v *BoxVehicle) Bounds() Rect {
	return OrientedBounds(v.pose.X, v.pose.Z, v.pose.Heading, v.Length, v.Width)
}

// Reset puts the vehicle back at the origin facing -Z
func (v *BoxVehicle) Reset() { v.pose = Pose{} }

// Drive advances p by dt at speed, turning at steerRate scaled by steer
func Drive(p Pose, dt, steer, speed, steerRate float64) Pose {
	p.Heading += steer * steerRate * dt
	p.X += math.Sin(p.Heading) * speed * dt
	p.Z -= math.Cos(p.Heading) * speed * dt
	return p
}
