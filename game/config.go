package game

import "math"

// Config holds the road, vehicle and run tuning
type Config struct {
	// RoadWidth is the distance between the two wall centrelines in metres
	RoadWidth float64 `mapstructure:"roadWidth"`

	// Stride is the length of one discretised track step in metres
	Stride float64 `mapstructure:"stride"`

	// WallThickness is the depth of each wall box across the road
	WallThickness float64 `mapstructure:"wallThickness"`

	// WallPad extends each wall box along the road so neighbouring boxes overlap
	WallPad float64 `mapstructure:"wallPad"`

	// MaxHeading bounds the road heading so it keeps running toward -Z
	MaxHeading float64 `mapstructure:"maxHeading"`

	// InitialSegments is how many segments are generated before play starts
	InitialSegments int `mapstructure:"initialSegments"`

	// LookAhead is the minimum generated distance ahead of the vehicle
	LookAhead float64 `mapstructure:"lookAhead"`

	// TrailingMargin is the distance behind the vehicle past which walls are retired
	TrailingMargin float64 `mapstructure:"trailingMargin"`

	// VehicleWidth and VehicleLength size the procedural box vehicle
	VehicleWidth  float64 `mapstructure:"vehicleWidth"`
	VehicleLength float64 `mapstructure:"vehicleLength"`

	// Speed is the fixed forward speed in metres per second
	Speed float64 `mapstructure:"speed"`

	// SteerRate is the heading change per second at full steering input
	SteerRate float64 `mapstructure:"steerRate"`

	// MaxDelta caps the tick delta so a stalled frame cannot tunnel through a wall
	MaxDelta float64 `mapstructure:"maxDelta"`

	// SlowMoDuration and SlowMoFactor shape the cosmetic decay after a crash
	SlowMoDuration float64 `mapstructure:"slowMoDuration"`
	SlowMoFactor   float64 `mapstructure:"slowMoFactor"`

	// CoinDivisor converts score into coins at the end of a run
	CoinDivisor int `mapstructure:"coinDivisor"`

	// Seed for the segment shuffle; zero picks one from the clock
	Seed int64 `mapstructure:"seed"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	return Config{
		RoadWidth:       20.0,
		Stride:          10.0, // half the road width
		WallThickness:   1.0,
		WallPad:         0.5,
		MaxHeading:      math.Pi / 3,
		InitialSegments: 10,
		LookAhead:       200.0,
		TrailingMargin:  50.0,
		VehicleWidth:    2.0,
		VehicleLength:   4.0,
		Speed:           30.0,
		SteerRate:       2.0,
		MaxDelta:        0.1,
		SlowMoDuration:  0.3,
		SlowMoFactor:    0.3,
		CoinDivisor:     10,
		Seed:            0,
	}
}

// HalfRoad returns the offset from the centreline to each wall
func (c Config) HalfRoad() float64 {
	return c.RoadWidth / 2
}
