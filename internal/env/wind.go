package env

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Wind represents a constant wind vector in the environment.
// The wind is specified in meters per second toward the north and east.
type Wind struct {
	// North is the northward component of the wind in m/s (negative = south)
	North float64 `yaml:"north"`
	// East is the eastward component of the wind in m/s (negative = west)
	East float64 `yaml:"east"`
}

// Apply applies wind as a constant ground drift.
// Position is modified directly (ground track); the aircraft's own velocity
// is the air-relative velocity and stays untouched.
func (w Wind) Apply(dt float64, pos mgl64.Vec3, vel mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, string) {
	drift := mgl64.Vec3{w.North * dt, w.East * dt, 0}
	return pos.Add(drift), vel, ""
}

// Calm returns a Wind with zero velocity (no wind).
func Calm() Wind {
	return Wind{}
}

// FromSpeedAndDir creates a Wind from a speed (m/s) and direction (degrees).
// Direction is the heading the air moves toward, clockwise from north
// (0° = north, 90° = east).
func FromSpeedAndDir(speed, directionDeg float64) Wind {
	rad := directionDeg * math.Pi / 180
	return Wind{
		North: speed * math.Cos(rad),
		East:  speed * math.Sin(rad),
	}
}
