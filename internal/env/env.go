package env

import (
	"github.com/go-gl/mathgl/mgl64"
)

// State is the published atmospheric state at the vehicle.
type State struct {
	// Altitude is the geometric altitude above mean sea level in meters.
	Altitude float64
	// Temperature in kelvin.
	Temperature float64
	// Pressure in pascals.
	Pressure float64
	// AirDensity in kg/m³.
	AirDensity float64
	// Gravity is the local gravitational acceleration in m/s².
	Gravity float64
}

// Environment exposes the current atmospheric state.
// Implementations are read by the aerodynamic model once per tick and must
// already be advanced for that tick.
type Environment interface {
	State() State
}

// Effect applies an environmental effect to the aircraft after force
// integration. Positions and velocities are in the local NED frame
// (X=north, Y=east, Z=down).
type Effect interface {
	// Apply takes the current position and velocity of the aircraft and returns
	// the modified position, velocity, and an optional warning message.
	// The dt parameter is the time step in seconds since the last update.
	Apply(dt float64, pos mgl64.Vec3, vel mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, string)
}

// Chain is a composite effect that applies multiple effects in sequence.
type Chain struct {
	Effects []Effect
}

// Apply applies all effects in the chain, in order.
// The position and velocity are passed through each effect in sequence,
// with the output of one effect becoming the input to the next.
// The last non-empty warning message is returned.
func (c *Chain) Apply(dt float64, pos mgl64.Vec3, vel mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, string) {
	var warning string
	for _, effect := range c.Effects {
		newPos, newVel, w := effect.Apply(dt, pos, vel)
		if w != "" {
			warning = w
		}
		pos, vel = newPos, newVel
	}
	return pos, vel, warning
}

// NoOp is an effect that does nothing.
var NoOp Effect = noOpEffect{}

type noOpEffect struct{}

func (noOpEffect) Apply(dt float64, pos, vel mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, string) {
	return pos, vel, ""
}
