package env

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Terrain implements an effect that keeps the aircraft above the terrain
// plus a safety margin. This is the only contact handling the rigid body
// gets.
type Terrain struct {
	// SafetyMarginM is the minimum allowed altitude above terrain in meters
	SafetyMarginM float64 `yaml:"safety_margin_m"`
	// Flat disables the synthetic relief and puts the ground at sea level.
	Flat bool `yaml:"flat"`
}

// GroundAltitude calculates the terrain height at a given NED position.
// This is a simple synthetic terrain function that can be replaced with real elevation data.
func (t Terrain) GroundAltitude(pos mgl64.Vec3) float64 {
	if t.Flat {
		return 0
	}
	wave1 := math.Sin(pos[1]/1000) * 100
	wave2 := math.Sin((pos[0]+pos[1])/500) * 50
	return wave1 + wave2
}

// Apply enforces the terrain floor.
// If the aircraft is below the terrain plus safety margin it is moved up,
// and its vertical velocity is zeroed if it was descending.
func (t Terrain) Apply(dt float64, pos mgl64.Vec3, vel mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, string) {
	minAllowedAlt := t.GroundAltitude(pos) + t.SafetyMarginM

	if -pos[2] < minAllowedAlt {
		pos[2] = -minAllowedAlt

		// NED: positive Z velocity is a descent.
		if vel[2] > 0 {
			vel[2] = 0
		}

		return pos, vel, "terrain-floor: altitude clipped to safety margin"
	}

	return pos, vel, ""
}

// DefaultTerrain returns a Terrain with a reasonable default safety margin.
func DefaultTerrain() Terrain {
	return Terrain{
		SafetyMarginM: 80,
	}
}
