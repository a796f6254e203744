package env

import "math"

// International Standard Atmosphere constants.
const (
	SeaLevelTemperature = 288.15   // K
	SeaLevelPressure    = 101325.0 // Pa
	TemperatureLapse    = 0.0065   // K/m, troposphere
	GasConstantAir      = 287.05   // J/(kg·K)
	StandardGravity     = 9.80665  // m/s²

	tropopauseAltitude    = 11000.0 // m
	tropopauseTemperature = 216.65  // K
	tropopausePressure    = 22632.06
	earthRadius           = 6371000.0
)

// StandardTemperature returns the ISA temperature (K) at altitude (m).
func StandardTemperature(altitude float64) float64 {
	if altitude < tropopauseAltitude {
		return SeaLevelTemperature - TemperatureLapse*altitude
	}
	return tropopauseTemperature
}

// StandardPressure returns the ISA static pressure (Pa) at altitude (m).
func StandardPressure(altitude float64) float64 {
	if altitude < tropopauseAltitude {
		t := StandardTemperature(altitude)
		return SeaLevelPressure * math.Pow(t/SeaLevelTemperature, StandardGravity/(GasConstantAir*TemperatureLapse))
	}
	return tropopausePressure * math.Exp(-StandardGravity*(altitude-tropopauseAltitude)/(GasConstantAir*tropopauseTemperature))
}

// AirDensity returns the ISA air density (kg/m³) at altitude (m).
func AirDensity(altitude float64) float64 {
	return StandardPressure(altitude) / (GasConstantAir * StandardTemperature(altitude))
}

// Gravity returns gravitational acceleration at altitude using the
// inverse-square falloff from the mean earth radius.
func Gravity(altitude float64) float64 {
	r := earthRadius / (earthRadius + altitude)
	return StandardGravity * r * r
}

// Atmosphere is an Environment backed by the standard atmosphere. The
// owner moves it to the vehicle altitude before each tick.
type Atmosphere struct {
	// TemperatureOffset shifts the ISA temperature (K) for hot/cold days.
	TemperatureOffset float64

	initialAltitude float64
	state           State
}

// NewAtmosphere creates an atmosphere evaluated at the given altitude.
func NewAtmosphere(altitude float64) *Atmosphere {
	a := &Atmosphere{initialAltitude: altitude}
	a.Update(altitude)
	return a
}

// Update re-evaluates the atmosphere at altitude.
func (a *Atmosphere) Update(altitude float64) {
	t := StandardTemperature(altitude) + a.TemperatureOffset
	p := StandardPressure(altitude)
	a.state = State{
		Altitude:    altitude,
		Temperature: t,
		Pressure:    p,
		AirDensity:  p / (GasConstantAir * t),
		Gravity:     Gravity(altitude),
	}
}

// Reset returns the atmosphere to the altitude it was created at.
func (a *Atmosphere) Reset() {
	a.Update(a.initialAltitude)
}

// State implements Environment.
func (a *Atmosphere) State() State {
	return a.state
}

// Fixed is an Environment with a constant state, used by tests and demos.
type Fixed struct {
	S State
}

// State implements Environment.
func (f *Fixed) State() State { return f.S }
