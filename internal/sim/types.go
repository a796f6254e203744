package sim

import (
	"time"

	"github.com/google/uuid"

	"fixedwing-sim/internal/fixedwing"
)

// AircraftState is the published snapshot of one tick.
type AircraftState struct {
	Session uuid.UUID `json:"session" msgpack:"-"`
	Tick    uint64    `json:"tick" msgpack:"tick"`

	Lat float64 `json:"lat" msgpack:"lat"`
	Lon float64 `json:"lon" msgpack:"lon"`
	Alt float64 `json:"alt" msgpack:"alt"` // meters

	// Local NED position relative to the origin (m)
	North float64 `json:"north" msgpack:"north"`
	East  float64 `json:"east" msgpack:"east"`
	Down  float64 `json:"down" msgpack:"down"`

	// NED velocity (m/s)
	Vx float64 `json:"vx" msgpack:"vx"`
	Vy float64 `json:"vy" msgpack:"vy"`
	Vz float64 `json:"vz" msgpack:"vz"`

	// Attitude in degrees, body rates in rad/s
	Roll  float64 `json:"roll" msgpack:"roll"`
	Pitch float64 `json:"pitch" msgpack:"pitch"`
	Yaw   float64 `json:"yaw" msgpack:"yaw"`
	P     float64 `json:"p" msgpack:"p"`
	Q     float64 `json:"q" msgpack:"q"`
	R     float64 `json:"r" msgpack:"r"`

	HeadingDeg float64 `json:"headingDeg" msgpack:"heading_deg"`
	Airspeed   float64 `json:"airspeed" msgpack:"airspeed"`

	AirDensity      float64 `json:"airDensity" msgpack:"air_density"`
	AirDensityRatio float64 `json:"airDensityRatio" msgpack:"air_density_ratio"`
	Alpha           float64 `json:"alpha" msgpack:"alpha"` // rad
	Beta            float64 `json:"beta" msgpack:"beta"`   // rad

	Forces   fixedwing.Output `json:"forces" msgpack:"forces"`
	Surfaces Surfaces         `json:"surfaces" msgpack:"surfaces"`
	Commands Surfaces         `json:"commands" msgpack:"commands"`

	TS      time.Time `json:"ts" msgpack:"ts"`
	Paused  bool      `json:"paused,omitempty" msgpack:"paused"`
	Warning string    `json:"warning,omitempty" msgpack:"warning"`
}

// Surfaces holds one value per control surface: the achieved deflections
// in AircraftState.Surfaces, the accepted commands in AircraftState.Commands.
type Surfaces struct {
	Aileron  float64 `json:"aileron" msgpack:"aileron"`
	Elevator float64 `json:"elevator" msgpack:"elevator"`
	Throttle float64 `json:"throttle" msgpack:"throttle"`
	Rudder   float64 `json:"rudder" msgpack:"rudder"`
}
