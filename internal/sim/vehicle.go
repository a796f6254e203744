package sim

import (
	"log/slog"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"fixedwing-sim/internal/config"
	"fixedwing-sim/internal/env"
	"fixedwing-sim/internal/fixedwing"
	"fixedwing-sim/internal/geometry"
	"fixedwing-sim/internal/kinematics"
	"fixedwing-sim/internal/physics"
)

// Vehicle is one simulated aircraft: the atmosphere around it, its
// kinematic state, the fixed-wing force model and the rigid body that
// integrates it. It is driven by a single goroutine.
type Vehicle struct {
	atmosphere *env.Atmosphere
	kin        *kinematics.Kinematics
	plane      *fixedwing.Airplane
	body       *physics.Body

	tick    uint64
	warning string
}

// InitialState builds the starting state described by the sim section:
// wings level at StartAltitude above StartLat/StartLon (the origin when
// unset), flying StartSpeed along StartHeading.
func InitialState(sc config.SimConfig) kinematics.State {
	geo := GeoRef{OriginLat: sc.OriginLat, OriginLon: sc.OriginLon}
	lat, lon := sc.OriginLat, sc.OriginLon
	if sc.StartLat != nil {
		lat = *sc.StartLat
	}
	if sc.StartLon != nil {
		lon = *sc.StartLon
	}

	heading := geometry.DegToRad(sc.StartHeading)
	return kinematics.State{
		Pose: kinematics.Pose{
			Position:    geo.GeoToLocal(lat, lon, sc.StartAltitude),
			Orientation: geometry.EulerToQuaternion(0, 0, heading),
		},
		Twist: kinematics.Twist{
			Linear: mgl64.Vec3{sc.StartSpeed * math.Cos(heading), sc.StartSpeed * math.Sin(heading), 0},
		},
	}
}

// NewVehicle assembles a vehicle and resets it to initial.
func NewVehicle(ac config.AircraftConfig, ec config.EnvironmentConfig, initial kinematics.State, logger *slog.Logger) *Vehicle {
	if logger == nil {
		logger = slog.Default()
	}

	atmosphere := env.NewAtmosphere(initial.Altitude())
	atmosphere.TemperatureOffset = ec.TemperatureOffset
	atmosphere.Reset()

	kin := kinematics.New(initial)
	plane := fixedwing.NewAirplane(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1},
		ac.Aero, ac.Propulsion, ac.Dimensions, atmosphere, kin,
		fixedwing.WithLogger(logger),
		fixedwing.WithActuator(ac.Actuator))

	effects := &env.Chain{Effects: []env.Effect{ec.Wind, ec.Terrain}}
	body := physics.NewBody(ac.Body, kin, atmosphere, effects, plane)

	v := &Vehicle{atmosphere: atmosphere, kin: kin, plane: plane, body: body}
	v.Reset()
	return v
}

// Step advances the vehicle by dt seconds: the atmosphere is moved to the
// current altitude, then the body updates its vertices and integrates.
func (v *Vehicle) Step(dt float64) {
	v.atmosphere.Update(v.kin.State().Altitude())
	v.warning = v.body.Update(dt)
	v.tick++
}

// Reset returns the vehicle to its initial state with neutral controls.
func (v *Vehicle) Reset() {
	v.atmosphere.Reset()
	v.body.Reset()
	v.tick = 0
	v.warning = ""
}

// SetControls applies the non-nil fields of c.
func (v *Vehicle) SetControls(c ControlsCommand) {
	if c.Aileron != nil {
		v.plane.SetAileron(*c.Aileron)
	}
	if c.Elevator != nil {
		v.plane.SetElevator(*c.Elevator)
	}
	if c.Throttle != nil {
		v.plane.SetThrottle(*c.Throttle)
	}
	if c.Rudder != nil {
		v.plane.SetRudder(*c.Rudder)
	}
}

// SetSurface commands one surface. It panics on an unknown surface.
func (v *Vehicle) SetSurface(s fixedwing.Surface, deflection float64) {
	v.plane.SetControl(s, deflection)
}

// Airplane returns the force model.
func (v *Vehicle) Airplane() *fixedwing.Airplane { return v.plane }

// State returns the current kinematic state.
func (v *Vehicle) State() kinematics.State { return v.kin.State() }

// Tick returns the number of steps since the last reset.
func (v *Vehicle) Tick() uint64 { return v.tick }

// Warning returns the warning raised by the effects on the last step.
func (v *Vehicle) Warning() string { return v.warning }

// Snapshot builds the published state.
func (v *Vehicle) Snapshot(geo GeoRef, session uuid.UUID, ts time.Time, paused bool) AircraftState {
	s := v.kin.State()
	pos := s.Pose.Position
	vel := s.Twist.Linear
	euler := geometry.QuaternionToEuler(s.Pose.Orientation)
	lat, lon, alt := geo.LocalToGeo(pos)
	aoa := v.plane.AoA()

	return AircraftState{
		Session: session,
		Tick:    v.tick,
		Lat:     lat, Lon: lon, Alt: alt,
		North: pos[0], East: pos[1], Down: pos[2],
		Vx: vel[0], Vy: vel[1], Vz: vel[2],
		Roll:  geometry.RadToDeg(euler[0]),
		Pitch: geometry.RadToDeg(euler[1]),
		Yaw:   geometry.RadToDeg(euler[2]),
		P:     s.Twist.Angular[0], Q: s.Twist.Angular[1], R: s.Twist.Angular[2],
		HeadingDeg:      HeadingDegFromVec(vel),
		Airspeed:        v.plane.Airspeed(),
		AirDensity:      v.atmosphere.State().AirDensity,
		AirDensityRatio: v.plane.AirDensityRatio(),
		Alpha:           aoa.Alpha,
		Beta:            aoa.Beta,
		Forces:          v.plane.Output(),
		Surfaces: Surfaces{
			Aileron:  v.plane.ControlSurfaceOutput(fixedwing.Aileron).ControlDeflection,
			Elevator: v.plane.ControlSurfaceOutput(fixedwing.Elevator).ControlDeflection,
			Throttle: v.plane.ControlSurfaceOutput(fixedwing.Throttle).ControlDeflection,
			Rudder:   v.plane.ControlSurfaceOutput(fixedwing.Rudder).ControlDeflection,
		},
		Commands: Surfaces{
			Aileron:  v.plane.ControlCommand(fixedwing.Aileron),
			Elevator: v.plane.ControlCommand(fixedwing.Elevator),
			Throttle: v.plane.ControlCommand(fixedwing.Throttle),
			Rudder:   v.plane.ControlCommand(fixedwing.Rudder),
		},
		TS:      ts,
		Paused:  paused,
		Warning: v.warning,
	}
}
