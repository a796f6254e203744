// Package fixedwing implements the aerodynamic and propulsive force model
// of a fixed-wing aircraft. An Airplane is a physics vertex: every tick it
// reads the environment and kinematic state, advances its control
// surfaces and produces the wrench for the rigid-body integrator.
package fixedwing

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"fixedwing-sim/internal/env"
	"fixedwing-sim/internal/geometry"
	"fixedwing-sim/internal/kinematics"
	"fixedwing-sim/internal/logging"
	"fixedwing-sim/internal/physics"
)

// Option customizes an Airplane before it is initialized.
type Option func(*Airplane)

// WithLogger sets the logger used for warnings and diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Airplane) { a.logger = l }
}

// WithActuator sets the actuator parameters shared by all four surfaces.
func WithActuator(p ControlSurfaceParams) Option {
	return func(a *Airplane) { a.actuator = p }
}

// Airplane is the fixed-wing aerodynamic model. It is not safe for
// concurrent use; commands must come from the goroutine that drives Update.
type Airplane struct {
	physics.Vertex

	environment     env.Environment
	kinematics      kinematics.Provider
	aeroDerivatives LinearAeroDerivatives
	propDerivatives PropulsionDerivatives
	dimensions      Dimensions
	actuator        ControlSurfaceParams
	logger          *slog.Logger

	airDensitySeaLevel float64
	airDensityRatio    float64
	airspeed           float64
	dynPressure        float64
	angularPressure    float64
	aoa                AoA
	output             Output

	aileronDeflection  float64
	elevatorDeflection float64
	rudderDeflection   float64
	tlaDeflection      float64

	controls [SurfaceCount]ControlSurface
}

// NewAirplane creates and initializes an Airplane.
func NewAirplane(position, normal mgl64.Vec3, aero LinearAeroDerivatives, prop PropulsionDerivatives,
	dims Dimensions, environment env.Environment, kin kinematics.Provider, opts ...Option,
) *Airplane {
	a := &Airplane{}
	for _, opt := range opts {
		opt(a)
	}
	a.Initialize(position, normal, aero, prop, dims, environment, kin)
	return a
}

// Initialize binds the environment and kinematics providers, stores the
// configuration, creates the control surfaces and places the vertex in
// body coordinates. It must be called before Update or Reset.
func (a *Airplane) Initialize(position, normal mgl64.Vec3, aero LinearAeroDerivatives, prop PropulsionDerivatives,
	dims Dimensions, environment env.Environment, kin kinematics.Provider,
) {
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.actuator == (ControlSurfaceParams{}) {
		a.actuator = DefaultControlSurfaceParams()
	}

	a.airDensitySeaLevel = env.AirDensity(0)
	a.environment = environment
	a.kinematics = kin
	a.aeroDerivatives = aero
	a.propDerivatives = prop
	a.dimensions = dims
	for i := range a.controls {
		a.controls[i] = NewControlSurface(a.actuator)
	}
	a.Vertex.Initialize(position, normal, a)
}

// Reset returns the model to rest: base vertex, surfaces to neutral, and
// outputs recomputed from the current provider state.
func (a *Airplane) Reset() {
	a.Vertex.Reset()
	for i := range a.controls {
		a.controls[i].Reset()
	}
	a.updateEnvironmentalFactors()
	a.updateAoA()
	a.updatePropulsionForces()
	a.updateAeroForces()
}

// Update runs one tick. The base vertex update at the end calls back
// SetWrench with the freshly computed output.
func (a *Airplane) Update() {
	a.updateEnvironmentalFactors()
	for i := range a.controls {
		a.controls[i].Update()
	}
	a.updateAoA()
	a.updatePropulsionForces()
	a.updateAeroForces()
	a.Vertex.Update()
}

// SetWrench composes the body-axis wrench (X forward, Y right, Z down)
// from the latest output.
func (a *Airplane) SetWrench(w *physics.Wrench) {
	fm := a.output.AeroForce
	w.Force = geometry.AxisX.Mul(a.output.Thrust - fm.Drag).
		Add(geometry.AxisY.Mul(fm.SideForce)).
		Add(geometry.AxisZ.Mul(-fm.Lift))
	w.Torque = geometry.AxisX.Mul(fm.RollMom).
		Add(geometry.AxisY.Mul(fm.PitchMom)).
		Add(geometry.AxisZ.Mul(fm.YawMom))
}

// ControlSurfaceOutput returns the state of one surface. It panics if s is
// not one of the four surfaces.
func (a *Airplane) ControlSurfaceOutput(s Surface) ControlSurfaceOutput {
	mustSurface(s)
	return a.controls[s].Output()
}

// SetControl commands one surface. It panics if s is not one of the four
// surfaces. The new command takes effect on the next Update.
func (a *Airplane) SetControl(s Surface, deflection float64) {
	mustSurface(s)
	a.controls[s].SetCommand(deflection)
}

// ControlCommand returns the accepted command of one surface.
func (a *Airplane) ControlCommand(s Surface) float64 {
	mustSurface(s)
	return a.controls[s].Command()
}

// SetAileron commands the aileron.
func (a *Airplane) SetAileron(deflection float64) { a.SetControl(Aileron, deflection) }

// SetElevator commands the elevator.
func (a *Airplane) SetElevator(deflection float64) { a.SetControl(Elevator, deflection) }

// SetThrottle commands the throttle lever.
func (a *Airplane) SetThrottle(deflection float64) { a.SetControl(Throttle, deflection) }

// SetRudder commands the rudder.
func (a *Airplane) SetRudder(deflection float64) { a.SetControl(Rudder, deflection) }

// Output returns the latest computed forces and thrust.
func (a *Airplane) Output() Output { return a.output }

// AoA returns the attitude-derived angles of the last tick.
func (a *Airplane) AoA() AoA { return a.aoa }

// Airspeed returns the airspeed (m/s) of the last tick.
func (a *Airplane) Airspeed() float64 { return a.airspeed }

// DynamicPressure returns 0.5·ρ·V² (Pa) of the last tick.
func (a *Airplane) DynamicPressure() float64 { return a.dynPressure }

// AirDensityRatio returns ρ/ρ₀ of the last tick.
func (a *Airplane) AirDensityRatio() float64 { return a.airDensityRatio }

func mustSurface(s Surface) {
	if s < 0 || s >= SurfaceCount {
		panic(fmt.Sprintf("fixedwing: control surface index %d out of range [0, %d)", int(s), SurfaceCount))
	}
}

func (a *Airplane) updateEnvironmentalFactors() {
	a.airDensityRatio = a.environment.State().AirDensity / a.airDensitySeaLevel
}

// updateAoA takes alpha and beta straight from the attitude: alpha is the
// roll angle and beta the pitch angle. The velocity vector is not used.
func (a *Airplane) updateAoA() {
	a.aoa.AeroAxis = geometry.QuaternionToEuler(a.kinematics.State().Pose.Orientation)
	a.aoa.Alpha = a.aoa.AeroAxis[0]
	a.aoa.Beta = a.aoa.AeroAxis[1]
}

func (a *Airplane) updatePropulsionForces() {
	a.tlaDeflection = a.controls[Throttle].Output().ControlDeflection + 1.0
	a.output.Thrust = a.propDerivatives.ThrustTLA * a.tlaDeflection
}

func (a *Airplane) updateAeroForces() {
	d := &a.aeroDerivatives
	dims := a.dimensions
	state := a.kinematics.State()
	rho := a.environment.State().AirDensity
	p, q, r := state.Twist.Angular[0], state.Twist.Angular[1], state.Twist.Angular[2]
	v := state.Twist.Linear[1]
	alpha, beta := a.aoa.Alpha, a.aoa.Beta

	a.aileronDeflection = a.controls[Aileron].Output().ControlDeflection
	a.elevatorDeflection = a.controls[Elevator].Output().ControlDeflection
	a.rudderDeflection = a.controls[Rudder].Output().ControlDeflection

	a.airspeed = state.Twist.Linear.Len()
	a.dynPressure = 0.5 * rho * a.airspeed * a.airspeed
	// ½ρV²·S·c/(2V) with V cancelled so zero airspeed stays finite.
	a.angularPressure = 0.25 * rho * a.airspeed * dims.MainPlaneArea * dims.MainPlaneChord

	qS := a.dynPressure * dims.MainPlaneArea
	qa := a.angularPressure
	fm := &a.output.AeroForce

	fm.Lift = qS*(d.ZeroLift+
		d.AlphaLift*alpha+
		d.ElevLift*a.elevatorDeflection) +
		d.PitchLift*qa*q

	fm.Drag = qS*(d.ZeroDrag+
		d.AlphaDrag*alpha+
		d.AlphaDrag2*alpha*alpha+
		d.BetaDrag*beta+
		d.BetaDrag2*beta*beta+
		d.ElevDrag*a.elevatorDeflection) +
		d.PitchDrag*qa*q

	fm.SideForce = qS*(d.ZeroSideforce+
		d.BetaSideforce*beta+
		d.SidevelocitySideforce*v+
		d.RudderSideforce*a.rudderDeflection) +
		d.RollrateSideforce*qa*p +
		d.YawrateSideforce*qa*r

	fm.PitchMom = qS*dims.MainPlaneChord*(d.ZeroPitch+
		d.AlphaPitch*alpha+
		d.ElevatorPitch*a.elevatorDeflection) +
		d.PitchratePitch*qa*q

	fm.RollMom = qS*dims.MainPlaneSpan*(d.ZeroRoll+
		d.BetaRoll*beta+
		d.AileronRoll*a.aileronDeflection) +
		d.RollrateRoll*qa*p +
		d.YawrateRoll*qa*r

	fm.YawMom = qS*dims.MainPlaneSpan*(d.ZeroYaw+
		d.BetaYaw*beta+
		d.AileronYaw*a.aileronDeflection+
		d.RudderYaw*a.rudderDeflection) +
		d.RollrateYaw*qa*p +
		d.YawrateYaw*qa*r

	if logging.EnableTrace {
		a.aeroDebugMessages(state)
		a.kinematicsDebugMessages(state)
	}

	if math.IsNaN(fm.Lift) || math.IsInf(fm.Lift, 0) {
		a.logger.Warn("lift is not a finite number, propagating",
			slog.Float64("lift", fm.Lift),
			slog.Float64("airspeed", a.airspeed),
			slog.Float64("air_density", rho))
	}
}
