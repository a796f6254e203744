package fixedwing

import (
	"github.com/go-gl/mathgl/mgl64"
)

// LinearAeroDerivatives are the stability and control derivatives of the
// linear aerodynamic model, grouped by the force or moment they feed.
// Angles are in radians, rates in rad/s, deflections in actuator units.
type LinearAeroDerivatives struct {
	// Lift
	ZeroLift  float64 `yaml:"zero_lift"`
	AlphaLift float64 `yaml:"alpha_lift"`
	ElevLift  float64 `yaml:"elev_lift"`
	PitchLift float64 `yaml:"pitch_lift"`

	// Drag
	ZeroDrag   float64 `yaml:"zero_drag"`
	AlphaDrag  float64 `yaml:"alpha_drag"`
	AlphaDrag2 float64 `yaml:"alpha_drag_2"`
	BetaDrag   float64 `yaml:"beta_drag"`
	BetaDrag2  float64 `yaml:"beta_drag_2"`
	ElevDrag   float64 `yaml:"elev_drag"`
	PitchDrag  float64 `yaml:"pitch_drag"`

	// Side force
	ZeroSideforce         float64 `yaml:"zero_sideforce"`
	BetaSideforce         float64 `yaml:"beta_sideforce"`
	SidevelocitySideforce float64 `yaml:"sidevelocity_sideforce"`
	RudderSideforce       float64 `yaml:"rudder_sideforce"`
	RollrateSideforce     float64 `yaml:"rollrate_sideforce"`
	YawrateSideforce      float64 `yaml:"yawrate_sideforce"`

	// Pitching moment
	ZeroPitch      float64 `yaml:"zero_pitch"`
	AlphaPitch     float64 `yaml:"alpha_pitch"`
	ElevatorPitch  float64 `yaml:"elevator_pitch"`
	PitchratePitch float64 `yaml:"pitchrate_pitch"`

	// Rolling moment
	ZeroRoll     float64 `yaml:"zero_roll"`
	BetaRoll     float64 `yaml:"beta_roll"`
	AileronRoll  float64 `yaml:"aileron_roll"`
	RollrateRoll float64 `yaml:"rollrate_roll"`
	YawrateRoll  float64 `yaml:"yawrate_roll"`

	// Yawing moment
	ZeroYaw     float64 `yaml:"zero_yaw"`
	BetaYaw     float64 `yaml:"beta_yaw"`
	AileronYaw  float64 `yaml:"aileron_yaw"`
	RudderYaw   float64 `yaml:"rudder_yaw"`
	RollrateYaw float64 `yaml:"rollrate_yaw"`
	YawrateYaw  float64 `yaml:"yawrate_yaw"`
}

// PropulsionDerivatives maps the throttle lever to thrust.
type PropulsionDerivatives struct {
	// ThrustTLA is thrust (N) per unit of offset throttle-lever deflection.
	ThrustTLA float64 `yaml:"thrust_tla"`
}

// Dimensions is the main-plane geometry (m², m, m).
type Dimensions struct {
	MainPlaneArea  float64 `yaml:"main_plane_area"`
	MainPlaneChord float64 `yaml:"main_plane_chord"`
	MainPlaneSpan  float64 `yaml:"main_plane_span"`
}

// AoA holds the attitude-derived aerodynamic angles. AeroAxis is the full
// (roll, pitch, yaw) Euler triple; Alpha and Beta are its first two
// components.
type AoA struct {
	AeroAxis mgl64.Vec3
	Alpha    float64
	Beta     float64
}

// AeroFM is the set of aerodynamic forces (N) and moments (N·m).
type AeroFM struct {
	Lift      float64 `json:"lift" msgpack:"lift"`
	Drag      float64 `json:"drag" msgpack:"drag"`
	SideForce float64 `json:"sideForce" msgpack:"side_force"`
	RollMom   float64 `json:"rollMom" msgpack:"roll_mom"`
	PitchMom  float64 `json:"pitchMom" msgpack:"pitch_mom"`
	YawMom    float64 `json:"yawMom" msgpack:"yaw_mom"`
}

// Output is the per-tick result of the model.
type Output struct {
	AeroForce AeroFM  `json:"aeroForce" msgpack:"aero_force"`
	Thrust    float64 `json:"thrust" msgpack:"thrust"`
}

// DefaultAeroDerivatives returns coefficients for a small (Aerosonde
// class) UAV.
func DefaultAeroDerivatives() LinearAeroDerivatives {
	return LinearAeroDerivatives{
		ZeroLift:  0.28,
		AlphaLift: 3.45,
		ElevLift:  -0.36,

		ZeroDrag:  0.03,
		AlphaDrag: 0.30,

		BetaSideforce:   -0.98,
		RudderSideforce: -0.17,

		ZeroPitch:      -0.02338,
		AlphaPitch:     -0.38,
		ElevatorPitch:  -0.5,
		PitchratePitch: -3.6,

		BetaRoll:     -0.12,
		AileronRoll:  0.08,
		RollrateRoll: -0.26,
		YawrateRoll:  0.14,

		BetaYaw:     0.25,
		AileronYaw:  0.06,
		RudderYaw:   -0.032,
		RollrateYaw: 0.022,
		YawrateYaw:  -0.35,
	}
}

// DefaultPropulsionDerivatives gives 40 N at neutral throttle.
func DefaultPropulsionDerivatives() PropulsionDerivatives {
	return PropulsionDerivatives{ThrustTLA: 40}
}

// DefaultDimensions matches DefaultAeroDerivatives.
func DefaultDimensions() Dimensions {
	return Dimensions{
		MainPlaneArea:  0.55,
		MainPlaneChord: 0.18994,
		MainPlaneSpan:  2.8956,
	}
}
