package fixedwing

import (
	"log/slog"

	"fixedwing-sim/internal/geometry"
	"fixedwing-sim/internal/kinematics"
	"fixedwing-sim/internal/logging"
)

// aeroDebugMessages traces every term of the six force/moment equations.
func (a *Airplane) aeroDebugMessages(state kinematics.State) {
	d := &a.aeroDerivatives
	fm := a.output.AeroForce
	p, q, r := state.Twist.Angular[0], state.Twist.Angular[1], state.Twist.Angular[2]
	common := []any{
		slog.Float64("dyn_pressure", a.dynPressure),
		slog.Float64("area", a.dimensions.MainPlaneArea),
		slog.Float64("angular_pressure", a.angularPressure),
	}

	logging.Trace(a.logger, "lift", append(common,
		slog.Float64("value", fm.Lift),
		slog.Float64("cl0", d.ZeroLift),
		slog.Float64("cl_alpha", d.AlphaLift), slog.Float64("alpha", a.aoa.Alpha),
		slog.Float64("cl_elev", d.ElevLift), slog.Float64("elev", a.elevatorDeflection),
		slog.Float64("cl_q", d.PitchLift), slog.Float64("q", q))...)

	logging.Trace(a.logger, "drag", append(common,
		slog.Float64("value", fm.Drag),
		slog.Float64("cd0", d.ZeroDrag),
		slog.Float64("cd_alpha", d.AlphaDrag), slog.Float64("cd_alpha2", d.AlphaDrag2), slog.Float64("alpha", a.aoa.Alpha),
		slog.Float64("cd_beta", d.BetaDrag), slog.Float64("cd_beta2", d.BetaDrag2), slog.Float64("beta", a.aoa.Beta),
		slog.Float64("cd_elev", d.ElevDrag), slog.Float64("elev", a.elevatorDeflection),
		slog.Float64("cd_q", d.PitchDrag), slog.Float64("q", q))...)

	logging.Trace(a.logger, "side force", append(common,
		slog.Float64("value", fm.SideForce),
		slog.Float64("cy0", d.ZeroSideforce),
		slog.Float64("cy_beta", d.BetaSideforce), slog.Float64("beta", a.aoa.Beta),
		slog.Float64("cy_v", d.SidevelocitySideforce), slog.Float64("v", state.Twist.Linear[1]),
		slog.Float64("cy_rudd", d.RudderSideforce), slog.Float64("rudd", a.rudderDeflection),
		slog.Float64("cy_p", d.RollrateSideforce), slog.Float64("p", p),
		slog.Float64("cy_r", d.YawrateSideforce), slog.Float64("r", r))...)

	logging.Trace(a.logger, "pitching moment", append(common,
		slog.Float64("value", fm.PitchMom),
		slog.Float64("chord", a.dimensions.MainPlaneChord),
		slog.Float64("cm0", d.ZeroPitch),
		slog.Float64("cm_alpha", d.AlphaPitch), slog.Float64("alpha", a.aoa.Alpha),
		slog.Float64("cm_elev", d.ElevatorPitch), slog.Float64("elev", a.elevatorDeflection),
		slog.Float64("cm_q", d.PitchratePitch), slog.Float64("q", q))...)

	logging.Trace(a.logger, "rolling moment", append(common,
		slog.Float64("value", fm.RollMom),
		slog.Float64("span", a.dimensions.MainPlaneSpan),
		slog.Float64("cl0", d.ZeroRoll),
		slog.Float64("cl_beta", d.BetaRoll), slog.Float64("beta", a.aoa.Beta),
		slog.Float64("cl_ail", d.AileronRoll), slog.Float64("ail", a.aileronDeflection),
		slog.Float64("cl_p", d.RollrateRoll), slog.Float64("p", p),
		slog.Float64("cl_r", d.YawrateRoll), slog.Float64("r", r))...)

	logging.Trace(a.logger, "yawing moment", append(common,
		slog.Float64("value", fm.YawMom),
		slog.Float64("span", a.dimensions.MainPlaneSpan),
		slog.Float64("cn0", d.ZeroYaw),
		slog.Float64("cn_beta", d.BetaYaw), slog.Float64("beta", a.aoa.Beta),
		slog.Float64("cn_ail", d.AileronYaw), slog.Float64("ail", a.aileronDeflection),
		slog.Float64("cn_rudd", d.RudderYaw), slog.Float64("rudd", a.rudderDeflection),
		slog.Float64("cn_p", d.RollrateYaw), slog.Float64("p", p),
		slog.Float64("cn_r", d.YawrateYaw), slog.Float64("r", r))...)
}

// kinematicsDebugMessages traces the kinematic state the forces were
// computed from, including the body-frame wind axis.
func (a *Airplane) kinematicsDebugMessages(state kinematics.State) {
	orientation := state.Pose.Orientation
	euler := geometry.QuaternionToEuler(orientation)
	windAxis := geometry.RotateToBody(state.Twist.Linear, orientation)
	manualWindAxis := geometry.AngleBetweenVectors(euler, state.Twist.Linear)

	logging.Trace(a.logger, "kinematics",
		slog.Any("orientation", []float64{orientation.W, orientation.V[0], orientation.V[1], orientation.V[2]}),
		slog.Any("euler", euler),
		slog.Any("position", state.Pose.Position),
		slog.Any("vertex_position", a.Position()),
		slog.Any("vertex_normal", a.Normal()),
		slog.Any("wind_axis", windAxis),
		slog.Any("manual_wind_axis", manualWindAxis),
		slog.Any("linear_velocity", state.Twist.Linear),
		slog.Any("angular_velocity", state.Twist.Angular),
		slog.Any("linear_acceleration", state.Accelerations.Linear),
		slog.Any("angular_acceleration", state.Accelerations.Angular),
		slog.Float64("air_density_ratio", a.airDensityRatio))
}
