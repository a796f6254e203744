package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"fixedwing-sim/internal/env"
	"fixedwing-sim/internal/geometry"
	"fixedwing-sim/internal/kinematics"
)

// Warnings raised by the integrator itself. The state is left untouched
// on the tick that raises them.
const (
	WarnNonFiniteWrench = "non-finite wrench: state held"
	WarnNonFiniteState  = "non-finite integration result: state held"
)

// Inertia is a diagonal inertia tensor about the body axes (kg·m²).
type Inertia struct {
	Ixx float64 `yaml:"ixx"`
	Iyy float64 `yaml:"iyy"`
	Izz float64 `yaml:"izz"`
}

// Params describes the mass properties of a body and the limits the
// integrator applies to it. Zero damping or a zero limit disables it.
type Params struct {
	Mass    float64 `yaml:"mass"`
	Inertia Inertia `yaml:"inertia"`

	// Damping rates (1/s): velocities decay by exp(-k·dt) every tick.
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`

	MaxSpeed       float64 `yaml:"max_speed"`        // m/s
	MaxAngularRate float64 `yaml:"max_angular_rate"` // rad/s
}

// Body integrates the wrenches of its vertices into the kinematic state
// with a fixed-step semi-implicit Euler scheme.
type Body struct {
	params      Params
	kinematics  *kinematics.Kinematics
	environment env.Environment
	effects     env.Effect
	vertices    []VertexUpdater

	wrench  Wrench
	warning string
}

// NewBody wires a body to its kinematic state, the environment that
// supplies gravity, post-integration effects (may be nil) and vertices.
func NewBody(params Params, kin *kinematics.Kinematics, environment env.Environment, effects env.Effect, vertices ...VertexUpdater) *Body {
	if effects == nil {
		effects = env.NoOp
	}
	return &Body{
		params:      params,
		kinematics:  kin,
		environment: environment,
		effects:     effects,
		vertices:    vertices,
	}
}

// Reset restores the initial kinematic state, then resets every vertex so
// they recompute their outputs from rest.
func (b *Body) Reset() {
	b.kinematics.Reset()
	for _, v := range b.vertices {
		v.Reset()
	}
	b.wrench = Wrench{}
	b.warning = ""
}

// Update runs one tick: vertices compute wrenches from the current state,
// the summed wrench is integrated over dt. It returns the warning raised
// by the integrator or the effects chain, if any.
//
// A non-finite wrench, or an integration step that would produce a
// non-finite state, is rejected: the last finite state is kept and the
// tick reports WarnNonFiniteWrench or WarnNonFiniteState.
func (b *Body) Update(dt float64) string {
	total := Wrench{}
	for _, v := range b.vertices {
		v.Update()
		w := v.Wrench()
		total = total.Add(Wrench{Force: w.Force, Torque: w.Torque.Add(v.Position().Cross(w.Force))})
	}
	b.wrench = total
	b.warning = b.integrate(dt)
	return b.warning
}

// Wrench returns the total body-frame wrench applied on the last tick.
func (b *Body) Wrench() Wrench { return b.wrench }

// Warning returns the warning of the last tick.
func (b *Body) Warning() string { return b.warning }

func (b *Body) gravity() float64 {
	if b.environment == nil {
		return env.StandardGravity
	}
	return b.environment.State().Gravity
}

func (b *Body) integrate(dt float64) string {
	if !geometry.IsFinite(b.wrench.Force) || !geometry.IsFinite(b.wrench.Torque) {
		return WarnNonFiniteWrench
	}

	s := b.kinematics.State()
	q := s.Pose.Orientation

	// Linear: body force to NED, plus gravity along +Z.
	forceWorld := q.Rotate(b.wrench.Force)
	linAcc := forceWorld.Mul(1 / b.params.Mass).Add(mgl64.Vec3{0, 0, b.gravity()})
	vel := s.Twist.Linear.Add(linAcc.Mul(dt))
	vel = clampMagnitude(damp(vel, b.params.LinearDamping, dt), b.params.MaxSpeed)

	// Angular: Euler's equations with a diagonal tensor.
	in := mgl64.Vec3{b.params.Inertia.Ixx, b.params.Inertia.Iyy, b.params.Inertia.Izz}
	w := s.Twist.Angular
	gyro := w.Cross(mgl64.Vec3{in[0] * w[0], in[1] * w[1], in[2] * w[2]})
	tau := b.wrench.Torque.Sub(gyro)
	angAcc := mgl64.Vec3{tau[0] / in[0], tau[1] / in[1], tau[2] / in[2]}
	w = w.Add(angAcc.Mul(dt))
	w = clampMagnitude(damp(w, b.params.AngularDamping, dt), b.params.MaxAngularRate)

	pos, vel, warning := b.effects.Apply(dt, s.Pose.Position, vel)
	pos = pos.Add(vel.Mul(dt))

	// q' = ½ q ⊗ (0, ω)
	dq := q.Mul(mgl64.Quat{W: 0, V: w}).Scale(0.5 * dt)
	q = q.Add(dq).Normalize()

	if !geometry.IsFinite(pos) || !geometry.IsFinite(vel) || !geometry.IsFinite(w) ||
		!geometry.IsFinite(q.V) || math.IsNaN(q.W) || math.IsInf(q.W, 0) {
		return WarnNonFiniteState
	}

	b.kinematics.SetState(kinematics.State{
		Pose:          kinematics.Pose{Position: pos, Orientation: q},
		Twist:         kinematics.Twist{Linear: vel, Angular: w},
		Accelerations: kinematics.Accelerations{Linear: linAcc, Angular: angAcc},
	})
	return warning
}

func damp(v mgl64.Vec3, rate, dt float64) mgl64.Vec3 {
	if rate <= 0 {
		return v
	}
	return v.Mul(math.Exp(-rate * dt))
}

// clampMagnitude scales v down to limit when it is longer.
func clampMagnitude(v mgl64.Vec3, limit float64) mgl64.Vec3 {
	if !(limit > 0) {
		return v
	}
	if n := v.Len(); n > limit {
		return v.Mul(limit / n)
	}
	return v
}
