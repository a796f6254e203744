// Package kinematics holds the rigid-body kinematic state published to the
// force models each tick.
package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Pose is position (local NED, meters) and attitude (body to NED).
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// Twist holds the linear velocity (NED, m/s) and the angular rate about the
// body axes (p, q, r in rad/s).
type Twist struct {
	Linear  mgl64.Vec3
	Angular mgl64.Vec3
}

// Accelerations holds linear (NED, m/s²) and angular (body, rad/s²)
// accelerations from the last integration step.
type Accelerations struct {
	Linear  mgl64.Vec3
	Angular mgl64.Vec3
}

// State is a complete kinematic snapshot.
type State struct {
	Pose          Pose
	Twist         Twist
	Accelerations Accelerations
}

// Altitude returns the height above the NED origin in meters.
func (s State) Altitude() float64 {
	return -s.Pose.Position[2]
}

// Provider exposes the current kinematic state read-only.
type Provider interface {
	State() State
}

// Kinematics owns the kinematic state of one body.
type Kinematics struct {
	initial State
	state   State
}

// New creates a Kinematics that starts, and resets to, initial.
// A zero orientation is replaced by the identity quaternion.
func New(initial State) *Kinematics {
	if initial.Pose.Orientation == (mgl64.Quat{}) {
		initial.Pose.Orientation = mgl64.QuatIdent()
	}
	return &Kinematics{initial: initial, state: initial}
}

// State implements Provider.
func (k *Kinematics) State() State {
	return k.state
}

// SetState replaces the current state.
func (k *Kinematics) SetState(s State) {
	k.state = s
}

// Initial returns the state used by Reset.
func (k *Kinematics) Initial() State {
	return k.initial
}

// Reset restores the initial state.
func (k *Kinematics) Reset() {
	k.state = k.initial
}
