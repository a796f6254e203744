package kinematics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultsOrientation(t *testing.T) {
	k := New(State{})
	assert.Equal(t, mgl64.QuatIdent(), k.State().Pose.Orientation)
}

func TestSetStateAndReset(t *testing.T) {
	initial := State{Pose: Pose{Position: mgl64.Vec3{0, 0, -1000}}}
	k := New(initial)
	assert.Equal(t, 1000.0, k.State().Altitude())

	moved := k.State()
	moved.Pose.Position = mgl64.Vec3{10, 20, -900}
	moved.Twist.Linear = mgl64.Vec3{30, 0, 0}
	k.SetState(moved)
	assert.Equal(t, 900.0, k.State().Altitude())
	assert.Equal(t, mgl64.Vec3{30, 0, 0}, k.State().Twist.Linear)

	k.Reset()
	assert.Equal(t, k.Initial(), k.State())
}
