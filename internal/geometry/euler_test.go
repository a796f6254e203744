package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestQuaternionToEuler_Identity(t *testing.T) {
	e := QuaternionToEuler(mgl64.QuatIdent())
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, e)
}

func TestQuaternionToEuler_RoundTrip(t *testing.T) {
	tests := []struct {
		name             string
		roll, pitch, yaw float64
	}{
		{"level", 0, 0, 0},
		{"roll only", DegToRad(30), 0, 0},
		{"pitch only", 0, DegToRad(-12.5), 0},
		{"yaw only", 0, 0, DegToRad(135)},
		{"combined", DegToRad(-45), DegToRad(20), DegToRad(-100)},
		{"steep but not vertical", DegToRad(10), DegToRad(80), DegToRad(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := EulerToQuaternion(tt.roll, tt.pitch, tt.yaw)
			e := QuaternionToEuler(q)
			assert.InDelta(t, tt.roll, e[0], 1e-9, "roll")
			assert.InDelta(t, tt.pitch, e[1], 1e-9, "pitch")
			assert.InDelta(t, tt.yaw, e[2], 1e-9, "yaw")
		})
	}
}

func TestQuaternionToEuler_PitchClamp(t *testing.T) {
	// Non-unit quaternions push the pitch sine beyond 1.
	up := mgl64.Quat{W: 1, V: mgl64.Vec3{0, 1, 0}}
	e := QuaternionToEuler(up)
	assert.Equal(t, math.Pi/2, e[1])
	assert.False(t, math.IsNaN(e[1]))

	down := mgl64.Quat{W: 1, V: mgl64.Vec3{0, -1, 0}}
	e = QuaternionToEuler(down)
	assert.Equal(t, -math.Pi/2, e[1])

	// Exactly vertical unit quaternion.
	vertical := EulerToQuaternion(0, math.Pi/2, 0)
	e = QuaternionToEuler(vertical)
	assert.InDelta(t, math.Pi/2, e[1], 1e-7)
	assert.False(t, math.IsNaN(e[0]))
	assert.False(t, math.IsNaN(e[2]))
}

func TestEulerToQuaternion_Unit(t *testing.T) {
	q := EulerToQuaternion(0.3, -0.2, 1.1)
	assert.InDelta(t, 1.0, q.Len(), 1e-12)
}

func TestDegRad(t *testing.T) {
	assert.InDelta(t, math.Pi, DegToRad(180), 1e-15)
	assert.InDelta(t, 90.0, RadToDeg(math.Pi/2), 1e-12)
}
