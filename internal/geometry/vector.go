package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body axes: X forward, Y right, Z down.
var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// AngleBetweenVectors returns a per-axis angle between a and b: each
// component is acos(a_i*b_i / (|a| + |b|)). It is only used for
// diagnostics and is not a true inter-vector angle.
// Zero-length inputs yield NaN components.
func AngleBetweenVectors(a, b mgl64.Vec3) mgl64.Vec3 {
	size := a.Len() + b.Len()

	var out mgl64.Vec3
	for i := 0; i < 3; i++ {
		out[i] = math.Acos(a[i] * b[i] / size)
	}
	return out
}

// RotateToBody expresses a world-frame vector in the body frame of the
// given attitude.
func RotateToBody(v mgl64.Vec3, orientation mgl64.Quat) mgl64.Vec3 {
	return orientation.Conjugate().Rotate(v)
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
