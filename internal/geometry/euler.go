// Package geometry provides the attitude and vector helpers shared by the
// aerodynamic model and its diagnostics.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// QuaternionToEuler converts an attitude quaternion to (roll, pitch, yaw)
// in radians using the aerospace Z-Y-X sequence.
// Pitch is clamped to ±π/2 when the derived sine leaves [-1, 1].
func QuaternionToEuler(q mgl64.Quat) mgl64.Vec3 {
	w, x, y, z := q.W, q.V[0], q.V[1], q.V[2]

	// roll (x-axis rotation)
	sinrCosp := 2 * (w*x + y*z)
	cosrCosp := 1 - 2*(x*x+y*y)
	roll := math.Atan2(sinrCosp, cosrCosp)

	// pitch (y-axis rotation)
	var pitch float64
	sinp := 2 * (w*y - z*x)
	if math.Abs(sinp) >= 1 {
		pitch = math.Copysign(math.Pi/2, sinp)
	} else {
		pitch = math.Asin(sinp)
	}

	// yaw (z-axis rotation)
	sinyCosp := 2 * (w*z + x*y)
	cosyCosp := 1 - 2*(y*y+z*z)
	yaw := math.Atan2(sinyCosp, cosyCosp)

	return mgl64.Vec3{roll, pitch, yaw}
}

// EulerToQuaternion builds the quaternion for the given roll, pitch and yaw
// (radians), applied yaw first, then pitch, then roll.
func EulerToQuaternion(roll, pitch, yaw float64) mgl64.Quat {
	sr, cr := math.Sincos(roll / 2)
	sp, cp := math.Sincos(pitch / 2)
	sy, cy := math.Sincos(yaw / 2)

	return mgl64.Quat{
		W: cr*cp*cy + sr*sp*sy,
		V: mgl64.Vec3{
			sr*cp*cy - cr*sp*sy,
			cr*sp*cy + sr*cp*sy,
			cr*cp*sy - sr*sp*cy,
		},
	}
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180.0 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }
