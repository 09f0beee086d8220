package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis vectors in the right-handed, Y-up camera convention (forward is -Z).
var (
	AxisRight   = mgl64.Vec3{1, 0, 0}
	AxisUp      = mgl64.Vec3{0, 1, 0}
	AxisForward = mgl64.Vec3{0, 0, -1}
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 {
	return r * 180 / math.Pi
}

// YawPitch builds a rotation from yaw around world Y followed by pitch around local X.
// Angles in degrees. Positive yaw turns left, positive pitch looks up.
func YawPitch(yaw, pitch float64) mgl64.Quat {
	qy := mgl64.QuatRotate(Deg2Rad(yaw), AxisUp)
	qx := mgl64.QuatRotate(Deg2Rad(pitch), AxisRight)
	return qy.Mul(qx).Normalize()
}

// ToYawPitch extracts yaw and pitch (degrees) from a rotation built by YawPitch.
// Roll is discarded.
func ToYawPitch(q mgl64.Quat) (yaw, pitch float64) {
	f := q.Rotate(AxisForward)
	y := f[1]
	if y > 1 {
		y = 1
	} else if y < -1 {
		y = -1
	}
	pitch = Rad2Deg(math.Asin(y))
	yaw = Rad2Deg(math.Atan2(-f[0], -f[2]))
	return yaw, pitch
}
