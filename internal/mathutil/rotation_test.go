package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYawPitchRoundTrip(t *testing.T) {
	cases := [][2]float64{{0, 0}, {45, 10}, {-120, -30}, {179, 80}}
	for _, c := range cases {
		yaw, pitch := ToYawPitch(YawPitch(c[0], c[1]))
		assert.InDelta(t, c[0], yaw, 1e-9)
		assert.InDelta(t, c[1], pitch, 1e-9)
	}
}

func TestYawPitchDirections(t *testing.T) {
	f := YawPitch(90, 0).Rotate(AxisForward)
	assert.InDelta(t, -1, f[0], 1e-9, "positive yaw turns left")

	f = YawPitch(0, 30).Rotate(AxisForward)
	assert.Greater(t, f[1], 0.0, "positive pitch looks up")
}

func TestNextPow2(t *testing.T) {
	assert.Equal(t, 1, NextPow2(0))
	assert.Equal(t, 1, NextPow2(1))
	assert.Equal(t, 2048, NextPow2(1920))
	assert.Equal(t, 1024, NextPow2(1024))
	assert.Equal(t, 16384, NextPow2(15360))
}
