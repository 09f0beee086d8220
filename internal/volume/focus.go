package volume

import "math"

const (
	// SensorHeight is the film gate height in meters (full frame).
	SensorHeight = 0.024
	// MaxBlurFraction caps the blur radius relative to image height.
	MaxBlurFraction = 0.012

	// PhysicalFocalLength and PhysicalAperture describe the lens used by
	// HDRPUsePhysicalCamera.
	PhysicalFocalLength = 50.0
	PhysicalAperture    = 5.6
)

// Focus maps a view depth to a blur radius in pixels for an image of the
// given height.
type Focus interface {
	Radius(depth float64, height int) float64
}

// RangeFocus blurs outside [NearEnd, FarStart], ramping to full blur at
// NearStart and FarEnd.
type RangeFocus struct {
	NearStart, NearEnd float64
	FarStart, FarEnd   float64
}

func (f RangeFocus) Radius(depth float64, height int) float64 {
	maxR := float64(height) * MaxBlurFraction
	switch {
	case depth < f.NearEnd:
		return maxR * ramp(f.NearEnd, f.NearStart, depth)
	case depth > f.FarStart:
		return maxR * ramp(f.FarStart, f.FarEnd, depth)
	}
	return 0
}

// ramp is 0 at from, 1 at to, clamped.
func ramp(from, to, x float64) float64 {
	if to == from {
		return 1
	}
	t := (x - from) / (to - from)
	return math.Max(0, math.Min(1, t))
}

// LensFocus is a thin lens: Distance in meters, FocalLength in millimeters,
// Aperture as an f-number.
type LensFocus struct {
	Distance    float64
	FocalLength float64
	Aperture    float64
}

func (f LensFocus) Radius(depth float64, height int) float64 {
	fl := f.FocalLength / 1000
	s := math.Max(f.Distance, fl+1e-4)
	if f.Aperture <= 0 || depth <= 0 {
		return 0
	}
	var coc float64
	if math.IsInf(depth, 1) {
		coc = fl * fl / (f.Aperture * (s - fl))
	} else {
		coc = math.Abs(fl*fl*(depth-s)) / (f.Aperture * depth * (s - fl))
	}
	r := coc / SensorHeight * float64(height) / 2
	return math.Min(r, float64(height)*MaxBlurFraction)
}
