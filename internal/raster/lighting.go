package raster

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LightConfig is a key light plus rim light in world space. Specular
// highlights follow the eye, so they move with a free camera.
type LightConfig struct {
	KeyDir   mgl64.Vec3 // toward the key light
	RimDir   mgl64.Vec3 // toward the rim light
	Ambient  float64
	Sky      float64 // extra fill on up-facing surfaces
	Key      float64
	Rim      float64
	Gloss    float64 // specular intensity
	Shine    float64 // specular exponent
	Exposure float64
}

// DefaultLightConfig returns a late-afternoon rig: a warm key from above
// right and a weaker rim from behind left.
func DefaultLightConfig() LightConfig {
	return LightConfig{
		KeyDir:   mgl64.Vec3{0.45, 0.8, 0.35}.Normalize(),
		RimDir:   mgl64.Vec3{-0.5, 0.4, -0.65}.Normalize(),
		Ambient:  0.30,
		Sky:      0.30,
		Key:      0.90,
		Rim:      0.25,
		Gloss:    0.15,
		Shine:    12,
		Exposure: 1,
	}
}

// Shade returns the light scalar for a face with unit normal n seen along
// toEye (unit vector from the face to the eye). Faces are double-sided.
func (lc *LightConfig) Shade(n, toEye mgl64.Vec3) float64 {
	if n.Dot(toEye) < 0 {
		n = n.Mul(-1)
	}
	key := math.Max(n.Dot(lc.KeyDir), 0)
	rim := math.Abs(n.Dot(lc.RimDir))
	sky := (n[1]*0.5 + 0.5) * lc.Sky

	var spec float64
	if half := lc.KeyDir.Add(toEye); half.Len() > 1e-9 {
		spec = math.Pow(math.Max(n.Dot(half.Normalize()), 0), lc.Shine) * lc.Gloss
	}
	return lc.Ambient + sky + key*lc.Key + rim*lc.Rim + spec
}

// srgbToLinear maps 8-bit sRGB to linear light with a 2.2 gamma.
var srgbToLinear = func() (t [256]float64) {
	for i := range t {
		t[i] = math.Pow(float64(i)/255, 2.2)
	}
	return t
}()

// ACESTonemap is the Narkowicz fit of the ACES filmic curve.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}

func clamp255(v float64) uint8 {
	return uint8(mgl64.Clamp(v, 0, 255) + 0.5)
}
