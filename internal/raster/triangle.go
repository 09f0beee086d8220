package raster

import (
	"image"
	"image/color"
	"math"
)

// invGamma encodes tone-mapped linear light back to sRGB.
const invGamma = 1 / 2.2

// ScreenVertex is a projected vertex. X/Y are pixel coordinates with the
// origin at the top-left; attributes are pre-divided by w for
// perspective-correct interpolation.
type ScreenVertex struct {
	X, Y   float64
	InvW   float64
	UOverW float64
	VOverW float64
}

// RasterizeTriangle rasterizes a single triangle with texture mapping, z-buffer,
// sRGB color space, lighting, and ACES tone mapping.
//
// This is the HOT PATH and does not allocate in the inner loop.
// Lighting is flat (per-face) and passed in as shade.
func RasterizeTriangle(
	fb *FrameBuffer,
	v [3]ScreenVertex,
	tex *image.NRGBA,
	base color.NRGBA,
	shade float64,
	lc *LightConfig,
) {
	x0, y0 := v[0].X, v[0].Y
	x1, y1 := v[1].X, v[1].Y
	x2, y2 := v[2].X, v[2].Y

	// Bounding box, sampled at pixel centers
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	// Precompute edge deltas
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	exposure := lc.Exposure
	size := fb.Width

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * size
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -1e-9 || w1 < -1e-9 || w2 < -1e-9 {
				continue
			}

			// Greater 1/w is nearer
			z := w0*v[0].InvW + w1*v[1].InvW + w2*v[2].InvW
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			c := base
			if tex != nil {
				u := (w0*v[0].UOverW + w1*v[1].UOverW + w2*v[2].UOverW) / z
				t := (w0*v[0].VOverW + w1*v[1].VOverW + w2*v[2].VOverW) / z
				c = SampleTexture(tex, u, t)
			}

			// Skip transparent texels
			if c.A < 8 {
				continue
			}
			fb.ZBuf[zIdx] = z

			// sRGB decode → linear (LUT), shade, tone map, encode
			tr := ACESTonemap(srgbToLinear[c.R] * shade * exposure)
			tg := ACESTonemap(srgbToLinear[c.G] * shade * exposure)
			tb := ACESTonemap(srgbToLinear[c.B] * shade * exposure)

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = clamp255(math.Pow(tr, invGamma) * 255)
			fb.Color[pxIdx+1] = clamp255(math.Pow(tg, invGamma) * 255)
			fb.Color[pxIdx+2] = clamp255(math.Pow(tb, invGamma) * 255)
			fb.Color[pxIdx+3] = 255
		}
	}
}
