package postprocess

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Fit scales img to fit inside a w×h canvas preserving aspect ratio and
// centers it. Uncovered canvas pixels are transparent.
func Fit(img *image.NRGBA, w, h int) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 || w == 0 || h == 0 {
		return canvas
	}

	scaleF := math.Min(float64(w)/float64(srcW), float64(h)/float64(srcH))
	newW := max(int(float64(srcW)*scaleF+0.5), 1)
	newH := max(int(float64(srcH)*scaleF+0.5), 1)

	offX := (w - newW) / 2
	offY := (h - newH) / 2
	draw.ApproxBiLinear.Scale(canvas, image.Rect(offX, offY, offX+newW, offY+newH), img, b, draw.Src, nil)
	return canvas
}

// Overlay stretches guide over dst, blending by the guide's alpha.
// The mask keeps filter ringing inside the guide's opaque strokes.
func Overlay(dst *image.NRGBA, guide *image.NRGBA) {
	if guide == nil {
		return
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), guide, guide.Bounds(), draw.Over, &draw.Options{
		SrcMask:  &alphaMask{guide},
		SrcMaskP: guide.Bounds().Min,
	})
}

// alphaMask exposes an image's alpha channel as a mask.
type alphaMask struct {
	src *image.NRGBA
}

func (m *alphaMask) ColorModel() color.Model { return color.AlphaModel }
func (m *alphaMask) Bounds() image.Rectangle { return m.src.Bounds() }
func (m *alphaMask) At(x, y int) color.Color {
	return color.Alpha{A: m.src.NRGBAAt(x, y).A}
}
