package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample resolves a supersampled frame to w×h with Catmull-Rom
// filtering. Frames no larger than the target are returned as is.
//
// Opaque frames scale straight into the result. Frames with alpha scale
// through premultiplied RGBA so transparent texels don't darken edges.
func Downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= w && b.Dy() <= h {
		return img
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	if img.Opaque() {
		draw.CatmullRom.Scale(out, out.Rect, img, b, draw.Src, nil)
		return out
	}

	premul := image.NewRGBA(out.Rect)
	draw.CatmullRom.Scale(premul, premul.Rect, img, b, draw.Src, nil)
	draw.Draw(out, out.Rect, premul, image.Point{}, draw.Src)
	return out
}
