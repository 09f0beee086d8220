package raster

import (
	"image"
	"image/color"
	"math"
)

// FrameBuffer holds the rendering target as flat slices for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8   // RGBA interleaved, len = W*H*4
	ZBuf   []float64 // 1/view-depth per pixel, 0 where nothing was drawn
}

// NewFrameBuffer allocates a zeroed color buffer and an empty z-buffer.
func NewFrameBuffer(w, h int) *FrameBuffer {
	n := w * h
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, n*4),
		ZBuf:   make([]float64, n),
	}
}

// Clear fills the color buffer with bg and empties the z-buffer.
func (fb *FrameBuffer) Clear(bg color.NRGBA) {
	for i := 0; i < len(fb.Color); i += 4 {
		fb.Color[i] = bg.R
		fb.Color[i+1] = bg.G
		fb.Color[i+2] = bg.B
		fb.Color[i+3] = bg.A
	}
	clear(fb.ZBuf)
}

// Depth returns the view-space distance stored at (x, y), +Inf where empty.
func (fb *FrameBuffer) Depth(x, y int) float64 {
	z := fb.ZBuf[y*fb.Width+x]
	if z <= 0 {
		return math.Inf(1)
	}
	return 1 / z
}

// DepthMap returns the per-pixel view distances in row-major order.
func (fb *FrameBuffer) DepthMap() []float64 {
	d := make([]float64, len(fb.ZBuf))
	for i, z := range fb.ZBuf {
		if z <= 0 {
			d[i] = math.Inf(1)
		} else {
			d[i] = 1 / z
		}
	}
	return d
}

// Image copies the color buffer into a new NRGBA image.
func (fb *FrameBuffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Color)
	return img
}
