package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-session/internal/raster"
	"photo-session/internal/volume"
)

type constFocus float64

func (c constFocus) Radius(float64, int) float64 { return float64(c) }

func striped(w, h int) *raster.FrameBuffer {
	fb := raster.NewFrameBuffer(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			if x%2 == 0 {
				fb.Color[i], fb.Color[i+1], fb.Color[i+2] = 255, 255, 255
			}
			fb.Color[i+3] = 255
			fb.ZBuf[y*w+x] = 0.5
		}
	}
	return fb
}

func TestDepthOfFieldNilFocusIsNoop(t *testing.T) {
	fb := striped(8, 4)
	before := append([]uint8(nil), fb.Color...)
	DepthOfField(fb, nil)
	assert.Equal(t, before, fb.Color)

	DepthOfField(fb, constFocus(0))
	assert.Equal(t, before, fb.Color)
}

func TestDepthOfFieldAveragesStripes(t *testing.T) {
	fb := striped(16, 8)
	DepthOfField(fb, constFocus(2))

	// Interior pixels average 5 columns: 2 or 3 of them white.
	i := (4*16 + 8) * 4
	assert.InDelta(t, 153, int(fb.Color[i]), 1)
	i = (4*16 + 7) * 4
	assert.InDelta(t, 102, int(fb.Color[i]), 1)
	assert.Equal(t, uint8(255), fb.Color[i+3])
}

func TestDepthOfFieldKeepsFocusedPixels(t *testing.T) {
	fb := striped(16, 4)
	// Range focus in [1, 3]; stored depth is 2.
	DepthOfField(fb, volume.RangeFocus{NearStart: 0, NearEnd: 1, FarStart: 3, FarEnd: 5})
	assert.Equal(t, uint8(255), fb.Color[0])
	assert.Equal(t, uint8(0), fb.Color[4])
}

func TestDownsampleNonSquare(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+3] = 200, 255
	}
	dst := Downsample(src, 20, 10)
	require.Equal(t, image.Rect(0, 0, 20, 10), dst.Bounds())
	c := dst.NRGBAAt(10, 5)
	assert.InDelta(t, 200, int(c.R), 1)
	assert.InDelta(t, 255, int(c.A), 1)

	assert.Same(t, src, Downsample(src, 40, 20))
}

func TestFitLetterboxes(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+1], src.Pix[i+3] = 255, 255
	}
	dst := Fit(src, 20, 20)
	assert.Equal(t, uint8(0), dst.NRGBAAt(10, 1).A)
	c := dst.NRGBAAt(10, 10)
	assert.InDelta(t, 255, int(c.G), 1)
	assert.InDelta(t, 255, int(c.A), 1)
}

func TestOverlayTransparentGuideKeepsPixels(t *testing.T) {
	dst := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range dst.Pix {
		dst.Pix[i] = 100
	}
	guide := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	Overlay(dst, guide)
	assert.Equal(t, color.NRGBA{100, 100, 100, 100}, dst.NRGBAAt(1, 1))
	Overlay(dst, nil)
}

func TestDownsampleKeepsEdgeColorUnderAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			src.SetNRGBA(x, y, color.NRGBA{0, 0, 255, 255})
		}
	}
	dst := Downsample(src, 2, 2)
	c := dst.NRGBAAt(0, 1)
	assert.Greater(t, c.A, uint8(0))
	assert.InDelta(t, 255, int(c.B), 2, "transparent neighbours must not darken the color")
}
