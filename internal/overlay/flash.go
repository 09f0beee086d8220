// Package overlay draws the photo mode's screen-space extras: the camera
// flash fade and the autofocus point markers.
package overlay

import (
	"image"
	"image/color"
	"image/draw"
	"time"

	"github.com/anthonynsimon/bild/blend"

	"photo-session/internal/clock"
	"photo-session/internal/mathutil"
)

// FlashDuration is how long the flash takes to fade out.
const FlashDuration = 500 * time.Millisecond

// Flash is a white full-screen fade measured in real time.
type Flash struct {
	Duration time.Duration

	time    clock.TimeProvider
	started time.Time
	playing bool
}

// NewFlash returns an idle flash timed by tp.
func NewFlash(tp clock.TimeProvider) *Flash {
	return &Flash{Duration: FlashDuration, time: tp}
}

// Start restarts the fade at full intensity.
func (f *Flash) Start() {
	f.started = f.time.Now()
	f.playing = true
}

// Stop ends the fade immediately.
func (f *Flash) Stop() {
	f.playing = false
}

// Playing reports whether the fade is still visible.
func (f *Flash) Playing() bool {
	return f.Alpha() > 0
}

// Alpha returns the current flash opacity, 1 at Start falling to 0.
func (f *Flash) Alpha() float64 {
	if !f.playing || f.Duration <= 0 {
		return 0
	}
	elapsed := f.time.Now().Sub(f.started)
	if elapsed >= f.Duration {
		f.playing = false
		return 0
	}
	return mathutil.Lerp(1, 0, float64(elapsed)/float64(f.Duration))
}

// Apply blends the flash over img. It returns img unchanged when the
// flash is not visible.
func (f *Flash) Apply(img image.Image) image.Image {
	a := f.Alpha()
	if a <= 0 {
		return img
	}
	white := image.NewRGBA(img.Bounds())
	draw.Draw(white, white.Rect, image.NewUniform(color.White), image.Point{}, draw.Src)
	return blend.Opacity(img, white, a)
}
