package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/go-gl/mathgl/mgl64"

	"photo-session/internal/autofocus"
	"photo-session/internal/mathutil"
	"photo-session/internal/module"
)

// MaxMarkers caps the points drawn per frame.
const MaxMarkers = 144

// Marker colors.
var (
	HitColor  = color.NRGBA{64, 220, 96, 255}
	FarColor  = color.NRGBA{160, 160, 160, 255}
	MissColor = color.NRGBA{220, 64, 64, 255}
)

// MarkerRadius is the half width of a marker in pixels.
const MarkerRadius = 2

// AutoFocus mirrors the autofocus rays as screen markers. Near hits are
// opaque and fade toward the max ray length, hits beyond it are grey and
// misses are red.
type AutoFocus struct {
	// Visible toggles drawing. Hidden overlays keep no points.
	Visible bool

	host        module.Host
	points      []mgl64.Vec3
	maxDistance float64
}

var _ module.Module = (*AutoFocus)(nil)

// NewAutoFocus returns a visible overlay.
func NewAutoFocus() *AutoFocus {
	return &AutoFocus{Visible: true, maxDistance: -1}
}

func (o *AutoFocus) Start(h module.Host) error {
	o.host = h
	o.points = make([]mgl64.Vec3, 0, MaxMarkers)
	o.maxDistance = -1
	return nil
}

func (o *AutoFocus) OnEnable() {}

func (o *AutoFocus) OnDisable() {
	o.points = o.points[:0]
}

// Update copies this tick's screen points.
func (o *AutoFocus) Update() error {
	d := o.host.AutoFocus()
	o.points = o.points[:0]
	if o.Visible {
		n := min(len(d.ScreenPoints), MaxMarkers)
		o.points = append(o.points, d.ScreenPoints[:n]...)
	}
	o.maxDistance = d.MaxRayLength
	return nil
}

// Len returns the number of markers drawn next.
func (o *AutoFocus) Len() int { return len(o.points) }

// Opacity returns the marker alpha for hit distance z in [0, 1].
func (o *AutoFocus) Opacity(z float64) float64 {
	if z == autofocus.NoHit || o.maxDistance <= 0 {
		return 1
	}
	return 1 - 0.75*mathutil.Clamp01(z/o.maxDistance)
}

// Draw paints the markers onto img. Screen points have a bottom-left
// origin; img is top-left.
func (o *AutoFocus) Draw(img draw.Image) {
	b := img.Bounds()
	for _, p := range o.points {
		c := o.markerColor(p[2])
		x := b.Min.X + int(p[0])
		y := b.Max.Y - 1 - int(p[1])
		r := image.Rect(x-MarkerRadius, y-MarkerRadius, x+MarkerRadius+1, y+MarkerRadius+1).Intersect(b)
		draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Over)
	}
}

func (o *AutoFocus) markerColor(z float64) color.NRGBA {
	switch {
	case z == autofocus.NoHit:
		return MissColor
	case o.maxDistance > 0 && z >= o.maxDistance:
		return FarColor
	}
	c := HitColor
	c.A = uint8(255 * o.Opacity(z))
	return c
}
