package overlay

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"photo-session/internal/postprocess"
	"photo-session/internal/texture"
)

// GuideColor is the stroke color of the built-in guides.
var GuideColor = color.NRGBA{255, 255, 255, 160}

// Guide is a composition template stretched over the frame.
type Guide struct {
	Name string
	// Image is stretched over the frame. Nil images are drawn with Lines.
	Image *image.NRGBA
	// Lines returns segments in normalized [0,1] frame coordinates.
	Lines func() [][4]float64
}

// BuiltinGuides returns rule of thirds, golden ratio, diagonals and
// center cross.
func BuiltinGuides() []Guide {
	phi := 1 / math.Phi
	return []Guide{
		{Name: "Rule of Thirds", Lines: grid(1.0/3, 2.0/3)},
		{Name: "Golden Ratio", Lines: grid(1-phi, phi)},
		{Name: "Diagonals", Lines: func() [][4]float64 {
			return [][4]float64{{0, 0, 1, 1}, {0, 1, 1, 0}}
		}},
		{Name: "Center Cross", Lines: func() [][4]float64 {
			return [][4]float64{{0.45, 0.5, 0.55, 0.5}, {0.5, 0.45, 0.5, 0.55}}
		}},
	}
}

func grid(a, b float64) func() [][4]float64 {
	return func() [][4]float64 {
		return [][4]float64{
			{a, 0, a, 1}, {b, 0, b, 1},
			{0, a, 1, a}, {0, b, 1, b},
		}
	}
}

// LoadGuide reads an image guide from disk.
func LoadGuide(path string) (Guide, error) {
	img, err := texture.LoadTexture(path)
	if err != nil {
		return Guide{}, fmt.Errorf("overlay: load guide: %w", err)
	}
	return Guide{Name: path, Image: img}, nil
}

// Guides is a cyclable guide collection. A negative index shows none.
type Guides struct {
	List  []Guide
	Index int
}

// Next advances to the following guide, wrapping to the first.
func (g *Guides) Next() {
	g.Index++
	if g.Index >= len(g.List) {
		g.Index = 0
	}
}

// Current returns the selected guide. An index past the end is an error.
func (g *Guides) Current() (Guide, bool, error) {
	if g.Index < 0 || len(g.List) == 0 {
		return Guide{}, false, nil
	}
	if g.Index >= len(g.List) {
		return Guide{}, false, fmt.Errorf("overlay: composition guide index out of range: %d >= %d", g.Index, len(g.List))
	}
	return g.List[g.Index], true, nil
}

// Draw paints the current guide over dst.
func (g *Guides) Draw(dst *image.NRGBA) error {
	guide, ok, err := g.Current()
	if err != nil || !ok {
		return err
	}
	if guide.Image != nil {
		postprocess.Overlay(dst, guide.Image)
		return nil
	}
	if guide.Lines == nil {
		return nil
	}
	b := dst.Bounds()
	w, h := float64(b.Dx()-1), float64(b.Dy()-1)
	for _, l := range guide.Lines() {
		line(dst, b.Min.X+int(l[0]*w+0.5), b.Min.Y+int(l[1]*h+0.5), b.Min.X+int(l[2]*w+0.5), b.Min.Y+int(l[3]*h+0.5), GuideColor)
	}
	return nil
}

// line draws a Bresenham segment blended over dst.
func line(dst *image.NRGBA, x0, y0, x1, y1 int, c color.NRGBA) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		blendPixel(dst, x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func blendPixel(dst *image.NRGBA, x, y int, c color.NRGBA) {
	if !(image.Point{x, y}.In(dst.Rect)) {
		return
	}
	d := dst.NRGBAAt(x, y)
	a := float64(c.A) / 255
	mix := func(s, t uint8) uint8 { return uint8(float64(s)*a + float64(t)*(1-a) + 0.5) }
	dst.SetNRGBA(x, y, color.NRGBA{mix(c.R, d.R), mix(c.G, d.G), mix(c.B, d.B), max(d.A, c.A)})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
