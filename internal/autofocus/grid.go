package autofocus

import (
	"iter"

	"github.com/go-gl/mathgl/mgl64"
)

// Grid yields screen points covering a width×height viewport for the
// requested ray counts, x outer and y inner.
//
// Counts are widened by one when skipBounds is set, so the outermost row
// and column fall on the viewport edge and are dropped. Otherwise they are
// narrowed by one so the edges are included. Effective counts never drop
// below one. A viewport without area yields nothing.
func Grid(width, height, raysX, raysY int, skipBounds bool) iter.Seq[mgl64.Vec2] {
	return func(yield func(mgl64.Vec2) bool) {
		if width <= 0 || height <= 0 {
			return
		}

		nx, ny := raysX, raysY
		if skipBounds {
			nx++
			ny++
		} else {
			nx--
			ny--
		}
		nx = max(nx, 1)
		ny = max(ny, 1)

		dx := float64(width) / float64(nx)
		dy := float64(height) / float64(ny)

		// Index 0 and n land on x<=0 and x>=width.
		for i := 0; i <= nx; i++ {
			if skipBounds && (i == 0 || i == nx) {
				continue
			}
			for j := 0; j <= ny; j++ {
				if skipBounds && (j == 0 || j == ny) {
					continue
				}
				if !yield(mgl64.Vec2{float64(i) * dx, float64(j) * dy}) {
					return
				}
			}
		}
	}
}
