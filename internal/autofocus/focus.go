// Package autofocus samples a grid of camera rays against the scene and
// reduces the hit distances to the focus data consumed by depth-of-field
// modules and the overlay.
package autofocus

import (
	"github.com/go-gl/mathgl/mgl64"

	"photo-session/internal/scene"
)

// Raycaster is the scene's unbounded, layer-masked nearest-hit query.
type Raycaster interface {
	Raycast(r scene.Ray, mask scene.LayerMask) (scene.Hit, bool)
}

// Camera maps viewport points (origin bottom-left) to world rays.
type Camera interface {
	ScreenPointToRay(p mgl64.Vec2, w, h int) scene.Ray
}

// Focuser casts focus rays through a camera into a scene.
type Focuser struct {
	Scene  Raycaster
	Camera Camera
}

// Cast returns the distance from the ray origin to the nearest hit through
// p. The ray is never truncated; MaxRayLength plays no part here.
func (f Focuser) Cast(p mgl64.Vec2, w, h int, mask scene.LayerMask) (float64, bool) {
	ray := f.Camera.ScreenPointToRay(p, w, h)
	hit, ok := f.Scene.Raycast(ray, mask)
	if !ok {
		return NoHit, false
	}
	return hit.Distance, true
}

// UpdateGrid rebuilds d from the ray grid over a w×h viewport.
func (f Focuser) UpdateGrid(in Input, w, h int, d *Data) {
	d.Reset()
	d.MaxRayLength = in.MaxRayLength
	for p := range Grid(w, h, in.RaysX, in.RaysY, in.SkipBounds) {
		f.add(p, w, h, in.LayerMask, d)
	}
	d.Calculate()
}

// UpdatePoint rebuilds d from a single ray through p.
func (f Focuser) UpdatePoint(in Input, p mgl64.Vec2, w, h int, d *Data) {
	d.Reset()
	d.MaxRayLength = in.MaxRayLength
	f.add(p, w, h, in.LayerMask, d)
	d.Calculate()
}

func (f Focuser) add(p mgl64.Vec2, w, h int, mask scene.LayerMask, d *Data) {
	dist, ok := f.Cast(p, w, h, mask)
	if ok {
		d.HasTarget = true
	}
	d.ScreenPoints = append(d.ScreenPoints, mgl64.Vec3{p[0], p[1], dist})
}
