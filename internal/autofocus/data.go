package autofocus

import (
	"github.com/go-gl/mathgl/mgl64"

	"photo-session/internal/scene"
)

// NoHit marks a screen point whose ray hit nothing, and the distances of a
// pass without target.
const NoHit = -1.0

// Input configures an autofocus pass. It is read once per tick.
type Input struct {
	SkipBounds   bool
	RaysX        int
	RaysY        int
	MaxRayLength float64
	LayerMask    scene.LayerMask
}

// Data is the result of one autofocus pass. Each ScreenPoints entry holds
// the sample's x, y and the hit distance or NoHit.
type Data struct {
	HasTarget    bool
	ScreenPoints []mgl64.Vec3
	MinDistance  float64
	MaxDistance  float64
	MaxRayLength float64
}

// Reset empties the snapshot, keeping the point slice's storage.
func (d *Data) Reset() {
	d.HasTarget = false
	d.ScreenPoints = d.ScreenPoints[:0]
	d.MinDistance = NoHit
	d.MaxDistance = NoHit
	d.MaxRayLength = 0
}

// Calculate reduces the screen points to min and max distance. The
// reduction runs over every point, NoHit entries included, so a pass mixing
// hits and misses reports MinDistance == NoHit.
func (d *Data) Calculate() {
	d.MinDistance = NoHit
	d.MaxDistance = NoHit
	if !d.HasTarget || len(d.ScreenPoints) == 0 {
		return
	}
	d.MinDistance = d.ScreenPoints[0][2]
	d.MaxDistance = d.ScreenPoints[0][2]
	for _, p := range d.ScreenPoints[1:] {
		d.MinDistance = min(d.MinDistance, p[2])
		d.MaxDistance = max(d.MaxDistance, p[2])
	}
}

// IsTargetInRange reports a target nearer than MaxRayLength.
func (d *Data) IsTargetInRange() bool {
	return d.HasTarget && d.MinDistance != NoHit && d.MinDistance < d.MaxRayLength
}
