package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl64.Vec3
}

// EmptyAABB returns an inverted box that any point extends.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// Extend grows the box to include p.
func (b AABB) Extend(p mgl64.Vec3) AABB {
	for k := 0; k < 3; k++ {
		b.Min[k] = math.Min(b.Min[k], p[k])
		b.Max[k] = math.Max(b.Max[k], p[k])
	}
	return b
}

// Hit tests the ray against the box with the slab method.
// Returns false for boxes entirely behind the origin or beyond tMax.
func (b AABB) Hit(r Ray, tMax float64) bool {
	tMin := 0.0
	for k := 0; k < 3; k++ {
		invD := 1.0 / r.Direction[k]
		t0 := (b.Min[k] - r.Origin[k]) * invD
		t1 := (b.Max[k] - r.Origin[k]) * invD
		if invD < 0 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax < tMin {
			return false
		}
	}
	return true
}
