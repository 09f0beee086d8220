package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a half-line. Direction need not be normalized.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// At returns the point at parameter t.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Hit describes the nearest intersection found by Raycast.
type Hit struct {
	Distance float64
	Point    mgl64.Vec3
	Mesh     *Mesh
}

const hitEpsilon = 1e-8

// Raycast returns the nearest hit along the ray over all meshes in the mask.
// The search is unbounded in length.
func (s *Scene) Raycast(r Ray, mask LayerMask) (Hit, bool) {
	l := r.Direction.Len()
	if l < hitEpsilon {
		return Hit{}, false
	}
	r.Direction = r.Direction.Mul(1 / l)

	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, m := range s.Meshes {
		if m.Hidden || !mask.Contains(m.Layer) {
			continue
		}
		if !m.bounds.Hit(r, best.Distance) {
			continue
		}
		for i := range m.Tris {
			t, ok := intersect(&m.Tris[i], r)
			if ok && t < best.Distance {
				best.Distance = t
				best.Mesh = m
				found = true
			}
		}
	}
	if !found {
		return Hit{}, false
	}
	best.Point = r.At(best.Distance)
	return best, true
}

// intersect is Möller-Trumbore, double-sided, with a small edge tolerance so
// rays along a shared diagonal hit one of the two triangles.
func intersect(tri *Triangle, r Ray) (float64, bool) {
	edge1 := tri.V[1].Sub(tri.V[0])
	edge2 := tri.V[2].Sub(tri.V[0])

	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -hitEpsilon && a < hitEpsilon {
		return 0, false
	}

	f := 1.0 / a
	s := r.Origin.Sub(tri.V[0])
	u := f * s.Dot(h)
	if u < -hitEpsilon || u > 1+hitEpsilon {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < -hitEpsilon || u+v > 1+hitEpsilon {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t <= hitEpsilon {
		return 0, false
	}
	return t, true
}
