package scene

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Quad builds a two-triangle rectangle from a corner and two edge vectors.
func Quad(name string, corner, edgeU, edgeV mgl64.Vec3, c color.NRGBA) *Mesh {
	m := &Mesh{Name: name, Color: c}
	m.appendQuad(corner, edgeU, edgeV, 0, 0, 1, 1)
	m.Finalize()
	return m
}

// Plane builds a horizontal XZ plane centered at center, split into divisions x divisions
// tiles so that near-plane clipping drops little geometry.
func Plane(name string, center mgl64.Vec3, sizeX, sizeZ float64, divisions int, c color.NRGBA) *Mesh {
	if divisions < 1 {
		divisions = 1
	}
	m := &Mesh{Name: name, Color: c}
	dx := sizeX / float64(divisions)
	dz := sizeZ / float64(divisions)
	x0 := center[0] - sizeX/2
	z0 := center[2] - sizeZ/2
	for i := 0; i < divisions; i++ {
		for j := 0; j < divisions; j++ {
			corner := mgl64.Vec3{x0 + float64(i)*dx, center[1], z0 + float64(j+1)*dz}
			u0 := float64(i) / float64(divisions)
			v0 := float64(j) / float64(divisions)
			m.appendQuad(corner, mgl64.Vec3{dx, 0, 0}, mgl64.Vec3{0, 0, -dz},
				u0, v0, u0+1/float64(divisions), v0+1/float64(divisions))
		}
	}
	m.Finalize()
	return m
}

// Box builds an axis-aligned box with outward faces.
func Box(name string, center, size mgl64.Vec3, c color.NRGBA) *Mesh {
	m := &Mesh{Name: name, Color: c}
	h := size.Mul(0.5)
	lo := center.Sub(h)
	x, y, z := size[0], size[1], size[2]

	ex := mgl64.Vec3{x, 0, 0}
	ey := mgl64.Vec3{0, y, 0}
	ez := mgl64.Vec3{0, 0, z}

	// front, back, right, left, top, bottom
	m.appendQuad(lo.Add(ez), ex, ey, 0, 0, 1, 1)
	m.appendQuad(lo.Add(ex), ex.Mul(-1), ey, 0, 0, 1, 1)
	m.appendQuad(lo.Add(ex).Add(ez), ez.Mul(-1), ey, 0, 0, 1, 1)
	m.appendQuad(lo, ez, ey, 0, 0, 1, 1)
	m.appendQuad(lo.Add(ey).Add(ez), ex, ez.Mul(-1), 0, 0, 1, 1)
	m.appendQuad(lo, ex, ez, 0, 0, 1, 1)
	m.Finalize()
	return m
}

// Sphere builds a UV sphere. segments is the longitude count; latitude uses half of it.
func Sphere(name string, center mgl64.Vec3, radius float64, segments int, c color.NRGBA) *Mesh {
	if segments < 6 {
		segments = 6
	}
	rings := segments / 2
	m := &Mesh{Name: name, Color: c}

	point := func(i, j int) (mgl64.Vec3, mgl64.Vec2) {
		theta := math.Pi * float64(j) / float64(rings) // 0 at north pole
		phi := 2 * math.Pi * float64(i) / float64(segments)
		p := mgl64.Vec3{
			math.Sin(theta) * math.Cos(phi),
			math.Cos(theta),
			math.Sin(theta) * math.Sin(phi),
		}
		uv := mgl64.Vec2{float64(i) / float64(segments), float64(j) / float64(rings)}
		return center.Add(p.Mul(radius)), uv
	}

	for j := 0; j < rings; j++ {
		for i := 0; i < segments; i++ {
			p00, t00 := point(i, j)
			p10, t10 := point(i+1, j)
			p01, t01 := point(i, j+1)
			p11, t11 := point(i+1, j+1)
			if j > 0 {
				m.Tris = append(m.Tris, Triangle{V: [3]mgl64.Vec3{p00, p10, p11}, UV: [3]mgl64.Vec2{t00, t10, t11}})
			}
			if j < rings-1 {
				m.Tris = append(m.Tris, Triangle{V: [3]mgl64.Vec3{p00, p11, p01}, UV: [3]mgl64.Vec2{t00, t11, t01}})
			}
		}
	}
	m.Finalize()
	return m
}

// appendQuad adds corner, corner+u, corner+u+v, corner+v as two triangles.
func (m *Mesh) appendQuad(corner, u, v mgl64.Vec3, u0, v0, u1, v1 float64) {
	p0 := corner
	p1 := corner.Add(u)
	p2 := corner.Add(u).Add(v)
	p3 := corner.Add(v)
	t0 := mgl64.Vec2{u0, v1}
	t1 := mgl64.Vec2{u1, v1}
	t2 := mgl64.Vec2{u1, v0}
	t3 := mgl64.Vec2{u0, v0}
	m.Tris = append(m.Tris,
		Triangle{V: [3]mgl64.Vec3{p0, p1, p2}, UV: [3]mgl64.Vec2{t0, t1, t2}},
		Triangle{V: [3]mgl64.Vec3{p0, p2, p3}, UV: [3]mgl64.Vec2{t0, t2, t3}},
	)
}
