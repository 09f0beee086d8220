package raster

import (
	"image"

	"github.com/go-gl/mathgl/mgl64"

	"photo-session/internal/mathutil"
	"photo-session/internal/scene"
	"photo-session/internal/texture"
)

// View is a pinhole camera: world position, orientation, vertical FOV in
// degrees and clip planes.
type View struct {
	Eye      mgl64.Vec3
	Rotation mgl64.Quat
	FovY     float64
	Near     float64
	Far      float64
	Mask     scene.LayerMask
}

// Matrix returns the world-to-view transform.
func (v View) Matrix() mgl64.Mat4 {
	f := v.Rotation.Rotate(mathutil.AxisForward)
	u := v.Rotation.Rotate(mathutil.AxisUp)
	return mgl64.LookAtV(v.Eye, v.Eye.Add(f), u)
}

// Projection returns the perspective projection for a w×h target.
func (v View) Projection(w, h int) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(v.FovY), float64(w)/float64(h), v.Near, v.Far)
}

// Renderer draws scenes into framebuffers.
type Renderer struct {
	Textures texture.Resolver
	Light    LightConfig
}

// NewRenderer returns a renderer with the default light rig.
func NewRenderer(tex texture.Resolver) *Renderer {
	return &Renderer{Textures: tex, Light: DefaultLightConfig()}
}

type clipVert struct {
	p  mgl64.Vec3
	uv mgl64.Vec2
}

// RenderScene clears fb to the scene background and rasterizes every mesh
// visible to v's layer mask.
func (r *Renderer) RenderScene(s *scene.Scene, v View, fb *FrameBuffer) {
	fb.Clear(s.Background)

	view := v.Matrix()
	proj := v.Projection(fb.Width, fb.Height)
	w, h := float64(fb.Width), float64(fb.Height)

	in := make([]clipVert, 0, 3)
	poly := make([]clipVert, 0, 4)

	for _, mesh := range s.Meshes {
		if mesh.Hidden || !v.Mask.Contains(mesh.Layer) {
			continue
		}

		// Load texture
		var tex *image.NRGBA
		if r.Textures != nil && mesh.Texture != "" {
			tex = r.Textures.Resolve(mesh.Texture)
		}

		for _, tri := range mesh.Tris {
			n := tri.V[1].Sub(tri.V[0]).Cross(tri.V[2].Sub(tri.V[0]))
			if n.Len() < 1e-12 {
				continue
			}
			centroid := tri.V[0].Add(tri.V[1]).Add(tri.V[2]).Mul(1.0 / 3)
			toEye := v.Eye.Sub(centroid)
			if toEye.Len() < 1e-12 {
				continue
			}
			shade := r.Light.Shade(n.Normalize(), toEye.Normalize())

			in = in[:0]
			for k := 0; k < 3; k++ {
				in = append(in, clipVert{
					p:  mgl64.TransformCoordinate(tri.V[k], view),
					uv: tri.UV[k],
				})
			}
			poly = clipNear(in, v.Near, poly)
			if len(poly) < 3 {
				continue
			}

			var sv [4]ScreenVertex
			for k, cv := range poly {
				clip := proj.Mul4x1(cv.p.Vec4(1))
				invW := 1 / clip[3]
				sv[k] = ScreenVertex{
					X:      (clip[0]*invW + 1) * 0.5 * w,
					Y:      (1 - clip[1]*invW) * 0.5 * h,
					InvW:   invW,
					UOverW: cv.uv[0] * invW,
					VOverW: cv.uv[1] * invW,
				}
			}

			// Clipped triangle: 3 or 4 vertices, fan triangulate
			for k := 1; k+1 < len(poly); k++ {
				RasterizeTriangle(fb, [3]ScreenVertex{sv[0], sv[k], sv[k+1]}, tex, mesh.Color, shade, &r.Light)
			}
		}
	}
}

// clipNear clips a view-space polygon against the near plane (z = -near).
func clipNear(in []clipVert, near float64, out []clipVert) []clipVert {
	out = out[:0]
	for i := range in {
		a := in[i]
		b := in[(i+1)%len(in)]
		da := -a.p.Z() - near
		db := -b.p.Z() - near
		if da >= 0 {
			out = append(out, a)
		}
		if (da >= 0) != (db >= 0) {
			t := da / (da - db)
			out = append(out, clipVert{
				p:  a.p.Add(b.p.Sub(a.p).Mul(t)),
				uv: a.uv.Add(b.uv.Sub(a.uv).Mul(t)),
			})
		}
	}
	return out
}
