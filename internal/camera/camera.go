// Package camera holds the scene camera: transform chain, projection
// parameters, colliders and the screen-to-world ray mapping.
package camera

import (
	"github.com/go-gl/mathgl/mgl64"

	"photo-session/internal/mathutil"
	"photo-session/internal/raster"
	"photo-session/internal/scene"
)

// Collider is a physics shape attached to the camera rig.
type Collider struct {
	Name      string
	Enabled   bool
	IsTrigger bool
}

// Camera renders the scene from its transform.
type Camera struct {
	Name        string
	Transform   *Transform
	FieldOfView float64 // vertical, degrees
	Near        float64
	Far         float64
	CullingMask scene.LayerMask
	Enabled     bool

	// Target redirects rendering off screen when set.
	Target *raster.FrameBuffer

	Colliders []*Collider
}

// New returns an enabled 60° camera at the origin looking down -Z.
func New(name string) *Camera {
	return &Camera{
		Name:        name,
		Transform:   NewTransform(name),
		FieldOfView: 60,
		Near:        0.1,
		Far:         1000,
		CullingMask: scene.Everything,
		Enabled:     true,
	}
}

// FromViewpoint returns a camera posed at v.
func FromViewpoint(v scene.Viewpoint) *Camera {
	c := New(v.Name)
	c.Apply(v)
	return c
}

// Apply poses the camera at v. A zero FOV keeps the current one.
func (c *Camera) Apply(v scene.Viewpoint) {
	c.Transform.SetPosition(v.Position)
	c.Transform.SetRotation(mathutil.YawPitch(v.Yaw, v.Pitch))
	if v.FOV > 0 {
		c.FieldOfView = v.FOV
	}
}

// View returns the rasterizer view for the camera's current pose.
func (c *Camera) View() raster.View {
	return raster.View{
		Eye:      c.Transform.Position(),
		Rotation: c.Transform.Rotation(),
		FovY:     c.FieldOfView,
		Near:     c.Near,
		Far:      c.Far,
		Mask:     c.CullingMask,
	}
}

// ScreenPointToRay maps a pixel position (origin bottom-left) on a w×h
// viewport to a world ray starting on the near plane.
func (c *Camera) ScreenPointToRay(p mgl64.Vec2, w, h int) scene.Ray {
	v := c.View()
	view := v.Matrix()
	proj := v.Projection(max(w, 1), max(h, 1))

	near, errNear := mgl64.UnProject(mgl64.Vec3{p[0], p[1], 0}, view, proj, 0, 0, w, h)
	far, errFar := mgl64.UnProject(mgl64.Vec3{p[0], p[1], 1}, view, proj, 0, 0, w, h)
	if errNear != nil || errFar != nil || w <= 0 || h <= 0 {
		return scene.Ray{Origin: v.Eye, Direction: c.Transform.Forward()}
	}
	return scene.Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}
