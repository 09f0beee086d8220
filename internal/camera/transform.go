package camera

import (
	"github.com/go-gl/mathgl/mgl64"

	"photo-session/internal/mathutil"
)

// Transform is a node in a parent chain. Local fields are relative to
// Parent; the accessors without a Local prefix are world space.
type Transform struct {
	Name          string
	Parent        *Transform
	LocalPosition mgl64.Vec3
	LocalRotation mgl64.Quat
}

// NewTransform returns a root transform at the origin.
func NewTransform(name string) *Transform {
	return &Transform{Name: name, LocalRotation: mgl64.QuatIdent()}
}

// Position returns the world position.
func (t *Transform) Position() mgl64.Vec3 {
	if t.Parent == nil {
		return t.LocalPosition
	}
	return t.Parent.Position().Add(t.Parent.Rotation().Rotate(t.LocalPosition))
}

// Rotation returns the world rotation.
func (t *Transform) Rotation() mgl64.Quat {
	if t.Parent == nil {
		return t.LocalRotation
	}
	return t.Parent.Rotation().Mul(t.LocalRotation).Normalize()
}

// SetPosition moves the transform to a world position.
func (t *Transform) SetPosition(p mgl64.Vec3) {
	if t.Parent == nil {
		t.LocalPosition = p
		return
	}
	t.LocalPosition = t.Parent.Rotation().Inverse().Rotate(p.Sub(t.Parent.Position()))
}

// SetRotation orients the transform to a world rotation.
func (t *Transform) SetRotation(q mgl64.Quat) {
	if t.Parent == nil {
		t.LocalRotation = q
		return
	}
	t.LocalRotation = t.Parent.Rotation().Inverse().Mul(q).Normalize()
}

// SetParent re-parents the transform keeping its world pose. A nil parent detaches it.
func (t *Transform) SetParent(p *Transform) {
	pos, rot := t.Position(), t.Rotation()
	t.Parent = p
	t.SetPosition(pos)
	t.SetRotation(rot)
}

func (t *Transform) Forward() mgl64.Vec3 { return t.Rotation().Rotate(mathutil.AxisForward) }
func (t *Transform) Right() mgl64.Vec3   { return t.Rotation().Rotate(mathutil.AxisRight) }
func (t *Transform) Up() mgl64.Vec3      { return t.Rotation().Rotate(mathutil.AxisUp) }

// Translate moves by d expressed in the transform's own axes.
func (t *Transform) Translate(d mgl64.Vec3) {
	t.SetPosition(t.Position().Add(t.Rotation().Rotate(d)))
}
