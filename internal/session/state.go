package session

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"photo-session/internal/camera"
)

// PhotoMode is the session mode.
type PhotoMode int

const (
	Game PhotoMode = iota
	Photo
)

func (m PhotoMode) String() string {
	if m == Photo {
		return "Photo"
	}
	return "Game"
}

// CameraState is a saved camera pose. Saving also disables the camera's
// enabled colliders until the matching Restore.
type CameraState struct {
	parent   *camera.Transform
	position mgl64.Vec3
	rotation mgl64.Quat
	disabled []*camera.Collider
}

// Save records cam's parent and world pose and disables its colliders.
// Solid colliders are kept but warned about: they push the camera once
// re-enabled.
func (c *CameraState) Save(cam *camera.Camera, log *slog.Logger) {
	c.parent = cam.Transform.Parent
	c.position = cam.Transform.Position()
	c.rotation = cam.Transform.Rotation()

	c.disabled = c.disabled[:0]
	for _, col := range cam.Colliders {
		if !col.Enabled {
			continue
		}
		c.disabled = append(c.disabled, col)
		if !col.IsTrigger {
			log.Warn("collider on camera isn't a trigger, the camera may move after the photo session exits",
				"camera", cam.Name, "collider", col.Name)
		}
	}
	for _, col := range c.disabled {
		col.Enabled = false
	}
}

// Restore re-parents cam, puts it back at the saved world pose and
// re-enables the colliders Save disabled.
func (c *CameraState) Restore(cam *camera.Camera) {
	cam.Transform.Parent = c.parent
	cam.Transform.SetPosition(c.position)
	cam.Transform.SetRotation(c.rotation)

	for _, col := range c.disabled {
		col.Enabled = true
	}
	c.disabled = c.disabled[:0]
}

// LockMode is the cursor confinement.
type LockMode int

const (
	LockNone LockMode = iota
	LockConfined
	LockLocked
)

// Cursor is the platform pointer.
type Cursor interface {
	Visible() bool
	SetVisible(bool)
	LockMode() LockMode
	SetLockMode(LockMode)
}

// SoftCursor is a Cursor without a platform behind it.
type SoftCursor struct {
	Shown bool
	Lock  LockMode
}

func (c *SoftCursor) Visible() bool          { return c.Shown }
func (c *SoftCursor) SetVisible(v bool)      { c.Shown = v }
func (c *SoftCursor) LockMode() LockMode     { return c.Lock }
func (c *SoftCursor) SetLockMode(m LockMode) { c.Lock = m }

// CursorState saves the cursor on entry and switches it between free
// look and menu use.
type CursorState struct {
	Cursor Cursor

	visible bool
	lock    LockMode
}

func (c *CursorState) Save() {
	c.visible = c.Cursor.Visible()
	c.lock = c.Cursor.LockMode()
}

func (c *CursorState) Restore() {
	c.Cursor.SetVisible(c.visible)
	c.Cursor.SetLockMode(c.lock)
}

// Lock hides and locks the cursor for camera movement.
func (c *CursorState) Lock() {
	c.Cursor.SetVisible(false)
	c.Cursor.SetLockMode(LockLocked)
}

// Unlock shows and frees the cursor.
func (c *CursorState) Unlock() {
	c.Cursor.SetVisible(true)
	c.Cursor.SetLockMode(LockNone)
}

// Toggle is a game object or behavior disabled while in photo mode.
type Toggle interface {
	Enabled() bool
	SetEnabled(bool)
}

// Switch is a named Toggle for behaviors without a scene object.
type Switch struct {
	Name string
	On   bool
}

func (s *Switch) Enabled() bool     { return s.On }
func (s *Switch) SetEnabled(on bool) { s.On = on }

// Canvas is the photo mode HUD visibility.
type Canvas struct {
	visible bool
}

func (c *Canvas) Visible() bool     { return c.visible }
func (c *Canvas) SetVisible(v bool) { c.visible = v }
