package input

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestKeyEdgesAndLevels(t *testing.T) {
	r := NewRecorder()
	r.Press("w")
	r.Press("W")

	s := r.Next()
	assert.True(t, s.KeyDown("W"))
	assert.True(t, s.Key("w"))

	s = r.Next()
	assert.False(t, s.KeyDown("W"), "down is an edge")
	assert.True(t, s.Key("W"), "held carries over")

	r.Release("W")
	s = r.Next()
	assert.True(t, s.KeyUp("W"))
	assert.False(t, s.Key("W"))
}

func TestMouseEdgesAndAxes(t *testing.T) {
	r := NewRecorder()
	r.MousePress(MouseRight)
	r.Move(mgl64.Vec2{10, 20}, mgl64.Vec2{1, 0})
	r.Move(mgl64.Vec2{12, 21}, mgl64.Vec2{2, 1})
	r.Scroll(0.5)

	s := r.Next()
	sc := DefaultShortcuts()
	assert.True(t, sc.IsMouseRightDown(&s))
	assert.True(t, sc.IsMouseRightPressed(&s))
	assert.Equal(t, mgl64.Vec2{3, 1}, sc.MouseAxis(&s))
	assert.Equal(t, 0.5, sc.MouseWheel(&s))
	assert.Equal(t, mgl64.Vec2{12, 21}, sc.MousePosition(&s))

	s = r.Next()
	assert.Equal(t, mgl64.Vec2{}, s.MouseDelta)
	assert.Equal(t, mgl64.Vec2{12, 21}, s.Pointer)
	assert.True(t, sc.IsMouseRightPressed(&s))

	r.MouseRelease(MouseRight)
	s = r.Next()
	assert.True(t, sc.IsMouseRightUp(&s))
	assert.False(t, sc.IsMouseRightPressed(&s))
}

func TestShortcutBindings(t *testing.T) {
	sc := DefaultShortcuts()
	r := NewRecorder()
	r.Press("F12")
	r.Press("m")
	r.Press(KeyLeft)
	r.Press("shift")
	s := r.Next()

	assert.True(t, sc.IsTogglePhotoSession(&s))
	assert.True(t, sc.IsManualFocus(&s))
	assert.True(t, sc.IsMoveLeft(&s))
	assert.True(t, sc.IsMoveFast(&s))
	assert.False(t, sc.IsMoveRight(&s))
	assert.False(t, sc.IsGuide(&s))

	s = r.Next()
	assert.False(t, sc.IsTogglePhotoSession(&s))
	assert.True(t, sc.IsManualFocus(&s), "manual focus is level triggered")

	r.ReleaseAll()
	s = r.Next()
	assert.False(t, sc.IsMoveLeft(&s))
}

func TestKeyNormalize(t *testing.T) {
	assert.Equal(t, Key("G"), Key("g").Normalize())
	assert.Equal(t, Key("Shift"), Key("SHIFT").Normalize())
	assert.Equal(t, Key("F12"), Key("f12").Normalize())
}
