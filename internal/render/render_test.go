package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-session/internal/camera"
	"photo-session/internal/mathutil"
	"photo-session/internal/scene"
	"photo-session/internal/volume"
)

var red = color.NRGBA{220, 20, 20, 255}

func wallScene() *scene.Scene {
	s := scene.New("wall")
	s.Add(scene.Quad("wall", mgl64.Vec3{-5, -5, -4}, mgl64.Vec3{10, 0, 0}, mgl64.Vec3{0, 10, 0}, red))
	return s
}

func TestFaceRotationsLookDownFaceAxes(t *testing.T) {
	for f := PosX; f <= NegZ; f++ {
		q := FaceRotation(f)
		fwd := q.Rotate(mathutil.AxisForward)
		up := q.Rotate(mathutil.AxisUp)
		assert.True(t, fwd.ApproxEqualThreshold(faceBasis[f][0], 1e-9), "face %d forward %v", f, fwd)
		assert.True(t, up.ApproxEqualThreshold(faceBasis[f][1], 1e-9), "face %d up %v", f, up)
	}
}

func TestEquirectCenterLooksForward(t *testing.T) {
	e := NewEngine(wallScene(), nil)
	cam := camera.New("cam")

	cm, err := e.RenderCubemap(cam, 32)
	require.NoError(t, err)
	assert.Equal(t, 6, e.Pool.Live())
	img := cm.Equirect(64, 32)
	cm.Release(e.Pool)
	assert.Equal(t, 0, e.Pool.Live())

	center := img.NRGBAAt(32, 16)
	assert.Greater(t, center.R, center.B)

	// Directly behind is sky.
	behind := img.NRGBAAt(0, 16)
	assert.Equal(t, e.Scene.Background, behind)
}

func TestFrameSkipsDisabledCamera(t *testing.T) {
	e := NewEngine(wallScene(), nil)
	cam := camera.New("cam")
	cam.Enabled = false
	assert.Nil(t, e.Frame(cam, 16, 16))
	assert.Nil(t, e.Screen())

	cam.Enabled = true
	fb := e.Frame(cam, 16, 16)
	require.NotNil(t, fb)
	assert.Same(t, fb, e.Screen())
	assert.InDelta(t, 4, fb.Depth(8, 8), 1e-6)
}

func TestFrameUsesCameraTarget(t *testing.T) {
	e := NewEngine(wallScene(), nil)
	cam := camera.New("cam")
	cam.Target = e.Pool.GetTemporary(8, 8)
	fb := e.Frame(cam, 16, 16)
	assert.Same(t, cam.Target, fb)
	assert.Nil(t, e.Screen())
}

func TestFocusPicksFirstActiveVolume(t *testing.T) {
	e := NewEngine(wallScene(), nil)
	assert.Nil(t, e.Focus())

	off := &volume.Volume{Active: false, Legacy: volume.NewLegacyDepthOfField()}
	on := &volume.Volume{Active: true, Legacy: volume.NewLegacyDepthOfField()}
	on.Legacy.Active = true
	e.Volumes = []*volume.Volume{off, on}
	assert.Equal(t, volume.LensFocus{Distance: 10, FocalLength: 50, Aperture: 5.6}, e.Focus())
}

type panicResolver struct{}

func (panicResolver) Resolve(string) *image.NRGBA { panic("corrupt texture") }

func TestRenderCubemapReturnsFacePanics(t *testing.T) {
	s := wallScene()
	s.Meshes[0].Texture = "bricks"
	e := NewEngine(s, panicResolver{})

	cm, err := e.RenderCubemap(camera.New("cam"), 16)
	assert.Nil(t, cm)
	assert.ErrorContains(t, err, "corrupt texture")
	assert.Equal(t, 0, e.Pool.Live())
}
