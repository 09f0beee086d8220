package session

import (
	"bytes"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photo-session/internal/autofocus"
	"photo-session/internal/camera"
	"photo-session/internal/capture"
	"photo-session/internal/clock"
	"photo-session/internal/config"
	"photo-session/internal/dof"
	"photo-session/internal/input"
	"photo-session/internal/mathutil"
	"photo-session/internal/render"
	"photo-session/internal/scene"
)

const (
	viewW = 64
	viewH = 48
)

type fixture struct {
	s      *Session
	tp     *clock.MockTimeProvider
	rec    *input.Recorder
	cam    *camera.Camera
	rig    *camera.Transform
	engine *render.Engine
	cursor *SoftCursor
	logs   *bytes.Buffer
}

func newFixture(t *testing.T, mutate func(*config.Settings, *Options)) *fixture {
	t.Helper()
	sc := scene.New("Test")
	sc.Add(scene.Quad("wall", mgl64.Vec3{-50, -50, -5}, mgl64.Vec3{100, 0, 0}, mgl64.Vec3{0, 100, 0}, color.NRGBA{200, 200, 200, 255}))
	player := scene.Box("player", mgl64.Vec3{1, 0.9, 1}, mgl64.Vec3{0.6, 1.8, 0.6}, color.NRGBA{0, 0, 255, 255})
	sc.Add(player)
	engine := render.NewEngine(sc, nil)

	rig := camera.NewTransform("rig")
	rig.SetPosition(mgl64.Vec3{1, 0, 0})
	cam := camera.New("player camera")
	cam.Transform.SetParent(rig)
	cam.Transform.LocalPosition = mgl64.Vec3{0, 1, 0}

	f := &fixture{
		tp:     clock.NewMockTimeProvider(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)),
		rec:    input.NewRecorder(),
		cam:    cam,
		rig:    rig,
		engine: engine,
		cursor: &SoftCursor{Shown: true, Lock: LockConfined},
		logs:   &bytes.Buffer{},
	}

	cfg := config.Default()
	cfg.OutputDir = t.TempDir()
	cfg.Image.Resolution = capture.Game
	opts := Options{
		Engine: engine,
		Camera: cam,
		Time:   f.tp,
		Cursor: f.cursor,
		Logger: slog.New(slog.NewTextHandler(f.logs, nil)),
	}
	if mutate != nil {
		mutate(&cfg, &opts)
	}
	opts.Settings = cfg

	s, err := New(opts)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	f.s = s
	return f
}

// tick advances real time by dt and runs one full frame.
func (f *fixture) tick(t *testing.T, dt time.Duration) {
	t.Helper()
	f.tp.Advance(dt)
	st := f.rec.Next()
	require.NoError(t, f.s.Update(&st, viewW, viewH))
	f.s.EndOfFrame()
}

func (f *fixture) toggle(t *testing.T) {
	t.Helper()
	f.rec.Press(input.KeyF12)
	f.tick(t, 10*time.Millisecond)
	f.rec.Release(input.KeyF12)
}

// enter switches to photo mode and waits out the input delay.
func (f *fixture) enter(t *testing.T) {
	t.Helper()
	f.toggle(t)
	f.tick(t, 300*time.Millisecond)
	require.True(t, f.s.InputActive())
}

func TestPhotoModeInputIsDelayed(t *testing.T) {
	f := newFixture(t, nil)
	f.toggle(t)

	assert.Equal(t, Photo, f.s.Mode())
	assert.True(t, f.s.Canvas().Visible())
	assert.Equal(t, 0.0, f.s.Clock().Scale())
	assert.False(t, f.s.InputActive())

	f.tick(t, 200*time.Millisecond)
	assert.False(t, f.s.InputActive())
	f.tick(t, 100*time.Millisecond)
	assert.True(t, f.s.InputActive())

	f.toggle(t)
	assert.Equal(t, Game, f.s.Mode())
	assert.False(t, f.s.Canvas().Visible())
	assert.Equal(t, 1.0, f.s.Clock().Scale())
	assert.False(t, f.s.InputActive())
}

func TestLeavingCancelsDelayedInput(t *testing.T) {
	f := newFixture(t, nil)
	f.toggle(t)
	f.tick(t, 100*time.Millisecond)
	f.toggle(t)
	require.Equal(t, Game, f.s.Mode())

	f.tick(t, time.Second)
	assert.False(t, f.s.InputActive())
	assert.Equal(t, 0, f.s.Scheduler().Len())

	// a screenshot still waiting for the end of the frame is dropped too
	f.enter(t)
	f.rec.MousePress(input.MouseLeft)
	f.tp.Advance(10 * time.Millisecond)
	st := f.rec.Next()
	require.NoError(t, f.s.Update(&st, viewW, viewH))
	require.Equal(t, capture.WaitFrameEnd, f.s.Capture().State())

	f.rec.Press(input.KeyF12)
	f.tp.Advance(10 * time.Millisecond)
	st = f.rec.Next()
	require.NoError(t, f.s.Update(&st, viewW, viewH))
	require.Equal(t, Game, f.s.Mode())
	assert.Equal(t, capture.Idle, f.s.Capture().State())
	assert.False(t, f.s.Canvas().Visible())

	f.s.EndOfFrame()
	assert.Empty(t, f.s.Capture().Last().Path)
	entries, err := os.ReadDir(f.s.Capture().Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPauseScaleIsConfigurable(t *testing.T) {
	f := newFixture(t, func(c *config.Settings, _ *Options) { c.Camera.PauseTime = 0.25 })
	f.toggle(t)
	assert.Equal(t, 0.25, f.s.Clock().Scale())
}

func TestTickStopsEarlyWhileInputInactive(t *testing.T) {
	f := newFixture(t, nil)
	before := f.s.AutoFocusText()

	f.rec.MousePress(input.MouseLeft)
	f.tick(t, time.Second)
	f.toggle(t)

	assert.Empty(t, f.s.AutoFocus().ScreenPoints)
	assert.Equal(t, before, f.s.AutoFocusText())
	assert.Equal(t, capture.Idle, f.s.Capture().State())
}

func TestCameraStateRoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	trigger := &camera.Collider{Name: "trigger", Enabled: true, IsTrigger: true}
	solid := &camera.Collider{Name: "solid", Enabled: true}
	off := &camera.Collider{Name: "off"}
	f.cam.Colliders = []*camera.Collider{trigger, solid, off}
	start := f.cam.Transform.Position()
	startRot := f.cam.Transform.Rotation()

	f.enter(t)
	assert.Nil(t, f.cam.Transform.Parent)
	assert.True(t, f.cam.Transform.Position().ApproxEqual(start))
	assert.False(t, trigger.Enabled)
	assert.False(t, solid.Enabled)
	assert.False(t, off.Enabled)
	assert.Contains(t, f.logs.String(), "isn't a trigger")
	assert.NotContains(t, f.logs.String(), "collider=trigger")

	f.cam.Transform.SetPosition(mgl64.Vec3{9, 9, 9})
	f.rig.SetPosition(mgl64.Vec3{2, 0, 0})

	f.toggle(t)
	assert.Same(t, f.rig, f.cam.Transform.Parent)
	assert.True(t, f.cam.Transform.Position().ApproxEqual(start))
	assert.True(t, f.cam.Transform.Rotation().ApproxEqual(startRot))
	assert.True(t, trigger.Enabled)
	assert.True(t, solid.Enabled)
	assert.False(t, off.Enabled)
}

func TestReusePreviousCameraTransform(t *testing.T) {
	moved := mgl64.Vec3{3, 2, 1}
	for _, reuse := range []bool{false, true} {
		f := newFixture(t, func(c *config.Settings, _ *Options) { c.Camera.ReusePreviousCameraTransform = reuse })
		start := f.cam.Transform.Position()

		f.enter(t)
		f.cam.Transform.SetPosition(moved)
		f.toggle(t)
		f.toggle(t)

		want := start
		if reuse {
			want = moved
		}
		assert.True(t, f.cam.Transform.Position().ApproxEqual(want), "reuse=%v got %v", reuse, f.cam.Transform.Position())
	}
}

func TestBlacklistRestoresPriorState(t *testing.T) {
	a, b, c := &Switch{Name: "A", On: true}, &Switch{Name: "B"}, &Switch{Name: "C", On: true}
	f := newFixture(t, func(cfg *config.Settings, o *Options) {
		o.Blacklist = []Toggle{a, b, c}
		cfg.Camera.Blacklist = []string{"player", "nobody"}
	})
	assert.Contains(t, f.logs.String(), "nobody")
	player, ok := f.engine.Scene.Find("player")
	require.True(t, ok)

	f.toggle(t)
	assert.False(t, a.On)
	assert.False(t, b.On)
	assert.False(t, c.On)
	assert.True(t, player.Hidden)

	f.toggle(t)
	assert.True(t, a.On)
	assert.False(t, b.On)
	assert.True(t, c.On)
	assert.False(t, player.Hidden)
}

func TestCursorFollowsLookButton(t *testing.T) {
	f := newFixture(t, nil)
	f.enter(t)
	assert.True(t, f.cursor.Shown)
	assert.Equal(t, LockNone, f.cursor.Lock)

	f.rec.MousePress(input.MouseRight)
	f.tick(t, 10*time.Millisecond)
	assert.False(t, f.cursor.Shown)
	assert.Equal(t, LockLocked, f.cursor.Lock)

	f.rec.MouseRelease(input.MouseRight)
	f.tick(t, 10*time.Millisecond)
	assert.True(t, f.cursor.Shown)
	assert.Equal(t, LockNone, f.cursor.Lock)

	f.toggle(t)
	assert.True(t, f.cursor.Shown)
	assert.Equal(t, LockConfined, f.cursor.Lock)
}

func TestFreeLookUsesRealTime(t *testing.T) {
	f := newFixture(t, nil)
	f.enter(t)
	start := f.cam.Transform.Position()

	f.rec.Press("W")
	f.tick(t, 500*time.Millisecond)
	assert.True(t, f.cam.Transform.Position().ApproxEqual(start), "movement needs the look button")

	f.rec.MousePress(input.MouseRight)
	f.tick(t, 500*time.Millisecond)
	assert.InDelta(t, start[2]-2, f.cam.Transform.Position()[2], 1e-9)

	f.rec.Press(input.KeyShift)
	f.tick(t, 100*time.Millisecond)
	assert.InDelta(t, start[2]-4, f.cam.Transform.Position()[2], 1e-9)
	f.rec.Release(input.KeyShift)
	f.rec.Release("W")

	f.rec.Move(mgl64.Vec2{}, mgl64.Vec2{10, 5})
	f.tick(t, 10*time.Millisecond)
	yaw, pitch := mathutil.ToYawPitch(f.cam.Transform.Rotation())
	assert.InDelta(t, -20, yaw, 1e-6)
	assert.InDelta(t, 10, pitch, 1e-6)

	pos := f.cam.Transform.Position()
	fwd := f.cam.Transform.Forward()
	f.rec.Scroll(1)
	f.tick(t, 10*time.Millisecond)
	assert.True(t, f.cam.Transform.Position().ApproxEqualThreshold(pos.Add(fwd.Mul(5)), 1e-9))
}

func TestPitchIsClamped(t *testing.T) {
	f := newFixture(t, nil)
	f.enter(t)
	f.rec.MousePress(input.MouseRight)
	f.rec.Move(mgl64.Vec2{}, mgl64.Vec2{0, 100})
	f.tick(t, 10*time.Millisecond)
	_, pitch := mathutil.ToYawPitch(f.cam.Transform.Rotation())
	assert.InDelta(t, maxPitch, pitch, 1e-6)
}

func TestAutoFocusAndHUDText(t *testing.T) {
	f := newFixture(t, func(c *config.Settings, _ *Options) { c.AutoFocus.MaxRayLength = 10 })
	assert.Equal(t, "Type: Flat\nFormat: JPG\nResolution: Game Screen", f.s.ImageSettingsText())

	f.enter(t)
	d := f.s.AutoFocus()
	require.True(t, d.HasTarget)
	assert.Len(t, d.ScreenPoints, 1)
	assert.InDelta(t, 4.9, d.MinDistance, 0.05)
	assert.Regexp(t, `^Auto Focus: Center\nMax Ray Length: 10\.00\nMin Distance: 4\.\d\d$`, f.s.AutoFocusText())
}

func TestTargetOutOfRangeShowsDash(t *testing.T) {
	f := newFixture(t, nil)
	f.enter(t)
	assert.True(t, f.s.AutoFocus().HasTarget)
	assert.Equal(t, "Auto Focus: Center\nMax Ray Length: 3.00\nMin Distance: -", f.s.AutoFocusText())
}

func TestAutoFocusKeyCyclesModes(t *testing.T) {
	f := newFixture(t, nil)
	f.enter(t)

	f.rec.Press("F")
	f.tick(t, 10*time.Millisecond)
	assert.Equal(t, autofocus.Auto4x3, f.s.Settings().AutoFocus.Mode)
	assert.Contains(t, f.s.AutoFocusText(), "Multiple 4 x 3")
	assert.Greater(t, len(f.s.AutoFocus().ScreenPoints), 1)
}

func TestManualFocusFollowsPointer(t *testing.T) {
	f := newFixture(t, nil)
	f.enter(t)

	f.rec.Press("M")
	f.rec.Move(mgl64.Vec2{10, 20}, mgl64.Vec2{})
	f.tick(t, 10*time.Millisecond)
	assert.Equal(t, autofocus.ManualPosition, f.s.Settings().AutoFocus.Mode)
	pts := f.s.AutoFocus().ScreenPoints
	require.Len(t, pts, 1)
	assert.Equal(t, 10.0, pts[0][0])
	assert.Equal(t, 20.0, pts[0][1])

	// the point stays where the key was released
	f.rec.Release("M")
	f.rec.Move(mgl64.Vec2{40, 40}, mgl64.Vec2{})
	f.tick(t, 10*time.Millisecond)
	assert.Equal(t, 10.0, f.s.AutoFocus().ScreenPoints[0][0])
}

func TestGuideKeyCycles(t *testing.T) {
	f := newFixture(t, nil)
	f.enter(t)
	n := len(f.s.Guides().List)
	require.Positive(t, n)

	for range n {
		f.rec.Press("G")
		f.tick(t, 10*time.Millisecond)
		f.rec.Release("G")
		f.tick(t, 10*time.Millisecond)
	}
	assert.Equal(t, 0, f.s.Guides().Index)
}

func TestScreenshotIsFrameSynchronized(t *testing.T) {
	f := newFixture(t, nil)
	f.enter(t)

	f.rec.MousePress(input.MouseLeft)
	f.tp.Advance(10 * time.Millisecond)
	st := f.rec.Next()
	require.NoError(t, f.s.Update(&st, viewW, viewH))
	assert.Equal(t, capture.WaitFrameEnd, f.s.Capture().State())
	assert.False(t, f.s.Canvas().Visible())

	f.s.EndOfFrame()
	assert.Equal(t, capture.Idle, f.s.Capture().State())
	assert.True(t, f.s.Canvas().Visible())
	require.NoError(t, f.s.Capture().LastError())
	info, err := os.Stat(f.s.Capture().Last().Path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Contains(t, f.s.Capture().Last().Path, "Test - 2024.03.01 - 12.00.")

	// the session stays usable
	f.rec.MouseRelease(input.MouseLeft)
	f.tick(t, 10*time.Millisecond)
	assert.Equal(t, Photo, f.s.Mode())
}

func TestComposeDrawsCanvasAndFlash(t *testing.T) {
	f := newFixture(t, nil)
	frame := func() *image.NRGBA {
		img := image.NewNRGBA(image.Rect(0, 0, 31, 31))
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 255
		}
		return img
	}

	out := f.s.Compose(frame()).(*image.NRGBA)
	assert.Equal(t, uint8(0), out.NRGBAAt(10, 5).R, "no HUD in game mode")

	f.enter(t)
	out = f.s.Compose(frame()).(*image.NRGBA)
	assert.Greater(t, out.NRGBAAt(10, 5).R, uint8(0))

	f.rec.MousePress(input.MouseLeft)
	f.tick(t, 10*time.Millisecond)
	r, _, _, _ := f.s.Compose(frame()).At(0, 0).RGBA()
	assert.Greater(t, r, uint32(0x8000), "flash after capture")
}

func TestSettingsApplyOnNextTick(t *testing.T) {
	f := newFixture(t, nil)
	next := f.s.Settings()
	next.AutoFocus.Mode = autofocus.Off
	next.Image.Format = capture.PNG
	next.OutputDir = filepath.Join(t.TempDir(), "shots")
	f.s.ApplySettings(next)
	assert.Equal(t, autofocus.Center, f.s.Settings().AutoFocus.Mode)

	f.tick(t, 10*time.Millisecond)
	assert.Equal(t, autofocus.Off, f.s.Settings().AutoFocus.Mode)
	assert.Equal(t, next.OutputDir, f.s.Capture().Dir)
	assert.DirExists(t, next.OutputDir)

	f.enter(t)
	assert.Contains(t, f.s.ImageSettingsText(), "Format: PNG")
	assert.False(t, f.s.AutoFocus().HasTarget)
}

func TestMissingCameraUsesMainViewpoint(t *testing.T) {
	f := newFixture(t, func(_ *config.Settings, o *Options) { o.Camera = nil })
	main := f.engine.Scene.MainCamera
	assert.True(t, f.s.Camera().Transform.Position().ApproxEqual(main.Position))
	assert.Contains(t, f.logs.String(), "main camera")
}

func TestDepthOfFieldFollowsMode(t *testing.T) {
	f := newFixture(t, func(c *config.Settings, o *Options) {
		c.DepthOfField.Enabled = true
		c.AutoFocus.MaxRayLength = 10
		o.Engine.Volumes = append(o.Engine.Volumes, dof.NewVolume(c.DepthOfField.Volume, dof.HDRP))
	})
	v := f.engine.Volumes[0]
	assert.Nil(t, f.engine.Focus())

	f.enter(t)
	assert.True(t, v.Active)
	assert.NotNil(t, f.engine.Focus())
	assert.InDelta(t, 4.9-0.5, v.HDRP.NearFocusEnd.Value, 0.05)

	f.toggle(t)
	assert.False(t, v.Active)
	assert.Nil(t, f.engine.Focus())
}

func TestNewRequiresEngine(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
