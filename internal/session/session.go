// Package session runs the photo mode: it toggles between game and photo
// mode, hijacks the player camera for free look, drives the autofocus pass
// and the feature modules each tick, and starts frame-synchronized
// screenshots.
package session

import (
	"fmt"
	"image"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"photo-session/internal/autofocus"
	"photo-session/internal/camera"
	"photo-session/internal/capture"
	"photo-session/internal/clock"
	"photo-session/internal/config"
	"photo-session/internal/dof"
	"photo-session/internal/input"
	"photo-session/internal/mathutil"
	"photo-session/internal/module"
	"photo-session/internal/overlay"
	"photo-session/internal/render"
	"photo-session/internal/volume"
)

// maxPitch keeps free look off the poles, where yaw is undefined.
const maxPitch = 89

// Options wires a session. Engine is required; everything else has a
// default.
type Options struct {
	Settings config.Settings
	Engine   *render.Engine

	// Camera is the player camera hijacked in photo mode. Nil uses a
	// camera posed at the scene's main viewpoint.
	Camera *camera.Camera

	Time      clock.TimeProvider
	Clock     *clock.Clock
	Scheduler *clock.Scheduler
	Capture   *capture.Pipeline
	Flash     *overlay.Flash
	Cursor    Cursor

	// Blacklist is disabled in photo mode in addition to the scene meshes
	// named by Settings.Camera.Blacklist.
	Blacklist []Toggle

	Logger *slog.Logger
}

// Session is the photo mode controller. Update and EndOfFrame are called
// once per frame from the main loop; ApplySettings may be called from any
// goroutine.
type Session struct {
	settings config.Settings

	mu      sync.Mutex
	pending *config.Settings

	engine    *render.Engine
	cam       *camera.Camera
	clock     *clock.Clock
	scheduler *clock.Scheduler
	capture   *capture.Pipeline
	flash     *overlay.Flash
	canvas    *Canvas
	log       *slog.Logger

	blacklist []Toggle
	wasActive []bool

	mode                PhotoMode
	player              CameraState
	previous            CameraState
	previousInitialized bool
	cursor              CursorState
	inputTask           *clock.Task
	inputActive         bool

	modules    module.List
	afOverlay  *overlay.AutoFocus
	guides     overlay.Guides
	guideFiles []string

	afInput     autofocus.Input
	afData      autofocus.Data
	manualFocus mgl64.Vec2

	imageText     string
	autoFocusText string
}

var _ module.Host = (*Session)(nil)

// New builds a session in game mode and registers its modules: the
// autofocus overlay and the configured depth-of-field strategy. Call
// Start before the first Update.
func New(opts Options) (*Session, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("session: no render engine")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	tp := opts.Time
	if tp == nil {
		tp = clock.NewMonotonicTimeProvider()
	}

	s := &Session{
		settings:  opts.Settings.Clone(),
		engine:    opts.Engine,
		cam:       opts.Camera,
		clock:     opts.Clock,
		scheduler: opts.Scheduler,
		capture:   opts.Capture,
		flash:     opts.Flash,
		canvas:    &Canvas{},
		log:       log,
	}
	if s.cam == nil {
		main := s.engine.Scene.MainCamera
		log.Warn("no photo camera configured, using the scene's main camera", "camera", main.Name)
		s.cam = camera.FromViewpoint(main)
	}
	if s.clock == nil {
		s.clock = clock.New(tp)
	}
	if s.scheduler == nil {
		s.scheduler = clock.NewScheduler(tp)
	}
	if s.flash == nil {
		s.flash = overlay.NewFlash(tp)
	}
	if s.capture == nil {
		s.capture = capture.New(s.engine, s.settings.OutputDir, tp, log)
	}
	s.capture.Flash = s.flash
	s.capture.Canvas = s.canvas

	cursor := opts.Cursor
	if cursor == nil {
		cursor = &SoftCursor{Shown: true}
	}
	s.cursor = CursorState{Cursor: cursor}

	s.blacklist = append(s.blacklist, opts.Blacklist...)
	for _, name := range s.settings.Camera.Blacklist {
		m, ok := s.engine.Scene.Find(name)
		if !ok {
			log.Warn("blacklisted object not found", "name", name)
			continue
		}
		s.blacklist = append(s.blacklist, m)
	}
	s.wasActive = make([]bool, len(s.blacklist))

	s.afOverlay = overlay.NewAutoFocus()
	s.afOverlay.Visible = s.settings.AutoFocus.OverlayVisible

	d := s.settings.DepthOfField
	dofModule, err := dof.New(d.Pipeline, d.Strategy(s.findVolume(d.Volume)))
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.modules = module.List{s.afOverlay, dofModule}
	return s, nil
}

func (s *Session) findVolume(name string) *volume.Volume {
	for _, v := range s.engine.Volumes {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Start starts the modules and prepares the autofocus input, the HUD text
// and the composition guides.
func (s *Session) Start() error {
	if err := capture.SetupDir(s.capture.Dir); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	if err := s.modules.Start(s); err != nil {
		return fmt.Errorf("session: start modules: %w", err)
	}
	if err := s.updateAutoFocusSetup(); err != nil {
		return err
	}
	s.loadGuides()
	s.updateText()
	return nil
}

// AutoFocus returns the current tick's focus snapshot.
func (s *Session) AutoFocus() *autofocus.Data { return &s.afData }

func (s *Session) Logger() *slog.Logger { return s.log }

func (s *Session) Mode() PhotoMode { return s.mode }

// InputActive reports whether photo mode input is past its start delay.
func (s *Session) InputActive() bool { return s.inputActive }

func (s *Session) Camera() *camera.Camera { return s.cam }

func (s *Session) Clock() *clock.Clock { return s.clock }

func (s *Session) Scheduler() *clock.Scheduler { return s.scheduler }

func (s *Session) Capture() *capture.Pipeline { return s.capture }

func (s *Session) Canvas() *Canvas { return s.canvas }

func (s *Session) Guides() *overlay.Guides { return &s.guides }

// Settings returns a copy of the settings in effect.
func (s *Session) Settings() config.Settings { return s.settings.Clone() }

// ImageSettingsText is the HUD block describing the capture settings.
func (s *Session) ImageSettingsText() string { return s.imageText }

// AutoFocusText is the HUD block describing the autofocus state.
func (s *Session) AutoFocusText() string { return s.autoFocusText }

// ApplySettings queues new settings for the start of the next tick.
func (s *Session) ApplySettings(cfg config.Settings) {
	c := cfg.Clone()
	s.mu.Lock()
	s.pending = &c
	s.mu.Unlock()
}

// Update runs one tick on a viewport of w×h pixels: it advances the
// clock, runs due tasks, toggles the mode, handles photo mode input,
// recomputes autofocus and updates the modules and HUD text. Nothing past
// the canvas update runs until the input delay after entering photo mode
// has passed.
func (s *Session) Update(in *input.State, w, h int) error {
	if err := s.applyPending(); err != nil {
		return err
	}
	s.clock.Tick()
	s.scheduler.Update()

	sc := s.settings.Shortcuts
	if sc.IsTogglePhotoSession(in) {
		if s.mode == Game {
			s.mode = Photo
			s.pause()
			s.enablePhotoCamera()
			s.modules.OnEnable()
		} else {
			s.mode = Game
			s.modules.OnDisable()
			s.disablePhotoCamera()
			s.resume()
		}
	}

	s.canvas.SetVisible(s.mode == Photo)

	if !s.inputActive {
		return nil
	}

	if s.mode == Photo {
		if err := s.photoInput(in, w, h); err != nil {
			return err
		}
	}

	s.updateAutoFocusData(w, h)

	if err := s.modules.Update(); err != nil {
		return fmt.Errorf("session: update modules: %w", err)
	}

	s.updateText()
	return nil
}

// EndOfFrame runs end-of-frame tasks and finishes a pending capture. Call
// it after the frame was rendered.
func (s *Session) EndOfFrame() {
	s.scheduler.EndOfFrame()
	s.capture.EndOfFrame()
}

// Compose draws the HUD over a rendered frame and applies the flash. The
// guide and focus markers are part of the canvas and hidden with it.
func (s *Session) Compose(frame *image.NRGBA) image.Image {
	if s.canvas.Visible() {
		if err := s.guides.Draw(frame); err != nil {
			s.log.Error("composition guide", "error", err)
		}
		s.afOverlay.Draw(frame)
	}
	return s.flash.Apply(frame)
}

func (s *Session) pause() {
	s.clock.SetScale(s.settings.Camera.PauseTime)
}

func (s *Session) resume() {
	s.clock.SetScale(1)
}

func (s *Session) enablePhotoCamera() {
	delay := time.Duration(s.settings.Camera.InputDelay * float64(time.Second))
	s.inputTask = s.scheduler.After(delay, func() { s.inputActive = true })

	s.player.Save(s.cam, s.log)

	for i, t := range s.blacklist {
		s.wasActive[i] = t.Enabled()
		t.SetEnabled(false)
	}

	s.cam.Transform.SetParent(nil)

	if s.settings.Camera.ReusePreviousCameraTransform && s.previousInitialized {
		s.previous.Restore(s.cam)
	}

	s.cursor.Save()
	s.cursor.Unlock()
}

func (s *Session) disablePhotoCamera() {
	s.inputTask.Cancel()
	s.inputTask = nil
	s.inputActive = false
	s.capture.Cancel()

	s.previous.Save(s.cam, s.log)
	s.previousInitialized = true

	s.player.Restore(s.cam)

	for i, t := range s.blacklist {
		t.SetEnabled(s.wasActive[i])
	}

	s.cursor.Restore()
}

func (s *Session) photoInput(in *input.State, w, h int) error {
	sc := s.settings.Shortcuts

	if sc.IsMouseRightDown(in) {
		s.cursor.Lock()
	}
	if sc.IsMouseRightUp(in) {
		s.cursor.Unlock()
	}
	if sc.IsMouseRightPressed(in) {
		s.freeLook(in)
	}

	if sc.IsGuide(in) {
		s.guides.Next()
		s.checkGuide()
	}

	if sc.IsAutoFocus(in) {
		s.settings.AutoFocus.Mode = s.settings.AutoFocus.Mode.Next()
		if err := s.updateAutoFocusSetup(); err != nil {
			return err
		}
	}

	if sc.IsManualFocus(in) {
		s.settings.AutoFocus.Mode = autofocus.ManualPosition
		if err := s.updateAutoFocusSetup(); err != nil {
			return err
		}
		s.manualFocus = sc.MousePosition(in)
	}

	if sc.IsMouseLeftDown(in) {
		if err := s.capture.Start(s.request(w, h)); err != nil {
			s.log.Warn("screenshot not started", "error", err)
		}
	}
	return nil
}

// freeLook moves and turns the camera in real time, so it works while the
// game is paused.
func (s *Session) freeLook(in *input.State) {
	sc := s.settings.Shortcuts
	cs := s.settings.Camera
	t := s.cam.Transform
	dt := s.clock.UnscaledDeltaTime().Seconds()

	fast := sc.IsMoveFast(in)
	speed := cs.MovementSpeed
	if fast {
		speed = cs.MovementSpeedFast
	}
	step := speed * dt
	move := func(on bool, dir mgl64.Vec3) {
		if on {
			t.SetPosition(t.Position().Add(dir.Mul(step)))
		}
	}
	move(sc.IsMoveLeft(in), t.Right().Mul(-1))
	move(sc.IsMoveRight(in), t.Right())
	move(sc.IsMoveForward(in), t.Forward())
	move(sc.IsMoveBack(in), t.Forward().Mul(-1))
	move(sc.IsMoveUp(in), t.Up())
	move(sc.IsMoveDown(in), t.Up().Mul(-1))

	if axis := sc.MouseAxis(in); axis != (mgl64.Vec2{}) {
		yaw, pitch := mathutil.ToYawPitch(t.Rotation())
		yaw -= axis[0] * cs.FreeLookSensitivity
		pitch = mgl64.Clamp(pitch+axis[1]*cs.FreeLookSensitivity, -maxPitch, maxPitch)
		t.SetRotation(mathutil.YawPitch(yaw, pitch))
	}

	if wheel := sc.MouseWheel(in); wheel != 0 {
		zoom := cs.ZoomSensitivity
		if fast {
			zoom = cs.ZoomSensitivityFast
		}
		t.SetPosition(t.Position().Add(t.Forward().Mul(wheel * zoom)))
	}
}

func (s *Session) request(w, h int) capture.Request {
	img := s.settings.Image
	return capture.Request{
		Camera:              s.cam,
		Scene:               s.engine.Scene.Name,
		Type:                img.PhotoType,
		Format:              img.Format,
		Resolution:          img.Resolution,
		AspectRatio:         img.AspectRatio,
		FieldOfViewOverride: img.FieldOfViewOverride,
		FieldOfView:         img.FieldOfView,
		Supersample:         img.Supersample,
		ViewportWidth:       w,
		ViewportHeight:      h,
	}
}

func (s *Session) updateAutoFocusSetup() error {
	in, err := s.settings.AutoFocus.Input()
	if err != nil {
		return fmt.Errorf("session: autofocus setup: %w", err)
	}
	s.afInput = in
	return nil
}

func (s *Session) updateAutoFocusData(w, h int) {
	f := autofocus.Focuser{Scene: s.engine, Camera: s.cam}
	if s.settings.AutoFocus.Mode == autofocus.ManualPosition {
		f.UpdatePoint(s.afInput, s.manualFocus, w, h, &s.afData)
		return
	}
	f.UpdateGrid(s.afInput, w, h, &s.afData)
}

func (s *Session) updateText() {
	img := s.settings.Image
	s.imageText = fmt.Sprintf("Type: %s\nFormat: %s\nResolution: %s", img.PhotoType, img.Format, img.Resolution)

	minDistance := "-"
	if s.afData.IsTargetInRange() {
		minDistance = fmt.Sprintf("%.2f", s.afData.MinDistance)
	}
	s.autoFocusText = fmt.Sprintf("Auto Focus: %s\nMax Ray Length: %.2f\nMin Distance: %s",
		s.settings.AutoFocus.Mode, s.afData.MaxRayLength, minDistance)
}

// loadGuides rebuilds the guide list from the built-in guides and the
// configured image files. Unreadable files are skipped.
func (s *Session) loadGuides() {
	list := overlay.BuiltinGuides()
	for _, path := range s.settings.Guides.Files {
		g, err := overlay.LoadGuide(path)
		if err != nil {
			s.log.Warn("composition guide skipped", "path", path, "error", err)
			continue
		}
		list = append(list, g)
	}
	s.guides = overlay.Guides{List: list, Index: s.settings.Guides.Index}
	s.guideFiles = slices.Clone(s.settings.Guides.Files)
	s.checkGuide()
}

func (s *Session) checkGuide() {
	if _, _, err := s.guides.Current(); err != nil {
		s.log.Error("composition guide", "error", err)
	}
}

func (s *Session) applyPending() error {
	s.mu.Lock()
	next := s.pending
	s.pending = nil
	s.mu.Unlock()
	if next == nil {
		return nil
	}

	s.settings = *next
	if s.capture.Dir != s.settings.OutputDir {
		if err := capture.SetupDir(s.settings.OutputDir); err != nil {
			s.log.Warn("screenshot directory", "path", s.settings.OutputDir, "error", err)
		}
		s.capture.Dir = s.settings.OutputDir
	}
	s.afOverlay.Visible = s.settings.AutoFocus.OverlayVisible
	if !slices.Equal(s.guideFiles, s.settings.Guides.Files) {
		index := s.guides.Index
		s.loadGuides()
		s.guides.Index = index
	}
	return s.updateAutoFocusSetup()
}
