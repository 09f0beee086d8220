package capture

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"photo-session/internal/camera"
	"photo-session/internal/clock"
	"photo-session/internal/mathutil"
	"photo-session/internal/postprocess"
	"photo-session/internal/render"
)

// State is the capture state machine position.
type State int

const (
	Idle State = iota
	SuppressOverlay
	WaitFrameEnd
	Render
	Write
	RestoreOverlay
)

var stateNames = []string{"Idle", "SuppressOverlay", "WaitFrameEnd", "Render", "Write", "RestoreOverlay"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Flash is the camera flash fade played after a capture.
type Flash interface {
	Stop()
	Start()
}

// Canvas is the photo mode HUD hidden while capturing.
type Canvas interface {
	Visible() bool
	SetVisible(bool)
}

// Request describes one screenshot.
type Request struct {
	Camera      *camera.Camera
	Scene       string
	Type        PhotoType
	Format      Format
	Resolution  Resolution
	AspectRatio AspectRatio

	FieldOfViewOverride bool
	FieldOfView         float64

	// Supersample renders flat captures at N times the size and
	// downsamples. Values below 2 disable it.
	Supersample int

	// Viewport replaces non-positive preset sizes.
	ViewportWidth, ViewportHeight int
}

// Size returns the output size of r.
func (r Request) Size() (width, height int, err error) {
	width, height, err = r.Resolution.Size(r.AspectRatio)
	if err != nil {
		return 0, 0, err
	}
	if width <= 0 || height <= 0 {
		width, height = r.ViewportWidth, r.ViewportHeight
	}
	return width, height, nil
}

func (r Request) validate() error {
	if r.Camera == nil {
		return fmt.Errorf("capture: no camera")
	}
	if _, _, err := r.Size(); err != nil {
		return err
	}
	if _, err := r.Format.Extension(); err != nil {
		return err
	}
	if r.Type != Flat && r.Type != Mono360 {
		return fmt.Errorf("%w: %d", ErrUnknownPhotoType, int(r.Type))
	}
	return nil
}

// Result is the outcome of the last finished capture.
type Result struct {
	Path string
	Err  error
}

// Pipeline runs frame-synchronized captures: Start hides the overlays,
// the following EndOfFrame renders, writes and restores them. It is
// driven from the main loop and is not safe for concurrent use, but
// Capture may be called from several goroutines.
type Pipeline struct {
	Engine *render.Engine
	Dir    string
	Time   clock.TimeProvider
	Logger *slog.Logger

	// Optional overlays.
	Flash  Flash
	Canvas Canvas

	state         State
	req           Request
	canvasVisible bool
	last          Result
}

// New returns an idle pipeline writing into dir.
func New(e *render.Engine, dir string, tp clock.TimeProvider, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{Engine: e, Dir: dir, Time: tp, Logger: logger}
}

// State returns the current state.
func (p *Pipeline) State() State { return p.state }

// Busy reports whether a capture is pending.
func (p *Pipeline) Busy() bool { return p.state != Idle }

// Last returns the last finished capture.
func (p *Pipeline) Last() Result { return p.last }

// LastError returns the last capture's error, nil on success.
func (p *Pipeline) LastError() error { return p.last.Err }

// Start begins a capture. Configuration errors are returned before any
// state changes; a pending capture yields ErrBusy.
func (p *Pipeline) Start(req Request) error {
	if p.state != Idle {
		return ErrBusy
	}
	if err := req.validate(); err != nil {
		return err
	}
	p.req = req
	p.state = SuppressOverlay
	if p.Flash != nil {
		p.Flash.Stop()
	}
	if p.Canvas != nil {
		p.canvasVisible = p.Canvas.Visible()
		p.Canvas.SetVisible(false)
	}
	p.state = WaitFrameEnd
	return nil
}

// EndOfFrame finishes a pending capture. It does nothing unless Start
// ran earlier in the frame. Failures are logged and kept in Last.
func (p *Pipeline) EndOfFrame() {
	if p.state != WaitFrameEnd {
		return
	}
	p.state = Render
	img, err := p.Render(p.req)
	var path string
	if err == nil {
		p.state = Write
		path, err = p.write(p.req, img)
	}
	p.state = RestoreOverlay
	p.restoreOverlay()
	p.finish(path, err)
}

// Cancel aborts a capture still waiting for the end of the frame.
func (p *Pipeline) Cancel() {
	if p.state != WaitFrameEnd {
		return
	}
	p.restoreOverlay()
	p.req = Request{}
	p.state = Idle
}

func (p *Pipeline) restoreOverlay() {
	if p.Canvas != nil {
		p.Canvas.SetVisible(p.canvasVisible)
	}
	if p.Flash != nil {
		p.Flash.Start()
	}
}

func (p *Pipeline) finish(path string, err error) {
	p.last = Result{Path: path, Err: err}
	p.req = Request{}
	p.state = Idle
	if err != nil {
		p.Logger.Error("screenshot capture failed", "error", err)
		return
	}
	p.Logger.Info("screenshot captured", "path", path)
}

// Capture renders and writes req immediately, bypassing the overlay
// handling, and returns the written path.
func (p *Pipeline) Capture(req Request) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}
	img, err := p.Render(req)
	if err != nil {
		return "", err
	}
	return p.write(req, img)
}

// Render renders req into a new image. The camera's target, enabled flag
// and field of view are restored and temporary targets released on every
// path, including panics in the renderer.
func (p *Pipeline) Render(req Request) (img *image.NRGBA, err error) {
	w, h, err := req.Size()
	if err != nil {
		return nil, err
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("capture: invalid size %dx%d", w, h)
	}
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("capture: render %s: %v", req.Type, r)
		}
	}()
	switch req.Type {
	case Flat:
		return p.renderFlat(req, w, h), nil
	case Mono360:
		return p.render360(req, w, h)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownPhotoType, int(req.Type))
}

func (p *Pipeline) renderFlat(req Request, w, h int) *image.NRGBA {
	cam := req.Camera
	prevTarget, prevEnabled, prevFOV := cam.Target, cam.Enabled, cam.FieldOfView

	ss := max(req.Supersample, 1)
	fb := p.Engine.Pool.GetTemporary(w*ss, h*ss)
	defer func() {
		p.Engine.Pool.ReleaseTemporary(fb)
		cam.Target, cam.Enabled, cam.FieldOfView = prevTarget, prevEnabled, prevFOV
	}()

	// The camera's own per-frame render must not run against the target.
	cam.Enabled = false
	if req.FieldOfViewOverride {
		cam.FieldOfView = req.FieldOfView
	}
	cam.Target = fb
	p.Engine.Render(cam, fb)

	img := fb.Image()
	if ss > 1 {
		img = postprocess.Downsample(img, w, h)
	}
	return img
}

func (p *Pipeline) render360(req Request, w, h int) (*image.NRGBA, error) {
	size := mathutil.NextPow2(max(w, h))
	cm, err := p.Engine.RenderCubemap(req.Camera, size)
	if err != nil {
		return nil, fmt.Errorf("capture: render %s: %w", req.Type, err)
	}
	defer cm.Release(p.Engine.Pool)
	return cm.Equirect(2*size, size), nil
}

func (p *Pipeline) write(req Request, img image.Image) (string, error) {
	name, err := Filename(req.Scene, p.Time.Now(), req.Format)
	if err != nil {
		return "", err
	}
	path := filepath.Join(p.Dir, name)
	if err := WriteFile(path, img, req.Format); err != nil {
		return "", err
	}
	return path, nil
}
