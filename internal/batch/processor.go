// Package batch renders a scene's named viewpoints headlessly with a worker
// pool. Every worker runs its own autofocus pass and depth-of-field
// strategy, so shots are focused like interactive captures.
package batch

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"photo-session/internal/autofocus"
	"photo-session/internal/camera"
	"photo-session/internal/capture"
	"photo-session/internal/clock"
	"photo-session/internal/config"
	"photo-session/internal/dof"
	"photo-session/internal/module"
	"photo-session/internal/render"
	"photo-session/internal/scene"
	"photo-session/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Scene       *scene.Scene
	TexResolver texture.Resolver
	Settings    config.Settings
	OutputDir   string
	Width       int
	Height      int
	Workers     int
	Time        clock.TimeProvider
	Logger      *slog.Logger

	// Progress receives a status line every two seconds when set.
	Progress io.Writer
}

// Result holds the outcome of rendering one shot.
type Result struct {
	Shot    scene.Viewpoint
	Path    string
	Focus   float64 // nearest focus distance, autofocus.NoHit without target
	Success bool
	Error   string
}

// Run renders all shots using a worker pool. Results keep the order of
// shots.
func Run(cfg Config, shots []scene.Viewpoint) []Result {
	if cfg.Time == nil {
		cfg.Time = clock.NewMonotonicTimeProvider()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	workers := max(cfg.Workers, 1)

	total := len(shots)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						elapsed := time.Since(start).Seconds()
						rate := float64(p) / elapsed
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f shots/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	// Worker pool
	shotChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wk, err := newWorker(cfg)
			for idx := range shotChan {
				if err != nil {
					results[idx] = Result{Shot: shots[idx], Focus: autofocus.NoHit, Error: err.Error()}
				} else {
					results[idx] = wk.process(shots[idx])
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range shots {
		shotChan <- i
	}
	close(shotChan)

	wg.Wait()
	close(done)

	return results
}

// worker owns an engine, a volume and a depth-of-field strategy. The
// scene and texture resolver are shared read-only.
type worker struct {
	cfg      Config
	engine   *render.Engine
	pipeline *capture.Pipeline
	dof      module.Module
	input    autofocus.Input
	data     autofocus.Data
}

func newWorker(cfg Config) (*worker, error) {
	d := cfg.Settings.DepthOfField
	e := render.NewEngine(cfg.Scene, cfg.TexResolver)
	v := dof.NewVolume(d.Volume, d.Pipeline)
	e.Volumes = append(e.Volumes, v)

	m, err := dof.New(d.Pipeline, d.Strategy(v))
	if err != nil {
		return nil, err
	}
	in, err := cfg.Settings.AutoFocus.Input()
	if err != nil {
		return nil, err
	}
	w := &worker{
		cfg:      cfg,
		engine:   e,
		pipeline: capture.New(e, cfg.OutputDir, cfg.Time, cfg.Logger),
		dof:      m,
		input:    in,
	}
	if err := m.Start(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *worker) AutoFocus() *autofocus.Data { return &w.data }
func (w *worker) Logger() *slog.Logger       { return w.cfg.Logger }

func (w *worker) process(shot scene.Viewpoint) Result {
	cam := camera.FromViewpoint(shot)
	img := w.cfg.Settings.Image

	f := autofocus.Focuser{Scene: w.engine, Camera: cam}
	f.UpdateGrid(w.input, w.cfg.Width, w.cfg.Height, &w.data)

	w.dof.OnEnable()
	defer w.dof.OnDisable()
	if err := w.dof.Update(); err != nil {
		return Result{Shot: shot, Focus: w.data.MinDistance, Error: err.Error()}
	}

	req := capture.Request{
		Camera:              cam,
		Scene:               fmt.Sprintf("%s - %s", w.cfg.Scene.Name, shot.Name),
		Type:                img.PhotoType,
		Format:              img.Format,
		Resolution:          img.Resolution,
		AspectRatio:         img.AspectRatio,
		FieldOfViewOverride: img.FieldOfViewOverride,
		FieldOfView:         img.FieldOfView,
		Supersample:         img.Supersample,
		ViewportWidth:       w.cfg.Width,
		ViewportHeight:      w.cfg.Height,
	}
	path, err := w.pipeline.Capture(req)
	if err != nil {
		return Result{Shot: shot, Focus: w.data.MinDistance, Error: err.Error()}
	}
	rel, err := filepath.Rel(w.cfg.OutputDir, path)
	if err != nil {
		rel = path
	}
	return Result{Shot: shot, Path: rel, Focus: w.data.MinDistance, Success: true}
}
