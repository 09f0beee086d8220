// Package render drives the rasterizer for cameras: per-frame screen
// rendering, off-screen targets, depth-of-field volumes and cubemaps.
package render

import (
	"photo-session/internal/camera"
	"photo-session/internal/postprocess"
	"photo-session/internal/raster"
	"photo-session/internal/scene"
	"photo-session/internal/texture"
	"photo-session/internal/volume"
)

// Engine renders one scene.
type Engine struct {
	Scene   *scene.Scene
	Raster  *raster.Renderer
	Pool    *raster.Pool
	Volumes []*volume.Volume

	screen *raster.FrameBuffer
}

// NewEngine returns an engine for s with the default light rig.
func NewEngine(s *scene.Scene, tex texture.Resolver) *Engine {
	return &Engine{
		Scene:  s,
		Raster: raster.NewRenderer(tex),
		Pool:   raster.NewPool(),
	}
}

// Focus returns the blur model of the first active volume, nil if none.
func (e *Engine) Focus() volume.Focus {
	for _, v := range e.Volumes {
		if f := v.Focus(); f != nil {
			return f
		}
	}
	return nil
}

// Render draws cam into fb and applies depth of field.
func (e *Engine) Render(cam *camera.Camera, fb *raster.FrameBuffer) {
	e.Raster.RenderScene(e.Scene, cam.View(), fb)
	postprocess.DepthOfField(fb, e.Focus())
}

// Frame performs cam's automatic per-frame render into its target, or into
// the w×h screen buffer when it has none. Disabled cameras draw nothing and
// Frame returns nil.
func (e *Engine) Frame(cam *camera.Camera, w, h int) *raster.FrameBuffer {
	if !cam.Enabled {
		return nil
	}
	fb := cam.Target
	if fb == nil {
		if e.screen == nil || e.screen.Width != w || e.screen.Height != h {
			e.screen = raster.NewFrameBuffer(w, h)
		}
		fb = e.screen
	}
	e.Render(cam, fb)
	return fb
}

// Screen returns the last screen buffer, nil before the first screen frame.
func (e *Engine) Screen() *raster.FrameBuffer {
	return e.screen
}

// Raycast is the scene's unbounded layer-masked raycast.
func (e *Engine) Raycast(r scene.Ray, mask scene.LayerMask) (scene.Hit, bool) {
	return e.Scene.Raycast(r, mask)
}
