package raster

import (
	"image"
	"sync"
)

// Pool recycles temporary framebuffers by size and tracks how many are
// checked out.
type Pool struct {
	mu   sync.Mutex
	free map[image.Point][]*FrameBuffer
	live int
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{free: make(map[image.Point][]*FrameBuffer)}
}

// GetTemporary returns a w×h framebuffer, reusing a released one when possible.
func (p *Pool) GetTemporary(w, h int) *FrameBuffer {
	key := image.Pt(w, h)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.live++
	if list := p.free[key]; len(list) > 0 {
		fb := list[len(list)-1]
		p.free[key] = list[:len(list)-1]
		return fb
	}
	return NewFrameBuffer(w, h)
}

// ReleaseTemporary returns fb to the pool. Releasing nil is a no-op.
func (p *Pool) ReleaseTemporary(fb *FrameBuffer) {
	if fb == nil {
		return
	}
	key := image.Pt(fb.Width, fb.Height)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.live--
	p.free[key] = append(p.free[key], fb)
}

// Live reports the number of temporaries currently checked out.
func (p *Pool) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}
