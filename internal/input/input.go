// Package input turns front-end key and mouse events into per-tick input
// states and maps them to photo session shortcuts.
package input

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Key names a keyboard key, e.g. "F12", "G", "Left", "Shift".
type Key string

// Normalize upper-cases single letters and canonicalizes names.
func (k Key) Normalize() Key {
	s := strings.TrimSpace(string(k))
	if len(s) == 1 {
		return Key(strings.ToUpper(s))
	}
	if s == "" {
		return ""
	}
	return Key(strings.ToUpper(s[:1]) + strings.ToLower(s[1:]))
}

const (
	KeyF12   Key = "F12"
	KeyShift Key = "Shift"
	KeyUp    Key = "Up"
	KeyDown  Key = "Down"
	KeyLeft  Key = "Left"
	KeyRight Key = "Right"
)

// MouseButton indexes mouse buttons.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle

	mouseButtons
)

// State is one tick of input. Down and Up are edges within the tick; Held
// is the level at the end of it.
type State struct {
	down map[Key]bool
	held map[Key]bool
	up   map[Key]bool

	mouseDown [mouseButtons]bool
	mouseHeld [mouseButtons]bool
	mouseUp   [mouseButtons]bool

	// MouseDelta is the pointer movement this tick in axis units.
	MouseDelta mgl64.Vec2
	// Wheel is the scroll this tick, positive away from the user.
	Wheel float64
	// Pointer is the pointer position in pixels, origin bottom-left.
	Pointer mgl64.Vec2
}

func (s *State) KeyDown(k Key) bool { return s.down[k.Normalize()] }
func (s *State) Key(k Key) bool     { return s.held[k.Normalize()] }
func (s *State) KeyUp(k Key) bool   { return s.up[k.Normalize()] }

func (s *State) MouseButtonDown(b MouseButton) bool { return s.mouseDown[b] }
func (s *State) MouseButton(b MouseButton) bool     { return s.mouseHeld[b] }
func (s *State) MouseButtonUp(b MouseButton) bool   { return s.mouseUp[b] }

// Recorder accumulates events between ticks.
type Recorder struct {
	cur State
}

// NewRecorder returns a recorder with nothing held.
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.reset(nil)
	return r
}

func (r *Recorder) reset(held map[Key]bool) {
	if held == nil {
		held = make(map[Key]bool)
	}
	r.cur.down = make(map[Key]bool)
	r.cur.up = make(map[Key]bool)
	r.cur.held = held
	r.cur.mouseDown = [mouseButtons]bool{}
	r.cur.mouseUp = [mouseButtons]bool{}
	r.cur.MouseDelta = mgl64.Vec2{}
	r.cur.Wheel = 0
}

// Press records a key going down. Repeats of a held key are not new edges.
func (r *Recorder) Press(k Key) {
	k = k.Normalize()
	if !r.cur.held[k] {
		r.cur.down[k] = true
	}
	r.cur.held[k] = true
}

// Release records a key going up.
func (r *Recorder) Release(k Key) {
	k = k.Normalize()
	if r.cur.held[k] {
		r.cur.up[k] = true
	}
	delete(r.cur.held, k)
}

// ReleaseAll releases every held key.
func (r *Recorder) ReleaseAll() {
	for k := range r.cur.held {
		r.Release(k)
	}
}

// MousePress records a button going down.
func (r *Recorder) MousePress(b MouseButton) {
	if !r.cur.mouseHeld[b] {
		r.cur.mouseDown[b] = true
	}
	r.cur.mouseHeld[b] = true
}

// MouseRelease records a button going up.
func (r *Recorder) MouseRelease(b MouseButton) {
	if r.cur.mouseHeld[b] {
		r.cur.mouseUp[b] = true
	}
	r.cur.mouseHeld[b] = false
}

// Move records the pointer at p and accumulates delta.
func (r *Recorder) Move(p, delta mgl64.Vec2) {
	r.cur.Pointer = p
	r.cur.MouseDelta = r.cur.MouseDelta.Add(delta)
}

// Scroll accumulates wheel movement.
func (r *Recorder) Scroll(d float64) {
	r.cur.Wheel += d
}

// Held reports whether k is currently held.
func (r *Recorder) Held(k Key) bool {
	return r.cur.held[k.Normalize()]
}

// Next returns the state for the tick just finished and starts a new one.
// Held keys and buttons carry over.
func (r *Recorder) Next() State {
	s := r.cur
	held := make(map[Key]bool, len(s.held))
	for k, v := range s.held {
		held[k] = v
	}
	mouseHeld := s.mouseHeld
	pointer := s.Pointer
	r.reset(held)
	r.cur.mouseHeld = mouseHeld
	r.cur.Pointer = pointer
	return s
}
