// Package terminal is the interactive front end: it maps tcell key and
// mouse events to session input and previews frames as half-block cells.
package terminal

import (
	"fmt"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"photo-session/internal/input"
)

// KeyHold is how long a key counts as held after its last press or
// auto-repeat. Terminals report no key releases.
const KeyHold = 150 * time.Millisecond

// Input records tcell events into per-tick input states.
type Input struct {
	rec  *input.Recorder
	seen map[input.Key]time.Time

	rows      int
	mouse     [2]int
	haveMouse bool
	buttons   tcell.ButtonMask
}

// NewInput creates an input handler for a screen rows cells high.
func NewInput(rows int) *Input {
	return &Input{
		rec:  input.NewRecorder(),
		seen: make(map[input.Key]time.Time),
		rows: rows,
	}
}

// Resize updates the screen height used to map cells to pixels.
func (in *Input) Resize(rows int) {
	in.rows = rows
}

// HandleEvent processes a tcell event and returns false if the session should exit
func (in *Input) HandleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return in.handleKeyEvent(ev, now)
	case *tcell.EventMouse:
		in.handleMouseEvent(ev)
	case *tcell.EventResize:
		_, rows := ev.Size()
		in.Resize(rows)
	}
	return true
}

func (in *Input) handleKeyEvent(ev *tcell.EventKey, now time.Time) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return false
	}
	k, shift, ok := keyName(ev)
	if !ok {
		return true
	}
	in.press(k, now)
	if shift {
		in.press(input.KeyShift, now)
	}
	return true
}

// keyName maps an event to a session key name. Upper-case runes imply
// Shift.
func keyName(ev *tcell.EventKey) (k input.Key, shift bool, ok bool) {
	shift = ev.Modifiers()&tcell.ModShift != 0
	switch key := ev.Key(); {
	case key == tcell.KeyRune:
		r := ev.Rune()
		if unicode.IsUpper(r) {
			shift = true
		}
		return input.Key(string(unicode.ToUpper(r))), shift, true
	case key == tcell.KeyUp:
		return input.KeyUp, shift, true
	case key == tcell.KeyDown:
		return input.KeyDown, shift, true
	case key == tcell.KeyLeft:
		return input.KeyLeft, shift, true
	case key == tcell.KeyRight:
		return input.KeyRight, shift, true
	case key >= tcell.KeyF1 && key <= tcell.KeyF64:
		return input.Key(fmt.Sprintf("F%d", int(key-tcell.KeyF1)+1)), shift, true
	}
	return "", false, false
}

func (in *Input) press(k input.Key, now time.Time) {
	in.rec.Press(k)
	in.seen[k.Normalize()] = now
}

func (in *Input) handleMouseEvent(ev *tcell.EventMouse) {
	x, y := ev.Position()
	var delta mgl64.Vec2
	if in.haveMouse {
		// screen rows grow downward, look axes grow upward
		delta = mgl64.Vec2{float64(x - in.mouse[0]), float64(in.mouse[1] - y)}
	}
	in.mouse = [2]int{x, y}
	in.haveMouse = true
	in.rec.Move(in.pointer(x, y), delta)

	b := ev.Buttons()
	in.button(b, tcell.Button1, input.MouseLeft)
	in.button(b, tcell.Button2, input.MouseRight)
	in.button(b, tcell.Button3, input.MouseMiddle)
	in.buttons = b

	if b&tcell.WheelUp != 0 {
		in.rec.Scroll(1)
	}
	if b&tcell.WheelDown != 0 {
		in.rec.Scroll(-1)
	}
}

func (in *Input) button(now, mask tcell.ButtonMask, b input.MouseButton) {
	was := in.buttons&mask != 0
	is := now&mask != 0
	switch {
	case is && !was:
		in.rec.MousePress(b)
	case !is && was:
		in.rec.MouseRelease(b)
	}
}

// pointer maps a cell to the pixel at its center on the half-block
// viewport, origin bottom-left.
func (in *Input) pointer(x, y int) mgl64.Vec2 {
	h := in.rows * 2
	return mgl64.Vec2{float64(x) + 0.5, float64(h - 2*y - 1)}
}

// Expire releases keys not seen for KeyHold.
func (in *Input) Expire(now time.Time) {
	for k, t := range in.seen {
		if now.Sub(t) >= KeyHold {
			in.rec.Release(k)
			delete(in.seen, k)
		}
	}
}

// Next returns the state for the tick just finished.
func (in *Input) Next() input.State {
	return in.rec.Next()
}
