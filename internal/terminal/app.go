package terminal

import (
	"context"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"photo-session/internal/render"
	"photo-session/internal/session"
)

// FrameInterval is the target frame time (~30 FPS).
const FrameInterval = 33 * time.Millisecond

var (
	hudStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	statusStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Background(tcell.ColorBlack)
)

// App runs a photo session on a terminal screen.
type App struct {
	Screen  tcell.Screen
	Session *session.Session
	Engine  *render.Engine
	Input   *Input
}

// NewApp wires a session to an initialized screen.
func NewApp(screen tcell.Screen, sess *session.Session, engine *render.Engine) *App {
	screen.EnableMouse()
	_, rows := screen.Size()
	return &App{
		Screen:  screen,
		Session: sess,
		Engine:  engine,
		Input:   NewInput(rows),
	}
}

// Viewport returns the render size for the current screen: one pixel
// column per cell and two pixel rows per cell.
func (a *App) Viewport() (w, h int) {
	cols, rows := a.Screen.Size()
	return cols, rows * 2
}

// Step runs one frame at now: session tick, render, HUD, end of frame.
func (a *App) Step(now time.Time) error {
	_, rows := a.Screen.Size()
	a.Input.Resize(rows)
	a.Input.Expire(now)
	st := a.Input.Next()

	w, h := a.Viewport()
	if err := a.Session.Update(&st, w, h); err != nil {
		return err
	}

	a.Screen.Clear()
	if fb := a.Engine.Frame(a.Session.Camera(), w, h); fb != nil {
		Draw(a.Screen, a.Session.Compose(fb.Image()))
	}
	a.drawHUD()

	a.Session.EndOfFrame()
	a.Screen.Show()
	return nil
}

func (a *App) drawHUD() {
	cols, rows := a.Screen.Size()
	if a.Session.Mode() != session.Photo {
		DrawText(a.Screen, 0, rows-1, "F12 photo mode  Esc quit", statusStyle)
		return
	}
	if a.Session.Canvas().Visible() {
		DrawText(a.Screen, 0, 0, a.Session.ImageSettingsText(), hudStyle)
		af := a.Session.AutoFocusText()
		DrawText(a.Screen, cols-TextWidth(af), 0, af, hudStyle)
	}
	status := "photo mode  right drag look  WASD/QE move  click capture"
	if last := a.Session.Capture().Last(); last.Err != nil {
		status = "capture failed: " + last.Err.Error()
	} else if last.Path != "" {
		status = "saved " + filepath.Base(last.Path)
	}
	DrawText(a.Screen, 0, rows-1, status, statusStyle)
}

// Run polls events and steps frames until ctx is done, the user quits or
// a tick fails.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.Screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			if _, ok := ev.(*tcell.EventResize); ok {
				a.Screen.Sync()
			}
			if !a.Input.HandleEvent(ev, time.Now()) {
				return nil
			}
		case now := <-ticker.C:
			if err := a.Step(now); err != nil {
				return err
			}
		}
	}
}
