package input

import "github.com/go-gl/mathgl/mgl64"

// Shortcuts binds the configurable photo session keys. Movement keys are
// fixed: WASD or arrows, Q down, E up, Shift fast.
type Shortcuts struct {
	Toggle      Key `toml:"toggle" json:"toggle"`
	Guide       Key `toml:"guide" json:"guide"`
	AutoFocus   Key `toml:"auto_focus" json:"autoFocus"`
	ManualFocus Key `toml:"manual_focus" json:"manualFocus"`
}

// DefaultShortcuts returns F12, G, F and M.
func DefaultShortcuts() Shortcuts {
	return Shortcuts{Toggle: KeyF12, Guide: "G", AutoFocus: "F", ManualFocus: "M"}
}

func (sc Shortcuts) IsTogglePhotoSession(s *State) bool { return s.KeyDown(sc.Toggle) }
func (sc Shortcuts) IsGuide(s *State) bool              { return s.KeyDown(sc.Guide) }
func (sc Shortcuts) IsAutoFocus(s *State) bool          { return s.KeyDown(sc.AutoFocus) }

// IsManualFocus is level triggered: true while the key is held.
func (sc Shortcuts) IsManualFocus(s *State) bool { return s.Key(sc.ManualFocus) }

func (Shortcuts) IsMoveFast(s *State) bool    { return s.Key(KeyShift) }
func (Shortcuts) IsMoveLeft(s *State) bool    { return s.Key("A") || s.Key(KeyLeft) }
func (Shortcuts) IsMoveRight(s *State) bool   { return s.Key("D") || s.Key(KeyRight) }
func (Shortcuts) IsMoveForward(s *State) bool { return s.Key("W") || s.Key(KeyUp) }
func (Shortcuts) IsMoveBack(s *State) bool    { return s.Key("S") || s.Key(KeyDown) }
func (Shortcuts) IsMoveDown(s *State) bool    { return s.Key("Q") }
func (Shortcuts) IsMoveUp(s *State) bool      { return s.Key("E") }

func (Shortcuts) IsMouseLeftDown(s *State) bool     { return s.MouseButtonDown(MouseLeft) }
func (Shortcuts) IsMouseRightDown(s *State) bool    { return s.MouseButtonDown(MouseRight) }
func (Shortcuts) IsMouseRightUp(s *State) bool      { return s.MouseButtonUp(MouseRight) }
func (Shortcuts) IsMouseRightPressed(s *State) bool { return s.MouseButton(MouseRight) }

func (Shortcuts) MouseAxis(s *State) mgl64.Vec2      { return s.MouseDelta }
func (Shortcuts) MouseWheel(s *State) float64        { return s.Wheel }
func (Shortcuts) MousePosition(s *State) mgl64.Vec2  { return s.Pointer }
