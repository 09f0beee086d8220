// Package module defines the plug-in contract for per-session features
// such as depth of field and the autofocus overlay.
package module

import (
	"log/slog"

	"photo-session/internal/autofocus"
)

// Host is the session as seen by a module.
type Host interface {
	// AutoFocus returns the current tick's focus snapshot. Modules must not modify it.
	AutoFocus() *autofocus.Data
	Logger() *slog.Logger
}

// Module is a feature driven by the session tick. Start runs once. OnEnable
// and OnDisable bracket each photo mode, and Update runs every tick while
// enabled.
type Module interface {
	Start(h Host) error
	OnEnable()
	OnDisable()
	Update() error
}

// List runs modules in registration order.
type List []Module

// Start starts every module, stopping at the first error.
func (l List) Start(h Host) error {
	for _, m := range l {
		if err := m.Start(h); err != nil {
			return err
		}
	}
	return nil
}

func (l List) OnEnable() {
	for _, m := range l {
		m.OnEnable()
	}
}

func (l List) OnDisable() {
	for _, m := range l {
		m.OnDisable()
	}
}

// Update updates every module, stopping at the first error.
func (l List) Update() error {
	for _, m := range l {
		if err := m.Update(); err != nil {
			return err
		}
	}
	return nil
}
