package dof

import (
	"log/slog"

	"photo-session/internal/module"
	"photo-session/internal/volume"
)

// LegacySettings configures the bokeh strategy without a mode switch.
type LegacySettings struct {
	FeatureEnabled bool
	Volume         *volume.Volume

	MaxFocusDistance    float64
	FocusDistanceOffset float64
	FocalLength         float64 // millimeters
	Aperture            float64 // f-number
}

// DefaultLegacySettings returns a 50mm f/5.6 bokeh with the feature off.
func DefaultLegacySettings() LegacySettings {
	return LegacySettings{
		MaxFocusDistance: 10,
		FocalLength:      50,
		Aperture:         5.6,
	}
}

// LegacyModule toggles the effect on target and drives its focus distance.
type LegacyModule struct {
	Settings LegacySettings

	host   module.Host
	log    *slog.Logger
	volume *volume.Volume
	effect *volume.LegacyDepthOfField
	active bool
	state  tracker[volume.LegacyDepthOfField]
}

func (m *LegacyModule) Start(h module.Host) error {
	m.host = h
	m.log = hostLogger(h)
	if !m.Settings.FeatureEnabled {
		return nil
	}
	if m.Settings.Volume == nil || m.Settings.Volume.Legacy == nil {
		m.log.Info("DepthOfField enabled, but volume undefined", "pipeline", Legacy)
		return nil
	}
	m.volume = m.Settings.Volume
	m.effect = m.volume.Legacy
	m.active = true
	return nil
}

func (m *LegacyModule) OnEnable() {
	m.state.capture(m.log, m.volume, m.effect)
	if m.active {
		m.volume.Active = true
		m.effect.Active = true
	}
}

func (m *LegacyModule) OnDisable() {
	m.state.restore(m.volume, m.effect)
}

func (m *LegacyModule) Update() error {
	if !m.active {
		return nil
	}
	data := m.host.AutoFocus()

	m.effect.Active = data.HasTarget
	m.effect.FocusDistance.Set(data.MinDistance + m.Settings.FocusDistanceOffset)
	m.effect.FocalLength.Set(m.Settings.FocalLength)
	m.effect.Aperture.Set(m.Settings.Aperture)
	return nil
}
