package dof

import (
	"fmt"
	"log/slog"

	"photo-session/internal/module"
	"photo-session/internal/volume"
)

// URPSettings configures the bokeh strategy with a mode switch.
type URPSettings struct {
	FeatureEnabled bool
	Volume         *volume.Volume

	MaxFocusDistance    float64
	FocusDistanceOffset float64
	FocalLength         float64 // millimeters
	Aperture            float64 // f-number

	// Mode is applied while a target is found. Only Bokeh is supported.
	Mode volume.URPMode
}

// DefaultURPSettings returns a 50mm f/5.6 bokeh with the feature off.
func DefaultURPSettings() URPSettings {
	return URPSettings{
		MaxFocusDistance: 10,
		FocalLength:      50,
		Aperture:         5.6,
		Mode:             volume.URPBokeh,
	}
}

// URPModule maps the focus distance to a bokeh focus distance.
type URPModule struct {
	Settings URPSettings

	host   module.Host
	log    *slog.Logger
	volume *volume.Volume
	effect *volume.URPDepthOfField
	active bool
	state  tracker[volume.URPDepthOfField]
}

func (m *URPModule) Start(h module.Host) error {
	m.host = h
	m.log = hostLogger(h)
	if !m.Settings.FeatureEnabled {
		return nil
	}
	if m.Settings.Volume == nil || m.Settings.Volume.URP == nil {
		m.log.Info("DepthOfField enabled, but volume undefined", "pipeline", URP)
		return nil
	}
	m.volume = m.Settings.Volume
	m.effect = m.volume.URP
	m.active = true
	return nil
}

func (m *URPModule) OnEnable() {
	m.state.capture(m.log, m.volume, m.effect)
	if m.active {
		m.volume.Active = true
		m.effect.Active = true
	}
}

func (m *URPModule) OnDisable() {
	m.state.restore(m.volume, m.effect)
}

func (m *URPModule) Update() error {
	if !m.active {
		return nil
	}
	data := m.host.AutoFocus()

	if data.HasTarget {
		m.effect.Mode.Set(m.Settings.Mode)
	} else {
		m.effect.Mode.Set(volume.URPOff)
	}

	switch mode := m.effect.Mode.Value; mode {
	case volume.URPOff:
	case volume.URPBokeh:
		m.effect.FocusDistance.Set(data.MinDistance + m.Settings.FocusDistanceOffset)
		m.effect.FocalLength.Set(m.Settings.FocalLength)
		m.effect.Aperture.Set(m.Settings.Aperture)
	default:
		return fmt.Errorf("%w: urp %s", ErrUnsupportedMode, mode)
	}
	return nil
}
