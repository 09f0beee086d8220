package dof

import (
	"fmt"
	"log/slog"

	"photo-session/internal/module"
	"photo-session/internal/volume"
)

// HDRPSettings configures the manual near/far strategy.
type HDRPSettings struct {
	FeatureEnabled bool
	Volume         *volume.Volume

	// MaxFocusDistance is informational; focus comes from autofocus data.
	MaxFocusDistance float64

	// Offsets added to the hit distance. FarFocusEndOffset is added to the far focus start.
	NearFocusEndOffset  float64
	FarFocusStartOffset float64
	FarFocusEndOffset   float64

	// FocusMode is applied while a target is found. Defaults to Manual.
	FocusMode volume.HDRPFocusMode
}

// DefaultHDRPSettings returns the stock offsets with the feature off.
func DefaultHDRPSettings() HDRPSettings {
	return HDRPSettings{
		MaxFocusDistance:    10,
		NearFocusEndOffset:  -0.5,
		FarFocusStartOffset: 1,
		FarFocusEndOffset:   10,
		FocusMode:           volume.HDRPManual,
	}
}

// HDRPModule maps the focus distance to near/far focus ranges.
type HDRPModule struct {
	Settings HDRPSettings

	host   module.Host
	log    *slog.Logger
	volume *volume.Volume
	effect *volume.HDRPDepthOfField
	active bool
	state  tracker[volume.HDRPDepthOfField]
}

func (m *HDRPModule) Start(h module.Host) error {
	m.host = h
	m.log = hostLogger(h)
	if !m.Settings.FeatureEnabled {
		return nil
	}
	if m.Settings.Volume == nil || m.Settings.Volume.HDRP == nil {
		m.log.Info("DepthOfField enabled, but volume undefined", "pipeline", HDRP)
		return nil
	}
	m.volume = m.Settings.Volume
	m.effect = m.volume.HDRP
	m.active = true
	return nil
}

func (m *HDRPModule) OnEnable() {
	m.state.capture(m.log, m.volume, m.effect)
	if m.active {
		m.volume.Active = true
		m.effect.Active = true
	}
}

func (m *HDRPModule) OnDisable() {
	m.state.restore(m.volume, m.effect)
}

func (m *HDRPModule) Update() error {
	if !m.active {
		return nil
	}
	data := m.host.AutoFocus()

	if data.HasTarget {
		m.effect.FocusMode.Set(m.Settings.FocusMode)
	} else {
		m.effect.FocusMode.Set(volume.HDRPOff)
	}

	d := data.MinDistance
	switch mode := m.effect.FocusMode.Value; mode {
	case volume.HDRPOff:
	case volume.HDRPUsePhysicalCamera:
		m.effect.FocusDistance.Set(d)
	case volume.HDRPManual:
		m.effect.NearFocusStart.Set(0)
		m.effect.NearFocusEnd.Set(d + m.Settings.NearFocusEndOffset)
		m.effect.FarFocusStart.Set(d + m.Settings.FarFocusStartOffset)
		m.effect.FarFocusEnd.Set(m.effect.FarFocusStart.Value + m.Settings.FarFocusEndOffset)
	default:
		return fmt.Errorf("%w: hdrp %s", ErrUnsupportedMode, mode)
	}
	return nil
}
