package volume

import (
	"fmt"
	"strings"
)

// HDRPFocusMode selects how the HDRP effect derives its focus.
type HDRPFocusMode int

const (
	HDRPOff HDRPFocusMode = iota
	HDRPUsePhysicalCamera
	HDRPManual
)

func (m HDRPFocusMode) String() string {
	switch m {
	case HDRPOff:
		return "Off"
	case HDRPUsePhysicalCamera:
		return "UsePhysicalCamera"
	case HDRPManual:
		return "Manual"
	}
	return fmt.Sprintf("HDRPFocusMode(%d)", int(m))
}

func (m HDRPFocusMode) MarshalText() ([]byte, error) {
	if m < HDRPOff || m > HDRPManual {
		return nil, fmt.Errorf("volume: unknown HDRP focus mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *HDRPFocusMode) UnmarshalText(text []byte) error {
	for c := HDRPOff; c <= HDRPManual; c++ {
		if strings.EqualFold(c.String(), string(text)) {
			*m = c
			return nil
		}
	}
	return fmt.Errorf("volume: unknown HDRP focus mode %q", text)
}

// HDRPDepthOfField is the manual near/far range effect.
type HDRPDepthOfField struct {
	Active         bool
	FocusMode      Param[HDRPFocusMode]
	FocusDistance  Param[float64]
	NearFocusStart Param[float64]
	NearFocusEnd   Param[float64]
	FarFocusStart  Param[float64]
	FarFocusEnd    Param[float64]
}

// NewHDRPDepthOfField returns an inactive effect with pipeline defaults.
func NewHDRPDepthOfField() *HDRPDepthOfField {
	return &HDRPDepthOfField{
		FocusDistance:  Param[float64]{Value: 10},
		NearFocusEnd:   Param[float64]{Value: 4},
		FarFocusStart:  Param[float64]{Value: 10},
		FarFocusEnd:    Param[float64]{Value: 20},
		NearFocusStart: Param[float64]{Value: 0},
	}
}

// Focus returns the effect's blur model, nil when inactive or off.
func (e *HDRPDepthOfField) Focus() Focus {
	if !e.Active {
		return nil
	}
	switch e.FocusMode.Value {
	case HDRPManual:
		return RangeFocus{
			NearStart: e.NearFocusStart.Value,
			NearEnd:   e.NearFocusEnd.Value,
			FarStart:  e.FarFocusStart.Value,
			FarEnd:    e.FarFocusEnd.Value,
		}
	case HDRPUsePhysicalCamera:
		return LensFocus{
			Distance:    e.FocusDistance.Value,
			FocalLength: PhysicalFocalLength,
			Aperture:    PhysicalAperture,
		}
	}
	return nil
}

// URPMode selects the URP effect's algorithm.
type URPMode int

const (
	URPOff URPMode = iota
	URPGaussian
	URPBokeh
)

func (m URPMode) String() string {
	switch m {
	case URPOff:
		return "Off"
	case URPGaussian:
		return "Gaussian"
	case URPBokeh:
		return "Bokeh"
	}
	return fmt.Sprintf("URPMode(%d)", int(m))
}

func (m URPMode) MarshalText() ([]byte, error) {
	if m < URPOff || m > URPBokeh {
		return nil, fmt.Errorf("volume: unknown URP mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *URPMode) UnmarshalText(text []byte) error {
	for c := URPOff; c <= URPBokeh; c++ {
		if strings.EqualFold(c.String(), string(text)) {
			*m = c
			return nil
		}
	}
	return fmt.Errorf("volume: unknown URP mode %q", text)
}

// URPDepthOfField is the bokeh effect with an explicit mode switch.
type URPDepthOfField struct {
	Active        bool
	Mode          Param[URPMode]
	FocusDistance Param[float64]
	FocalLength   Param[float64]
	Aperture      Param[float64]
}

// NewURPDepthOfField returns an inactive effect with pipeline defaults.
func NewURPDepthOfField() *URPDepthOfField {
	return &URPDepthOfField{
		FocusDistance: Param[float64]{Value: 10},
		FocalLength:   Param[float64]{Value: 50},
		Aperture:      Param[float64]{Value: 5.6},
	}
}

// Focus returns the effect's blur model, nil when inactive or not bokeh.
func (e *URPDepthOfField) Focus() Focus {
	if !e.Active || e.Mode.Value != URPBokeh {
		return nil
	}
	return LensFocus{
		Distance:    e.FocusDistance.Value,
		FocalLength: e.FocalLength.Value,
		Aperture:    e.Aperture.Value,
	}
}

// LegacyDepthOfField is the bokeh effect toggled by its active flag alone.
type LegacyDepthOfField struct {
	Active        bool
	FocusDistance Param[float64]
	FocalLength   Param[float64]
	Aperture      Param[float64]
}

// NewLegacyDepthOfField returns an inactive effect with pipeline defaults.
func NewLegacyDepthOfField() *LegacyDepthOfField {
	return &LegacyDepthOfField{
		FocusDistance: Param[float64]{Value: 10},
		FocalLength:   Param[float64]{Value: 50},
		Aperture:      Param[float64]{Value: 5.6},
	}
}

// Focus returns the effect's blur model, nil when inactive.
func (e *LegacyDepthOfField) Focus() Focus {
	if !e.Active {
		return nil
	}
	return LensFocus{
		Distance:    e.FocusDistance.Value,
		FocalLength: e.FocalLength.Value,
		Aperture:    e.Aperture.Value,
	}
}
