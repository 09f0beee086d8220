// Package dof drives depth-of-field volumes from autofocus data, one
// strategy per render pipeline. Each strategy snapshots the effect on
// enable and restores it verbatim on disable.
package dof

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"photo-session/internal/module"
	"photo-session/internal/volume"
)

// ErrUnsupportedMode is returned when an effect is left in a focus mode the
// strategy cannot map.
var ErrUnsupportedMode = errors.New("dof: unsupported mode")

// Pipeline names a render pipeline back end.
type Pipeline int

const (
	HDRP Pipeline = iota
	URP
	Legacy
)

var pipelineNames = []string{HDRP: "hdrp", URP: "urp", Legacy: "legacy"}

func (p Pipeline) String() string {
	if p < 0 || int(p) >= len(pipelineNames) {
		return fmt.Sprintf("Pipeline(%d)", int(p))
	}
	return pipelineNames[p]
}

func (p Pipeline) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(pipelineNames) {
		return nil, fmt.Errorf("dof: unknown pipeline %d", int(p))
	}
	return []byte(pipelineNames[p]), nil
}

func (p *Pipeline) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	for i, n := range pipelineNames {
		if strings.EqualFold(s, n) {
			*p = Pipeline(i)
			return nil
		}
	}
	return fmt.Errorf("dof: unknown pipeline %q", s)
}

// Settings holds the configuration of every pipeline's strategy.
type Settings struct {
	HDRP   HDRPSettings
	URP    URPSettings
	Legacy LegacySettings
}

// New returns the strategy for pipeline p.
func New(p Pipeline, s Settings) (module.Module, error) {
	switch p {
	case HDRP:
		return &HDRPModule{Settings: s.HDRP}, nil
	case URP:
		return &URPModule{Settings: s.URP}, nil
	case Legacy:
		return &LegacyModule{Settings: s.Legacy}, nil
	}
	return nil, fmt.Errorf("dof: unknown pipeline %d", int(p))
}

// NewVolume returns an inactive volume holding p's effect with pipeline
// defaults.
func NewVolume(name string, p Pipeline) *volume.Volume {
	v := &volume.Volume{Name: name}
	switch p {
	case HDRP:
		v.HDRP = volume.NewHDRPDepthOfField()
	case URP:
		v.URP = volume.NewURPDepthOfField()
	case Legacy:
		v.Legacy = volume.NewLegacyDepthOfField()
	}
	return v
}

// snapshot is the effect state captured on enable.
type snapshot[E any] struct {
	volumeActive bool
	effect       E
}

// tracker pairs captures with restores.
type tracker[E any] struct {
	saved *snapshot[E]
}

// capture copies the volume flag and every effect field. A second capture
// before restore is refused.
func (t *tracker[E]) capture(log *slog.Logger, v *volume.Volume, e *E) {
	if v == nil || e == nil {
		return
	}
	if t.saved != nil {
		if log == nil {
			log = slog.Default()
		}
		log.Error("dof: effect state already captured, ignoring nested enable", "volume", v.Name)
		return
	}
	t.saved = &snapshot[E]{volumeActive: v.Active, effect: *e}
}

// restore writes the captured state back. No-op without a capture.
func (t *tracker[E]) restore(v *volume.Volume, e *E) {
	if t.saved == nil || v == nil || e == nil {
		return
	}
	v.Active = t.saved.volumeActive
	*e = t.saved.effect
	t.saved = nil
}

func hostLogger(h module.Host) *slog.Logger {
	if h != nil && h.Logger() != nil {
		return h.Logger()
	}
	return slog.Default()
}
