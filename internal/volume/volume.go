// Package volume models post-process volumes: a switchable container holding
// per-pipeline depth-of-field effect bags whose parameters carry an override flag.
package volume

// Param is a tunable effect value. Override marks the value as set by this
// volume rather than inherited from defaults.
type Param[T any] struct {
	Value    T
	Override bool
}

// Set assigns v and marks the parameter overridden.
func (p *Param[T]) Set(v T) {
	p.Value = v
	p.Override = true
}

// Volume is a post-process container. Inactive volumes contribute nothing.
// At most one effect per pipeline is present.
type Volume struct {
	Name   string
	Active bool

	HDRP   *HDRPDepthOfField
	URP    *URPDepthOfField
	Legacy *LegacyDepthOfField
}

// Focus returns the blur model of the first active effect, or nil when the
// volume or every effect it holds is inactive.
func (v *Volume) Focus() Focus {
	if v == nil || !v.Active {
		return nil
	}
	if v.HDRP != nil {
		if f := v.HDRP.Focus(); f != nil {
			return f
		}
	}
	if v.URP != nil {
		if f := v.URP.Focus(); f != nil {
			return f
		}
	}
	if v.Legacy != nil {
		if f := v.Legacy.Focus(); f != nil {
			return f
		}
	}
	return nil
}
