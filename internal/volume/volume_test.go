package volume

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamSetMarksOverride(t *testing.T) {
	var p Param[float64]
	p.Set(3)
	assert.Equal(t, Param[float64]{Value: 3, Override: true}, p)
}

func TestInactiveVolumeHasNoFocus(t *testing.T) {
	v := &Volume{HDRP: NewHDRPDepthOfField()}
	v.HDRP.Active = true
	v.HDRP.FocusMode.Set(HDRPManual)
	assert.Nil(t, v.Focus())

	v.Active = true
	assert.NotNil(t, v.Focus())

	var nilVolume *Volume
	assert.Nil(t, nilVolume.Focus())
}

func TestURPFocusOnlyForBokeh(t *testing.T) {
	e := NewURPDepthOfField()
	e.Active = true
	assert.Nil(t, e.Focus())
	e.Mode.Set(URPGaussian)
	assert.Nil(t, e.Focus())
	e.Mode.Set(URPBokeh)
	assert.IsType(t, LensFocus{}, e.Focus())
}

func TestRangeFocus(t *testing.T) {
	f := RangeFocus{NearStart: 0, NearEnd: 2, FarStart: 4, FarEnd: 8}
	maxR := 1000 * MaxBlurFraction

	assert.InDelta(t, 0, f.Radius(3, 1000), 1e-9)
	assert.InDelta(t, maxR/2, f.Radius(1, 1000), 1e-9)
	assert.InDelta(t, maxR/2, f.Radius(6, 1000), 1e-9)
	assert.InDelta(t, maxR, f.Radius(100, 1000), 1e-9)
	assert.InDelta(t, maxR, f.Radius(math.Inf(1), 1000), 1e-9)
}

func TestLensFocusSharpAtFocusDistance(t *testing.T) {
	f := LensFocus{Distance: 5, FocalLength: 50, Aperture: 2.8}
	assert.InDelta(t, 0, f.Radius(5, 1080), 1e-9)
	assert.Greater(t, f.Radius(20, 1080), f.Radius(8, 1080))
	assert.Greater(t, f.Radius(1, 1080), 0.0)
	assert.LessOrEqual(t, f.Radius(0.1, 1080), 1080*MaxBlurFraction)

	// Wider aperture blurs more.
	wide := LensFocus{Distance: 5, FocalLength: 50, Aperture: 1.4}
	assert.Greater(t, wide.Radius(8, 1080), f.Radius(8, 1080))
}

func TestModeStrings(t *testing.T) {
	assert.Equal(t, "Manual", HDRPManual.String())
	assert.Equal(t, "Bokeh", URPBokeh.String())
	assert.Equal(t, "URPMode(9)", URPMode(9).String())
}
