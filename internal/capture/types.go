// Package capture renders the photo camera off screen and writes
// screenshots, flat or as a 360° equirectangular panorama.
package capture

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownAspectRatio = errors.New("capture: unknown aspect ratio")
	ErrUnknownFormat      = errors.New("capture: unknown format")
	ErrUnknownResolution  = errors.New("capture: unknown resolution")
	ErrUnknownPhotoType   = errors.New("capture: unknown photo type")
	ErrBusy               = errors.New("capture: capture already in progress")
)

// PhotoType selects the projection.
type PhotoType int

const (
	Flat PhotoType = iota
	Mono360
)

var photoTypeNames = []string{"Flat", "Mono360"}

func (t PhotoType) String() string {
	if t < 0 || int(t) >= len(photoTypeNames) {
		return fmt.Sprintf("PhotoType(%d)", int(t))
	}
	return photoTypeNames[t]
}

func (t PhotoType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(photoTypeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPhotoType, int(t))
	}
	return []byte(strings.ToLower(photoTypeNames[t])), nil
}

func (t *PhotoType) UnmarshalText(text []byte) error {
	i, ok := lookup(photoTypeNames, string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPhotoType, text)
	}
	*t = PhotoType(i)
	return nil
}

// Format is the output encoding.
type Format int

const (
	PNG Format = iota
	JPG
	EXR
	TGA
	WebP
)

var formatNames = []string{"PNG", "JPG", "EXR", "TGA", "WebP"}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// Extension returns the file extension without the dot.
func (f Format) Extension() (string, error) {
	if f < 0 || int(f) >= len(formatNames) {
		return "", fmt.Errorf("%w: %d", ErrUnknownFormat, int(f))
	}
	return strings.ToLower(formatNames[f]), nil
}

func (f Format) MarshalText() ([]byte, error) {
	ext, err := f.Extension()
	return []byte(ext), err
}

func (f *Format) UnmarshalText(text []byte) error {
	s := string(text)
	if strings.EqualFold(s, "jpeg") {
		s = "jpg"
	}
	i, ok := lookup(formatNames, s)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, text)
	}
	*f = Format(i)
	return nil
}

// AspectRatio of the output image.
type AspectRatio int

const (
	AR16x9 AspectRatio = iota
	AR16x10
	AR21x9
	AR32x9
	AR4x3
	AR1x1
)

var aspectRatioNames = []string{"16:9", "16:10", "21:9", "32:9", "4:3", "1:1"}

// Ratio returns width over height.
func (a AspectRatio) Ratio() (float64, error) {
	switch a {
	case AR16x9:
		return 16.0 / 9.0, nil
	case AR16x10:
		return 16.0 / 10.0, nil
	case AR21x9:
		return 21.0 / 9.0, nil
	case AR32x9:
		return 32.0 / 9.0, nil
	case AR4x3:
		return 4.0 / 3.0, nil
	case AR1x1:
		return 1, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownAspectRatio, int(a))
}

func (a AspectRatio) String() string {
	if a < 0 || int(a) >= len(aspectRatioNames) {
		return fmt.Sprintf("AspectRatio(%d)", int(a))
	}
	return aspectRatioNames[a]
}

func (a AspectRatio) MarshalText() ([]byte, error) {
	if a < 0 || int(a) >= len(aspectRatioNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAspectRatio, int(a))
	}
	return []byte(aspectRatioNames[a]), nil
}

func (a *AspectRatio) UnmarshalText(text []byte) error {
	i, ok := lookup(aspectRatioNames, string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAspectRatio, text)
	}
	*a = AspectRatio(i)
	return nil
}

// Resolution is a named output height preset.
type Resolution int

const (
	Game Resolution = iota
	Res1080p
	Res4K
	Res5K
	Res8K
	Res10K
	Res12K
	Res16K
)

var resolutionPresets = []struct {
	name          string
	width, height int
}{
	Game:     {"Game", -1, -1},
	Res1080p: {"1080p", 120 * 16, 120 * 9},
	Res4K:    {"4K", 120 * 16 * 2, 120 * 9 * 2},
	Res5K:    {"5K", 320 * 16, 320 * 9},
	Res8K:    {"8K", 120 * 16 * 4, 120 * 9 * 4},
	Res10K:   {"10K", 120 * 16 * 5, 120 * 9 * 5},
	Res12K:   {"12K", 120 * 16 * 6, 120 * 9 * 6},
	Res16K:   {"16K", 120 * 16 * 8, 120 * 9 * 8},
}

func (r Resolution) String() string {
	if r < 0 || int(r) >= len(resolutionPresets) {
		return fmt.Sprintf("Resolution(%d)", int(r))
	}
	p := resolutionPresets[r]
	if r == Game {
		return "Game Screen"
	}
	return fmt.Sprintf("%s (%d x %d)", p.name, p.width, p.height)
}

// Size returns the preset's pixel size for aspect ratio a. The width is
// the ratio times the preset height, so Game yields non-positive sizes
// that callers replace with the viewport.
func (r Resolution) Size(a AspectRatio) (width, height int, err error) {
	if r < 0 || int(r) >= len(resolutionPresets) {
		return 0, 0, fmt.Errorf("%w: %d", ErrUnknownResolution, int(r))
	}
	ratio, err := a.Ratio()
	if err != nil {
		return 0, 0, err
	}
	height = resolutionPresets[r].height
	return int(ratio * float64(height)), height, nil
}

func (r Resolution) MarshalText() ([]byte, error) {
	if r < 0 || int(r) >= len(resolutionPresets) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownResolution, int(r))
	}
	return []byte(strings.ToLower(resolutionPresets[r].name)), nil
}

func (r *Resolution) UnmarshalText(text []byte) error {
	for i, p := range resolutionPresets {
		if strings.EqualFold(p.name, string(text)) {
			*r = Resolution(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownResolution, text)
}

func lookup(names []string, s string) (int, bool) {
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, true
		}
	}
	return 0, false
}
