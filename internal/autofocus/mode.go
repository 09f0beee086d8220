package autofocus

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned for a Mode outside the defined set.
var ErrUnknownMode = errors.New("autofocus: unknown mode")

// Mode selects the ray pattern.
type Mode int

const (
	Off Mode = iota
	Center
	Auto4x3
	Auto16x9
	ManualPosition

	modeCount
)

var modeNames = [modeCount]string{
	Off:            "Off",
	Center:         "Center",
	Auto4x3:        "Multiple 4 x 3",
	Auto16x9:       "Multiple 16 x 9",
	ManualPosition: "Manual Position",
}

var modeKeys = [modeCount]string{
	Off:            "off",
	Center:         "center",
	Auto4x3:        "4x3",
	Auto16x9:       "16x9",
	ManualPosition: "manual",
}

// Rays returns the grid ray counts for the mode. Off yields (-1, -1), which
// the grid turns into no samples when bounds are skipped. ManualPosition
// casts one ray.
func (m Mode) Rays() (x, y int, err error) {
	switch m {
	case Off:
		return -1, -1, nil
	case Center, ManualPosition:
		return 1, 1, nil
	case Auto4x3:
		return 4, 3, nil
	case Auto16x9:
		return 16, 9, nil
	}
	return 0, 0, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
}

// Next returns the following mode, wrapping after the last.
func (m Mode) Next() Mode {
	n := m + 1
	if n < 0 || n >= modeCount {
		return Off
	}
	return n
}

// String returns the display name.
func (m Mode) String() string {
	if m < 0 || m >= modeCount {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// MarshalText encodes the mode as its settings key.
func (m Mode) MarshalText() ([]byte, error) {
	if m < 0 || m >= modeCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return []byte(modeKeys[m]), nil
}

// UnmarshalText accepts a settings key or display name, case-insensitive.
func (m *Mode) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	for i := range modeCount {
		if strings.EqualFold(s, modeKeys[i]) || strings.EqualFold(s, modeNames[i]) {
			*m = i
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
