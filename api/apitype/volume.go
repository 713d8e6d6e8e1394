package apitype

import (
	"errors"
	"fmt"
)

const (
	VolumeSliderMin = 0
	VolumeSliderMax = 100
)

var (
	ErrInvalidVolume      = errors.New("invalid volume")
	ErrInvalidVolumeBands = errors.New("invalid volume bands")
)

type VolumeLevel int

const (
	VolumeMuted VolumeLevel = iota
	VolumeLow
	VolumeMedium
	VolumeHigh
)

func (s VolumeLevel) String() string {
	switch s {
	case VolumeMuted:
		return "muted"
	case VolumeLow:
		return "low"
	case VolumeMedium:
		return "medium"
	case VolumeHigh:
		return "high"
	}
	return "unknown"
}

func (s VolumeLevel) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// VolumeBands holds the lowest slider value of each audible level.
// Anything below Low is muted.
type VolumeBands struct {
	Low    int `mapstructure:"low"`
	Medium int `mapstructure:"medium"`
	High   int `mapstructure:"high"`
}

func DefaultVolumeBands() VolumeBands {
	return VolumeBands{Low: 1, Medium: 34, High: 67}
}

func (s VolumeBands) Validate() error {
	if s.Low < VolumeSliderMin+1 || s.High > VolumeSliderMax {
		return fmt.Errorf("%w: bands must be within %d..%d, got %+v", ErrInvalidVolumeBands, VolumeSliderMin+1, VolumeSliderMax, s)
	}
	if !(s.Low < s.Medium && s.Medium < s.High) {
		return fmt.Errorf("%w: bands must be strictly increasing, got %+v", ErrInvalidVolumeBands, s)
	}
	return nil
}

func (s VolumeBands) LevelOf(slider int) VolumeLevel {
	slider = clampSlider(slider)
	switch {
	case slider >= s.High:
		return VolumeHigh
	case slider >= s.Medium:
		return VolumeMedium
	case slider >= s.Low:
		return VolumeLow
	default:
		return VolumeMuted
	}
}

// VolumeFraction maps the slider position to the 0.0-1.0 range used by
// the speech service
func VolumeFraction(slider int) (float64, error) {
	if slider < VolumeSliderMin || slider > VolumeSliderMax {
		return 0, fmt.Errorf("%w: slider value %d not in %d..%d", ErrInvalidVolume, slider, VolumeSliderMin, VolumeSliderMax)
	}
	return float64(slider) / VolumeSliderMax, nil
}

func clampSlider(slider int) int {
	if slider < VolumeSliderMin {
		return VolumeSliderMin
	}
	if slider > VolumeSliderMax {
		return VolumeSliderMax
	}
	return slider
}
