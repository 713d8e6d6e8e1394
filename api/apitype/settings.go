package apitype

import (
	"errors"
	"fmt"
	"image/color"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the rendering and volume policy of the generator
type Settings struct {
	Canvas        Size
	Background    color.RGBA
	FontPath      string
	FontSize      float64
	MinFontSize   float64
	TextOffset    float64
	StrokeWidth   float64
	TextFill      color.RGBA
	TextStroke    color.RGBA
	VolumeBands   VolumeBands
	DefaultVolume int
}

func DefaultSettings() Settings {
	return Settings{
		Canvas:        SizeOf(400, 400),
		Background:    color.RGBA{R: 0, G: 0, B: 0, A: 255},
		FontSize:      50,
		MinFontSize:   12,
		TextOffset:    10,
		StrokeWidth:   2,
		TextFill:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
		TextStroke:    color.RGBA{R: 0, G: 0, B: 0, A: 255},
		VolumeBands:   DefaultVolumeBands(),
		DefaultVolume: 100,
	}
}

func (s Settings) Validate() error {
	if !s.Canvas.IsValid() {
		return fmt.Errorf("%w: canvas size %s", ErrInvalidSettings, s.Canvas)
	}
	if s.FontSize <= 0 || s.MinFontSize <= 0 || s.MinFontSize > s.FontSize {
		return fmt.Errorf("%w: font size %.1f, min font size %.1f", ErrInvalidSettings, s.FontSize, s.MinFontSize)
	}
	if s.TextOffset < 0 || s.StrokeWidth < 0 {
		return fmt.Errorf("%w: text offset %.1f, stroke width %.1f", ErrInvalidSettings, s.TextOffset, s.StrokeWidth)
	}
	if _, err := VolumeFraction(s.DefaultVolume); err != nil {
		return fmt.Errorf("%w: default volume: %s", ErrInvalidSettings, err)
	}
	if err := s.VolumeBands.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, err)
	}
	return nil
}
