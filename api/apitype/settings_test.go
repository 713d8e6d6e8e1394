package apitype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettings_Validate(t *testing.T) {
	a := assert.New(t)

	a.Nil(DefaultSettings().Validate())

	tests := []struct {
		name   string
		modify func(s *Settings)
	}{
		{"Empty canvas", func(s *Settings) { s.Canvas = SizeOf(0, 400) }},
		{"Zero font size", func(s *Settings) { s.FontSize = 0 }},
		{"Min font size above font size", func(s *Settings) { s.MinFontSize = 60 }},
		{"Negative text offset", func(s *Settings) { s.TextOffset = -1 }},
		{"Negative stroke", func(s *Settings) { s.StrokeWidth = -1 }},
		{"Default volume out of range", func(s *Settings) { s.DefaultVolume = 101 }},
		{"Broken bands", func(s *Settings) { s.VolumeBands = VolumeBands{Low: 50, Medium: 40, High: 60} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.modify(&settings)
			a.ErrorIs(settings.Validate(), ErrInvalidSettings)
		})
	}
}
