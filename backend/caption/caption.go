package caption

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"vincit.fi/meme-generator/api"
	"vincit.fi/meme-generator/api/apitype"
	"vincit.fi/meme-generator/common/logger"
)

const (
	fontDpi       = 72
	faceCacheSize = 16
	fontSizeStep  = 0.5
)

var ErrFont = errors.New("font error")

type Renderer struct {
	font     *opentype.Font
	faces    *lru.Cache[float64, font.Face]
	settings apitype.Settings

	api.CaptionRenderer
}

func NewRenderer(settings apitype.Settings) (*Renderer, error) {
	parsed, err := loadFont(settings.FontPath)
	if err != nil {
		return nil, err
	}
	faces, err := lru.NewWithEvict[float64, font.Face](faceCacheSize, func(size float64, face font.Face) {
		logger.Trace.Printf("Evicting %.1fpt font face", size)
		_ = face.Close()
	})
	if err != nil {
		return nil, err
	}
	return &Renderer{
		font:     parsed,
		faces:    faces,
		settings: settings,
	}, nil
}

func loadFont(path string) (*opentype.Font, error) {
	data := gobold.TTF
	if path != "" {
		logger.Info.Printf("Loading caption font '%s'", path)
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrFont, err)
		}
		data = fileData
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFont, err)
	}
	return parsed, nil
}

// Render draws the captions in upper case, top caption below the top edge
// and bottom caption above the bottom edge, both centered horizontally.
// The outline is drawn first so the fill stays on top of it.
func (s *Renderer) Render(surface api.Surface, top string, bottom string) error {
	size := surface.Size()
	canvasWidth := float64(size.GetWidth())
	canvasHeight := float64(size.GetHeight())

	if text := strings.ToUpper(top); text != "" {
		face, metrics, err := s.fitFace(surface, text, canvasWidth)
		if err != nil {
			return err
		}
		x := (canvasWidth - metrics.Width) / 2
		y := s.settings.TextOffset + metrics.Ascent
		s.draw(surface, face, text, x, y)
	}
	if text := strings.ToUpper(bottom); text != "" {
		face, metrics, err := s.fitFace(surface, text, canvasWidth)
		if err != nil {
			return err
		}
		x := (canvasWidth - metrics.Width) / 2
		y := canvasHeight - s.settings.TextOffset - metrics.Descent
		s.draw(surface, face, text, x, y)
	}
	return nil
}

func (s *Renderer) draw(surface api.Surface, face font.Face, text string, x float64, y float64) {
	logger.Trace.Printf("Drawing caption '%s' at %.1f,%.1f", text, x, y)
	surface.StrokeText(face, text, x, y, s.settings.TextStroke, s.settings.StrokeWidth)
	surface.FillText(face, text, x, y, s.settings.TextFill)
}

// fitFace returns the face of the configured size or, if the text doesn't
// fit the width, the largest smaller face that does. The minimum font size
// is used even when the text is still too wide.
func (s *Renderer) fitFace(surface api.Surface, text string, maxWidth float64) (font.Face, api.TextMetrics, error) {
	fontSize := s.settings.FontSize
	for {
		face, err := s.face(fontSize)
		if err != nil {
			return nil, api.TextMetrics{}, err
		}
		metrics := surface.MeasureText(face, text)
		if metrics.Width <= maxWidth || fontSize <= s.settings.MinFontSize {
			return face, metrics, nil
		}

		next := math.Floor(fontSize*maxWidth/metrics.Width/fontSizeStep) * fontSizeStep
		if next >= fontSize {
			next = fontSize - fontSizeStep
		}
		fontSize = math.Max(next, s.settings.MinFontSize)
		logger.Trace.Printf("Caption too wide (%.1f > %.1f), trying %.1fpt", metrics.Width, maxWidth, fontSize)
	}
}

func (s *Renderer) face(fontSize float64) (font.Face, error) {
	if face, ok := s.faces.Get(fontSize); ok {
		return face, nil
	}
	face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
		Size:    fontSize,
		DPI:     fontDpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFont, err)
	}
	s.faces.Add(fontSize, face)
	return face, nil
}
