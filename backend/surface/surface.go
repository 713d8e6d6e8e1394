package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"vincit.fi/meme-generator/api"
	"vincit.fi/meme-generator/api/apitype"
	"vincit.fi/meme-generator/common/logger"
)

// Surface is an in-memory canvas of fixed size. It is not safe for
// concurrent use; the generator serializes access.
type Surface struct {
	size   apitype.Size
	canvas *image.RGBA
	scaler Scaler

	api.Surface
}

func NewSurface(size apitype.Size, scaler Scaler) (*Surface, error) {
	if !size.IsValid() {
		return nil, fmt.Errorf("%w: surface size %s", apitype.ErrInvalidGeometry, size)
	}
	logger.Debug.Printf("Initialize %s surface with '%s' resampler", size, scaler.Name())
	return &Surface{
		size:   size,
		canvas: image.NewRGBA(image.Rect(0, 0, size.GetWidth(), size.GetHeight())),
		scaler: scaler,
	}, nil
}

func (s *Surface) Size() apitype.Size {
	return s.size
}

func (s *Surface) Clear() {
	draw.Draw(s.canvas, s.canvas.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (s *Surface) Fill(c color.Color) {
	draw.Draw(s.canvas, s.canvas.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// DrawImage scales the image to the rectangle and draws it over the canvas
func (s *Surface) DrawImage(img image.Image, rect apitype.FitRect) error {
	target := rect.Pixels()
	if target.Dx() <= 0 || target.Dy() <= 0 {
		// Extremely thin images still get one row or column of pixels
		target = image.Rect(target.Min.X, target.Min.Y,
			target.Min.X+maxInt(target.Dx(), 1), target.Min.Y+maxInt(target.Dy(), 1))
	}
	target = target.Intersect(s.canvas.Bounds())
	if target.Empty() {
		return fmt.Errorf("%w: %s outside of surface %s", apitype.ErrInvalidGeometry, rect, s.size)
	}

	scaled := s.scaler.Scale(img, target.Dx(), target.Dy())
	draw.Draw(s.canvas, target, scaled, scaled.Bounds().Min, draw.Over)
	logger.Trace.Printf("Drew image into %s", target)
	return nil
}

func (s *Surface) MeasureText(face font.Face, text string) api.TextMetrics {
	metrics := face.Metrics()
	ascent := toFloat(metrics.Ascent)
	descent := toFloat(metrics.Descent)
	return api.TextMetrics{
		Width:   toFloat(font.MeasureString(face, text)),
		Height:  ascent + descent,
		Ascent:  ascent,
		Descent: descent,
	}
}

// FillText draws the text with its baseline starting at x, y
func (s *Surface) FillText(face font.Face, text string, x float64, y float64, c color.Color) {
	s.drawText(face, text, x, y, c)
}

// StrokeText outlines the glyphs by drawing them around a circle with the
// given radius
func (s *Surface) StrokeText(face font.Face, text string, x float64, y float64, c color.Color, width float64) {
	if width <= 0 {
		return
	}
	steps := maxInt(8, int(math.Ceil(2*math.Pi*width)))
	for i := 0; i < steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		s.drawText(face, text, x+width*math.Cos(angle), y+width*math.Sin(angle), c)
	}
}

func (s *Surface) drawText(face font.Face, text string, x float64, y float64, c color.Color) {
	drawer := &font.Drawer{
		Dst:  s.canvas,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(y)},
	}
	drawer.DrawString(text)
}

func (s *Surface) Snapshot() *image.RGBA {
	snapshot := image.NewRGBA(s.canvas.Bounds())
	copy(snapshot.Pix, s.canvas.Pix)
	return snapshot
}

func (s *Surface) Restore(frame *image.RGBA) error {
	if frame == nil || !frame.Bounds().Eq(s.canvas.Bounds()) {
		return fmt.Errorf("%w: frame does not match the %s surface", apitype.ErrInvalidGeometry, s.size)
	}
	draw.Draw(s.canvas, s.canvas.Bounds(), frame, frame.Bounds().Min, draw.Src)
	return nil
}

func (s *Surface) EncodePNG(writer io.Writer) error {
	return png.Encode(writer, s.canvas)
}

func (s *Surface) EncodeJPEG(writer io.Writer, quality int) error {
	return jpeg.Encode(writer, s.canvas, &jpeg.Options{Quality: quality})
}

func toFloat(value fixed.Int26_6) float64 {
	return float64(value) / 64
}

func toFixed(value float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(value * 64))
}

func maxInt(a int, b int) int {
	if a > b {
		return a
	}
	return b
}
