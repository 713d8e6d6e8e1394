package api

import (
	"image"
	"image/color"
	"io"

	"golang.org/x/image/font"
	"vincit.fi/meme-generator/api/apitype"
)

type TextMetrics struct {
	Width   float64
	Height  float64
	Ascent  float64
	Descent float64
}

// Surface is the fixed size drawing target of the generator
type Surface interface {
	Size() apitype.Size
	Clear()
	Fill(c color.Color)
	DrawImage(img image.Image, rect apitype.FitRect) error
	MeasureText(face font.Face, text string) TextMetrics
	FillText(face font.Face, text string, x float64, y float64, c color.Color)
	StrokeText(face font.Face, text string, x float64, y float64, c color.Color, width float64)
	Snapshot() *image.RGBA
	// Restore puts back a frame taken with Snapshot
	Restore(frame *image.RGBA) error
	EncodePNG(writer io.Writer) error
	EncodeJPEG(writer io.Writer, quality int) error
}

type CaptionRenderer interface {
	Render(surface Surface, top string, bottom string) error
}
