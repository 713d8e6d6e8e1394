package surface

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

type Scaler interface {
	Scale(img image.Image, width int, height int) image.Image
	Name() string
}

const (
	ImagingScaler = "imaging"
	NfntScaler    = "nfnt"
	XDrawScaler   = "xdraw"
)

func NewScaler(name string) (Scaler, error) {
	switch name {
	case "", ImagingScaler:
		return &imagingScaler{}, nil
	case NfntScaler:
		return &nfntScaler{}, nil
	case XDrawScaler:
		return &xDrawScaler{}, nil
	}
	return nil, fmt.Errorf("unknown resampler '%s'", name)
}

type imagingScaler struct{}

func (s *imagingScaler) Scale(img image.Image, width int, height int) image.Image {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

func (s *imagingScaler) Name() string {
	return ImagingScaler
}

type nfntScaler struct{}

func (s *nfntScaler) Scale(img image.Image, width int, height int) image.Image {
	return resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
}

func (s *nfntScaler) Name() string {
	return NfntScaler
}

type xDrawScaler struct{}

func (s *xDrawScaler) Scale(img image.Image, width int, height int) image.Image {
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return scaled
}

func (s *xDrawScaler) Name() string {
	return XDrawScaler
}
