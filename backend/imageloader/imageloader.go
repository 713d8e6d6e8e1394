package imageloader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/png"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/pixiv/go-libjpeg/jpeg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"vincit.fi/meme-generator/api"
	"vincit.fi/meme-generator/api/apitype"
	"vincit.fi/meme-generator/common/logger"
)

var (
	ErrNoImage          = errors.New("no image selected")
	ErrImageTooLarge    = errors.New("image too large")
	ErrUnsupportedImage = errors.New("unsupported image")

	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	options   = &jpeg.DecoderOptions{}
)

type LibJPEGImageLoader struct {
	maxBytes int64

	api.ImageLoader
}

func NewImageLoader(maxBytes int64) api.ImageLoader {
	return &LibJPEGImageLoader{
		maxBytes: maxBytes,
	}
}

// LoadImage decodes the user selected file. JPEGs are decoded with libjpeg
// and turned upright according to their Exif orientation, other formats go
// through the standard decoders.
func (s *LibJPEGImageLoader) LoadImage(reader io.Reader, name string) (image.Image, error) {
	if reader == nil {
		return nil, ErrNoImage
	}
	data, err := s.readAll(reader)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoImage
	}

	startTime := time.Now()
	var decoded image.Image
	if bytes.HasPrefix(data, jpegMagic) {
		decoded, err = decodeJpeg(data)
	} else {
		decoded, err = imaging.Decode(bytes.NewReader(data))
	}
	if err != nil {
		logger.Warn.Printf("Could not decode '%s': %s", name, err)
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, err)
	}

	size := apitype.SizeFromRectangle(decoded.Bounds())
	if !size.IsValid() {
		return nil, fmt.Errorf("%w: empty image %s", ErrUnsupportedImage, size)
	}
	logger.Debug.Printf("'%s' (%s) decoded in %s", name, size, time.Since(startTime))
	return ConvertToRgba(decoded), nil
}

func (s *LibJPEGImageLoader) readAll(reader io.Reader) ([]byte, error) {
	if s.maxBytes <= 0 {
		return io.ReadAll(reader)
	}
	data, err := io.ReadAll(io.LimitReader(reader, s.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, s.maxBytes)
	}
	return data, nil
}

func decodeJpeg(data []byte) (image.Image, error) {
	imageFile, err := jpeg.Decode(bytes.NewReader(data), options)
	if err != nil {
		return nil, err
	}
	exifData := LoadExifData(data)
	return exifData.Apply(imageFile), nil
}

// ConvertToRgba returns the image as RGBA which is what the surface draws
func ConvertToRgba(i image.Image) *image.RGBA {
	switch n := i.(type) {
	case *image.RGBA:
		return n
	case *image.NRGBA:
		return convertNrgbaToRgba(n)
	}
	bounds := i.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), i, bounds.Min, draw.Src)
	return rgba
}

func convertNrgbaToRgba(n *image.NRGBA) *image.RGBA {
	bounds := n.Rect
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			pix := n.NRGBAAt(bounds.Min.X+x, bounds.Min.Y+y)
			r, g, b, a := pix.RGBA()
			rgba.SetRGBA(x, y, color.RGBA{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}
	return rgba
}
