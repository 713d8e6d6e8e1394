package imageloader

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	"vincit.fi/meme-generator/common/logger"
)

const exifUnchangedOrientation = 1

type ExifData struct {
	orientation int
}

func NewExifData(orientation int) *ExifData {
	if orientation < 1 || orientation > 8 {
		orientation = exifUnchangedOrientation
	}
	return &ExifData{orientation: orientation}
}

// LoadExifData reads the orientation of a JPEG. Missing or broken Exif
// data is treated as an upright image.
func LoadExifData(data []byte) *ExifData {
	decodedExif, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Trace.Printf("No Exif data: %s", err)
		return NewExifData(exifUnchangedOrientation)
	}
	tag, err := decodedExif.Get(exif.Orientation)
	if err != nil {
		return NewExifData(exifUnchangedOrientation)
	}
	orientation, err := tag.Int(0)
	if err != nil {
		logger.Debug.Printf("Invalid Exif orientation: %s", err)
		return NewExifData(exifUnchangedOrientation)
	}
	return NewExifData(orientation)
}

func (s *ExifData) GetExifOrientation() int {
	return s.orientation
}

func (s *ExifData) Apply(img image.Image) image.Image {
	switch s.orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}
