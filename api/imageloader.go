package api

import (
	"image"
	"io"
)

type ImageLoader interface {
	LoadImage(reader io.Reader, name string) (image.Image, error)
}
