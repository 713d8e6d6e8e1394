package apitype

import (
	"errors"
	"fmt"
	"image"
	"math"
)

var ErrInvalidGeometry = errors.New("invalid geometry")

// FitRect is the top-left anchored rectangle, in canvas coordinates,
// into which a source image is drawn.
type FitRect struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
}

// FitToCanvas calculates the largest rectangle with the image's aspect ratio
// that fits inside the canvas. The rectangle is centered on the axis it
// doesn't fill.
func FitToCanvas(canvasWidth, canvasHeight, imageWidth, imageHeight float64) (FitRect, error) {
	if err := validateDimension("canvas width", canvasWidth); err != nil {
		return FitRect{}, err
	}
	if err := validateDimension("canvas height", canvasHeight); err != nil {
		return FitRect{}, err
	}
	if err := validateDimension("image width", imageWidth); err != nil {
		return FitRect{}, err
	}
	if err := validateDimension("image height", imageHeight); err != nil {
		return FitRect{}, err
	}

	aspectRatio := imageWidth / imageHeight
	if aspectRatio <= 0 || math.IsInf(aspectRatio, 0) {
		return FitRect{}, fmt.Errorf("%w: aspect ratio %v of %vx%v image", ErrInvalidGeometry, aspectRatio, imageWidth, imageHeight)
	}

	// Vertical images fill the height, others the width. If the chosen
	// axis would push the other one out of the canvas, fit the other axis.
	fitHeight := aspectRatio < 1
	if fitHeight && canvasHeight*aspectRatio > canvasWidth {
		fitHeight = false
	} else if !fitHeight && canvasWidth/aspectRatio > canvasHeight {
		fitHeight = true
	}

	var rect FitRect
	if fitHeight {
		width := canvasHeight * aspectRatio
		rect = FitRect{
			Width:  width,
			Height: canvasHeight,
			StartX: (canvasWidth - width) / 2,
			StartY: 0,
		}
	} else {
		height := canvasWidth / aspectRatio
		rect = FitRect{
			Width:  canvasWidth,
			Height: height,
			StartX: 0,
			StartY: (canvasHeight - height) / 2,
		}
	}
	if err := validateDimension("fitted width", rect.Width); err != nil {
		return FitRect{}, err
	}
	if err := validateDimension("fitted height", rect.Height); err != nil {
		return FitRect{}, err
	}
	return rect, nil
}

func validateDimension(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidGeometry, name, value)
	}
	return nil
}

// Pixels rounds the rectangle to the pixel grid
func (s FitRect) Pixels() image.Rectangle {
	x0 := int(math.Round(s.StartX))
	y0 := int(math.Round(s.StartY))
	x1 := int(math.Round(s.StartX + s.Width))
	y1 := int(math.Round(s.StartY + s.Height))
	return image.Rect(x0, y0, x1, y1)
}

func (s FitRect) String() string {
	return fmt.Sprintf("FitRect{%.2fx%.2f @ %.2f,%.2f}", s.Width, s.Height, s.StartX, s.StartY)
}
