package caption

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vincit.fi/meme-generator/api/apitype"
	"vincit.fi/meme-generator/backend/surface"
)

var black = color.RGBA{A: 255}

func newTestSurface(t *testing.T) *surface.Surface {
	scaler, err := surface.NewScaler(surface.ImagingScaler)
	require.NoError(t, err)
	s, err := surface.NewSurface(apitype.SizeOf(400, 400), scaler)
	require.NoError(t, err)
	s.Fill(black)
	return s
}

func newTestRenderer(t *testing.T) *Renderer {
	renderer, err := NewRenderer(apitype.DefaultSettings())
	require.NoError(t, err)
	return renderer
}

// nonBlackBounds returns the bounding box of all pixels that differ from
// the background inside the area
func nonBlackBounds(img *image.RGBA, area image.Rectangle) image.Rectangle {
	bounds := image.Rectangle{}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			if img.RGBAAt(x, y) != black {
				bounds = bounds.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return bounds
}

func TestRenderer_Render(t *testing.T) {
	a := assert.New(t)
	renderer := newTestRenderer(t)
	s := newTestSurface(t)

	a.Nil(renderer.Render(s, "top", "bottom"))

	snapshot := s.Snapshot()
	topBounds := nonBlackBounds(snapshot, image.Rect(0, 0, 400, 100))
	bottomBounds := nonBlackBounds(snapshot, image.Rect(0, 300, 400, 400))
	middleBounds := nonBlackBounds(snapshot, image.Rect(0, 100, 400, 300))

	a.False(topBounds.Empty())
	a.False(bottomBounds.Empty())
	a.True(middleBounds.Empty())

	// Centered horizontally
	a.InDelta(200, (topBounds.Min.X+topBounds.Max.X)/2, 6)
	a.InDelta(200, (bottomBounds.Min.X+bottomBounds.Max.X)/2, 6)

	// Anchored to the edges
	a.LessOrEqual(topBounds.Min.Y, 30)
	a.GreaterOrEqual(bottomBounds.Max.Y, 370)

	// Filled with the light colour
	whiteFound := false
	for y := topBounds.Min.Y; y < topBounds.Max.Y && !whiteFound; y++ {
		for x := topBounds.Min.X; x < topBounds.Max.X; x++ {
			if snapshot.RGBAAt(x, y) == (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
				whiteFound = true
				break
			}
		}
	}
	a.True(whiteFound)
}

func TestRenderer_Render_Uppercase(t *testing.T) {
	a := assert.New(t)
	renderer := newTestRenderer(t)
	lower := newTestSurface(t)
	upper := newTestSurface(t)

	a.Nil(renderer.Render(lower, "such wow", "much meme"))
	a.Nil(renderer.Render(upper, "SUCH WOW", "MUCH MEME"))

	a.Equal(upper.Snapshot().Pix, lower.Snapshot().Pix)
}

func TestRenderer_Render_Empty(t *testing.T) {
	a := assert.New(t)
	renderer := newTestRenderer(t)
	s := newTestSurface(t)

	a.Nil(renderer.Render(s, "", ""))

	a.True(nonBlackBounds(s.Snapshot(), image.Rect(0, 0, 400, 400)).Empty())
}

func TestRenderer_Render_OnlyBottom(t *testing.T) {
	a := assert.New(t)
	renderer := newTestRenderer(t)
	s := newTestSurface(t)

	a.Nil(renderer.Render(s, "", "bottom only"))

	snapshot := s.Snapshot()
	a.True(nonBlackBounds(snapshot, image.Rect(0, 0, 400, 200)).Empty())
	a.False(nonBlackBounds(snapshot, image.Rect(0, 200, 400, 400)).Empty())
}

func TestRenderer_FitFace(t *testing.T) {
	a := assert.New(t)
	renderer := newTestRenderer(t)
	s := newTestSurface(t)

	t.Run("Short text uses configured size", func(t *testing.T) {
		face, metrics, err := renderer.fitFace(s, "OK", 400)
		a.Nil(err)
		a.NotNil(face)
		a.Less(metrics.Width, 400.0)

		expected, _ := renderer.face(50)
		a.Equal(expected, face)
	})
	t.Run("Long text is shrunk to fit", func(t *testing.T) {
		text := "ONE DOES NOT SIMPLY WALK INTO MORDOR"
		face, metrics, err := renderer.fitFace(s, text, 400)
		a.Nil(err)
		a.NotNil(face)
		a.LessOrEqual(metrics.Width, 400.0)

		full, _ := renderer.face(50)
		a.Greater(s.MeasureText(full, text).Width, 400.0)
	})
	t.Run("Minimum size is used when nothing fits", func(t *testing.T) {
		_, metrics, err := renderer.fitFace(s, "WWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWWW", 400)
		a.Nil(err)
		minimum, _ := renderer.face(12)
		a.Equal(s.MeasureText(minimum, "W").Ascent, metrics.Ascent)
	})
}

func TestRenderer_FaceCache(t *testing.T) {
	a := assert.New(t)
	renderer := newTestRenderer(t)

	first, err := renderer.face(50)
	a.Nil(err)
	second, err := renderer.face(50)
	a.Nil(err)

	a.Same(first, second)
	a.Equal(1, renderer.faces.Len())
}

func TestNewRenderer_MissingFont(t *testing.T) {
	a := assert.New(t)
	settings := apitype.DefaultSettings()
	settings.FontPath = "/nonexistent/impact.ttf"

	_, err := NewRenderer(settings)

	a.ErrorIs(err, ErrFont)
}
