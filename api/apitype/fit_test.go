package apitype

import (
	"image"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestFitToCanvas(t *testing.T) {
	a := assert.New(t)
	type args struct {
		canvasWidth  float64
		canvasHeight float64
		imageWidth   float64
		imageHeight  float64
	}
	tests := []struct {
		name string
		args args
		want FitRect
	}{
		{name: "Portrait 100x200", args: args{400, 400, 100, 200}, want: FitRect{Width: 200, Height: 400, StartX: 100, StartY: 0}},
		{name: "Landscape 200x100", args: args{400, 400, 200, 100}, want: FitRect{Width: 400, Height: 200, StartX: 0, StartY: 100}},
		{name: "Square 50x50", args: args{400, 400, 50, 50}, want: FitRect{Width: 400, Height: 400, StartX: 0, StartY: 0}},
		{name: "Downscale 4000x3000", args: args{400, 400, 4000, 3000}, want: FitRect{Width: 400, Height: 300, StartX: 0, StartY: 50}},
		{name: "Wide canvas, portrait", args: args{800, 400, 300, 600}, want: FitRect{Width: 200, Height: 400, StartX: 300, StartY: 0}},
		{name: "Wide canvas, mild landscape", args: args{800, 400, 400, 300}, want: FitRect{Width: 533.3333333333334, Height: 400, StartX: 133.33333333333331, StartY: 0}},
		{name: "Tall canvas, mild portrait", args: args{300, 600, 300, 400}, want: FitRect{Width: 300, Height: 400, StartX: 0, StartY: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FitToCanvas(tt.args.canvasWidth, tt.args.canvasHeight, tt.args.imageWidth, tt.args.imageHeight)
			a.Nil(err)
			a.InDelta(tt.want.Width, got.Width, tolerance)
			a.InDelta(tt.want.Height, got.Height, tolerance)
			a.InDelta(tt.want.StartX, got.StartX, tolerance)
			a.InDelta(tt.want.StartY, got.StartY, tolerance)
		})
	}
}

func TestFitToCanvas_InvalidInput(t *testing.T) {
	a := assert.New(t)
	tests := []struct {
		name                                               string
		canvasWidth, canvasHeight, imageWidth, imageHeight float64
	}{
		{"Zero image height", 400, 400, 100, 0},
		{"Zero image width", 400, 400, 0, 100},
		{"Negative image height", 400, 400, 100, -1},
		{"Zero canvas width", 0, 400, 100, 100},
		{"Negative canvas height", 400, -400, 100, 100},
		{"NaN image width", 400, 400, math.NaN(), 100},
		{"Infinite canvas", math.Inf(1), 400, 100, 100},
		{"Aspect ratio underflows", 400, 400, 1e-300, 1e300},
		{"Aspect ratio overflows", 400, 400, 1e300, 1e-300},
		{"Fitted width underflows", 1e-20, 1e-20, 1, 1e308},
		{"Fitted height underflows", 1e-20, 1e-20, 1e308, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FitToCanvas(tt.canvasWidth, tt.canvasHeight, tt.imageWidth, tt.imageHeight)
			a.ErrorIs(err, ErrInvalidGeometry)
			a.Equal(FitRect{}, got)
		})
	}
}

func TestFitToCanvas_Properties(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	dimension := func() float64 {
		return 1 + random.Float64()*4000
	}

	for i := 0; i < 1000; i++ {
		cw, ch, iw, ih := dimension(), dimension(), dimension(), dimension()
		got, err := FitToCanvas(cw, ch, iw, ih)
		require.NoError(t, err)

		// Aspect ratio is preserved
		assert.InDelta(t, iw/ih, got.Width/got.Height, 1e-6*iw/ih)

		// Contained in the canvas
		assert.GreaterOrEqual(t, got.StartX, -tolerance)
		assert.GreaterOrEqual(t, got.StartY, -tolerance)
		assert.LessOrEqual(t, got.StartX+got.Width, cw+1e-6)
		assert.LessOrEqual(t, got.StartY+got.Height, ch+1e-6)

		// Touches at least one axis and is centered on the other
		if got.Width == cw {
			assert.Equal(t, 0.0, got.StartX)
			assert.InDelta(t, (ch-got.Height)/2, got.StartY, tolerance)
		} else {
			assert.Equal(t, ch, got.Height)
			assert.Equal(t, 0.0, got.StartY)
			assert.InDelta(t, (cw-got.Width)/2, got.StartX, tolerance)
		}

		// Deterministic
		again, _ := FitToCanvas(cw, ch, iw, ih)
		assert.Equal(t, math.Float64bits(got.Width), math.Float64bits(again.Width))
		assert.Equal(t, math.Float64bits(got.Height), math.Float64bits(again.Height))
		assert.Equal(t, math.Float64bits(got.StartX), math.Float64bits(again.StartX))
		assert.Equal(t, math.Float64bits(got.StartY), math.Float64bits(again.StartY))
	}
}

func TestFitRect_Pixels(t *testing.T) {
	a := assert.New(t)

	a.Equal(image.Rect(100, 0, 300, 400), FitRect{Width: 200, Height: 400, StartX: 100}.Pixels())
	a.Equal(image.Rect(0, 67, 400, 333), FitRect{Width: 400, Height: 266.6666, StartY: 66.6667}.Pixels())
}
