package apitype

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeOf(t *testing.T) {
	a := assert.New(t)
	type args struct {
		width  int
		height int
	}
	tests := []struct {
		name          string
		args          args
		width, height int
		valid         bool
	}{
		{name: "Size", args: args{width: 200, height: 100}, width: 200, height: 100, valid: true},
		{name: "Zero width", args: args{width: 0, height: 100}, width: 0, height: 100, valid: false},
		{name: "Negative height", args: args{width: 10, height: -1}, width: 10, height: -1, valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SizeOf(tt.args.width, tt.args.height)
			a.Equal(tt.width, got.GetWidth())
			a.Equal(tt.height, got.GetHeight())
			a.Equal(tt.valid, got.IsValid())
		})
	}
}

func TestSizeFromRectangle(t *testing.T) {
	a := assert.New(t)

	size := SizeFromRectangle(image.Rect(10, 20, 410, 320))

	a.Equal(400, size.GetWidth())
	a.Equal(300, size.GetHeight())
	a.Equal("400x300", size.String())
}
