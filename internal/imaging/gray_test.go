package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func createInMemoryGray(width, height int, value uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = value
	}
	return img
}

func TestToGray_PassThrough(t *testing.T) {
	g := createInMemoryGray(10, 10, 77)
	if got := ToGray(g); got != g {
		t.Error("ToGray copied an origin-based *image.Gray")
	}
}

func TestToGray_Convert(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		min  uint8
		max  uint8
	}{
		{"white", color.RGBA{255, 255, 255, 255}, 254, 255},
		{"black", color.RGBA{0, 0, 0, 255}, 0, 1},
		{"mid gray", color.RGBA{128, 128, 128, 255}, 126, 130},
		{"green brighter than blue", color.RGBA{0, 255, 0, 255}, 140, 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ToGray(createInMemoryImage(8, 8, tt.c))
			v := g.GrayAt(3, 3).Y
			if v < tt.min || v > tt.max {
				t.Errorf("gray value: got %d, want [%d, %d]", v, tt.min, tt.max)
			}
		})
	}
}

func TestToGray_OffsetBounds(t *testing.T) {
	src := createInMemoryImage(20, 20, color.RGBA{255, 255, 255, 255})
	sub := src.SubImage(image.Rect(5, 5, 15, 12))

	g := ToGray(sub)
	if g.Bounds() != image.Rect(0, 0, 10, 7) {
		t.Errorf("bounds: got %v, want (0,0)-(10,7)", g.Bounds())
	}
}

func TestSampleBilinear(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 2, 2))
	g.SetGray(0, 0, color.Gray{Y: 0})
	g.SetGray(1, 0, color.Gray{Y: 100})
	g.SetGray(0, 1, color.Gray{Y: 100})
	g.SetGray(1, 1, color.Gray{Y: 200})

	tests := []struct {
		name   string
		x, y   float64
		want   float64
		inside bool
	}{
		{"pixel centre", 0, 0, 0, true},
		{"far corner", 1, 1, 200, true},
		{"middle", 0.5, 0.5, 100, true},
		{"horizontal quarter", 0.25, 0, 25, true},
		{"left of image", -0.1, 0.5, 0, false},
		{"below image", 0.5, 1.01, 0, false},
		{"nan", math.NaN(), 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SampleBilinear(g, tt.x, tt.y)
			if ok != tt.inside {
				t.Fatalf("inside: got %v, want %v", ok, tt.inside)
			}
			if ok && math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("value: got %f, want %f", got, tt.want)
			}
		})
	}
}
