package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ToGray converts any image to an 8-bit grayscale image whose bounds start at
// (0, 0).
//
// *image.Gray inputs that already start at the origin are returned as-is
// (no copy). Everything else goes through imaging.Grayscale, which applies
// the ITU-R BT.601 luminance weights, and the red channel of the result is
// taken as the intensity.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}

	nrgba := imaging.Grayscale(img)
	b := nrgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+4*b.Dx()]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+b.Dx()]
		for x := range dst {
			dst[x] = src[4*x]
		}
	}
	return gray
}

// SampleBilinear returns the intensity at a sub-pixel position, with pixel
// centres at integer coordinates. The second result is false when the
// position is outside the image.
func SampleBilinear(g *image.Gray, x, y float64) (float64, bool) {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	if math.IsNaN(x) || math.IsNaN(y) || x < 0 || y < 0 || x > float64(w-1) || y > float64(h-1) {
		return 0, false
	}

	x0, y0 := int(x), int(y)
	x1, y1 := x0+1, y0+1
	if x1 > w-1 {
		x1 = w - 1
	}
	if y1 > h-1 {
		y1 = h - 1
	}
	fx, fy := x-float64(x0), y-float64(y0)

	p00 := float64(g.Pix[y0*g.Stride+x0])
	p10 := float64(g.Pix[y0*g.Stride+x1])
	p01 := float64(g.Pix[y1*g.Stride+x0])
	p11 := float64(g.Pix[y1*g.Stride+x1])

	top := p00 + (p10-p00)*fx
	bottom := p01 + (p11-p01)*fx
	return top + (bottom-top)*fy, true
}
