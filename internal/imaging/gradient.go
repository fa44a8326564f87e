package imaging

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// GradientField holds per-pixel intensity gradients of a grayscale image.
//
// All slices are indexed by y*Width + x. Intensities are normalized to [0, 1]
// before differencing, so a full black-to-white step has magnitude 1.
type GradientField struct {
	Width  int
	Height int

	// Gx and Gy are the signed central differences I(x+1)-I(x-1) and
	// I(y+1)-I(y-1). Together they point from dark towards light.
	Gx []float64
	Gy []float64

	// Magnitude is hypot(Gx, Gy). It is zero for flat pixels.
	Magnitude []float64

	// Theta is the undirected edge orientation of the gradient in [0, π).
	// Opposite polarities of the same physical line share one value.
	Theta []float64

	// EdgePixels counts the pixels that are not flat.
	EdgePixels int
}

// NewGradientField computes the gradient of every interior pixel of gray.
//
// Parameters:
//   - gray: Source image; its bounds must start at (0, 0) (see ToGray).
//   - blurRadius: When positive, the image is first smoothed with bild's
//     separable Gaussian of this radius. The radius is rounded to a whole
//     pixel so the kernel has odd length and stays centred.
//   - noiseFloor: Pixels whose magnitude is below this value are flat.
//
// Border pixels have no central difference and are always flat.
func NewGradientField(gray *image.Gray, blurRadius, noiseFloor float64) *GradientField {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	intensity := make([]float64, w*h)

	if r := math.Round(blurRadius); r > 0 {
		blurred := blur.Gaussian(gray, r)
		for y := 0; y < h; y++ {
			row := blurred.Pix[y*blurred.Stride:]
			for x := 0; x < w; x++ {
				intensity[y*w+x] = float64(row[4*x]) / 255
			}
		}
	} else {
		for y := 0; y < h; y++ {
			row := gray.Pix[y*gray.Stride:]
			for x := 0; x < w; x++ {
				intensity[y*w+x] = float64(row[x]) / 255
			}
		}
	}

	f := &GradientField{
		Width:     w,
		Height:    h,
		Gx:        make([]float64, w*h),
		Gy:        make([]float64, w*h),
		Magnitude: make([]float64, w*h),
		Theta:     make([]float64, w*h),
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			gx := intensity[i+1] - intensity[i-1]
			gy := intensity[i+w] - intensity[i-w]
			mag := math.Hypot(gx, gy)
			if mag < noiseFloor || mag == 0 {
				continue
			}
			f.Gx[i] = gx
			f.Gy[i] = gy
			f.Magnitude[i] = mag
			f.Theta[i] = Orientation(gx, gy)
			f.EdgePixels++
		}
	}
	return f
}

// Flat reports whether the pixel at linear index i carries no edge.
func (f *GradientField) Flat(i int) bool {
	return f.Magnitude[i] == 0
}

// Orientation returns the undirected orientation of a gradient in [0, π).
func Orientation(gx, gy float64) float64 {
	t := math.Atan2(gy, gx)
	if t < 0 {
		t += math.Pi
	}
	if t >= math.Pi {
		t -= math.Pi
	}
	return t
}

// OrientationDiff returns the distance between two undirected orientations,
// in [0, π/2].
func OrientationDiff(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > math.Pi/2 {
		d = math.Pi - d
	}
	return d
}

// WrapHalfTurn wraps an orientation delta into (-π/2, π/2].
func WrapHalfTurn(d float64) float64 {
	for d > math.Pi/2 {
		d -= math.Pi
	}
	for d <= -math.Pi/2 {
		d += math.Pi
	}
	return d
}
