package detection

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Homography is a row-major 3x3 projective transform normalised so that the
// last element is 1.
type Homography [9]float64

const (
	// minCornerSine is the smallest |sin| of the angle at any corner triple.
	minCornerSine = 1e-3

	// maxCondition bounds the condition number of the DLT system.
	maxCondition = 1e12
)

// unitSquare lists the tag-frame corners matched to Corners[0..3].
var unitSquare = [4]Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

// NewHomography solves for the transform that maps the unit square corners
// (0,0), (1,0), (1,1) and (0,1) onto corners[0..3].
//
// It returns ErrDegenerateGeometry when three corners are nearly collinear,
// two coincide, or the linear system is too badly conditioned to trust.
func NewHomography(corners [4]Point) (Homography, error) {
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			for k := j + 1; k < 4; k++ {
				a := corners[j].Sub(corners[i])
				b := corners[k].Sub(corners[i])
				n := a.Norm() * b.Norm()
				if n == 0 || math.IsNaN(n) || math.Abs(a.Cross(b))/n < minCornerSine {
					return Homography{}, fmt.Errorf("%w: corners %d, %d, %d are collinear", ErrDegenerateGeometry, i, j, k)
				}
			}
		}
	}

	// x = (h0 u + h1 v + h2) / (h6 u + h7 v + 1)
	// y = (h3 u + h4 v + h5) / (h6 u + h7 v + 1)
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i, c := range corners {
		u, v := unitSquare[i].X, unitSquare[i].Y
		a.SetRow(2*i, []float64{u, v, 1, 0, 0, 0, -u * c.X, -v * c.X})
		a.SetRow(2*i+1, []float64{0, 0, 0, u, v, 1, -u * c.Y, -v * c.Y})
		b.SetVec(2*i, c.X)
		b.SetVec(2*i+1, c.Y)
	}

	if cond := mat.Cond(a, 2); cond > maxCondition || math.IsNaN(cond) {
		return Homography{}, fmt.Errorf("%w: condition number %.3g", ErrDegenerateGeometry, cond)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return Homography{}, fmt.Errorf("%w: %v", ErrDegenerateGeometry, err)
	}

	var h Homography
	for i := 0; i < 8; i++ {
		h[i] = x.AtVec(i)
	}
	h[8] = 1
	return h, nil
}

// Project maps a tag-frame point to image coordinates. It reports false when
// the point maps to infinity.
func (h Homography) Project(u, v float64) (Point, bool) {
	w := h[6]*u + h[7]*v + h[8]
	if math.Abs(w) < 1e-12 {
		return Point{}, false
	}
	return Point{
		X: (h[0]*u + h[1]*v + h[2]) / w,
		Y: (h[3]*u + h[4]*v + h[5]) / w,
	}, true
}

// Inverse returns the image-to-tag transform.
func (h Homography) Inverse() (Homography, error) {
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(3, 3, h[:])); err != nil {
		return Homography{}, fmt.Errorf("%w: %v", ErrDegenerateGeometry, err)
	}
	s := inv.At(2, 2)
	if math.Abs(s) < 1e-12 {
		return Homography{}, fmt.Errorf("%w: inverse is not normalisable", ErrDegenerateGeometry)
	}
	var out Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = inv.At(r, c) / s
		}
	}
	return out, nil
}
