package detection

import (
	"errors"
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/apriltag-mcp/internal/imaging"
	"github.com/ironsheep/apriltag-mcp/internal/tagfamily"
)

var (
	errOutOfImage  = errors.New("sample outside image")
	errLowContrast = errors.New("contrast below minimum")
)

// grayModel is a bilinear intensity model v = a + b·u + c·v + d·u·v over the
// tag frame, fitted to reference cells of one colour.
type grayModel [4]float64

func (m grayModel) at(u, v float64) float64 {
	return m[0] + m[1]*u + m[2]*v + m[3]*u*v
}

type graySample struct {
	u, v, val float64
}

// fitGrayModel solves the least-squares model through the samples.
func fitGrayModel(samples []graySample) (grayModel, error) {
	a := mat.NewDense(len(samples), 4, nil)
	b := mat.NewVecDense(len(samples), nil)
	for i, s := range samples {
		a.SetRow(i, []float64{1, s.u, s.v, s.u * s.v})
		b.SetVec(i, s.val)
	}
	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return grayModel{}, fmt.Errorf("fit gray model: %w", err)
	}
	return grayModel{x.AtVec(0), x.AtVec(1), x.AtVec(2), x.AtVec(3)}, nil
}

// decodeGrid samples the tag grid seen through h and returns the payload
// read in all four orientations (see tagfamily.Family.Rotations).
//
// The grid has GridSize cells per side across the unit square. The ring of
// cells just outside it is the white reference, the black border cells are
// the black reference and the rest carry payload bits, read row-major with
// the most significant bit in the top-left data cell. White reads as 1.
func decodeGrid(gray *image.Gray, h Homography, fam *tagfamily.Family, minContrast float64) ([4]uint64, error) {
	n := fam.GridSize()
	border := fam.BlackBorder()
	cell := 1 / float64(n)

	var white, black []graySample
	data := make([]graySample, 0, fam.Bits())

	for iy := -1; iy <= n; iy++ {
		for ix := -1; ix <= n; ix++ {
			u := (float64(ix) + 0.5) * cell
			v := (float64(iy) + 0.5) * cell
			p, ok := h.Project(u, v)
			if !ok {
				return [4]uint64{}, errOutOfImage
			}
			val, ok := imaging.SampleBilinear(gray, p.X, p.Y)
			if !ok {
				return [4]uint64{}, errOutOfImage
			}
			s := graySample{u, v, val}

			switch {
			case ix < 0 || iy < 0 || ix >= n || iy >= n:
				white = append(white, s)
			case ix < border || iy < border || ix >= n-border || iy >= n-border:
				black = append(black, s)
			default:
				data = append(data, s)
			}
		}
	}

	whiteModel, err := fitGrayModel(white)
	if err != nil {
		return [4]uint64{}, fmt.Errorf("%w: white reference: %v", errLowContrast, err)
	}
	blackModel, err := fitGrayModel(black)
	if err != nil {
		return [4]uint64{}, fmt.Errorf("%w: black reference: %v", errLowContrast, err)
	}

	var contrast float64
	for _, s := range data {
		contrast += whiteModel.at(s.u, s.v) - blackModel.at(s.u, s.v)
	}
	if contrast/float64(len(data)) < minContrast {
		return [4]uint64{}, errLowContrast
	}

	var code uint64
	for _, s := range data {
		threshold := (whiteModel.at(s.u, s.v) + blackModel.at(s.u, s.v)) / 2
		code <<= 1
		if s.val > threshold {
			code |= 1
		}
	}
	return fam.Rotations(code), nil
}
