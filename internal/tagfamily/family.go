package tagfamily

import (
	"errors"
	"fmt"
	"math/bits"
)

var (
	// ErrInvalidFamily is returned when a family definition is malformed.
	ErrInvalidFamily = errors.New("invalid tag family")

	// ErrCodebookDistance is returned when two codes of a family (under any
	// rotation) are closer than the family's declared minimum Hamming distance.
	ErrCodebookDistance = errors.New("codebook violates minimum hamming distance")

	// ErrUnknownFamily is returned by Lookup for names that are not registered.
	ErrUnknownFamily = errors.New("unknown tag family")
)

// Family is an immutable tag codebook.
type Family struct {
	name        string
	dimension   int
	blackBorder int
	minHamming  int
	codes       []uint64
}

// Info summarizes a family for listings.
type Info struct {
	Name          string `json:"name"`
	Dimension     int    `json:"dimension"`
	Bits          int    `json:"bits"`
	BlackBorder   int    `json:"black_border"`
	MinHamming    int    `json:"min_hamming"`
	MaxCorrection int    `json:"max_correction"`
	Codes         int    `json:"codes"`
}

// New builds a family from its codes. The codes slice is copied.
//
// Every code must fit in dimension² bits, codes must be unique, and no code
// may come closer than minHamming bits to any rotation of itself or of any
// other code. Violations return ErrInvalidFamily or ErrCodebookDistance.
func New(name string, dimension, blackBorder, minHamming int, codes []uint64) (*Family, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidFamily)
	}
	if dimension < 2 || dimension > 8 {
		return nil, fmt.Errorf("%w: %s: dimension %d outside 2..8", ErrInvalidFamily, name, dimension)
	}
	if blackBorder < 1 {
		return nil, fmt.Errorf("%w: %s: black border must be at least 1", ErrInvalidFamily, name)
	}
	if minHamming < 1 {
		return nil, fmt.Errorf("%w: %s: min hamming must be positive", ErrInvalidFamily, name)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: %s: no codes", ErrInvalidFamily, name)
	}

	f := &Family{
		name:        name,
		dimension:   dimension,
		blackBorder: blackBorder,
		minHamming:  minHamming,
		codes:       append([]uint64(nil), codes...),
	}

	limit := f.mask()
	for id, c := range f.codes {
		if c&^limit != 0 {
			return nil, fmt.Errorf("%w: %s: code %d (%#x) exceeds %d bits", ErrInvalidFamily, name, id, c, f.Bits())
		}
	}
	if err := f.verifyDistance(); err != nil {
		return nil, err
	}
	return f, nil
}

func mustNew(name string, dimension, blackBorder, minHamming int, codes []uint64) *Family {
	f, err := New(name, dimension, blackBorder, minHamming, codes)
	if err != nil {
		panic(err)
	}
	return f
}

// Name returns the family name, e.g. "tag36h11".
func (f *Family) Name() string { return f.name }

// Dimension returns the number of data cells per side.
func (f *Family) Dimension() int { return f.dimension }

// BlackBorder returns the width of the black border in cells.
func (f *Family) BlackBorder() int { return f.blackBorder }

// GridSize returns the number of cells per side including the black border.
func (f *Family) GridSize() int { return f.dimension + 2*f.blackBorder }

// Bits returns the code length in bits.
func (f *Family) Bits() int { return f.dimension * f.dimension }

// MinHamming returns the guaranteed minimum distance between codes.
func (f *Family) MinHamming() int { return f.minHamming }

// MaxCorrection returns the largest number of bit errors the family can
// correct unambiguously, (MinHamming-1)/2.
func (f *Family) MaxCorrection() int { return (f.minHamming - 1) / 2 }

// Len returns the number of identities in the family.
func (f *Family) Len() int { return len(f.codes) }

// Code returns the code for an id.
func (f *Family) Code(id int) (uint64, bool) {
	if id < 0 || id >= len(f.codes) {
		return 0, false
	}
	return f.codes[id], true
}

// Info returns a summary of the family.
func (f *Family) Info() Info {
	return Info{
		Name:          f.name,
		Dimension:     f.dimension,
		Bits:          f.Bits(),
		BlackBorder:   f.blackBorder,
		MinHamming:    f.minHamming,
		MaxCorrection: f.MaxCorrection(),
		Codes:         len(f.codes),
	}
}

func (f *Family) mask() uint64 {
	n := f.Bits()
	if n == 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

// Rotate90 rotates a code's grid 90 degrees clockwise: the bottom-left cell
// becomes the top-left cell.
func (f *Family) Rotate90(code uint64) uint64 {
	d := f.dimension
	n := d * d
	var out uint64
	for r := 0; r < d; r++ {
		for c := 0; c < d; c++ {
			src := (d-1-c)*d + r
			bit := (code >> (n - 1 - src)) & 1
			out = out<<1 | bit
		}
	}
	return out
}

// Rotations returns the code rotated 0, 90, 180 and 270 degrees clockwise.
func (f *Family) Rotations(code uint64) [4]uint64 {
	var rs [4]uint64
	rs[0] = code
	for k := 1; k < 4; k++ {
		rs[k] = f.Rotate90(rs[k-1])
	}
	return rs
}

// Hamming returns the number of differing bits between two codes.
func Hamming(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

func (f *Family) verifyDistance() error {
	rotated := make([][4]uint64, len(f.codes))
	for i, c := range f.codes {
		rotated[i] = f.Rotations(c)
		for k := 1; k < 4; k++ {
			if d := Hamming(c, rotated[i][k]); d < f.minHamming {
				return fmt.Errorf("%w: %s: id %d is %d bits from its own %d° rotation",
					ErrCodebookDistance, f.name, i, d, 90*k)
			}
		}
	}
	for i := range f.codes {
		for j := i + 1; j < len(f.codes); j++ {
			for k := 0; k < 4; k++ {
				if d := Hamming(rotated[i][k], f.codes[j]); d < f.minHamming {
					return fmt.Errorf("%w: %s: ids %d and %d are %d bits apart",
						ErrCodebookDistance, f.name, i, j, d)
				}
			}
		}
	}
	return nil
}
