package detection

import (
	"errors"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/apriltag-mcp/internal/imaging"
	"github.com/ironsheep/apriltag-mcp/internal/tagfamily"
)

// minImageSide is the smallest width or height Detect accepts.
const minImageSide = 3

// Detector finds tags of one family. It keeps only its family and options,
// so a single Detector may serve concurrent Detect calls.
type Detector struct {
	family *tagfamily.Family
	cfg    Config
}

// NewDetector validates cfg and binds it to family.
func NewDetector(family *tagfamily.Family, cfg Config) (*Detector, error) {
	if family == nil {
		return nil, ErrNilFamily
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{family: family, cfg: cfg}, nil
}

// Family returns the tag family the detector decodes.
func (d *Detector) Family() *tagfamily.Family { return d.family }

// candidate is the outcome of decoding one quad.
type candidate struct {
	det Detection
	err error
}

// Detect finds every tag of the detector's family in img.
//
// Only unusable input is an error (ErrInvalidImage). Candidates that fail to
// decode are dropped and counted in Result.Stats; an image without tags
// yields an empty result.
func (d *Detector) Detect(img image.Image) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImage)
	}
	b := img.Bounds()
	if b.Dx() < minImageSide || b.Dy() < minImageSide {
		return nil, fmt.Errorf("%w: %dx%d is smaller than %dx%d", ErrInvalidImage, b.Dx(), b.Dy(), minImageSide, minImageSide)
	}
	return d.detectGray(imaging.ToGray(img)), nil
}

func (d *Detector) detectGray(gray *image.Gray) *Result {
	cfg := d.cfg
	stats := Stats{Width: gray.Rect.Dx(), Height: gray.Rect.Dy()}

	field := imaging.NewGradientField(gray, cfg.BlurRadius, cfg.GradientNoiseFloor)
	stats.EdgePixels = field.EdgePixels

	clusters := clusterEdges(field, cfg)
	stats.Clusters = len(clusters)

	segs := fitSegments(field, clusters, cfg)
	stats.Segments = len(segs)

	quads := findQuads(segs, cfg)
	stats.Quads = len(quads)

	outcomes := d.decodeAll(gray, quads)

	accepted := make([]Detection, 0, len(outcomes))
	for _, o := range outcomes {
		switch {
		case o.err == nil:
			accepted = append(accepted, o.det)
		case errors.Is(o.err, ErrDegenerateGeometry):
			stats.Degenerate++
		case errors.Is(o.err, errOutOfImage):
			stats.OutOfImage++
		case errors.Is(o.err, errLowContrast):
			stats.LowContrast++
		default:
			stats.Unmatched++
		}
	}
	stats.Accepted = len(accepted)

	dets, dups := dedupe(accepted, cfg.OverlapFraction)
	stats.Duplicates = dups

	if cfg.Logger != nil {
		cfg.Logger.Printf("detect %s: %dx%d edge_pixels=%d clusters=%d segments=%d quads=%d degenerate=%d out_of_image=%d low_contrast=%d unmatched=%d accepted=%d duplicates=%d",
			d.family.Name(), stats.Width, stats.Height, stats.EdgePixels, stats.Clusters, stats.Segments,
			stats.Quads, stats.Degenerate, stats.OutOfImage, stats.LowContrast, stats.Unmatched,
			stats.Accepted, stats.Duplicates)
	}

	return &Result{Detections: dets, Count: len(dets), Stats: stats}
}

// decodeAll decodes every quad, in parallel unless Workers is 1. Outcomes
// keep the order of quads.
func (d *Detector) decodeAll(gray *image.Gray, quads []Quad) []candidate {
	out := make([]candidate, len(quads))

	workers := d.cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers == 1 || len(quads) < 2 {
		for i, q := range quads {
			out[i] = d.decodeQuad(gray, q)
		}
		return out
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, q := range quads {
		g.Go(func() error {
			out[i] = d.decodeQuad(gray, q)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// errUnmatched marks a grid that matched no code within the error budget.
var errUnmatched = errors.New("no matching code")

// decodeQuad turns one quad into a detection.
func (d *Detector) decodeQuad(gray *image.Gray, q Quad) candidate {
	h, err := NewHomography(q.Corners)
	if err != nil {
		return candidate{err: err}
	}

	rotations, err := decodeGrid(gray, h, d.family, d.cfg.MinContrast)
	if err != nil {
		return candidate{err: err}
	}

	m, ok := d.family.Match(rotations, d.cfg.MaxHammingDistance)
	if !ok {
		if d.cfg.Logger != nil {
			id, dist := d.family.Nearest(rotations[0])
			c := centroid(q.Corners)
			d.cfg.Logger.Printf("detect %s: unmatched quad at (%.1f, %.1f): nearest id %d at %d bits",
				d.family.Name(), c.X, c.Y, id, dist)
		}
		return candidate{err: errUnmatched}
	}

	// Rotating the grid clockwise by r turns is the same as starting the
	// corner list r places earlier.
	var corners [4]Point
	for k := 0; k < 4; k++ {
		corners[k] = q.Corners[(k-m.Rotation+4)%4]
	}
	h, err = NewHomography(corners)
	if err != nil {
		return candidate{err: err}
	}
	center, ok := h.Project(0.5, 0.5)
	if !ok {
		return candidate{err: fmt.Errorf("%w: centre at infinity", ErrDegenerateGeometry)}
	}
	inv, err := h.Inverse()
	if err != nil {
		return candidate{err: err}
	}

	return candidate{det: Detection{
		ID:         m.ID,
		Family:     d.family.Name(),
		Hamming:    m.Hamming,
		Rotation:   m.Rotation,
		Corners:    corners,
		Center:     center,
		Homography: h,
		ImageToTag: inv,
		Area:       polygonArea(corners[:]),
		Perimeter:  perimeter(corners[:]),
		Code:       rotations[m.Rotation],
	}}
}
