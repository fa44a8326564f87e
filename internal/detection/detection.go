package detection

import (
	"errors"
	"math"
)

var (
	// ErrInvalidImage is returned for nil, empty or too small images.
	ErrInvalidImage = errors.New("invalid image")

	// ErrNilFamily is returned when a detector is built without a tag family.
	ErrNilFamily = errors.New("nil tag family")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid detector config")

	// ErrDegenerateGeometry is returned when four corners do not define a
	// usable projective mapping.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

// Point is a sub-pixel position in image coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Cross returns the z component of the cross product of p and q. In y-down
// image coordinates it is positive when q is a clockwise turn from p.
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }

// Norm returns the length of p.
func (p Point) Norm() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Detection is one decoded tag.
//
// Corners run clockwise (as seen in the image) starting at the tag's canonical
// top-left corner. Homography maps the unit square onto the tag's outer black
// border: (0,0) to Corners[0], (1,0) to Corners[1], (1,1) to Corners[2] and
// (0,1) to Corners[3]. ImageToTag is its inverse and maps pixels back into
// tag coordinates.
type Detection struct {
	ID     int    `json:"id"`
	Family string `json:"family"`

	// Hamming is the number of bits corrected while decoding.
	Hamming int `json:"hamming"`

	// Rotation is the number of 90° clockwise turns that brought the observed
	// grid into canonical orientation.
	Rotation int `json:"rotation"`

	Corners    [4]Point   `json:"corners"`
	Center     Point      `json:"center"`
	Homography Homography `json:"homography"`
	ImageToTag Homography `json:"image_to_tag"`

	// Area and Perimeter of the corner quadrilateral, in pixels.
	Area      float64 `json:"area"`
	Perimeter float64 `json:"perimeter"`

	// Code is the observed payload in canonical orientation, before correction.
	Code uint64 `json:"code"`
}

// Stats counts what each pipeline stage produced or rejected during one
// Detect call.
type Stats struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	EdgePixels int `json:"edge_pixels"`
	Clusters   int `json:"clusters"`
	Segments   int `json:"segments"`
	Quads      int `json:"quads"`

	// Candidate rejections.
	Degenerate  int `json:"degenerate"`
	OutOfImage  int `json:"out_of_image"`
	LowContrast int `json:"low_contrast"`
	Unmatched   int `json:"unmatched"`

	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
}

// Result contains the detections of one image.
type Result struct {
	// Detections are sorted by ID, then centre Y, then centre X.
	Detections []Detection `json:"detections"`
	Count      int         `json:"count"`
	Stats      Stats       `json:"stats"`
}

// polygonArea returns the signed shoelace area of a closed polygon. It is
// positive for clockwise corners in y-down image coordinates.
func polygonArea(pts []Point) float64 {
	var sum float64
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].Cross(pts[j])
	}
	return sum / 2
}

func perimeter(pts []Point) float64 {
	var sum float64
	for i := range pts {
		sum += pts[i].Dist(pts[(i+1)%len(pts)])
	}
	return sum
}

func centroid(pts [4]Point) Point {
	var c Point
	for _, p := range pts {
		c.X += p.X / 4
		c.Y += p.Y / 4
	}
	return c
}
