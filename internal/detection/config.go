package detection

import (
	"fmt"
	"log"
	"math"
)

// Config holds the detector tuning options. The zero value is not usable;
// start from DefaultConfig and override fields.
type Config struct {
	// BlurRadius smooths the image with a Gaussian of this radius, in whole
	// pixels, before gradients are taken. Decoding always samples the
	// unsmoothed image. Zero disables smoothing, which only suits
	// axis-aligned, aliasing-free tags.
	BlurRadius float64 `yaml:"blur_radius" json:"blur_radius"`

	// GradientNoiseFloor is the gradient magnitude, on intensities scaled to
	// [0, 1], below which a pixel is flat.
	GradientNoiseFloor float64 `yaml:"gradient_noise_floor" json:"gradient_noise_floor"`

	// AngleToleranceDeg is the largest orientation difference between two
	// neighbouring edge pixels that may join the same cluster.
	AngleToleranceDeg float64 `yaml:"angle_tolerance_deg" json:"angle_tolerance_deg"`

	// ClusterSpanToleranceDeg bounds the total orientation spread of a
	// cluster, so slowly turning edges do not chain around corners.
	ClusterSpanToleranceDeg float64 `yaml:"cluster_span_tolerance_deg" json:"cluster_span_tolerance_deg"`

	MinClusterSize   int     `yaml:"min_cluster_size" json:"min_cluster_size"`
	MinSegmentLength float64 `yaml:"min_segment_length" json:"min_segment_length"`

	// MaxLineResidual is the largest RMS distance, in pixels, between a
	// cluster's pixels and its fitted line.
	MaxLineResidual float64 `yaml:"max_line_residual" json:"max_line_residual"`

	// LinkGapFactor scales the allowed gap between consecutive quad sides:
	// gap <= LinkGapFactor*min(len) + 2 px.
	LinkGapFactor float64 `yaml:"link_gap_factor" json:"link_gap_factor"`

	MinQuadArea float64 `yaml:"min_quad_area" json:"min_quad_area"`

	// MaxQuadArea of zero means unbounded.
	MaxQuadArea float64 `yaml:"max_quad_area" json:"max_quad_area"`

	// MaxAngleDeviationDeg bounds how far each quad corner may be from 90°.
	MaxAngleDeviationDeg float64 `yaml:"max_angle_deviation_deg" json:"max_angle_deviation_deg"`

	// MaxHammingDistance is the largest number of corrected bits. It is
	// clamped to what the family can correct unambiguously.
	MaxHammingDistance int `yaml:"max_hamming_distance" json:"max_hamming_distance"`

	// MinContrast is the smallest mean white-minus-black difference, on the
	// 0..255 scale, for a candidate to be decoded.
	MinContrast float64 `yaml:"min_contrast" json:"min_contrast"`

	// OverlapFraction is the overlap, relative to the smaller tag, above
	// which two detections of the same id are considered duplicates.
	OverlapFraction float64 `yaml:"overlap_fraction" json:"overlap_fraction"`

	// Workers decodes candidates in parallel. Zero uses GOMAXPROCS and one
	// decodes serially.
	Workers int `yaml:"workers" json:"workers"`

	// Logger receives per-call stage counts. Nil disables logging.
	Logger *log.Logger `yaml:"-" json:"-"`
}

// DefaultConfig returns options tuned for tags with at least five pixels per
// cell.
func DefaultConfig() Config {
	return Config{
		BlurRadius:              1,
		GradientNoiseFloor:      0.08,
		AngleToleranceDeg:       15,
		ClusterSpanToleranceDeg: 30,
		MinClusterSize:          8,
		MinSegmentLength:        4,
		MaxLineResidual:         2.0,
		LinkGapFactor:           0.25,
		MinQuadArea:             100,
		MaxQuadArea:             0,
		MaxAngleDeviationDeg:    40,
		MaxHammingDistance:      2,
		MinContrast:             20,
		OverlapFraction:         0.5,
		Workers:                 0,
	}
}

// Validate reports the first option that is out of range.
func (c Config) Validate() error {
	checks := []struct {
		ok   bool
		name string
		val  interface{}
	}{
		{c.BlurRadius >= 0, "blur_radius", c.BlurRadius},
		{c.GradientNoiseFloor >= 0, "gradient_noise_floor", c.GradientNoiseFloor},
		{c.AngleToleranceDeg > 0 && c.AngleToleranceDeg < 90, "angle_tolerance_deg", c.AngleToleranceDeg},
		{c.ClusterSpanToleranceDeg >= c.AngleToleranceDeg && c.ClusterSpanToleranceDeg < 90, "cluster_span_tolerance_deg", c.ClusterSpanToleranceDeg},
		{c.MinClusterSize >= 2, "min_cluster_size", c.MinClusterSize},
		{c.MinSegmentLength > 0, "min_segment_length", c.MinSegmentLength},
		{c.MaxLineResidual > 0, "max_line_residual", c.MaxLineResidual},
		{c.LinkGapFactor >= 0, "link_gap_factor", c.LinkGapFactor},
		{c.MinQuadArea >= 0, "min_quad_area", c.MinQuadArea},
		{c.MaxQuadArea == 0 || c.MaxQuadArea >= c.MinQuadArea, "max_quad_area", c.MaxQuadArea},
		{c.MaxAngleDeviationDeg > 0 && c.MaxAngleDeviationDeg < 90, "max_angle_deviation_deg", c.MaxAngleDeviationDeg},
		{c.MaxHammingDistance >= 0, "max_hamming_distance", c.MaxHammingDistance},
		{c.MinContrast >= 0, "min_contrast", c.MinContrast},
		{c.OverlapFraction > 0 && c.OverlapFraction <= 1, "overlap_fraction", c.OverlapFraction},
		{c.Workers >= 0, "workers", c.Workers},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, chk.name, chk.val)
		}
	}
	return nil
}

func (c Config) angleTolerance() float64 { return c.AngleToleranceDeg * math.Pi / 180 }

func (c Config) clusterSpan() float64 { return c.ClusterSpanToleranceDeg * math.Pi / 180 }

func (c Config) angleDeviation() float64 { return c.MaxAngleDeviationDeg * math.Pi / 180 }

// linkGap is the largest allowed gap between the end of one quad side and
// the start of the next.
func (c Config) linkGap(a, b Segment) float64 {
	return c.LinkGapFactor*math.Min(a.Length, b.Length) + 2
}
