package detection

import (
	"math"

	"github.com/ironsheep/apriltag-mcp/internal/imaging"
)

// Segment is a straight edge fitted to a cluster.
//
// Segments are directed so the darker side lies on the right when walking
// from Start to End. Around a dark region in y-down image coordinates this
// traces the boundary clockwise.
type Segment struct {
	Start Point `json:"start"`
	End   Point `json:"end"`

	// Dir is the unit direction from Start to End.
	Dir Point `json:"dir"`

	Length float64 `json:"length"`

	// Support is the number of pixels the line was fitted to.
	Support int `json:"support"`

	// Residual is the magnitude-weighted RMS distance of those pixels from
	// the line.
	Residual float64 `json:"residual"`
}

// minPolarity is the smallest ratio between the summed signed gradient and
// the summed magnitude of a cluster. Below it the cluster mixes both edge
// polarities and its dark side is ambiguous.
const minPolarity = 0.5

// fitSegment fits a line to one cluster by the principal axis of the
// magnitude-weighted pixel covariance. It reports false when the result is
// too short, too noisy or has no clear polarity.
func fitSegment(f *imaging.GradientField, c Cluster, cfg Config) (Segment, bool) {
	var sw, mx, my float64
	for _, i := range c.Pixels {
		wt := f.Magnitude[i]
		sw += wt
		mx += wt * float64(i%f.Width)
		my += wt * float64(i/f.Width)
	}
	if sw == 0 {
		return Segment{}, false
	}
	mx /= sw
	my /= sw

	var sxx, syy, sxy, gx, gy float64
	for _, i := range c.Pixels {
		wt := f.Magnitude[i]
		dx := float64(i%f.Width) - mx
		dy := float64(i/f.Width) - my
		sxx += wt * dx * dx
		syy += wt * dy * dy
		sxy += wt * dx * dy
		gx += f.Gx[i]
		gy += f.Gy[i]
	}

	if math.Hypot(gx, gy) < minPolarity*sw {
		return Segment{}, false
	}

	phi := 0.5 * math.Atan2(2*sxy, sxx-syy)
	dir := Point{math.Cos(phi), math.Sin(phi)}
	if dir.Cross(Point{gx, gy}) > 0 {
		dir = dir.Scale(-1)
	}
	normal := Point{-dir.Y, dir.X}

	tmin, tmax := math.Inf(1), math.Inf(-1)
	var sr float64
	for _, i := range c.Pixels {
		p := Point{float64(i%f.Width) - mx, float64(i/f.Width) - my}
		t := p.Dot(dir)
		tmin = math.Min(tmin, t)
		tmax = math.Max(tmax, t)
		n := p.Dot(normal)
		sr += f.Magnitude[i] * n * n
	}

	mean := Point{mx, my}
	s := Segment{
		Start:    mean.Add(dir.Scale(tmin)),
		End:      mean.Add(dir.Scale(tmax)),
		Dir:      dir,
		Length:   tmax - tmin,
		Support:  len(c.Pixels),
		Residual: math.Sqrt(sr / sw),
	}
	if s.Length < cfg.MinSegmentLength || s.Residual > cfg.MaxLineResidual {
		return Segment{}, false
	}
	return s, true
}

// fitSegments fits every cluster and keeps the usable segments in cluster
// order.
func fitSegments(f *imaging.GradientField, clusters []Cluster, cfg Config) []Segment {
	segs := make([]Segment, 0, len(clusters))
	for _, c := range clusters {
		if s, ok := fitSegment(f, c, cfg); ok {
			segs = append(segs, s)
		}
	}
	return segs
}
