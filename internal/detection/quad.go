package detection

import (
	"math"
)

// Quad is a candidate tag outline built from four chained segments.
type Quad struct {
	// Corners run clockwise in image coordinates. Corners[k] is where
	// Segments[k-1] meets Segments[k].
	Corners [4]Point

	// Segments are indices into the segment list the quad was built from.
	Segments [4]int

	Area float64
}

// indexCellSize is the side, in pixels, of a segmentIndex cell.
const indexCellSize = 16

// segmentIndex buckets segments by their start point.
type segmentIndex struct {
	cells map[[2]int][]int
}

func newSegmentIndex(segs []Segment) *segmentIndex {
	idx := &segmentIndex{cells: make(map[[2]int][]int)}
	for i, s := range segs {
		k := cellOf(s.Start)
		idx.cells[k] = append(idx.cells[k], i)
	}
	return idx
}

func cellOf(p Point) [2]int {
	return [2]int{int(math.Floor(p.X / indexCellSize)), int(math.Floor(p.Y / indexCellSize))}
}

// near calls fn for every segment whose start may lie within radius of p.
func (idx *segmentIndex) near(p Point, radius float64, fn func(i int)) {
	lo := cellOf(Point{p.X - radius, p.Y - radius})
	hi := cellOf(Point{p.X + radius, p.Y + radius})
	for cy := lo[1]; cy <= hi[1]; cy++ {
		for cx := lo[0]; cx <= hi[0]; cx++ {
			for _, i := range idx.cells[[2]int{cx, cy}] {
				fn(i)
			}
		}
	}
}

// quadFinder searches the segment graph for clockwise 4-cycles.
type quadFinder struct {
	segs    []Segment
	cfg     Config
	idx     *segmentIndex
	minTurn float64
	quads   []Quad
}

// findQuads returns every plausible quad formed by four segments linked end
// to start with clockwise turns. Each cycle is reported once, rooted at its
// lowest segment index.
func findQuads(segs []Segment, cfg Config) []Quad {
	qf := &quadFinder{
		segs:    segs,
		cfg:     cfg,
		idx:     newSegmentIndex(segs),
		minTurn: math.Cos(cfg.angleDeviation()),
	}
	var path [4]int
	for root := range segs {
		path[0] = root
		qf.search(path, 1)
	}
	return qf.quads
}

// links reports whether segment b can follow segment a around a quad.
func (qf *quadFinder) links(a, b Segment) bool {
	if a.End.Dist(b.Start) > qf.cfg.linkGap(a, b) {
		return false
	}
	return a.Dir.Cross(b.Dir) >= qf.minTurn
}

func (qf *quadFinder) search(path [4]int, depth int) {
	parent := qf.segs[path[depth-1]]
	if depth == 4 {
		if qf.links(parent, qf.segs[path[0]]) {
			if q, ok := qf.build(path); ok {
				qf.quads = append(qf.quads, q)
			}
		}
		return
	}

	radius := qf.cfg.LinkGapFactor*parent.Length + 2
	qf.idx.near(parent.End, radius, func(i int) {
		if i <= path[0] {
			return
		}
		for k := 1; k < depth; k++ {
			if path[k] == i {
				return
			}
		}
		if !qf.links(parent, qf.segs[i]) {
			return
		}
		path[depth] = i
		qf.search(path, depth+1)
	})
}

// build intersects consecutive segments and checks that the outline is a
// plausible, convex, roughly square-cornered quadrilateral.
func (qf *quadFinder) build(path [4]int) (Quad, bool) {
	q := Quad{Segments: path}
	for k := 0; k < 4; k++ {
		prev := qf.segs[path[(k+3)%4]]
		cur := qf.segs[path[k]]
		c, ok := intersect(prev, cur)
		if !ok {
			return Quad{}, false
		}
		slack := qf.cfg.linkGap(prev, cur) + 2
		if c.Dist(prev.End) > slack || c.Dist(cur.Start) > slack {
			return Quad{}, false
		}
		q.Corners[k] = c
	}

	q.Area = polygonArea(q.Corners[:])
	if q.Area <= 0 || q.Area < qf.cfg.MinQuadArea {
		return Quad{}, false
	}
	if qf.cfg.MaxQuadArea > 0 && q.Area > qf.cfg.MaxQuadArea {
		return Quad{}, false
	}

	dev := qf.cfg.angleDeviation()
	for k := 0; k < 4; k++ {
		a := q.Corners[(k+3)%4]
		b := q.Corners[k]
		c := q.Corners[(k+1)%4]
		in, out := b.Sub(a), c.Sub(b)
		if in.Norm() < qf.cfg.MinSegmentLength || out.Norm() < qf.cfg.MinSegmentLength {
			return Quad{}, false
		}
		if in.Cross(out) <= 0 {
			return Quad{}, false
		}
		interior := math.Acos(clamp(a.Sub(b).Dot(out)/(in.Norm()*out.Norm()), -1, 1))
		if math.Abs(interior-math.Pi/2) > dev {
			return Quad{}, false
		}
	}
	return q, true
}

// intersect returns where the infinite lines through a and b cross.
func intersect(a, b Segment) (Point, bool) {
	denom := a.Dir.Cross(b.Dir)
	if math.Abs(denom) < 1e-9 {
		return Point{}, false
	}
	s := b.Start.Sub(a.Start).Cross(b.Dir) / denom
	return a.Start.Add(a.Dir.Scale(s)), true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
