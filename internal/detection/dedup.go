package detection

import (
	"math"
	"sort"
)

// dedupe removes repeated detections of the same tag.
//
// Two detections are duplicates when they share an id and their corner
// polygons overlap by more than overlap times the smaller area. Of a set of
// duplicates, the one with the lowest Hamming distance survives, then the
// largest area. The result is sorted by id, centre Y and centre X. The second
// return value counts the removed detections.
func dedupe(dets []Detection, overlap float64) ([]Detection, int) {
	ranked := make([]Detection, len(dets))
	copy(ranked, dets)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Hamming != b.Hamming {
			return a.Hamming < b.Hamming
		}
		if a.Area != b.Area {
			return a.Area > b.Area
		}
		if a.Center.Y != b.Center.Y {
			return a.Center.Y < b.Center.Y
		}
		return a.Center.X < b.Center.X
	})

	kept := make([]Detection, 0, len(ranked))
	for _, d := range ranked {
		dup := false
		for _, k := range kept {
			if k.ID != d.ID {
				continue
			}
			inter := intersectionArea(k.Corners[:], d.Corners[:])
			if inter > overlap*math.Min(k.Area, d.Area) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, d)
		}
	}

	sortDetections(kept)
	return kept, len(dets) - len(kept)
}

func sortDetections(dets []Detection) {
	sort.SliceStable(dets, func(i, j int) bool {
		a, b := dets[i], dets[j]
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		if a.Center.Y != b.Center.Y {
			return a.Center.Y < b.Center.Y
		}
		return a.Center.X < b.Center.X
	})
}

// intersectionArea clips convex polygon subject against convex polygon clip
// (Sutherland-Hodgman) and returns the area of the result. Both polygons must
// be clockwise in y-down image coordinates.
func intersectionArea(subject, clip []Point) float64 {
	out := append([]Point(nil), subject...)
	for i := range clip {
		if len(out) == 0 {
			return 0
		}
		a, b := clip[i], clip[(i+1)%len(clip)]
		edge := b.Sub(a)
		inside := func(p Point) bool { return edge.Cross(p.Sub(a)) >= 0 }

		in := out
		out = nil
		for j := range in {
			cur, next := in[j], in[(j+1)%len(in)]
			cin, nin := inside(cur), inside(next)
			if cin {
				out = append(out, cur)
			}
			if cin != nin {
				out = append(out, lineCross(cur, next, a, b))
			}
		}
	}
	if len(out) < 3 {
		return 0
	}
	return math.Abs(polygonArea(out))
}

// lineCross returns where segment p->q crosses the line through a and b.
func lineCross(p, q, a, b Point) Point {
	edge := b.Sub(a)
	dp := edge.Cross(p.Sub(a))
	dq := edge.Cross(q.Sub(a))
	t := dp / (dp - dq)
	return p.Add(q.Sub(p).Scale(t))
}
