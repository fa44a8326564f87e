package detection

import (
	"math"

	"github.com/ironsheep/apriltag-mcp/internal/imaging"
)

// Cluster is a connected group of edge pixels with similar orientation,
// usually one straight side of something.
type Cluster struct {
	// Pixels are linear indices (y*width + x) in ascending order.
	Pixels []int
}

// costBuckets is the resolution of the merge ordering.
const costBuckets = 64

type pixelEdge struct {
	a, b   int32
	bucket uint8
}

// clusterEdges groups the non-flat pixels of f into clusters.
//
// Every non-flat pixel is linked to its forward neighbours (right, down-left,
// down, down-right) when their orientations differ by less than the angle
// tolerance. Links are merged in order of increasing orientation difference
// and a merge is refused when the union's orientation spread would exceed
// the span tolerance. Clusters smaller than MinClusterSize are dropped.
func clusterEdges(f *imaging.GradientField, cfg Config) []Cluster {
	w, h := f.Width, f.Height
	tol := cfg.angleTolerance()

	var edges []pixelEdge
	var counts [costBuckets]int
	link := func(i, j int) {
		if f.Flat(j) {
			return
		}
		d := imaging.OrientationDiff(f.Theta[i], f.Theta[j])
		if d >= tol {
			return
		}
		b := int(d / tol * costBuckets)
		if b >= costBuckets {
			b = costBuckets - 1
		}
		edges = append(edges, pixelEdge{a: int32(i), b: int32(j), bucket: uint8(b)})
		counts[b]++
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if f.Flat(i) {
				continue
			}
			if x+1 < w {
				link(i, i+1)
			}
			if y+1 < h {
				if x > 0 {
					link(i, i+w-1)
				}
				link(i, i+w)
				if x+1 < w {
					link(i, i+w+1)
				}
			}
		}
	}

	// Counting sort by bucket; order within a bucket is scan order.
	var offsets [costBuckets]int
	for b := 1; b < costBuckets; b++ {
		offsets[b] = offsets[b-1] + counts[b-1]
	}
	sorted := make([]pixelEdge, len(edges))
	for _, e := range edges {
		sorted[offsets[e.bucket]] = e
		offsets[e.bucket]++
	}

	uf := newUnionFind(w * h)
	span := cfg.clusterSpan()
	// Orientation of every member of a set, relative to its root's
	// orientation, lies within [lo, hi].
	lo := make([]float64, w*h)
	hi := make([]float64, w*h)

	for _, e := range sorted {
		ra, rb := uf.find(int(e.a)), uf.find(int(e.b))
		if ra == rb {
			continue
		}
		delta := imaging.WrapHalfTurn(f.Theta[rb] - f.Theta[ra])
		mlo := math.Min(lo[ra], lo[rb]+delta)
		mhi := math.Max(hi[ra], hi[rb]+delta)
		if mhi-mlo > span {
			continue
		}
		if root := uf.union(ra, rb); root == ra {
			lo[ra], hi[ra] = mlo, mhi
		} else {
			lo[rb], hi[rb] = mlo-delta, mhi-delta
		}
	}

	index := make(map[int]int)
	var clusters []Cluster
	for i := 0; i < w*h; i++ {
		if f.Flat(i) {
			continue
		}
		root := uf.find(i)
		if uf.setSize(root) < cfg.MinClusterSize {
			continue
		}
		k, ok := index[root]
		if !ok {
			k = len(clusters)
			index[root] = k
			clusters = append(clusters, Cluster{})
		}
		clusters[k].Pixels = append(clusters[k].Pixels, i)
	}
	return clusters
}
